package logging

import "context"

type fieldsKey struct{}

// ContextWith returns a copy of ctx carrying key-value pairs. Every Logger
// call made with the returned context includes them ahead of its own args,
// so a console command and the requests it triggers share one tag.
func ContextWith(ctx context.Context, args ...any) context.Context {
	prev := contextFields(ctx)
	merged := make([]any, 0, len(prev)+len(args))
	merged = append(merged, prev...)
	merged = append(merged, args...)
	return context.WithValue(ctx, fieldsKey{}, merged)
}

func contextFields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	f, _ := ctx.Value(fieldsKey{}).([]any)
	return f
}

// withContextFields prepends the fields stored in ctx to args.
func withContextFields(ctx context.Context, args []any) []any {
	f := contextFields(ctx)
	if len(f) == 0 {
		return args
	}
	out := make([]any, 0, len(f)+len(args))
	out = append(out, f...)
	return append(out, args...)
}
