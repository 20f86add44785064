package diag

import (
	"errors"

	"github.com/dmitrijs2005/matchdesk/internal/client/models"
)

const MsgUnexpected = "An unexpected error occurred"

// userFacing is satisfied by classified request errors.
type userFacing interface {
	UserMessage() string
}

type coded interface {
	Code() string
}

// HandleAPIError turns any error-like value into exactly one new error entry
// and returns the message it recorded. Object shapes are read in the order
// error, detail, message, falling back to a generic text.
func (a *Aggregator) HandleAPIError(v any) string {
	msg, code := Resolve(v)
	a.AddError(msg, code)
	return msg
}

// Resolve picks the operator-facing message and an optional code for v.
func Resolve(v any) (message, code string) {
	switch e := v.(type) {
	case nil:
		return MsgUnexpected, ""
	case userFacing:
		return orFallback(e.UserMessage()), codeOf(e)
	case *models.ResponseError:
		if e == nil {
			return MsgUnexpected, ""
		}
		return e.Data.Resolve(MsgUnexpected), ""
	case models.Envelope:
		return e.Resolve(MsgUnexpected), ""
	case *models.Envelope:
		if e == nil {
			return MsgUnexpected, ""
		}
		return e.Resolve(MsgUnexpected), ""
	case error:
		var uf userFacing
		if errors.As(e, &uf) {
			return orFallback(uf.UserMessage()), codeOf(uf)
		}
		var re *models.ResponseError
		if errors.As(e, &re) {
			return re.Data.Resolve(MsgUnexpected), ""
		}
		return orFallback(e.Error()), ""
	case string:
		return orFallback(e), ""
	default:
		return MsgUnexpected, ""
	}
}

func codeOf(v any) string {
	if c, ok := v.(coded); ok {
		return c.Code()
	}
	return ""
}

func orFallback(s string) string {
	if s == "" {
		return MsgUnexpected
	}
	return s
}
