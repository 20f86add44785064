package diag

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
)

// DefaultTTL is how long a notification of kind k stays visible when the
// caller does not say otherwise.
func DefaultTTL(k Kind) time.Duration {
	switch k {
	case KindSuccess:
		return 3 * time.Second
	case KindInfo:
		return 4 * time.Second
	default:
		return 5 * time.Second
	}
}

type Entry struct {
	ID         string
	Message    string
	Kind       Kind
	Code       string
	CreatedAt  time.Time
	Persistent bool
	// TTL is zero for persistent entries.
	TTL time.Duration
}

// Notification is the input to AddNotification. A zero Duration means
// DefaultTTL(Kind).
type Notification struct {
	Message    string
	Kind       Kind
	Duration   time.Duration
	Persistent bool
}

func newID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%d-%s", now.UnixMilli(), suffix)
}
