package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/matchdesk/internal/client/models"
)

var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrClient           = errors.New("client error")
	ErrServer           = errors.New("server error")
	ErrNetwork          = errors.New("network error")
	ErrMissingParameter = errors.New("missing parameter")
)

// Kind is the failure class of a request.
type Kind int

const (
	KindUnauthenticated Kind = iota + 1
	KindUnauthorized
	KindClient
	KindServer
	KindNetwork
	KindMissingParameter
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindUnauthorized:
		return "unauthorized"
	case KindClient:
		return "client_error"
	case KindServer:
		return "server_error"
	case KindNetwork:
		return "network_error"
	case KindMissingParameter:
		return "missing_parameter"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindUnauthenticated:
		return ErrUnauthenticated
	case KindUnauthorized:
		return ErrUnauthorized
	case KindClient:
		return ErrClient
	case KindServer:
		return ErrServer
	case KindNetwork:
		return ErrNetwork
	case KindMissingParameter:
		return ErrMissingParameter
	default:
		return nil
	}
}

const (
	MsgAuthRequired = "Authentication required. Please login again."
	MsgNoToken      = "No authentication token found"
	MsgNetwork      = "Network error. Please check your connection."
	MsgBadResponse  = "Invalid response from server"
	MsgLoginFailed  = "Login failed"
)

// Error is a classified request failure. Message is safe to show to an operator.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	// Body is the decoded error envelope, when the server sent one.
	Body models.Envelope
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// UserMessage and HTTPStatus let other packages read an *Error without
// importing this one. A nil *Error reads as empty.
func (e *Error) UserMessage() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func (e *Error) HTTPStatus() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (e *Error) Code() string {
	if e == nil {
		return ""
	}
	return e.Kind.String()
}

// MissingParameter reports a required request parameter that was not supplied.
func MissingParameter(name string) *Error {
	return &Error{
		Kind:    KindMissingParameter,
		Message: fmt.Sprintf("%s is required", name),
	}
}

// classify turns a non-2xx response into an *Error.
func classify(code int, body models.Envelope) *Error {
	generic := fmt.Sprintf("Request failed with status %d", code)

	switch {
	case code == http.StatusUnauthorized:
		return &Error{Kind: KindUnauthenticated, StatusCode: code, Message: MsgAuthRequired, Body: body}
	case code == http.StatusForbidden:
		return &Error{Kind: KindUnauthorized, StatusCode: code, Message: body.Resolve(generic), Body: body}
	}

	switch StatusCodeRangeOf(code) {
	case Status4xx:
		return &Error{Kind: KindClient, StatusCode: code, Message: body.Resolve(generic), Body: body}
	case Status5xx:
		return &Error{Kind: KindServer, StatusCode: code, Message: body.Resolve(generic), Body: body}
	default:
		return &Error{Kind: KindServer, StatusCode: code, Message: fmt.Sprintf("Unexpected response status %d", code), Body: body}
	}
}
