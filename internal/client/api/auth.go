package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/matchdesk/internal/client/models"
)

// Login exchanges operator credentials for an access token. It never sends
// a bearer token. Validation errors from the server take priority when
// building the message: the password field first, then any other field,
// then the error and detail keys.
func (c *Client) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	err := c.Do(ctx, "/login/", RequestOptions{
		Method:   http.MethodPost,
		Body:     models.LoginRequest{Username: username, Password: password},
		SkipAuth: true,
	}, &resp)
	if err != nil {
		apiErr, _ := AsError(err)
		if apiErr.StatusCode != 0 {
			apiErr = loginError(apiErr)
			c.setLastError(apiErr)
		}
		return nil, apiErr
	}

	if resp.AccessToken == "" || !resp.User.Valid() {
		apiErr := &Error{Kind: KindServer, Message: MsgBadResponse}
		c.setLastError(apiErr)
		return nil, apiErr
	}
	return &resp, nil
}

func loginError(e *Error) *Error {
	msg, ok := e.Body.FieldMessage("password")
	if !ok {
		msg = e.Body.Error
	}
	if msg == "" {
		msg = e.Body.Detail
	}
	if msg == "" {
		msg = MsgLoginFailed
	}

	out := *e
	out.Message = msg
	return &out
}

func (c *Client) setLastError(e *Error) {
	c.mu.Lock()
	c.lastErr = e
	c.mu.Unlock()
}
