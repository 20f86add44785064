package models

// Identity is the authenticated operator (the server calls it a matchmaker).
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Valid reports whether the identity carries the fields a session needs.
func (i *Identity) Valid() bool {
	return i != nil && i.ID > 0 && i.Username != ""
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	User        *Identity `json:"user"`
	AccessToken string    `json:"access_token"`
}
