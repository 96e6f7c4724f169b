package dto

// MessageResponse is the generic `{msg}` body returned by most endpoints,
// for both success messages and error messages.
type MessageResponse struct {
	Msg string `json:"msg"`
}

// TokenResponse is the `{token}` body returned by a successful login.
type TokenResponse struct {
	Token string `json:"token"`
}
