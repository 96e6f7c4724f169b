package dto

// UpdatePasswordReq represents the request body for the password update
// endpoint. The reset token itself travels in the URL path, not the body.
type UpdatePasswordReq struct {
	Password string `json:"password" binding:"required"`
}
