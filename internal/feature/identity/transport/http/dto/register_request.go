// Package dto defines data transfer objects for the identity feature's HTTP transport layer.
package dto

// RegisterReq represents the request body for the /register endpoint.
// Each field is individually required; the minimum password length is
// enforced by the usecase so that surrounding whitespace is not counted.
type RegisterReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
}
