package dto

// ForgotPasswordReq は/forgot-passwordエンドポイントのリクエストボディを表します。
type ForgotPasswordReq struct {
	Email string `json:"email" binding:"required,email"`
}
