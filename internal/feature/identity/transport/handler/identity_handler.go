// Package handler はidentityフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"accounts_backend/internal/feature/identity/domain"
	"accounts_backend/internal/feature/identity/transport/http/dto"
)

// IdentityUsecase はアカウントのライフサイクル操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase)ではなくコンシューマー（handler）が定義します。
type IdentityUsecase interface {
	// Register は新規ユーザーを未確認状態で登録し、確認メールを送信します。
	Register(ctx context.Context, email, password, name, phone string) error
	// VerifyAccount は確認トークンを消費し、アカウントを確認済みにします。
	VerifyAccount(ctx context.Context, token string) error
	// Login はユーザーを認証し、成功時にセッショントークンを返します。
	Login(ctx context.Context, email, password string) (string, error)
	// ForgotPassword は新しい再設定トークンを発行し、通知メールを送信します。
	ForgotPassword(ctx context.Context, email string) error
	// VerifyResetToken はトークンの有効性のみを確認します。
	VerifyResetToken(ctx context.Context, token string) error
	// UpdatePassword はトークンを消費してパスワードを置き換えます。
	UpdatePassword(ctx context.Context, token, password string) error
}

// IdentityHandler はアカウント操作のHTTPリクエストを処理します。
// IdentityUsecaseインターフェースに依存し、JSONリクエスト/レスポンスを処理します。
type IdentityHandler struct {
	identity IdentityUsecase
}

// NewIdentityHandler はIdentityHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタで、外部からIdentityUsecaseを注入します。
func NewIdentityHandler(identity IdentityUsecase) *IdentityHandler {
	return &IdentityHandler{identity: identity}
}

// Register はユーザー登録APIエンドポイントを処理します。
// - リクエストJSONをRegisterReqにバインド
// - バリデーションエラー・重複メール時は400を返却
// - 成功時は汎用成功メッセージを返却（確認メールは非同期送信）
func (h *IdentityHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.MessageResponse{Msg: domain.ErrValidation.Error()})
		return
	}
	if err := h.identity.Register(c.Request.Context(), req.Email, req.Password, req.Name, req.Phone); err != nil {
		slog.Warn("register failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		switch {
		case errors.Is(err, domain.ErrValidation),
			errors.Is(err, domain.ErrPasswordTooShort),
			errors.Is(err, domain.ErrUserAlreadyExists):
			c.JSON(http.StatusBadRequest, dto.MessageResponse{Msg: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, dto.MessageResponse{Msg: "internal error"})
		}
		return
	}
	slog.Info("user registered", "email", req.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.MessageResponse{Msg: "user created successfully, check your email"})
}

// VerifyAccount はアカウント確認APIエンドポイントを処理します。
// トークンはURLパスパラメータで受け取ります。
// 不正トークン時は401（不透明エラー）を返却します。
func (h *IdentityHandler) VerifyAccount(c *gin.Context) {
	token := c.Param("token")
	if err := h.identity.VerifyAccount(c.Request.Context(), token); err != nil {
		slog.Warn("account verification failed", "error", err, "remote_addr", c.ClientIP())
		if errors.Is(err, domain.ErrInvalidToken) {
			c.JSON(http.StatusUnauthorized, dto.MessageResponse{Msg: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.MessageResponse{Msg: "internal error"})
		return
	}
	slog.Info("account verified", "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.MessageResponse{Msg: "account verified successfully"})
}

// Login はログインAPIエンドポイントを処理します。
// - バリデーションエラー時は401を返却
// - ユーザー不在・未確認・パスワード不一致はいずれも401を返却
// - 成功時はセッショントークン付きで200を返却
func (h *IdentityHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, dto.MessageResponse{Msg: domain.ErrValidation.Error()})
		return
	}
	token, err := h.identity.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("login failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		switch {
		case errors.Is(err, domain.ErrUserNotFound),
			errors.Is(err, domain.ErrAccountNotVerified),
			errors.Is(err, domain.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, dto.MessageResponse{Msg: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, dto.MessageResponse{Msg: "internal error"})
		}
		return
	}
	slog.Info("user login successful", "email", req.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

// ForgotPassword はパスワード再設定の開始エンドポイントを処理します。
// ユーザーが存在しない場合は404を返却します。
func (h *IdentityHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("forgot-password validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusNotFound, dto.MessageResponse{Msg: domain.ErrUserNotFound.Error()})
		return
	}
	if err := h.identity.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		slog.Warn("forgot-password failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, dto.MessageResponse{Msg: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.MessageResponse{Msg: "internal error"})
		return
	}
	slog.Info("password reset requested", "email", req.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.MessageResponse{Msg: "we have sent an email with instructions"})
}

// VerifyResetToken は再設定トークンの事前確認エンドポイントを処理します。
// 状態は変更せず、不正トークン時は400（不透明エラー）を返却します。
func (h *IdentityHandler) VerifyResetToken(c *gin.Context) {
	token := c.Param("token")
	if err := h.identity.VerifyResetToken(c.Request.Context(), token); err != nil {
		slog.Warn("reset token check failed", "error", err, "remote_addr", c.ClientIP())
		if errors.Is(err, domain.ErrInvalidToken) {
			c.JSON(http.StatusBadRequest, dto.MessageResponse{Msg: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.MessageResponse{Msg: "internal error"})
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Msg: "valid token"})
}

// UpdatePassword はパスワード更新エンドポイントを処理します。
// トークンはURLパスパラメータ、新パスワードはリクエストボディで受け取ります。
func (h *IdentityHandler) UpdatePassword(c *gin.Context) {
	token := c.Param("token")
	var req dto.UpdatePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("update-password validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.MessageResponse{Msg: domain.ErrValidation.Error()})
		return
	}
	if err := h.identity.UpdatePassword(c.Request.Context(), token, req.Password); err != nil {
		slog.Warn("update-password failed", "error", err, "remote_addr", c.ClientIP())
		if errors.Is(err, domain.ErrInvalidToken) {
			c.JSON(http.StatusBadRequest, dto.MessageResponse{Msg: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.MessageResponse{Msg: "internal error"})
		return
	}
	slog.Info("password updated", "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.MessageResponse{Msg: "password updated successfully"})
}
