package router

import (
	identityhandler "accounts_backend/internal/feature/identity/transport/handler"
	"accounts_backend/internal/platform/http/handler"
	jwtmw "accounts_backend/internal/platform/jwt"

	"github.com/gin-gonic/gin"
)

func NewRouter(identity *identityhandler.IdentityHandler, profile *identityhandler.ProfileHandler) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)

	auth := r.Group("/auth")
	{
		// 新規ユーザー登録（確認メール送信）
		auth.POST("/register", identity.Register)
		// アカウント確認（トークン消費）
		auth.GET("/verify/:token", identity.VerifyAccount)
		// ログイン（JWT 発行）
		auth.POST("/login", identity.Login)
		// パスワード再設定の開始（トークン発行）
		auth.POST("/forgot-password", identity.ForgotPassword)
		// 再設定トークンの事前確認
		auth.GET("/forgot-password/:token", identity.VerifyResetToken)
		// パスワード更新（トークン消費）
		auth.POST("/forgot-password/:token", identity.UpdatePassword)
	}

	// 認証必須のルート
	// jwtmw.AuthRequired() ミドルウェアを適用
	// → リクエストヘッダーに JWT が必要になる
	me := r.Group("/auth")
	me.Use(jwtmw.AuthRequired())
	{
		me.GET("/user", profile.CurrentUser)
		me.GET("/admin", profile.Admin)
	}

	return r
}
