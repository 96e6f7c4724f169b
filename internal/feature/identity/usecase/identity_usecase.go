// Package usecase はidentityフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"accounts_backend/internal/feature/identity/domain"
	"accounts_backend/internal/feature/identity/domain/entity"

	"golang.org/x/crypto/bcrypt"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8

	// mailDispatchTimeout は非同期メール送信の打ち切り時間です。
	mailDispatchTimeout = 30 * time.Second
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じメールアドレスのユーザーが既に存在する場合、domain.ErrUserAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	// ユーザーが存在しない場合、domain.ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByToken は指定された単回利用トークンを保持するユーザーを取得します。
	// 該当ユーザーが存在しない場合、domain.ErrInvalidTokenを返します。
	FindByToken(ctx context.Context, token string) (*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// Save は既存ユーザーの変更を永続化します。
	Save(ctx context.Context, user *entity.User) error
}

// SessionTokenIssuer はログイン成功時のセッショントークン（JWT）発行を抽象化します。
type SessionTokenIssuer interface {
	// GenerateToken は指定されたユーザーの署名済みトークンを生成します。
	GenerateToken(userID uint, email string) (string, error)
}

// OpaqueTokenSource は検証・リセット用の単回利用トークンの生成を抽象化します。
type OpaqueTokenSource interface {
	// NewToken は推測不能な不透明トークン文字列を返します。
	NewToken() string
}

// Mailer はアカウント関連の通知メール送信を抽象化します。
// 送信失敗は呼び出し元にエラーとして返されますが、リクエストの成否には影響しません。
type Mailer interface {
	// SendVerificationEmail はアカウント確認用のメールを送信します。
	SendVerificationEmail(ctx context.Context, name, email, token, phone string) error

	// SendPasswordResetEmail はパスワード再設定用のメールを送信します。
	SendPasswordResetEmail(ctx context.Context, name, email, token string) error
}

// identityUsecase はアカウントのライフサイクル（登録・確認・ログイン・パスワード再設定）を実装します。
type identityUsecase struct {
	users  UserRepository
	issuer SessionTokenIssuer
	tokens OpaqueTokenSource
	mailer Mailer

	// dispatch は通知メールの送信方法を差し替えるためのフックです。
	// 本番ではgoroutineで起動し、テストでは同期実行に差し替えます。
	dispatch func(func())
}

// NewIdentityUsecase はidentityUsecaseの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタです。
func NewIdentityUsecase(users UserRepository, issuer SessionTokenIssuer, tokens OpaqueTokenSource, mailer Mailer) *identityUsecase {
	return &identityUsecase{
		users:    users,
		issuer:   issuer,
		tokens:   tokens,
		mailer:   mailer,
		dispatch: func(fn func()) { go fn() },
	}
}

// Register は新規ユーザーを未確認状態で登録し、確認メールを送信します。
// - 必須フィールドが空の場合はdomain.ErrValidation
// - パスワードが8文字未満（前後空白を除く）の場合はdomain.ErrPasswordTooShort
// - メールアドレスが登録済みの場合はdomain.ErrUserAlreadyExists
// 確認メールはレスポンスと非同期に送信され、失敗はログに記録されるだけで
// 呼び出し元には通知されません。
func (u *identityUsecase) Register(ctx context.Context, email, password, name, phone string) error {
	for _, field := range []string{email, password, name, phone} {
		if strings.TrimSpace(field) == "" {
			return domain.ErrValidation
		}
	}
	if len(strings.TrimSpace(password)) < minPasswordLength {
		return domain.ErrPasswordTooShort
	}

	// 重複登録を防止
	if _, err := u.users.FindByEmail(ctx, email); err == nil {
		return domain.ErrUserAlreadyExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &entity.User{
		Email:    email,
		Password: string(hashed),
		Name:     name,
		Phone:    phone,
		Verified: false,
		Token:    u.tokens.NewToken(),
	}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return err
		}
		// 重複以外の永続化失敗はログのみ（レスポンスは汎用成功のまま）
		slog.Error("failed to persist new user", "error", err, "email", email)
		return nil
	}

	u.dispatch(func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailDispatchTimeout)
		defer cancel()
		if err := u.mailer.SendVerificationEmail(ctx, user.Name, user.Email, user.Token, user.Phone); err != nil {
			slog.Error("failed to send verification email", "error", err, "email", user.Email)
		}
	})
	return nil
}

// VerifyAccount は確認トークンを消費し、アカウントを確認済みにします。
// トークンに該当するユーザーがいない場合はdomain.ErrInvalidToken（不透明エラー）。
// 消費後は同じトークンで再度呼んでも失敗します。
func (u *identityUsecase) VerifyAccount(ctx context.Context, token string) error {
	user, err := u.findByToken(ctx, token)
	if err != nil {
		return err
	}

	user.Verified = true
	user.Token = ""
	if err := u.users.Save(ctx, user); err != nil {
		// レスポンス送信後の失敗に相当するため、ログのみで握りつぶす
		slog.Error("failed to persist account verification", "error", err, "user_id", user.ID)
	}
	return nil
}

// Login はユーザーを認証し、成功時にセッショントークンを返します。
// - ユーザーが存在しない場合はdomain.ErrUserNotFound
// - アカウントが未確認の場合はdomain.ErrAccountNotVerified
// - パスワード不一致の場合はdomain.ErrInvalidCredentials
func (u *identityUsecase) Login(ctx context.Context, email, password string) (string, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrUserNotFound
		}
		return "", err
	}

	if !user.Verified {
		return "", domain.ErrAccountNotVerified
	}

	// 第1引数はハッシュ化パスワード、第2引数は平文パスワード
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	token, err := u.issuer.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", err
	}
	return token, nil
}

// ForgotPassword は新しい単回利用トークンを発行し、再設定メールを送信します。
// 既存の未消費トークンは新しいトークンで上書きされ、即座に無効になります。
func (u *identityUsecase) ForgotPassword(ctx context.Context, email string) error {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	user.Token = u.tokens.NewToken()
	if err := u.users.Save(ctx, user); err != nil {
		// トークンが保存できなければメールも送らない
		slog.Error("failed to persist reset token", "error", err, "user_id", user.ID)
		return nil
	}

	u.dispatch(func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailDispatchTimeout)
		defer cancel()
		if err := u.mailer.SendPasswordResetEmail(ctx, user.Name, user.Email, user.Token); err != nil {
			slog.Error("failed to send password reset email", "error", err, "email", user.Email)
		}
	})
	return nil
}

// VerifyResetToken はトークンの有効性のみを確認します。状態は変更しません。
// クライアントがパスワード入力フォームを表示する前の事前確認用です。
func (u *identityUsecase) VerifyResetToken(ctx context.Context, token string) error {
	_, err := u.findByToken(ctx, token)
	return err
}

// UpdatePassword はトークンを消費してパスワードを置き換えます。
// 新しいパスワードはbcryptでハッシュ化されて保存されます。
func (u *identityUsecase) UpdatePassword(ctx context.Context, token, password string) error {
	user, err := u.findByToken(ctx, token)
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.Password = string(hashed)
	user.Token = ""
	if err := u.users.Save(ctx, user); err != nil {
		slog.Error("failed to persist new password", "error", err, "user_id", user.ID)
	}
	return nil
}

// CurrentUser は認証ミドルウェアが解決したIDからユーザーを取得します。
func (u *identityUsecase) CurrentUser(ctx context.Context, id uint) (*entity.User, error) {
	return u.users.FindByID(ctx, id)
}

// AdminUser はadminフラグを持つユーザーのみを返します。
// フラグがない場合はdomain.ErrForbiddenを返します。
func (u *identityUsecase) AdminUser(ctx context.Context, id uint) (*entity.User, error) {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.Admin {
		return nil, domain.ErrForbidden
	}
	return user, nil
}

// findByToken は空文字列を不正トークンとして扱った上でトークン検索を行います。
// 消費済みトークンはDB上で空文字列になっているため、空を許すと誤った一致が起こりえます。
func (u *identityUsecase) findByToken(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, domain.ErrInvalidToken
	}
	user, err := u.users.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}
