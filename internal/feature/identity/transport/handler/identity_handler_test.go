package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"accounts_backend/internal/feature/identity/domain"
)

// mockIdentityUsecase is a mock implementation of the IdentityUsecase interface.
type mockIdentityUsecase struct {
	RegisterFunc         func(ctx context.Context, email, password, name, phone string) error
	VerifyAccountFunc    func(ctx context.Context, token string) error
	LoginFunc            func(ctx context.Context, email, password string) (string, error)
	ForgotPasswordFunc   func(ctx context.Context, email string) error
	VerifyResetTokenFunc func(ctx context.Context, token string) error
	UpdatePasswordFunc   func(ctx context.Context, token, password string) error
}

func (m *mockIdentityUsecase) Register(ctx context.Context, email, password, name, phone string) error {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, email, password, name, phone)
	}
	return nil
}

func (m *mockIdentityUsecase) VerifyAccount(ctx context.Context, token string) error {
	if m.VerifyAccountFunc != nil {
		return m.VerifyAccountFunc(ctx, token)
	}
	return nil
}

func (m *mockIdentityUsecase) Login(ctx context.Context, email, password string) (string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return "", errors.New("login failed")
}

func (m *mockIdentityUsecase) ForgotPassword(ctx context.Context, email string) error {
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(ctx, email)
	}
	return nil
}

func (m *mockIdentityUsecase) VerifyResetToken(ctx context.Context, token string) error {
	if m.VerifyResetTokenFunc != nil {
		return m.VerifyResetTokenFunc(ctx, token)
	}
	return nil
}

func (m *mockIdentityUsecase) UpdatePassword(ctx context.Context, token, password string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, token, password)
	}
	return nil
}

func newIdentityRouter(uc IdentityUsecase) *gin.Engine {
	h := NewIdentityHandler(uc)
	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.GET("/auth/verify/:token", h.VerifyAccount)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/forgot-password", h.ForgotPassword)
	r.GET("/auth/forgot-password/:token", h.VerifyResetToken)
	r.POST("/auth/forgot-password/:token", h.UpdatePassword)
	return r
}

func TestIdentityHandler_Register(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		requestBody    gin.H
		mockFunc       func(ctx context.Context, email, password, name, phone string) error
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:           "success: user registration",
			requestBody:    gin.H{"email": "a@x.com", "password": "password1", "name": "A", "phone": "123"},
			mockFunc:       func(ctx context.Context, email, password, name, phone string) error { return nil },
			expectedStatus: http.StatusOK,
			expectedMsg:    "user created successfully, check your email",
		},
		{
			name:           "failure: missing field",
			requestBody:    gin.H{"email": "a@x.com", "password": "password1", "name": "A"},
			mockFunc:       nil, // Usecase is not called
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    domain.ErrValidation.Error(),
		},
		{
			name:        "failure: short password",
			requestBody: gin.H{"email": "a@x.com", "password": "short", "name": "A", "phone": "123"},
			mockFunc: func(ctx context.Context, email, password, name, phone string) error {
				return domain.ErrPasswordTooShort
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    domain.ErrPasswordTooShort.Error(),
		},
		{
			name:        "failure: duplicate email",
			requestBody: gin.H{"email": "a@x.com", "password": "password1", "name": "A", "phone": "123"},
			mockFunc: func(ctx context.Context, email, password, name, phone string) error {
				return domain.ErrUserAlreadyExists
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    domain.ErrUserAlreadyExists.Error(),
		},
		{
			name:        "failure: unexpected error",
			requestBody: gin.H{"email": "a@x.com", "password": "password1", "name": "A", "phone": "123"},
			mockFunc: func(ctx context.Context, email, password, name, phone string) error {
				return errors.New("boom")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newIdentityRouter(&mockIdentityUsecase{RegisterFunc: tt.mockFunc})

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var responseBody gin.H
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &responseBody))
			assert.Equal(t, tt.expectedMsg, responseBody["msg"])
		})
	}
}

func TestIdentityHandler_VerifyAccount(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		token          string
		mockFunc       func(ctx context.Context, token string) error
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:           "success: token consumed",
			token:          "tok-abc",
			mockFunc:       func(ctx context.Context, token string) error { return nil },
			expectedStatus: http.StatusOK,
			expectedMsg:    "account verified successfully",
		},
		{
			name:           "failure: invalid token",
			token:          "never-issued",
			mockFunc:       func(ctx context.Context, token string) error { return domain.ErrInvalidToken },
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    domain.ErrInvalidToken.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newIdentityRouter(&mockIdentityUsecase{VerifyAccountFunc: tt.mockFunc})

			req, _ := http.NewRequest(http.MethodGet, "/auth/verify/"+tt.token, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var responseBody gin.H
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &responseBody))
			assert.Equal(t, tt.expectedMsg, responseBody["msg"])
		})
	}
}

func TestIdentityHandler_Login(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		requestBody    gin.H
		mockFunc       func(ctx context.Context, email, password string) (string, error)
		expectedStatus int
		expectedBody   gin.H
	}{
		{
			name:        "success: user login",
			requestBody: gin.H{"email": "a@x.com", "password": "password1"},
			mockFunc: func(ctx context.Context, email, password string) (string, error) {
				return "dummy-jwt-token", nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   gin.H{"token": "dummy-jwt-token"},
		},
		{
			name:        "failure: unknown user",
			requestBody: gin.H{"email": "nobody@x.com", "password": "password1"},
			mockFunc: func(ctx context.Context, email, password string) (string, error) {
				return "", domain.ErrUserNotFound
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   gin.H{"msg": domain.ErrUserNotFound.Error()},
		},
		{
			name:        "failure: unverified account",
			requestBody: gin.H{"email": "a@x.com", "password": "password1"},
			mockFunc: func(ctx context.Context, email, password string) (string, error) {
				return "", domain.ErrAccountNotVerified
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   gin.H{"msg": domain.ErrAccountNotVerified.Error()},
		},
		{
			name:        "failure: wrong password",
			requestBody: gin.H{"email": "a@x.com", "password": "wrong"},
			mockFunc: func(ctx context.Context, email, password string) (string, error) {
				return "", domain.ErrInvalidCredentials
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   gin.H{"msg": domain.ErrInvalidCredentials.Error()},
		},
		{
			name:           "failure: missing password",
			requestBody:    gin.H{"email": "a@x.com"},
			mockFunc:       nil, // Usecase is not called
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   gin.H{"msg": domain.ErrValidation.Error()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newIdentityRouter(&mockIdentityUsecase{LoginFunc: tt.mockFunc})

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var responseBody gin.H
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &responseBody))
			assert.Equal(t, tt.expectedBody, responseBody)
		})
	}
}

func TestIdentityHandler_ForgotPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		requestBody    gin.H
		mockFunc       func(ctx context.Context, email string) error
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:           "success: reset email dispatched",
			requestBody:    gin.H{"email": "a@x.com"},
			mockFunc:       func(ctx context.Context, email string) error { return nil },
			expectedStatus: http.StatusOK,
			expectedMsg:    "we have sent an email with instructions",
		},
		{
			name:           "failure: unknown user",
			requestBody:    gin.H{"email": "nobody@x.com"},
			mockFunc:       func(ctx context.Context, email string) error { return domain.ErrUserNotFound },
			expectedStatus: http.StatusNotFound,
			expectedMsg:    domain.ErrUserNotFound.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newIdentityRouter(&mockIdentityUsecase{ForgotPasswordFunc: tt.mockFunc})

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/auth/forgot-password", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var responseBody gin.H
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &responseBody))
			assert.Equal(t, tt.expectedMsg, responseBody["msg"])
		})
	}
}

func TestIdentityHandler_VerifyResetToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success: token valid", func(t *testing.T) {
		router := newIdentityRouter(&mockIdentityUsecase{
			VerifyResetTokenFunc: func(ctx context.Context, token string) error { return nil },
		})

		req, _ := http.NewRequest(http.MethodGet, "/auth/forgot-password/tok-abc", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"msg":"valid token"}`, w.Body.String())
	})

	t.Run("failure: invalid token", func(t *testing.T) {
		router := newIdentityRouter(&mockIdentityUsecase{
			VerifyResetTokenFunc: func(ctx context.Context, token string) error { return domain.ErrInvalidToken },
		})

		req, _ := http.NewRequest(http.MethodGet, "/auth/forgot-password/never-issued", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestIdentityHandler_UpdatePassword(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		token          string
		requestBody    gin.H
		mockFunc       func(ctx context.Context, token, password string) error
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:           "success: password updated",
			token:          "tok-abc",
			requestBody:    gin.H{"password": "new-password"},
			mockFunc:       func(ctx context.Context, token, password string) error { return nil },
			expectedStatus: http.StatusOK,
			expectedMsg:    "password updated successfully",
		},
		{
			name:           "failure: invalid token",
			token:          "never-issued",
			requestBody:    gin.H{"password": "new-password"},
			mockFunc:       func(ctx context.Context, token, password string) error { return domain.ErrInvalidToken },
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    domain.ErrInvalidToken.Error(),
		},
		{
			name:           "failure: missing password",
			token:          "tok-abc",
			requestBody:    gin.H{},
			mockFunc:       nil, // Usecase is not called
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    domain.ErrValidation.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newIdentityRouter(&mockIdentityUsecase{UpdatePasswordFunc: tt.mockFunc})

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/auth/forgot-password/"+tt.token, bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var responseBody gin.H
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &responseBody))
			assert.Equal(t, tt.expectedMsg, responseBody["msg"])
		})
	}
}
