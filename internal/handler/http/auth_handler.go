package http

import (
	"net/http"
	"time"

	"chemmarket/internal/logger"
	middleware_http "chemmarket/internal/middleware/http"
	"chemmarket/internal/service"

	"go.opentelemetry.io/otel"
)

const refreshTokenCookie = "refreshToken"

var tokenCookieLifetime = 365 * 24 * time.Hour

type AuthHandler struct {
	service *service.AuthService
}

var HttpAuthHandlerTracer = otel.Tracer("HttpAuthHandler")

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func setTokenCookies(w http.ResponseWriter, tokens *service.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware_http.AccessTokenCookie,
		Value:    tokens.AccessToken,
		Path:     "/",
		Expires:  time.Now().Add(tokenCookieLifetime),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    tokens.RefreshToken,
		Path:     "/",
		Expires:  time.Now().Add(tokenCookieLifetime),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearTokenCookies(w http.ResponseWriter) {
	for _, name := range []string{middleware_http.AccessTokenCookie, refreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpAuthHandlerTracer.Start(r.Context(), "HttpAuthHandler.Register")
	defer span.End()
	logger.Info(ctx, "HttpAuthHandler")

	var in service.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(ctx, w, err)
		return
	}

	user, err := h.service.Register(ctx, in)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Account created, check your email for the verification code",
		"user":    user,
	})
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Login handles POST /auth/login. Accounts pending verification get a 200
// with otpRequired set instead of tokens.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpAuthHandlerTracer.Start(r.Context(), "HttpAuthHandler.Login")
	defer span.End()
	logger.Info(ctx, "HttpAuthHandler")

	var in loginRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.service.Login(ctx, in.Identifier, in.Password)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if result.OTPRequired {
		writeJSON(w, http.StatusOK, map[string]any{
			"message":     "OTP sent to your email",
			"otpRequired": true,
			"email":       result.User.Email,
		})
		return
	}

	setTokenCookies(w, result.Tokens)
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Logged in successfully",
		"user":        result.User,
		"accessToken": result.Tokens.AccessToken,
	})
}

type otpRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// VerifyOTP handles POST /auth/verify-otp.
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpAuthHandlerTracer.Start(r.Context(), "HttpAuthHandler.VerifyOTP")
	defer span.End()
	logger.Info(ctx, "HttpAuthHandler")

	var in otpRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.service.VerifyOTP(ctx, in.Email, in.OTP)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	setTokenCookies(w, result.Tokens)
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Logged in successfully",
		"user":        result.User,
		"accessToken": result.Tokens.AccessToken,
	})
}

// ResendOTP handles POST /auth/resend-otp.
func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpAuthHandlerTracer.Start(r.Context(), "HttpAuthHandler.ResendOTP")
	defer span.End()
	logger.Info(ctx, "HttpAuthHandler")

	var in otpRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.service.ResendOTP(ctx, in.Email); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeMessage(w, http.StatusOK, "OTP sent to your email")
}

// Refresh handles POST /auth/refresh using the refresh token cookie.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpAuthHandlerTracer.Start(r.Context(), "HttpAuthHandler.Refresh")
	defer span.End()
	logger.Info(ctx, "HttpAuthHandler")

	cookie, err := r.Cookie(refreshTokenCookie)
	if err != nil {
		writeError(ctx, w, service.Unauthorized("Refresh token is required"))
		return
	}

	result, err := h.service.Refresh(ctx, cookie.Value)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	setTokenCookies(w, result.Tokens)
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Token refreshed successfully",
		"accessToken": result.Tokens.AccessToken,
	})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpAuthHandlerTracer.Start(r.Context(), "HttpAuthHandler.Logout")
	defer span.End()
	logger.Info(ctx, "HttpAuthHandler")

	user := middleware_http.UserFromContext(ctx)
	if err := h.service.Logout(ctx, user); err != nil {
		writeError(ctx, w, err)
		return
	}
	clearTokenCookies(w)
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpAuthHandlerTracer.Start(r.Context(), "HttpAuthHandler.Me")
	defer span.End()
	logger.Info(ctx, "HttpAuthHandler")

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "User fetched successfully",
		"user":    middleware_http.UserFromContext(ctx),
	})
}

// ForgotPassword handles POST /auth/forgot-password.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpAuthHandlerTracer.Start(r.Context(), "HttpAuthHandler.ForgotPassword")
	defer span.End()
	logger.Info(ctx, "HttpAuthHandler")

	var in otpRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.service.RequestPasswordReset(ctx, in.Email); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Password reset link sent to your email")
}

type resetPasswordRequest struct {
	Secret   string `json:"secret"`
	Password string `json:"password"`
}

// ResetPassword handles POST /auth/reset-password.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpAuthHandlerTracer.Start(r.Context(), "HttpAuthHandler.ResetPassword")
	defer span.End()
	logger.Info(ctx, "HttpAuthHandler")

	var in resetPasswordRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.service.ResetPassword(ctx, in.Secret, in.Password); err != nil {
		writeError(ctx, w, err)
		return
	}
	clearTokenCookies(w)
	writeMessage(w, http.StatusOK, "Password reset successfully")
}

type loginVerificationRequest struct {
	Enabled bool `json:"enabled"`
}

// SetLoginVerification handles PUT /auth/login-verification.
func (h *AuthHandler) SetLoginVerification(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpAuthHandlerTracer.Start(r.Context(), "HttpAuthHandler.SetLoginVerification")
	defer span.End()
	logger.Info(ctx, "HttpAuthHandler")

	var in loginVerificationRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(ctx, w, err)
		return
	}
	user := middleware_http.UserFromContext(ctx)
	if err := h.service.SetLoginVerification(ctx, user, in.Enabled); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Login verification updated")
}
