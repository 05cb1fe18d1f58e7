package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"chemmarket/internal/auth"
	"chemmarket/internal/logger"
	"chemmarket/internal/mail"
	"chemmarket/internal/model"
	"chemmarket/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"golang.org/x/crypto/bcrypt"
)

const maxOTPRetries = 3

var AuthServiceTracer = otel.Tracer("AuthService")

// AuthService owns registration, credential checks, OTP challenges and
// password recovery. Tokens are long-lived and stored on the user document so
// logout can revoke them server side.
type AuthService struct {
	users         *repository.UserRepository
	verifications *repository.VerificationRepository
	tokens        *auth.TokenManager
	mailer        *mail.Mailer
	publicBaseURL string
}

func NewAuthService(users *repository.UserRepository, verifications *repository.VerificationRepository, tokens *auth.TokenManager, mailer *mail.Mailer, publicBaseURL string) *AuthService {
	return &AuthService{
		users:         users,
		verifications: verifications,
		tokens:        tokens,
		mailer:        mailer,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

type RegisterInput struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	CountryCode string `json:"countryCode"`
	PhoneNumber string `json:"phoneNumber"`
	Company     string `json:"company"`
	Description string `json:"description"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type LoginResult struct {
	User        *model.User
	Tokens      *TokenPair
	OTPRequired bool
}

// Register creates a seller account and mails the first OTP challenge.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	ctx, span := AuthServiceTracer.Start(ctx, "AuthService.Register")
	defer span.End()
	logger.Info(ctx, "Service")

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.Company = strings.TrimSpace(in.Company)

	if in.Username == "" || in.Email == "" || in.Password == "" || in.CountryCode == "" || in.PhoneNumber == "" || in.Company == "" {
		return nil, Invalid("All fields are required")
	}
	if len(in.Password) < 8 {
		return nil, Invalid("Password must be at least 8 characters long")
	}

	exists, err := s.users.ExistsByEmailOrPhone(ctx, in.Email, in.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, Conflict("User with this email or phone number already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &model.User{
		Username:    in.Username,
		Email:       in.Email,
		Password:    string(hash),
		Role:        model.RoleSeller,
		CountryCode: in.CountryCode,
		PhoneNumber: in.PhoneNumber,
		Company:     in.Company,
		Description: in.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}

	if err := s.issueOTP(ctx, user); err != nil {
		logger.Error(ctx, "otp delivery failed", slog.String("error", err.Error()))
	}
	return user, nil
}

// Login checks credentials against email or phone number. Unverified accounts
// and accounts with login verification enabled get an OTP challenge instead
// of tokens.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	ctx, span := AuthServiceTracer.Start(ctx, "AuthService.Login")
	defer span.End()
	logger.Info(ctx, "Service")

	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, Invalid("Email or phone number and password are required")
	}

	user, err := s.users.FindByIdentifier(ctx, identifier)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, Unauthorized("Invalid credentials")
	}
	if !user.IsActive {
		return nil, Forbidden("Account is deactivated")
	}

	if !user.IsEmailVerified || user.EnableLoginVerification {
		if err := s.issueOTP(ctx, user); err != nil {
			return nil, err
		}
		return &LoginResult{User: user, OTPRequired: true}, nil
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Tokens: tokens}, nil
}

// VerifyOTP consumes a pending challenge. Three failed attempts burn it.
func (s *AuthService) VerifyOTP(ctx context.Context, email, otp string) (*LoginResult, error) {
	ctx, span := AuthServiceTracer.Start(ctx, "AuthService.VerifyOTP")
	defer span.End()
	logger.Info(ctx, "Service")

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || otp == "" {
		return nil, Invalid("Email and OTP are required")
	}

	challenge, err := s.verifications.FindOTP(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, Unauthorized("OTP expired or not found")
	}
	if err != nil {
		return nil, err
	}

	if challenge.Retries >= maxOTPRetries {
		if err := s.verifications.DeleteOTP(ctx, challenge.ID); err != nil {
			return nil, err
		}
		return nil, Unauthorized("Too many failed attempts, request a new OTP")
	}

	if bcrypt.CompareHashAndPassword([]byte(challenge.OTP), []byte(otp)) != nil {
		if err := s.verifications.IncrementOTPRetries(ctx, challenge.ID); err != nil {
			return nil, err
		}
		return nil, Unauthorized("Invalid OTP")
	}

	if err := s.verifications.DeleteOTP(ctx, challenge.ID); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}

	if !user.IsEmailVerified {
		if err := s.users.SetEmailVerified(ctx, user.ID, true); err != nil {
			return nil, err
		}
		user.IsEmailVerified = true
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Tokens: tokens}, nil
}

// ResendOTP replaces any pending challenge with a fresh one.
func (s *AuthService) ResendOTP(ctx context.Context, email string) error {
	ctx, span := AuthServiceTracer.Start(ctx, "AuthService.ResendOTP")
	defer span.End()
	logger.Info(ctx, "Service")

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return Invalid("Email is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return NotFound("User not found")
	}
	if err != nil {
		return err
	}
	return s.issueOTP(ctx, user)
}

// Refresh rotates the token pair when the presented refresh token matches the
// one stored on the account.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	ctx, span := AuthServiceTracer.Start(ctx, "AuthService.Refresh")
	defer span.End()
	logger.Info(ctx, "Service")

	userID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, Unauthorized("Invalid refresh token")
	}
	user, err := s.userByHex(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.RefreshToken != refreshToken {
		return nil, Unauthorized("Invalid refresh token")
	}
	if !user.IsActive {
		return nil, Forbidden("Account is deactivated")
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Tokens: tokens}, nil
}

// Logout clears the stored tokens so existing cookies stop working.
func (s *AuthService) Logout(ctx context.Context, user *model.User) error {
	ctx, span := AuthServiceTracer.Start(ctx, "AuthService.Logout")
	defer span.End()
	logger.Info(ctx, "Service")

	return s.users.SetTokens(ctx, user.ID, "", "")
}

// RequestPasswordReset mails a single-use reset link.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	ctx, span := AuthServiceTracer.Start(ctx, "AuthService.RequestPasswordReset")
	defer span.End()
	logger.Info(ctx, "Service")

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return Invalid("Email is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return NotFound("User not found")
	}
	if err != nil {
		return err
	}

	secret := uuid.NewString()
	if err := s.verifications.SavePasswordReset(ctx, user.ID, secret); err != nil {
		return err
	}
	link := s.publicBaseURL + "/reset-password/" + secret
	return s.mailer.SendPasswordReset(ctx, user.Username, user.Email, link)
}

// ResetPassword consumes a reset secret, replaces the password and revokes
// every issued token.
func (s *AuthService) ResetPassword(ctx context.Context, secret, password string) error {
	ctx, span := AuthServiceTracer.Start(ctx, "AuthService.ResetPassword")
	defer span.End()
	logger.Info(ctx, "Service")

	if secret == "" {
		return Invalid("Reset secret is required")
	}
	if len(password) < 8 {
		return Invalid("Password must be at least 8 characters long")
	}

	reset, err := s.verifications.FindPasswordReset(ctx, secret)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Unauthorized("Reset link is invalid or has expired")
	}
	if err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, reset.User)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return NotFound("User not found")
	}
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.SetPassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}
	if err := s.users.SetTokens(ctx, user.ID, "", ""); err != nil {
		return err
	}
	if err := s.verifications.DeletePasswordReset(ctx, reset.ID); err != nil {
		return err
	}

	if err := s.mailer.SendSecurityAlert(ctx, user.Username, user.Email); err != nil {
		logger.Error(ctx, "security alert delivery failed", slog.String("error", err.Error()))
	}
	return nil
}

// SetLoginVerification toggles the OTP-on-every-login flag.
func (s *AuthService) SetLoginVerification(ctx context.Context, user *model.User, enabled bool) error {
	ctx, span := AuthServiceTracer.Start(ctx, "AuthService.SetLoginVerification")
	defer span.End()
	logger.Info(ctx, "Service")

	return s.users.SetLoginVerification(ctx, user.ID, enabled)
}

// UserByAccessToken resolves the account behind a bearer token. Used by the
// auth middleware.
func (s *AuthService) UserByAccessToken(ctx context.Context, token string) (*model.User, error) {
	ctx, span := AuthServiceTracer.Start(ctx, "AuthService.UserByAccessToken")
	defer span.End()

	userID, err := s.tokens.VerifyAccess(token)
	if err != nil {
		return nil, Unauthorized("Invalid or expired token")
	}
	user, err := s.userByHex(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.AccessToken != token {
		return nil, Unauthorized("Invalid or expired token")
	}
	if !user.IsActive {
		return nil, Forbidden("Account is deactivated")
	}
	return user, nil
}

func (s *AuthService) userByHex(ctx context.Context, hex string) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil, Unauthorized("Invalid token subject")
	}
	user, err := s.users.FindByID(ctx, oid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, Unauthorized("User no longer exists")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *model.User) (*TokenPair, error) {
	access, err := s.tokens.SignAccess(user.ID.Hex())
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.SignRefresh(user.ID.Hex())
	if err != nil {
		return nil, err
	}
	if err := s.users.SetTokens(ctx, user.ID, access, refresh); err != nil {
		return nil, err
	}
	user.AccessToken = access
	user.RefreshToken = refresh
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) issueOTP(ctx context.Context, user *model.User) error {
	otp, err := mail.GenerateOTP()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(otp), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.verifications.SaveOTP(ctx, user.Email, string(hash)); err != nil {
		return err
	}
	return s.mailer.SendOTP(ctx, user.Username, user.Email, otp)
}
