package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/SocialShift/Knowledge-Backend/internal/app_errors"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

const (
	MinPasswordLength = 8
	OTPTTL            = 10 * time.Minute

	referralAttempts = 10
)

type AuthRepo interface {
	CreateUser(ctx context.Context, user models.User, profile models.Profile) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ReferralCodeExists(ctx context.Context, code string) (bool, error)
	UpdateEmail(ctx context.Context, id uuid.UUID, email string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
	CreateOTP(ctx context.Context, email, code string, expiresAt time.Time) error
	LatestOTP(ctx context.Context, email string) (*models.VerificationOTP, error)
	ConsumeOTP(ctx context.Context, otpID uuid.UUID, email string) error
}

type tokenRepo interface {
	Create(ctx context.Context, userID uuid.UUID, token *jwt.Token) (*models.RefreshToken, error)
	ByPrimaryKey(ctx context.Context, userID uuid.UUID, token *jwt.Token) (*models.RefreshToken, error)
	DeleteUserTokens(ctx context.Context, userID uuid.UUID) error
}

type mailer interface {
	SendVerificationCode(ctx context.Context, email, code string) error
}

type streakToucher interface {
	Touch(ctx context.Context, userID uuid.UUID) (models.StreakState, bool, error)
}

type profileReader interface {
	Profile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

type starterBadges interface {
	DefaultBadges() []models.Badge
}

type AuthService struct {
	log        logger.Log
	jwtManager *JWTManager
	authRepo   AuthRepo
	tokenRepo  tokenRepo
	mail       mailer
	streaks    streakToucher
	profiles   profileReader
	badges     starterBadges
	now        func() time.Time
}

func NewAuthService(l logger.Log, manager *JWTManager, aRepo AuthRepo, tRepo tokenRepo, m mailer,
	s streakToucher, p profileReader, b starterBadges) *AuthService {
	return &AuthService{
		log:        l,
		jwtManager: manager,
		authRepo:   aRepo,
		tokenRepo:  tRepo,
		mail:       m,
		streaks:    s,
		profiles:   p,
		badges:     b,
		now:        time.Now,
	}
}

// LoginResult is what a successful login hands back.
type LoginResult struct {
	User   *models.User
	Streak models.StreakState
	Tokens *models.TokenPair
}

func (u *AuthService) issueTokens(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	tokenPair, err := u.jwtManager.GenerateTokenPair(user.ID, user.Roles)
	if err != nil {
		return nil, err
	}
	if err := u.tokenRepo.DeleteUserTokens(ctx, user.ID); err != nil {
		return nil, err
	}
	if _, err := u.tokenRepo.Create(ctx, user.ID, tokenPair.RefreshToken); err != nil {
		return nil, err
	}
	return tokenPair, nil
}

func (u *AuthService) RefreshTokens(ctx context.Context, token string) (*models.TokenPair, error) {
	curToken, err := u.jwtManager.Parse(token)
	if err != nil {
		return nil, err
	}
	if !u.jwtManager.TokenType(curToken, RefreshTokenType) {
		return nil, app_errors.ErrTokenNotFound
	}
	userIdStr, err := curToken.Claims.GetSubject()
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(userIdStr)
	if err != nil {
		return nil, err
	}
	tokenRecord, err := u.tokenRepo.ByPrimaryKey(ctx, userID, curToken)
	if err != nil {
		return nil, err
	}
	if tokenRecord.ExpiresAt.Before(u.now()) {
		return nil, app_errors.ErrTokenExpired
	}
	user, err := u.authRepo.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, app_errors.ErrUserInactive
	}
	return u.issueTokens(ctx, user)
}

func (u *AuthService) AccessClaims(ctx context.Context, token string) (userID uuid.UUID, roles []string, err error) {
	claims, err := u.jwtManager.AccessClaims(token)
	if err != nil {
		return uuid.Nil, nil, err
	}
	return claims.UserID, claims.Roles, nil
}

func (u *AuthService) User(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return u.authRepo.UserByID(ctx, id)
}

func checkNewPassword(password, confirm string) error {
	if password != confirm {
		return app_errors.ErrPasswordMismatch
	}
	if len(password) < MinPasswordLength {
		return app_errors.ErrPasswordTooShort
	}
	return nil
}

func (u *AuthService) newReferralCode(ctx context.Context) (string, error) {
	for i := 0; i < referralAttempts; i++ {
		code, err := randomDigits(referralCodeLength)
		if err != nil {
			return "", err
		}
		taken, err := u.authRepo.ReferralCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", errors.New("could not allocate a referral code")
}

// Register creates an unverified client account with its profile and mails a verification code.
func (u *AuthService) Register(ctx context.Context, email, password, confirm string) (*models.User, *models.TokenPair, error) {
	if err := checkNewPassword(password, confirm); err != nil {
		return nil, nil, err
	}
	email = strings.TrimSpace(email)
	if _, err := u.authRepo.UserByEmail(ctx, email); err == nil {
		return nil, nil, app_errors.ErrUserExists
	} else if !errors.Is(err, app_errors.ErrUserNotFound) {
		return nil, nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, nil, err
	}
	code, err := u.newReferralCode(ctx)
	if err != nil {
		return nil, nil, err
	}

	user := models.User{
		Username: usernameFor(email),
		Email:    email,
		Password: hash,
		Roles:    []string{models.ClientRole},
	}
	profile := models.Profile{
		AvatarKey:    models.DefaultAvatar,
		Points:       models.DefaultPoints,
		ReferralCode: code,
		Badges:       u.badges.DefaultBadges(),
	}
	created, err := u.authRepo.CreateUser(ctx, user, profile)
	if err != nil {
		return nil, nil, err
	}

	if err := u.sendOTP(ctx, created.Email); err != nil {
		u.log.ErrorErr("send verification code", err, "user_id", created.ID)
	}

	tokens, err := u.issueTokens(ctx, created)
	if err != nil {
		return nil, nil, err
	}
	return created, tokens, nil
}

func (u *AuthService) sendOTP(ctx context.Context, email string) error {
	code, err := randomDigits(otpLength)
	if err != nil {
		return err
	}
	if err := u.authRepo.CreateOTP(ctx, email, code, u.now().UTC().Add(OTPTTL)); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	return u.mail.SendVerificationCode(ctx, email, code)
}

func (u *AuthService) VerifyEmail(ctx context.Context, email, code string) error {
	otp, err := u.authRepo.LatestOTP(ctx, email)
	if err != nil {
		return err
	}
	if !otp.Valid(u.now()) {
		return app_errors.ErrOTPExpired
	}
	if otp.Code != strings.TrimSpace(code) {
		return app_errors.ErrOTPInvalid
	}
	return u.authRepo.ConsumeOTP(ctx, otp.ID, email)
}

func (u *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := u.authRepo.UserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return app_errors.ErrAlreadyVerified
	}
	return u.sendOTP(ctx, user.Email)
}

// Login checks the credentials, rotates tokens and records the day's visit.
func (u *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := u.authRepo.UserByEmail(ctx, email)
	if errors.Is(err, app_errors.ErrUserNotFound) {
		return nil, app_errors.ErrIncorrectPassword
	}
	if err != nil {
		return nil, err
	}
	if !checkPasswordHash(password, user.Password) {
		return nil, app_errors.ErrIncorrectPassword
	}
	if !user.IsActive {
		return nil, app_errors.ErrUserInactive
	}

	tokens, err := u.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	res := &LoginResult{User: user, Tokens: tokens}
	if _, _, err := u.streaks.Touch(ctx, user.ID); err != nil {
		u.log.ErrorErr("login streak update", err, "user_id", user.ID)
	}
	profile, err := u.profiles.Profile(ctx, user.ID)
	if err != nil {
		u.log.ErrorErr("load profile after login", err, "user_id", user.ID)
		return res, nil
	}
	res.Streak = models.StreakState{
		Current:       profile.CurrentLoginStreak,
		Max:           profile.MaxLoginStreak,
		LastLoginDate: profile.LastLoginDate,
	}
	return res, nil
}

func (u *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	return u.tokenRepo.DeleteUserTokens(ctx, userID)
}

func (u *AuthService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	return u.authRepo.DeleteUser(ctx, userID)
}

func (u *AuthService) ChangeEmail(ctx context.Context, userID uuid.UUID, email string) error {
	return u.authRepo.UpdateEmail(ctx, userID, strings.TrimSpace(email))
}

func (u *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next, confirm string) error {
	user, err := u.authRepo.UserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !checkPasswordHash(current, user.Password) {
		return app_errors.ErrIncorrectPassword
	}
	if err := checkNewPassword(next, confirm); err != nil {
		return err
	}
	hash, err := hashPassword(next)
	if err != nil {
		return err
	}
	return u.authRepo.UpdatePassword(ctx, userID, hash)
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func checkPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
