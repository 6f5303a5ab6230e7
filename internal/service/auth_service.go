package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"devcommunity/internal/domain"
	"devcommunity/internal/mailer"
	"devcommunity/internal/repository"
	"devcommunity/internal/storage"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate auth token")
	ErrResetTokenInvalid    = errors.New("password reset token is invalid or has expired")
	ErrOldPasswordMismatch  = errors.New("old password does not match")
	ErrMailDelivery         = errors.New("failed to send email")
)

const resetTokenTTL = 15 * time.Minute

// AuthService handles registration, login and the password lifecycle.
type AuthService interface {
	Register(ctx context.Context, name, email, password, role, avatarDataURL string) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	ForgotPassword(ctx context.Context, email, frontendURL string) error
	ResetPassword(ctx context.Context, token, password string) (*domain.User, string, error)
	UpdatePassword(ctx context.Context, userID string, oldPassword, newPassword string) error
}

type authService struct {
	userRepo  repository.UserRepository
	storage   storage.FileStorage
	mail      mailer.Mailer
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthService(userRepo repository.UserRepository, fileStorage storage.FileStorage, mail mailer.Mailer, jwtSecret string, jwtExpiry time.Duration) AuthService {
	return &authService{
		userRepo:  userRepo,
		storage:   fileStorage,
		mail:      mail,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

// Register creates a new account. The avatar is optional; when present it is
// a base64 data URL uploaded before the user document is written.
func (s *authService) Register(ctx context.Context, name, email, password, role, avatarDataURL string) (*domain.User, string, error) {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, "", fmt.Errorf("error checking for existing user: %w", err)
	}
	if existing != nil {
		return nil, "", ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("ERROR: Failed to hash password for %s: %v", email, err)
		return nil, "", ErrHashingFailed
	}

	// Admin accounts are never self-served; anything but client falls
	// back to developer.
	userRole := domain.Role(role)
	if userRole != domain.RoleClient {
		userRole = domain.RoleDeveloper
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         userRole,
	}

	if avatarDataURL != "" {
		uploaded, err := s.storage.UploadDataURL(ctx, avatarDataURL, storage.FolderAvatars)
		if err != nil {
			return nil, "", fmt.Errorf("failed to upload avatar: %w", err)
		}
		user.Avatar = domain.Image{PublicID: uploaded.PublicID, URL: uploaded.URL}
	}

	if _, err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", ErrUserAlreadyExists
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, "", err
	}

	user.PasswordHash = ""
	return user, token, nil
}

// Login verifies credentials and issues a signed token.
func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrAuthenticationFailed
		}
		return nil, "", fmt.Errorf("error fetching user for login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrAuthenticationFailed
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, "", err
	}

	user.PasswordHash = ""
	return user, token, nil
}

// ForgotPassword issues a single-use reset token, stores its digest with a
// 15 minute expiry, and mails the reset link. If the mail cannot be sent the
// token fields are cleared again so the stored state never references a link
// the user did not receive.
func (s *authService) ForgotPassword(ctx context.Context, email, frontendURL string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("error fetching user for password reset: %w", err)
	}

	rawToken, err := newResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	expire := time.Now().Add(resetTokenTTL)
	user.ResetPasswordToken = hashResetToken(rawToken)
	user.ResetPasswordExpire = &expire
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/password/reset/%s", frontendURL, rawToken)
	body := fmt.Sprintf("Reset your password by clicking on the link below:\n\n%s", resetURL)
	if err := s.mail.Send(user.Email, "Password reset request", body); err != nil {
		log.Printf("ERROR: Failed to send reset mail to %s: %v", user.Email, err)
		user.ResetPasswordToken = ""
		user.ResetPasswordExpire = nil
		if updErr := s.userRepo.Update(ctx, user); updErr != nil {
			log.Printf("ERROR: Failed to clear reset token for %s: %v", user.Email, updErr)
		}
		return ErrMailDelivery
	}
	return nil
}

// ResetPassword consumes a reset token, sets the new password and logs the
// user in.
func (s *authService) ResetPassword(ctx context.Context, token, password string) (*domain.User, string, error) {
	user, err := s.userRepo.GetByResetToken(ctx, hashResetToken(token))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrResetTokenInvalid
		}
		return nil, "", fmt.Errorf("error fetching user by reset token: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", ErrHashingFailed
	}

	user.PasswordHash = string(hashedPassword)
	user.ResetPasswordToken = ""
	user.ResetPasswordExpire = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to update password: %w", err)
	}

	jwtToken, err := s.generateJWT(user)
	if err != nil {
		return nil, "", err
	}

	user.PasswordHash = ""
	return user, jwtToken, nil
}

// UpdatePassword changes the password of a logged-in user after verifying
// the old one.
func (s *authService) UpdatePassword(ctx context.Context, userID string, oldPassword, newPassword string) error {
	objectID, err := parseID(userID)
	if err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, objectID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrOldPasswordMismatch
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrHashingFailed
	}

	user.PasswordHash = string(hashedPassword)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// generateJWT creates a signed token carrying the user id and role.
func (s *authService) generateJWT(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"uid":  user.ID.Hex(),
		"role": user.Role,
		"exp":  time.Now().Add(s.jwtExpiry).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		log.Printf("ERROR: Failed to sign JWT for user %s: %v", user.ID.Hex(), err)
		return "", ErrTokenGeneration
	}
	return signedToken, nil
}

// newResetToken returns 20 random bytes hex encoded. The raw value goes into
// the mail; only its digest is stored.
func newResetToken() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// hashResetToken returns the hex sha256 digest stored in the user document.
func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
