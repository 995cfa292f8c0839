package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/alumnihub/backend/internal/changelog"
	"github.com/alumnihub/backend/internal/models"
	"github.com/alumnihub/backend/internal/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserExists          = errors.New("user already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrNotApproved         = errors.New("account is awaiting approval")
	ErrInvalidToken        = errors.New("invalid token")
	ErrInvalidOTP          = errors.New("invalid or expired code")
	ErrUserNotFound        = errors.New("user not found")
	ErrAlreadyResolvedUser = errors.New("registration already resolved")
)

const otpTTL = 10 * time.Minute

// AuthService handles registration, login, OTP codes and token validation.
type AuthService struct {
	db        *gorm.DB
	redis     *redis.Client
	jwtSecret string
	email     IEmailService
	changeLog IChangeLogService
}

var _ IAuthService = (*AuthService)(nil)

func NewAuthService(db *gorm.DB, redisClient *redis.Client, jwtSecret string, email IEmailService, changeLog IChangeLogService) *AuthService {
	return &AuthService{
		db:        db,
		redis:     redisClient,
		jwtSecret: jwtSecret,
		email:     email,
		changeLog: changeLog,
	}
}

// Register creates a pending user and an initial profile. No token is issued
// until an admin approves the registration.
func (s *AuthService) Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error) {
	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrUserExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashed),
		Role:         models.RoleMember,
		Status:       models.UserStatusPending,
	}
	var profile models.AlumniProfile

	// User and profile are created together; a stranded user row would
	// permanently occupy the email address.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		profile = models.AlumniProfile{
			UserID:         user.ID,
			ContactEmail:   user.Email,
			GraduationYear: req.GraduationYear,
			Degree:         req.Degree,
			IsPublic:       true,
		}
		return tx.Create(&profile).Error
	})
	if err != nil {
		return nil, err
	}

	initial := changelog.Diff(map[string]any{}, changelog.Snapshot(&profile), trackedProfileFields)
	s.changeLog.Record(ctx, user.ID, user.ID, user.Name, initial, models.ChangeTypeCreate)

	if err := s.email.SendWelcomeEmail(&user); err != nil {
		log.Printf("[AuthService] failed to send welcome email to %s: %v", user.Email, err)
	}

	return &user, nil
}

// Login verifies credentials and issues a token. Pending and rejected
// accounts cannot log in.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if user.Status != models.UserStatusApproved {
		return nil, "", ErrNotApproved
	}

	token, err := s.GenerateToken(&types.TokenClaims{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
	})
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

// GenerateToken signs an HS256 JWT for the given claims.
func (s *AuthService) GenerateToken(claims *types.TokenClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": claims.UserID.String(),
		"name":    claims.Name,
		"role":    claims.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses and verifies a bearer token.
func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, err
	}

	name, _ := claims["name"].(string)
	role, _ := claims["role"].(string)

	return &types.TokenClaims{UserID: userID, Name: name, Role: role}, nil
}

// RequestOTP generates a 6-digit login code, stores it in Redis with a
// 10-minute TTL and emails it to the member. The email must belong to an
// approved account.
func (s *AuthService) RequestOTP(ctx context.Context, email string) error {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ? AND status = ?", email, models.UserStatusApproved).First(&user).Error; err != nil {
		// Do not reveal whether the address exists.
		return nil
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, otpKey(email), code, otpTTL).Err(); err != nil {
		return fmt.Errorf("failed to store OTP code: %w", err)
	}

	return s.email.SendOTPCode(email, code)
}

// VerifyOTP exchanges a valid code for a token. Codes are single-use.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*models.User, string, error) {
	stored, err := s.redis.GetDel(ctx, otpKey(email)).Result()
	if err != nil || stored == "" || stored != code {
		return nil, "", ErrInvalidOTP
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ? AND status = ?", email, models.UserStatusApproved).First(&user).Error; err != nil {
		return nil, "", ErrInvalidOTP
	}

	token, err := s.GenerateToken(&types.TokenClaims{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
	})
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// ListPendingRegistrations returns accounts awaiting moderation, oldest first.
func (s *AuthService) ListPendingRegistrations(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	if err := s.db.WithContext(ctx).
		Where("status = ?", models.UserStatusPending).
		Order("created_at").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ApproveRegistration flips a pending account to approved, records the
// transition in the audit trail and notifies the member.
func (s *AuthService) ApproveRegistration(ctx context.Context, admin types.TokenClaims, userID uuid.UUID) error {
	return s.resolveRegistration(ctx, admin, userID, models.UserStatusApproved, "")
}

// RejectRegistration flips a pending account to rejected. The reason only
// goes into the notification email.
func (s *AuthService) RejectRegistration(ctx context.Context, admin types.TokenClaims, userID uuid.UUID, reason string) error {
	return s.resolveRegistration(ctx, admin, userID, models.UserStatusRejected, reason)
}

func (s *AuthService) resolveRegistration(ctx context.Context, admin types.TokenClaims, userID uuid.UUID, status, reason string) error {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.Status != models.UserStatusPending {
		return ErrAlreadyResolvedUser
	}

	previous := user.Status
	user.Status = status
	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return err
	}

	changeType := models.ChangeTypeApprove
	if status == models.UserStatusRejected {
		changeType = models.ChangeTypeReject
	}
	s.changeLog.Record(ctx, user.ID, admin.UserID, admin.Name, changelog.ChangeSet{
		"status": {Old: previous, New: status},
	}, changeType)

	var notifyErr error
	if status == models.UserStatusApproved {
		notifyErr = s.email.SendApprovalNotice(&user)
	} else {
		notifyErr = s.email.SendRejectionNotice(&user, reason)
	}
	if notifyErr != nil {
		log.Printf("[AuthService] failed to send registration notice to %s: %v", user.Email, notifyErr)
	}

	return nil
}

func otpKey(email string) string {
	return "otp:" + email
}

// generateOTP produces a 6-digit numeric code from crypto/rand.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
