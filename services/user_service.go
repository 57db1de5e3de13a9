package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/wikismart-edu-backend/apperr"
	"github.com/vnkhanh/wikismart-edu-backend/models"
	"github.com/vnkhanh/wikismart-edu-backend/utils"
)

// UserService is the credential store: it owns user rows and password
// hashes and is the only code that ever sees a plaintext password.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     models.UserRole
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// dummyPasswordHash is verified against when a username does not exist so
// unknown and known usernames take the same time to reject.
func dummyPasswordHash() string {
	dummyHashOnce.Do(func() {
		h, err := utils.HashPassword("not-a-real-password")
		if err == nil {
			dummyHash = h
		}
	})
	return dummyHash
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Username == "" {
		return nil, apperr.Validation("username", "username is required")
	}
	if in.Email == "" {
		return nil, apperr.Validation("email", "email is required")
	}
	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if !in.Role.Valid() {
		return nil, apperr.Validation("role", "unknown role")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "hash password", err)
	}

	user := models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", in.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.Conflict("username already registered")
		}
		if err := tx.Model(&models.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.Conflict("email already registered")
		}
		return tx.Create(&user).Error
	})
	switch {
	case err == nil:
		return &user, nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return nil, apperr.Wrap(apperr.KindConflict, "username or email already registered", err)
	case apperr.KindOf(err) != apperr.KindInternal:
		return nil, err
	default:
		return nil, apperr.Wrap(apperr.KindInternal, "create user", err)
	}
}

// Authenticate returns the user when username and password match, and an
// UNAUTHENTICATED error otherwise. The error does not say which part was
// wrong.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Wrap(apperr.KindInternal, "load user", err)
	}

	found := err == nil
	hash := user.PasswordHash
	if !found {
		hash = dummyPasswordHash()
	}

	ok, verr := utils.VerifyPassword(password, hash)
	if !found || verr != nil || !ok {
		return nil, apperr.Unauthenticated("incorrect username or password")
	}
	return &user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "load user", err)
	}
	return &user, nil
}

func (s *UserService) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, apperr.Wrap(apperr.KindInternal, "count users", err)
	}
	return n, nil
}
