package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/almaxtex/inventory-backend/internal/audit"
	"github.com/almaxtex/inventory-backend/internal/dto"
	"github.com/almaxtex/inventory-backend/internal/models"
	"github.com/almaxtex/inventory-backend/internal/store"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken     = errors.New("username already registered")
	ErrSelfDelete        = errors.New("a user may not delete their own account")
	ErrUnknownPermission = errors.New("unknown permission code")
	ErrWeakPassword      = errors.New("password must be at least 8 characters")
)

// UserService covers the admin-only account screens.
type UserService struct {
	store store.Store
	audit *audit.Logger
}

func NewUserService(st store.Store, auditLog *audit.Logger) *UserService {
	return &UserService{store: st, audit: auditLog}
}

func (s *UserService) Create(ctx context.Context, actor string, req *dto.CreateUserRequest) (*models.User, error) {
	if req.Username == "" {
		return nil, errors.New("username is required")
	}
	if len(req.Password) < 8 {
		return nil, ErrWeakPassword
	}
	role := req.Role
	if role == "" {
		role = models.RoleOperator
	}
	if role != models.RoleAdmin && role != models.RoleOperator {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	for _, code := range req.Permissions {
		if !models.ValidPermission(code) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPermission, code)
		}
	}

	if _, err := s.store.Get(ctx, models.CollectionUsers, req.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         role,
		Permissions:  req.Permissions,
		CreatedAt:    time.Now(),
	}
	if err := s.store.Set(ctx, models.CollectionUsers, user.Username, user.Fields()); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.record(audit.CategoryAdd, "user_create", fmt.Sprintf("Kullanıcı eklendi: %s", user.Username), "İşlemi yapan: "+actor)
	return &user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	docs, err := s.store.Stream(ctx, models.CollectionUsers, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	users := make([]models.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, models.UserFromFields(doc.ID, doc.Fields))
	}
	return users, nil
}

func (s *UserService) Delete(ctx context.Context, actor, username string) error {
	if username == actor {
		return ErrSelfDelete
	}
	if _, err := s.store.Get(ctx, models.CollectionUsers, username); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if err := s.store.Delete(ctx, models.CollectionUsers, username); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.record(audit.CategoryDelete, "user_delete", fmt.Sprintf("Kullanıcı silindi: %s", username), "İşlemi yapan: "+actor)
	return nil
}

func (s *UserService) SetPermissions(ctx context.Context, actor, username string, permissions []string) error {
	for _, code := range permissions {
		if !models.ValidPermission(code) {
			return fmt.Errorf("%w: %s", ErrUnknownPermission, code)
		}
	}
	if _, err := s.store.Get(ctx, models.CollectionUsers, username); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	values := make([]any, len(permissions))
	for i, p := range permissions {
		values[i] = p
	}
	if err := s.store.SetMerge(ctx, models.CollectionUsers, username, map[string]any{"permissions": values}); err != nil {
		return fmt.Errorf("failed to update permissions: %w", err)
	}
	s.record(audit.CategoryUpdate, "user_permissions", fmt.Sprintf("Yetkiler güncellendi: %s", username), "İşlemi yapan: "+actor)
	return nil
}

func (s *UserService) record(category, function, message, detail string) {
	if s.audit == nil {
		return
	}
	// Audit failures never block the account operation itself.
	_ = s.audit.Record(category, function, message, detail)
}
