package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/almaxtex/inventory-backend/internal/config"
	"github.com/almaxtex/inventory-backend/internal/dto"
	"github.com/almaxtex/inventory-backend/internal/models"
	"github.com/almaxtex/inventory-backend/internal/store"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService struct {
	store store.Store
	cfg   *config.Config
}

func NewAuthService(st store.Store, cfg *config.Config) *AuthService {
	return &AuthService{store: st, cfg: cfg}
}

// EnsureDefaultAdmin seeds the administrator account on first boot. An
// existing account is never touched, so later password changes survive
// restarts.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context) error {
	_, err := s.store.Get(ctx, models.CollectionUsers, s.cfg.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("failed to check admin account: %w", err)
	}

	if s.cfg.AdminPassword == "" {
		return errors.New("ADMIN_PASSWORD is required to seed the default administrator")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := models.User{
		Username:     s.cfg.AdminUsername,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Permissions:  models.AllPermissions,
		CreatedAt:    time.Now(),
	}
	if err := s.store.Set(ctx, models.CollectionUsers, admin.Username, admin.Fields()); err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}
	slog.Info("default administrator seeded", "username", admin.Username)
	return nil
}

// Login verifies credentials against the stored bcrypt hash. A wrong
// password leaves the caller unauthenticated; no state changes.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	doc, err := s.store.Get(ctx, models.CollectionUsers, req.Username)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	user := models.UserFromFields(doc.ID, doc.Fields)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(ctx, &user)
}

// Refresh rotates a refresh token: the presented token is revoked and a
// fresh pair is issued.
func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	tokenHash := hashToken(req.RefreshToken)

	doc, err := s.store.Get(ctx, models.CollectionTokens, tokenHash)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load refresh token: %w", err)
	}

	if revoked, _ := doc.Fields["revoked"].(bool); revoked {
		return nil, ErrInvalidToken
	}

	username, _ := doc.Fields["username"].(string)
	expiresAt, _ := doc.Fields["expires_at"].(string)
	exp, err := time.Parse(time.RFC3339, expiresAt)
	if err != nil || time.Now().After(exp) {
		_ = s.store.SetMerge(ctx, models.CollectionTokens, tokenHash, map[string]any{"revoked": true})
		return nil, ErrInvalidToken
	}

	if err := s.store.SetMerge(ctx, models.CollectionTokens, tokenHash, map[string]any{"revoked": true}); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	userDoc, err := s.store.Get(ctx, models.CollectionUsers, username)
	if err != nil {
		return nil, ErrUserNotFound
	}
	user := models.UserFromFields(userDoc.ID, userDoc.Fields)
	return s.generateTokenPair(ctx, &user)
}

// Logout revokes the presented refresh token. The access token simply
// expires; there is no server-side session beyond this.
func (s *AuthService) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	tokenHash := hashToken(req.RefreshToken)
	_, err := s.store.Get(ctx, models.CollectionTokens, tokenHash)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load refresh token: %w", err)
	}
	return s.store.SetMerge(ctx, models.CollectionTokens, tokenHash, map[string]any{"revoked": true})
}

func (s *AuthService) generateTokenPair(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.Username,
		"role":  user.Role,
		"perms": user.Permissions,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.JWTAccessExpiry).Unix(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, err := randomToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	record := map[string]any{
		"username":   user.Username,
		"expires_at": now.Add(s.cfg.JWTRefreshExpiry).UTC().Format(time.RFC3339),
		"revoked":    false,
		"created_at": now.UTC().Format(time.RFC3339),
	}
	if err := s.store.Set(ctx, models.CollectionTokens, hashToken(refresh), record); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return &dto.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User: dto.UserResponse{
			Username:    user.Username,
			Role:        user.Role,
			Permissions: user.Permissions,
		},
	}, nil
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
