package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/infrastructure/config"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

// Claims represents the JWT claims embedded in a session token
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthService handles registration, login and session tokens
type AuthService struct {
	store     ports.DocumentStore
	jwtConfig config.JWTConfig
	logger    *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(store ports.DocumentStore, jwtConfig config.JWTConfig, logger *logger.Logger) *AuthService {
	return &AuthService{
		store:     store,
		jwtConfig: jwtConfig,
		logger:    logger,
	}
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, req ports.RegisterRequest) (*ports.Identity, error) {
	username := strings.TrimSpace(req.Username)
	password := strings.TrimSpace(req.Password)

	if len(username) < 3 {
		return nil, entities.ErrUsernameTooShort
	}
	if len(password) < 6 {
		return nil, entities.ErrPasswordTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hashedPassword),
	}

	// Uniqueness check and append happen under the same store lock.
	err = s.store.Update(func(doc *entities.Document) error {
		if doc.UserByUsername(username) != nil {
			return entities.ErrUsernameTaken
		}
		doc.Users = append(doc.Users, user)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("User registered", "user_id", user.ID, "username", user.Username)

	return &ports.Identity{ID: user.ID, Username: user.Username}, nil
}

// Login verifies credentials and issues a signed session token
func (s *AuthService) Login(ctx context.Context, req ports.LoginRequest) (*ports.LoginResult, error) {
	username := strings.TrimSpace(req.Username)
	password := strings.TrimSpace(req.Password)

	var user *entities.User
	err := s.store.View(func(doc *entities.Document) error {
		user = doc.UserByUsername(username)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if user == nil {
		s.logger.Warnw("Login attempt with unknown username", "username", username)
		return nil, entities.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warnw("Login attempt with invalid password", "username", username, "user_id", user.ID)
		return nil, entities.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Infow("User logged in", "user_id", user.ID, "username", user.Username)

	return &ports.LoginResult{
		Token:     token,
		ExpiresIn: int64(s.jwtConfig.ExpiresIn.Seconds()),
		User:      &ports.Identity{ID: user.ID, Username: user.Username},
	}, nil
}

// ValidateToken validates a session token and returns its claims
func (s *AuthService) ValidateToken(tokenString string) (*ports.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.Secret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return &ports.Claims{
		UserID:   claims.UserID,
		Username: claims.Username,
	}, nil
}

// ResolveCaller resolves the caller's identity from a token. Any failure
// (missing, malformed, expired, bad signature) means "no session" and
// returns nil rather than an error.
func (s *AuthService) ResolveCaller(tokenString string) *ports.Identity {
	if tokenString == "" {
		return nil
	}

	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil
	}

	return &ports.Identity{ID: claims.UserID, Username: claims.Username}
}

func (s *AuthService) issueToken(user *entities.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.ExpiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.jwtConfig.Issuer,
			Subject:   user.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtConfig.Secret))
}
