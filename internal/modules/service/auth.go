package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joeystdio/handoff-app/internal/config"
	"github.com/joeystdio/handoff-app/internal/modules/authz"
	"github.com/joeystdio/handoff-app/internal/modules/model"
	"github.com/joeystdio/handoff-app/internal/modules/repo"
	"github.com/joeystdio/handoff-app/internal/pkg/utils/secrets"
)

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*SessionOutput, error)
	Login(ctx context.Context, in LoginInput) (*SessionOutput, error)
	Me(ctx context.Context, freelancerID uuid.UUID) (*model.Freelancer, error)
	// VerifyToken turns a session JWT into a freelancer principal. Any
	// parse or validation failure is reported as ErrInvalidCredentials;
	// the middleware fails closed on it.
	VerifyToken(tokenString string) (*authz.Freelancer, error)
}

type authService struct {
	r   repo.FreelancerRepo
	cfg *config.Config
}

func NewAuthService(r repo.FreelancerRepo, cfg *config.Config) AuthService {
	return &authService{r: r, cfg: cfg}
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionOutput struct {
	Freelancer *model.Freelancer `json:"freelancer"`
	Token      string            `json:"token"`
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*SessionOutput, error) {
	hash, err := secrets.HashPassword(in.Password, s.cfg.Auth.SecretPepper)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	f := &model.Freelancer{
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
	}
	if err := s.r.Create(ctx, f); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create freelancer: %w", err)
	}

	token, err := s.signToken(f)
	if err != nil {
		return nil, err
	}
	return &SessionOutput{Freelancer: f, Token: token}, nil
}

func (s *authService) Login(ctx context.Context, in LoginInput) (*SessionOutput, error) {
	f, err := s.r.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup freelancer: %w", err)
	}

	ok, err := secrets.VerifyPassword(in.Password, s.cfg.Auth.SecretPepper, f.PasswordHash)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	token, err := s.signToken(f)
	if err != nil {
		return nil, err
	}
	return &SessionOutput{Freelancer: f, Token: token}, nil
}

func (s *authService) Me(ctx context.Context, freelancerID uuid.UUID) (*model.Freelancer, error) {
	f, err := s.r.GetByID(ctx, freelancerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, authz.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *authService) VerifyToken(tokenString string) (*authz.Freelancer, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.Auth.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	return &authz.Freelancer{ID: id, Email: claims.Email}, nil
}

func (s *authService) signToken(f *model.Freelancer) (string, error) {
	now := time.Now()
	ttl := time.Duration(s.cfg.Auth.TokenTTLHour) * time.Hour
	claims := sessionClaims{
		Email: f.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   f.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Auth.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}
