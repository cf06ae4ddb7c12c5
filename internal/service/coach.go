package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/boddenberg/homi-brain-go/internal/domain"
	"github.com/boddenberg/homi-brain-go/internal/port"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var coachTracer = otel.Tracer("service/coach")

const (
	tokenIssuer     = "homi-brain"
	tokenTypeAccess = "access"
)

// CoachService signs coaches in and validates their access tokens.
type CoachService struct {
	store     port.CoachStore
	jwtSecret []byte
	accessTTL time.Duration
	logger    *zap.Logger
}

// NewCoachService creates a new coach service.
func NewCoachService(store port.CoachStore, jwtSecret string, accessTTL time.Duration, logger *zap.Logger) *CoachService {
	return &CoachService{
		store:     store,
		jwtSecret: []byte(jwtSecret),
		accessTTL: accessTTL,
		logger:    logger,
	}
}

// ============================================================
// Sign in — POST /v1/coach/signin
// ============================================================

func (s *CoachService) SignIn(ctx context.Context, req *domain.CoachSignInRequest) (*domain.CoachSignInResponse, error) {
	ctx, span := coachTracer.Start(ctx, "CoachService.SignIn")
	defer span.End()

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, invalid("email", "email and password are required")
	}

	coach, err := s.store.GetCoachByEmail(ctx, email)
	if err != nil {
		var nf *domain.ErrNotFound
		if errors.As(err, &nf) {
			s.logger.Warn("coach sign-in: unknown email")
			return nil, &domain.ErrUnauthorized{Message: "invalid credentials"}
		}
		return nil, fmt.Errorf("get coach: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(coach.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("coach sign-in: wrong password", zap.String("coach_id", coach.ID))
		return nil, &domain.ErrUnauthorized{Message: "invalid credentials"}
	}

	token, err := s.signAccessToken(coach.ID)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	s.logger.Info("coach signed in", zap.String("coach_id", coach.ID))
	return &domain.CoachSignInResponse{
		AccessToken: token,
		ExpiresIn:   int(s.accessTTL.Seconds()),
		Coach:       coach,
	}, nil
}

// JWTClaims are the claims carried by coach access tokens.
type JWTClaims struct {
	Sub  string `json:"sub"`
	Type string `json:"type"`
	jwt.RegisteredClaims
}

func (s *CoachService) ValidateAccessToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, &domain.ErrUnauthorized{Message: "invalid or expired token"}
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, &domain.ErrUnauthorized{Message: "invalid token"}
	}
	if claims.Type != tokenTypeAccess {
		return nil, &domain.ErrUnauthorized{Message: "invalid token type"}
	}
	return claims, nil
}

func (s *CoachService) signAccessToken(coachID string) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		Sub:  coachID,
		Type: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			Issuer:    tokenIssuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}
