package http

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	actorContextKey = "orderflow.actor"
	tokenContextKey = "orderflow.token"
)

// ErrSecretIsRequired is returned when the authenticator has no signing secret.
var ErrSecretIsRequired = errors.New("jwt secret is required")

// Claims are the access token claims. UserID and Role name the caller; the registered
// claims carry jti and exp.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
	Role   string `json:"role"`
}

// Token identifies a validated access token for revocation.
type Token struct {
	ID        string
	ExpiresAt *time.Time
}

// Authenticator validates HS256 bearer tokens and checks them against the
// revocation store.
type Authenticator struct {
	secret      []byte
	revocations ports.TokenRevocationStore
	fallbackTTL time.Duration
	now         func() time.Time
	logger      *zap.Logger
}

// NewAuthenticator builds an authenticator. fallbackTTL is how long a revocation of a
// token without exp is kept.
func NewAuthenticator(
	secret string,
	revocations ports.TokenRevocationStore,
	fallbackTTL time.Duration,
	logger *zap.Logger,
) (*Authenticator, error) {
	if secret == "" {
		return nil, ErrSecretIsRequired
	}
	if revocations == nil {
		return nil, errors.New("token revocation store is required")
	}
	if fallbackTTL <= 0 {
		fallbackTTL = 24 * time.Hour
	}
	return &Authenticator{
		secret:      []byte(secret),
		revocations: revocations,
		fallbackTTL: fallbackTTL,
		now:         time.Now,
		logger:      logger.With(zap.String("component", "auth")),
	}, nil
}

// Middleware rejects requests without a valid, unrevoked bearer token and stores the
// caller as a kernel.Actor in the echo context.
func (a *Authenticator) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			raw, err := bearerToken(ctx.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return unauthorized(err)
			}

			actor, token, err := a.Authenticate(ctx.Request().Context(), raw)
			if err != nil {
				if errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrRevokedToken) {
					return unauthorized(err)
				}
				a.logger.Error("token revocation check failed", zap.Error(err))
				return echo.NewHTTPError(http.StatusInternalServerError, "token revocation check failed")
			}

			ctx.Set(actorContextKey, actor)
			ctx.Set(tokenContextKey, token)
			return next(ctx)
		}
	}
}

// Authenticate parses raw and returns the caller it names.
func (a *Authenticator) Authenticate(ctx context.Context, raw string) (kernel.Actor, Token, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now))
	if err != nil {
		return kernel.Actor{}, Token{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return kernel.Actor{}, Token{}, ErrInvalidToken
	}

	role, err := kernel.ParseRole(claims.Role)
	if err != nil {
		return kernel.Actor{}, Token{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	actor, err := kernel.NewActor(claims.UserID, role)
	if err != nil {
		return kernel.Actor{}, Token{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	token := Token{ID: tokenID(claims.RegisteredClaims.ID, raw)}
	if claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time
		token.ExpiresAt = &exp
	}

	revoked, err := a.revocations.IsRevoked(ctx, token.ID)
	if err != nil {
		return kernel.Actor{}, Token{}, err
	}
	if revoked {
		return kernel.Actor{}, Token{}, ErrRevokedToken
	}

	return actor, token, nil
}

// Revoke stores token until it would have expired on its own.
func (a *Authenticator) Revoke(ctx context.Context, token Token) error {
	ttl := a.fallbackTTL
	if token.ExpiresAt != nil {
		ttl = token.ExpiresAt.Sub(a.now())
	}
	if ttl <= 0 {
		return nil
	}
	if err := a.revocations.Revoke(ctx, token.ID, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	a.logger.Info("token revoked", zap.Duration("ttl", ttl))
	return nil
}

// tokenID prefers the jti claim and falls back to a digest of the raw token.
func tokenID(jti, raw string) string {
	if jti != "" {
		return jti
	}
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("%w: expected 'Bearer <token>'", ErrInvalidToken)
	}
	return strings.TrimSpace(token), nil
}

func unauthorized(err error) error {
	return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
}

func actorFrom(ctx echo.Context) (kernel.Actor, error) {
	actor, ok := ctx.Get(actorContextKey).(kernel.Actor)
	if !ok {
		return kernel.Actor{}, ErrMissingToken
	}
	return actor, nil
}

func tokenFrom(ctx echo.Context) (Token, error) {
	token, ok := ctx.Get(tokenContextKey).(Token)
	if !ok {
		return Token{}, ErrMissingToken
	}
	return token, nil
}
