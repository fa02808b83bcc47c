package api

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rpupo63/consultancy-site-backend/config"
	"github.com/rpupo63/consultancy-site-backend/errs"
	"github.com/rpupo63/consultancy-site-backend/models"
	"github.com/rs/zerolog/log"
)

const tokenTTL = 2 * time.Hour

// Claims is the payload of an admin access token
type Claims struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type tokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// newTokenIssuer reads JWT_SECRET. Production refuses to start without it;
// elsewhere a random secret is generated, so tokens die with the process.
func newTokenIssuer(cfg map[string]string) (tokenIssuer, error) {
	secret := config.GetString(cfg, "JWT_SECRET", "")
	if secret == "" {
		if config.IsProduction(cfg) {
			return tokenIssuer{}, fmt.Errorf("JWT_SECRET must be set in production")
		}
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return tokenIssuer{}, fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		log.Warn().Msg("JWT_SECRET is not set, using a random secret for this process")
		return tokenIssuer{secret: buf, ttl: tokenTTL, now: time.Now}, nil
	}
	if len(secret) < 32 {
		log.Warn().Msg("JWT_SECRET is shorter than 32 bytes")
	}
	return tokenIssuer{secret: []byte(secret), ttl: tokenTTL, now: time.Now}, nil
}

// issue signs a token for user and returns it with its expiry
func (t tokenIssuer) issue(user models.User) (string, time.Time, error) {
	now := t.now()
	expiresAt := now.Add(t.ttl)
	claims := Claims{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// parse verifies the signature and expiry and requires id and username
func (t tokenIssuer) parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errs.NewExpiredTokenError()
		}
		return nil, errs.NewInvalidTokenError()
	}
	if claims.ID <= 0 || claims.Username == "" {
		return nil, errs.NewInvalidTokenError()
	}
	return claims, nil
}
