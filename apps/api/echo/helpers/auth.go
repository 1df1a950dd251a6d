package helpers

import (
	"context"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/profile"
)

const jwtContextKey = "identityToken"

// Claims represents the authorization claims transmitted via a JWT.
// Subject carries the identity ID.
type Claims struct {
	jwt.StandardClaims
	OriginalIssuedAt int64  `json:"oriat,omitempty"`
	Name             string `json:"name,omitempty"`
	Role             string `json:"role,omitempty"`
}

// JWTConfig is the JWT auth middleware config.
func JWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    jwtContextKey,
		Claims:        new(Claims),
	}
}

func GetIdentityClaims(conf *core.Config, ident profile.Identity, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	var oriat int64
	if len(origIat) > 0 {
		oriat = origIat[0]
	} else {
		oriat = nownix
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   ident.ID,
			Audience:  "Classroom",
			ExpiresAt: now.Add(conf.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OriginalIssuedAt: oriat,
		Name:             ident.Name,
		Role:             ident.Role,
	}
}

// Authenticate checks the provided credentials against the identity backend.
func Authenticate(ctx context.Context, conf *core.Config, loginKey, pwd string, svc *profile.Service) (*Claims, error) {
	ident, err := svc.Authenticate(ctx, loginKey, pwd)
	if err != nil {
		return nil, errAuthenticationFailed
	}
	return GetIdentityClaims(conf, ident), nil
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	cfg := JWTConfig(conf)
	method := jwt.GetSigningMethod(cfg.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(cfg.SigningKey.([]byte))
	if err != nil {
		return "", errTokenSigningFailed
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(jwtContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}
