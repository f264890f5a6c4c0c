package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/buildwithgo/apidef"
)

// ClaimsKey is the default context key holding the verified jwt.MapClaims.
const ClaimsKey = "claims"

// JWTConfig holds the configuration for JWT middleware
type JWTConfig struct {
	// Secret key for HMAC signing
	Secret []byte

	// TokenLookup is "header:<name>", "query:<name>" or "cookie:<name>".
	TokenLookup string

	// Auth scheme for header lookup
	AuthScheme string

	// ContextKey is where the claims are stored with Context.Set.
	ContextKey string

	// ErrorHandler turns a token failure into the handler error.
	ErrorHandler func(*apidef.Context, error) error

	// Skipper skips the middleware for matching requests.
	Skipper func(*apidef.Context) bool

	SigningMethod jwt.SigningMethod
}

// JWTOption is a function type for configuring JWT middleware
type JWTOption func(*JWTConfig)

// DefaultJWTConfig returns a default JWT configuration
func DefaultJWTConfig() *JWTConfig {
	return &JWTConfig{
		TokenLookup:   "header:Authorization",
		AuthScheme:    "Bearer",
		ContextKey:    ClaimsKey,
		SigningMethod: jwt.SigningMethodHS256,
		ErrorHandler: func(c *apidef.Context, err error) error {
			return apidef.NewHTTPError(http.StatusUnauthorized, "unauthorized").SetInternal(err)
		},
		Skipper: func(c *apidef.Context) bool {
			return false
		},
	}
}

// WithSecret sets the HMAC secret
func WithSecret(secret string) JWTOption {
	return func(config *JWTConfig) {
		config.Secret = []byte(secret)
		config.SigningMethod = jwt.SigningMethodHS256
	}
}

// WithTokenLookup sets where to look for the token
func WithTokenLookup(lookup string) JWTOption {
	return func(config *JWTConfig) {
		config.TokenLookup = lookup
	}
}

// WithAuthScheme sets the authorization scheme
func WithAuthScheme(scheme string) JWTOption {
	return func(config *JWTConfig) {
		config.AuthScheme = scheme
	}
}

// WithContextKey sets the context key for storing claims
func WithContextKey(key string) JWTOption {
	return func(config *JWTConfig) {
		config.ContextKey = key
	}
}

// WithErrorHandler sets custom error handler
func WithErrorHandler(handler func(*apidef.Context, error) error) JWTOption {
	return func(config *JWTConfig) {
		config.ErrorHandler = handler
	}
}

// WithSkipper sets the skipper function
func WithSkipper(skipper func(*apidef.Context) bool) JWTOption {
	return func(config *JWTConfig) {
		config.Skipper = skipper
	}
}

// JWT creates a new JWT middleware with the given options
func JWT(opts ...JWTOption) apidef.Middleware {
	config := DefaultJWTConfig()
	for _, opt := range opts {
		opt(config)
	}

	return func(next apidef.Handler) apidef.Handler {
		return func(c *apidef.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			token, err := extractToken(c, config)
			if err != nil {
				return config.ErrorHandler(c, err)
			}

			parsedToken, err := parseToken(token, config)
			if err != nil {
				return config.ErrorHandler(c, err)
			}

			if claims, ok := parsedToken.Claims.(jwt.MapClaims); ok {
				c.Set(config.ContextKey, claims)
			}
			return next(c)
		}
	}
}

// Claims returns the claims stored by JWT under ClaimsKey.
func Claims(c *apidef.Context) (jwt.MapClaims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(jwt.MapClaims)
	return claims, ok
}

func extractToken(c *apidef.Context, config *JWTConfig) (string, error) {
	method, key, ok := strings.Cut(config.TokenLookup, ":")
	if !ok {
		return "", errors.New("invalid token lookup format")
	}

	switch method {
	case "header":
		auth := c.GetHeader(key)
		if auth == "" {
			return "", errors.New("missing authorization header")
		}
		if config.AuthScheme != "" {
			prefix := config.AuthScheme + " "
			if !strings.HasPrefix(auth, prefix) {
				return "", fmt.Errorf("invalid authorization scheme, expected %s", config.AuthScheme)
			}
			return strings.TrimPrefix(auth, prefix), nil
		}
		return auth, nil

	case "query":
		token := c.QueryParam(key)
		if token == "" {
			return "", errors.New("missing token in query parameters")
		}
		return token, nil

	case "cookie":
		cookie, err := c.GetCookie(key)
		if err != nil {
			return "", errors.New("missing token in cookie")
		}
		return cookie.Value, nil

	default:
		return "", errors.New("unsupported token lookup method")
	}
}

func parseToken(tokenString string, config *JWTConfig) (*jwt.Token, error) {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		if token.Method != config.SigningMethod {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		if config.Secret == nil {
			return nil, errors.New("HMAC secret not configured")
		}
		return config.Secret, nil
	}

	token, err := jwt.Parse(tokenString, keyFunc, jwt.WithIssuedAt())
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return token, nil
}

// CreateToken signs claims with the config's HMAC secret. An "exp" claim
// is added from ttl when ttl is positive and none is set.
func CreateToken(claims jwt.MapClaims, ttl time.Duration, opts ...JWTOption) (string, error) {
	config := DefaultJWTConfig()
	for _, opt := range opts {
		opt(config)
	}
	if config.Secret == nil {
		return "", errors.New("HMAC secret not configured")
	}
	if _, ok := claims["exp"]; !ok && ttl > 0 {
		claims["exp"] = time.Now().Add(ttl).Unix()
	}
	return jwt.NewWithClaims(config.SigningMethod, claims).SignedString(config.Secret)
}
