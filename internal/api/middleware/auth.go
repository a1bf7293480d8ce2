package middleware

import (
	"errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/imagegallery/gallery/internal/pkg/token"
)

// UsernameKey is the echo context key holding the verified username.
const UsernameKey = "username"

const claimsKey = "claims"

// TokenParser verifies a raw bearer token.
type TokenParser interface {
	Parse(raw string) (*token.Claims, error)
}

// ErrorResponder writes an authentication failure. The default returns an
// echo.HTTPError so the central error handler renders it.
type ErrorResponder func(c echo.Context, code int, msg string) error

// Auth validates the bearer token with echo-jwt and stores the username
// claim under UsernameKey. A missing or malformed Authorization header is a
// 401; a token that fails verification (bad signature, expired) is a 403.
func Auth(parser TokenParser) echo.MiddlewareFunc {
	return AuthWithResponder(parser, func(_ echo.Context, code int, msg string) error {
		return echo.NewHTTPError(code, msg)
	})
}

// AuthWithResponder is Auth with a custom failure envelope.
func AuthWithResponder(parser TokenParser, respond ErrorResponder) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  claimsKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(_ echo.Context, raw string) (interface{}, error) {
			return parser.Parse(raw)
		},
		SuccessHandler: func(c echo.Context) {
			if claims, ok := c.Get(claimsKey).(*token.Claims); ok {
				c.Set(UsernameKey, claims.Username)
			}
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if rejectedToken(err) {
				return respond(c, http.StatusForbidden, "Invalid or expired token")
			}
			return respond(c, http.StatusUnauthorized, "Unauthorized")
		},
	})
}

// rejectedToken reports whether a token was present but failed verification.
// echo-jwt wraps ParseTokenFunc errors in TokenParsingError; TokenError is
// what its built-in parser returns.
func rejectedToken(err error) bool {
	var parseErr *echojwt.TokenParsingError
	var tokenErr *echojwt.TokenError
	return errors.As(err, &parseErr) || errors.As(err, &tokenErr)
}
