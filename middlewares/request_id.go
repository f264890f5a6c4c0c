package middlewares

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/buildwithgo/apidef"
)

const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
)

// RequestID propagates an incoming X-Request-ID or generates one, and
// stores it in the context under RequestIDKey.
func RequestID() apidef.Middleware {
	return func(next apidef.Handler) apidef.Handler {
		return func(c *apidef.Context) error {
			rid := c.GetHeader(RequestIDHeader)
			if rid == "" {
				id := make([]byte, 16)
				rand.Read(id)
				rid = hex.EncodeToString(id)
			}
			c.SetHeader(RequestIDHeader, rid)
			c.Set(RequestIDKey, rid)
			return next(c)
		}
	}
}
