package middlewares

import (
	"strconv"

	"github.com/buildwithgo/apidef"
)

type SecureConfig struct {
	ContentTypeOptions string
	FrameOptions       string
	ReferrerPolicy     string
	// ContentSecurityPolicy is sent as is when not empty.
	ContentSecurityPolicy string
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
}

func DefaultSecureConfig() SecureConfig {
	return SecureConfig{
		ContentTypeOptions: "nosniff",
		FrameOptions:       "SAMEORIGIN",
		ReferrerPolicy:     "no-referrer",
		HSTSMaxAge:         31536000,
	}
}

// DocsContentSecurityPolicy allows the inline stylesheet of the docs page
// and scripts from scriptSrc, typically the highlighter origin.
func DocsContentSecurityPolicy(scriptSrc string) string {
	policy := "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:"
	if scriptSrc != "" {
		policy += "; script-src 'self' " + scriptSrc
	}
	return policy
}

// Secure sets security headers on every response. HSTS is only sent over
// TLS or behind a proxy reporting https.
func Secure(config ...SecureConfig) apidef.Middleware {
	cfg := DefaultSecureConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	return func(next apidef.Handler) apidef.Handler {
		return func(c *apidef.Context) error {
			h := c.Writer.Header()
			if cfg.ContentTypeOptions != "" {
				h.Set("X-Content-Type-Options", cfg.ContentTypeOptions)
			}
			if cfg.FrameOptions != "" {
				h.Set("X-Frame-Options", cfg.FrameOptions)
			}
			if cfg.ReferrerPolicy != "" {
				h.Set("Referrer-Policy", cfg.ReferrerPolicy)
			}
			if cfg.ContentSecurityPolicy != "" {
				h.Set("Content-Security-Policy", cfg.ContentSecurityPolicy)
			}

			if cfg.HSTSMaxAge > 0 && (c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https") {
				val := "max-age=" + strconv.Itoa(cfg.HSTSMaxAge)
				if cfg.HSTSIncludeSubdomains {
					val += "; includeSubDomains"
				}
				h.Set("Strict-Transport-Security", val)
			}
			return next(c)
		}
	}
}
