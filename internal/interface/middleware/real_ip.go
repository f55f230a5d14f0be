package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// TrustProxies limits which peers may set X-Forwarded-For and X-Real-IP.
// platform optionally trusts a CDN header: "cloudflare" or "google". With no
// proxies and no platform the TCP peer address is the client IP.
func TrustProxies(engine *gin.Engine, proxies []string, platform string) error {
	switch strings.ToLower(platform) {
	case "":
		engine.TrustedPlatform = ""
	case "cloudflare":
		engine.TrustedPlatform = gin.PlatformCloudflare
	case "google":
		engine.TrustedPlatform = gin.PlatformGoogleAppEngine
	default:
		return fmt.Errorf("unsupported trusted platform %q", platform)
	}
	return engine.SetTrustedProxies(proxies)
}

// RealIP stores the client IP under "real_ip" for rate-limit keys and logs.
// Forwarding headers only count when TrustProxies allowed them.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("real_ip", c.ClientIP())
		c.Next()
	}
}
