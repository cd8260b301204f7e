package http

import (
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows credentialed calls from the exact origins in
// allowedOrigins, plus any subdomain of the apex domains in
// allowedSuffixes. Everything else is rejected at the transport layer.
func CORSMiddleware(allowedOrigins, allowedSuffixes []string) gin.HandlerFunc {
	exact := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		exact[strings.TrimRight(strings.TrimSpace(origin), "/")] = struct{}{}
	}

	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
		AllowOriginFunc: func(origin string) bool {
			if _, ok := exact[strings.TrimRight(origin, "/")]; ok {
				return true
			}
			return matchesSuffix(origin, allowedSuffixes)
		},
	}

	return cors.New(cfg)
}

// matchesSuffix reports whether origin's host is one of the apex domains or
// a subdomain of one.
func matchesSuffix(origin string, suffixes []string) bool {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Hostname() == "" {
		return false
	}
	host := strings.ToLower(parsed.Hostname())

	for _, suffix := range suffixes {
		suffix = strings.ToLower(strings.TrimSpace(suffix))
		if suffix == "" {
			continue
		}
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return true
		}
	}
	return false
}
