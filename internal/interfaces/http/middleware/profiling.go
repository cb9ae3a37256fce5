package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/solarqc/coc-backend/internal/infrastructure/telemetry"
)

// Profiling label keys
const (
	ProfilingLabelRoute    = "route"
	ProfilingLabelMethod   = "method"
	ProfilingLabelResource = "resource"
)

// ProfilingConfig controls which requests get pyroscope labels
type ProfilingConfig struct {
	Enabled          bool
	SkipPaths        []string
	SkipPathPrefixes []string
}

// DefaultProfilingConfig skips probes and docs
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:          true,
		SkipPaths:        []string{"/health", "/api/v1/ping"},
		SkipPathPrefixes: []string{"/swagger"},
	}
}

// Profiling attaches route, method and resource labels to profiling samples
// taken while the request is handled.
func Profiling(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		if skipProfiling(cfg, c.Request.URL.Path) {
			c.Next()
			return
		}

		telemetry.WithProfilingLabels(c.Request.Context(), profilingLabels(c), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func skipProfiling(cfg ProfilingConfig, path string) bool {
	for _, p := range cfg.SkipPaths {
		if path == p {
			return true
		}
	}
	for _, prefix := range cfg.SkipPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func profilingLabels(c *gin.Context) map[string]string {
	route := c.FullPath()
	return map[string]string{
		ProfilingLabelMethod:   c.Request.Method,
		ProfilingLabelRoute:    route,
		ProfilingLabelResource: resourceFromRoute(route),
	}
}

// resourceFromRoute picks the first static segment after the API prefix,
// e.g. "/api/v1/coc/lots/:id" -> "coc".
func resourceFromRoute(route string) string {
	for _, part := range strings.Split(route, "/") {
		if part == "" || part == "api" || isVersionSegment(part) {
			continue
		}
		if strings.HasPrefix(part, ":") || strings.HasPrefix(part, "*") {
			continue
		}
		return part
	}
	return ""
}

// isVersionSegment reports whether s looks like v1, v2, ...
func isVersionSegment(s string) bool {
	if len(s) < 2 || (s[0] != 'v' && s[0] != 'V') {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
