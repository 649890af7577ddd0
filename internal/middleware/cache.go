package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/medetk/storefront/pkg/logger"
)

// CacheConfig holds response cache configuration
type CacheConfig struct {
	TTL time.Duration
	// PathPrefixes limits caching to matching paths. Cart endpoints must
	// never be cached: every reader re-derives from storage.
	PathPrefixes []string
}

// DefaultCacheConfig returns the default response cache configuration
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		TTL:          1 * time.Minute,
		PathPrefixes: []string{"/api/products"},
	}
}

func (c CacheConfig) cacheable(path string) bool {
	for _, prefix := range c.PathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// cacheRecorder buffers a response so it can be stored after serving
type cacheRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *cacheRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *cacheRecorder) Write(p []byte) (int, error) {
	r.body.Write(p)
	return r.ResponseWriter.Write(p)
}

// ResponseCache caches successful GET responses in Redis. Listing fetches
// for the same parameters within the TTL are served from cache, which also
// absorbs keystroke bursts from search-as-you-type clients.
func ResponseCache(redisClient *redis.Client, config CacheConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if redisClient == nil || r.Method != http.MethodGet || !config.cacheable(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			key := cacheKey(r)

			cached, err := redisClient.Get(r.Context(), key).Bytes()
			if err == nil && len(cached) > 0 {
				logger.Debug(r.Context()).Str("path", r.URL.Path).Msg("Cache hit")
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Cache", "HIT")
				w.Write(cached)
				return
			}

			rec := &cacheRecorder{ResponseWriter: w, status: http.StatusOK}
			rec.Header().Set("X-Cache", "MISS")
			next.ServeHTTP(rec, r)

			if rec.status == http.StatusOK && rec.body.Len() > 0 {
				if err := redisClient.Set(r.Context(), key, rec.body.Bytes(), config.TTL).Err(); err != nil {
					logger.Warn(r.Context()).Err(err).Msg("Failed to store cached response")
				}
			}
		})
	}
}

func cacheKey(r *http.Request) string {
	sum := sha256.Sum256([]byte(r.Method + ":" + r.URL.RequestURI()))
	return "storefront:cache:" + hex.EncodeToString(sum[:])
}
