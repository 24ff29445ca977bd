package middleware

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"time"

	"quillfeed/internal/cache"
)

// cacheRecorder buffers a response so it can be both served and stored.
type cacheRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (rec *cacheRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *cacheRecorder) Write(p []byte) (int, error) {
	rec.body.Write(p)
	return rec.ResponseWriter.Write(p)
}

// CachePage serves GET responses from the page cache for the given TTL.
// Only 200 responses are stored, keyed by path and query so each listing
// page caches separately. The cache expires by timeout alone; a freshly
// created post may not appear until the window elapses.
func CachePage(pages cache.PageCache, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if pages == nil || r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := r.URL.Path
			if r.URL.RawQuery != "" {
				key += "?" + r.URL.RawQuery
			}

			if page, found, err := pages.Get(r.Context(), key); err == nil && found {
				w.Header().Set("Content-Type", page.ContentType)
				w.WriteHeader(http.StatusOK)
				if _, err := w.Write(page.Body); err != nil {
					log.Printf("[PageCache] write cached page: key=%s err=%v", key, err)
				}
				return
			}

			rec := &cacheRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status != http.StatusOK {
				return
			}

			stored := &cache.CachedPage{
				ContentType: rec.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
			}
			// The request context may be done once the response is written;
			// store with a short independent deadline.
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := pages.Set(ctx, key, stored, ttl); err != nil {
				log.Printf("[PageCache] store page: key=%s err=%v", key, err)
			}
		})
	}
}
