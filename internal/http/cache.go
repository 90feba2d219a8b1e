package http

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/cache"
)

const (
	summaryCacheSize = 512
	summaryCacheTTL  = 30 * time.Second
)

type cachedResponse struct {
	status      int
	contentType string
	body        []byte
}

func newSummaryCache() *cache.LRU[cachedResponse] {
	return cache.NewLRU[cachedResponse](summaryCacheSize, summaryCacheTTL)
}

// summaryCachePaths are the aggregate GET endpoints worth memoizing.
// Plain CRUD reads are cheap enough to hit the store directly.
var summaryCachePaths = []string{
	"/api/v1/dashboard",
	"/api/v1/subscriptions/summary",
	"/api/v1/payments/summary",
	"/api/v1/incomes/summary",
	"/api/v1/incomes/by-source",
	"/api/v1/incomes/monthly",
}

func cacheableSummaryPath(path string) bool {
	for _, p := range summaryCachePaths {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

func summaryCacheKey(userID int64, r *http.Request) string {
	return strconv.FormatInt(userID, 10) + "|" + r.URL.Path + "?" + r.URL.RawQuery
}

func summaryCacheUserPrefix(userID int64) string {
	return strconv.FormatInt(userID, 10) + "|"
}

type bufferingRecorder struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (b *bufferingRecorder) WriteHeader(status int) {
	b.status = status
	b.ResponseWriter.WriteHeader(status)
}

func (b *bufferingRecorder) Write(p []byte) (int, error) {
	b.buf.Write(p)
	return b.ResponseWriter.Write(p)
}

// summaryCacheMiddleware serves cached aggregate responses and drops a
// user's entries after every write. Writes that bypass HTTP, such as
// the sweep worker, are covered by the TTL alone.
func (s *Server) summaryCacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := userID(r.Context())

		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			s.summaries.DeletePrefix(summaryCacheUserPrefix(uid))
			return
		}

		if !cacheableSummaryPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		key := summaryCacheKey(uid, r)
		if hit, ok := s.summaries.Get(key); ok {
			w.Header().Set("Content-Type", hit.contentType)
			w.WriteHeader(hit.status)
			_, _ = w.Write(hit.body)
			return
		}

		rec := &bufferingRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		if rec.status == http.StatusOK {
			s.summaries.Set(key, cachedResponse{
				status:      rec.status,
				contentType: rec.Header().Get("Content-Type"),
				body:        rec.buf.Bytes(),
			})
		}
	})
}
