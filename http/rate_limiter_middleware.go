package http

import (
	"net"
	"net/http"
	"strings"
)

// RateLimitMiddleware limits requests per dealer, or per client IP when the
// request names no dealer.
func RateLimitMiddleware(
	limiter *RateLimiter,
	next http.Handler,
) http.Handler {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		if !limiter.Allow(limitKey(r)) {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func limitKey(r *http.Request) string {
	if dealer := strings.TrimSpace(r.Header.Get(DealerHeader)); dealer != "" {
		return "dealer:" + dealer
	}
	if dealer := r.PathValue("dealer"); dealer != "" {
		return "dealer:" + dealer
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return "ip:" + ip
}
