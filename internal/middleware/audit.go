// Tiendat | 2026
// audit.go

package middleware

import (
	"net"
	"net/http"

	"github.com/Tiendat2703/bleen-private/internal/audit"
)

// AuditInfo stashes the client address and user agent in the request context
// so services can stamp them onto audit events without seeing *http.Request.
func AuditInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := audit.WithRequestInfo(r.Context(), audit.RequestInfo{
			IPAddress: clientIP(r),
			UserAgent: r.UserAgent(),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientIP strips the port from RemoteAddr. RealIP runs earlier in the chain,
// so RemoteAddr already reflects X-Forwarded-For when a proxy set it.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
