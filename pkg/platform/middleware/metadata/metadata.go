// Package metadata resolves the client address and user agent for each request.
// The address is the rate-limit key for login, so forwarding headers are only
// believed when the direct peer is a configured proxy.
package metadata

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"linkboard/pkg/requestcontext"
)

// MaxXFFHeaderLength bounds X-Forwarded-For and X-Real-IP values.
const MaxXFFHeaderLength = 500

// Config lists the proxies allowed to set forwarding headers. Empty means none.
type Config struct {
	TrustedProxies []netip.Prefix
}

// ParseTrustedProxies accepts CIDRs or bare addresses, e.g. "10.0.0.0/8, 127.0.0.1".
func ParseTrustedProxies(list string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, raw := range strings.Split(list, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.Contains(raw, "/") {
			p, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", raw, err)
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", raw, err)
		}
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

type Middleware struct {
	config Config
}

func NewMiddleware(cfg Config) *Middleware {
	return &Middleware{config: cfg}
}

// Handler stores the client IP and User-Agent in the request context.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithClientMetadata(r.Context(), m.clientIP(r), r.Header.Get("User-Agent"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) clientIP(r *http.Request) string {
	remoteIP := parseRemoteAddr(r.RemoteAddr)
	if remoteIP == "" {
		return "unknown"
	}
	if !m.isTrustedProxy(remoteIP) {
		return remoteIP
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if len(xff) > MaxXFFHeaderLength {
			return remoteIP
		}
		first, _, _ := strings.Cut(xff, ",")
		return validOr(strings.TrimSpace(first), remoteIP)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" && len(xri) <= MaxXFFHeaderLength {
		return validOr(strings.TrimSpace(xri), remoteIP)
	}
	return remoteIP
}

func validOr(candidate, fallback string) string {
	addr, err := netip.ParseAddr(candidate)
	if err != nil {
		return fallback
	}
	return addr.Unmap().String()
}

func (m *Middleware) isTrustedProxy(ip string) bool {
	if len(m.config.TrustedProxies) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range m.config.TrustedProxies {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// parseRemoteAddr strips the port from host:port, handling bracketed IPv6.
func parseRemoteAddr(remoteAddr string) string {
	if remoteAddr == "" {
		return ""
	}
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return strings.Trim(remoteAddr, "[]")
	}
	return host
}
