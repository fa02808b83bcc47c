package api

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rpupo63/consultancy-site-backend/config"
	"github.com/rpupo63/consultancy-site-backend/errs"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipRateLimiter keeps one token bucket per client IP. Buckets idle for
// longer than ttl are swept.
type ipRateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	every     time.Duration
	burst     int
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
	responder Responder
}

// newIPRateLimiter allows burst requests, refilled at one per every.
func newIPRateLimiter(every time.Duration, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		visitors:  make(map[string]*visitor),
		every:     every,
		burst:     burst,
		ttl:       10 * time.Minute,
		now:       time.Now,
		responder: NewResponder(log.With().Str("handlerName", "rateLimiter").Logger()),
	}
}

func (l *ipRateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > l.ttl {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) > l.ttl {
				delete(l.visitors, k)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(l.every), l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

func (l *ipRateLimiter) limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientIP(r)) {
			w.Header().Set("Retry-After", strconv.Itoa(int(l.every.Seconds())+1))
			l.responder.WriteError(w, errs.NewRateLimitedError())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP keys the limiter. RemoteAddr is the TCP peer unless realIP
// replaced it with the client address a trusted proxy reported.
func clientIP(r *http.Request) string {
	return hostOf(r.RemoteAddr)
}

func hostOf(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

// trustedProxies are the peers whose X-Forwarded-For header is believed
type trustedProxies []netip.Prefix

// parseTrustedProxies reads TRUSTED_PROXIES, a comma separated list of
// addresses or CIDR prefixes.
func parseTrustedProxies(c map[string]string) (trustedProxies, error) {
	var proxies trustedProxies
	for _, raw := range config.GetStrings(c, "TRUSTED_PROXIES") {
		if strings.Contains(raw, "/") {
			prefix, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q: %w", raw, err)
			}
			proxies = append(proxies, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q: %w", raw, err)
		}
		addr = addr.Unmap()
		proxies = append(proxies, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return proxies, nil
}

func (p trustedProxies) contains(host string) bool {
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range p {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// clientAddr is the peer itself, or for a trusted peer the nearest
// X-Forwarded-For hop that is not a trusted proxy. Hops further left were
// written by the client and are ignored, as are X-Real-IP and True-Client-IP.
func (p trustedProxies) clientAddr(r *http.Request) string {
	peer := hostOf(r.RemoteAddr)
	if !p.contains(peer) {
		return peer
	}
	hops := strings.Split(strings.Join(r.Header.Values("X-Forwarded-For"), ","), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" || p.contains(hop) {
			continue
		}
		if _, err := netip.ParseAddr(hop); err != nil {
			return peer
		}
		return hop
	}
	return peer
}

// realIP rewrites RemoteAddr to the client address for requests relayed by
// a trusted proxy and leaves every other request alone.
func realIP(proxies trustedProxies) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(proxies) > 0 {
				r.RemoteAddr = proxies.clientAddr(r)
			}
			next.ServeHTTP(w, r)
		})
	}
}
