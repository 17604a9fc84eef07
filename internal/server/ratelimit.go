package server

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// clientLimiter hands out one token bucket per client address.
type clientLimiter struct {
	clients map[string]*rate.Limiter
	mu      sync.Mutex
	r       rate.Limit
	b       int
}

func newClientLimiter(r rate.Limit, b int) *clientLimiter {
	return &clientLimiter{
		clients: make(map[string]*rate.Limiter),
		r:       r,
		b:       b,
	}
}

func (l *clientLimiter) get(client string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.clients[client]
	if !ok {
		limiter = rate.NewLimiter(l.r, l.b)
		l.clients[client] = limiter
	}
	return limiter
}

// allow reports whether the client sending r may run another solve now.
func (l *clientLimiter) allow(r *http.Request) bool {
	return l.get(clientAddr(r)).Allow()
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
