// Package netcheck answers point-in-time reachability questions.
package netcheck

import (
	"context"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

const defaultProbeTimeout = 2 * time.Second

// Oracle reports whether the store API is reachable right now.
type Oracle interface {
	Reachable(ctx context.Context) bool
}

// Static always gives the same answer. Static(false) forces offline mode.
type Static bool

// Reachable implements Oracle.
func (s Static) Reachable(context.Context) bool {
	return bool(s)
}

// Func adapts a plain function to Oracle.
type Func func(ctx context.Context) bool

// Reachable implements Oracle.
func (f Func) Reachable(ctx context.Context) bool {
	return f(ctx)
}

// Probe dials the API host over TCP. A completed handshake counts as
// reachable; the connection is closed immediately.
type Probe struct {
	addr    string
	timeout time.Duration
	dial    func(ctx context.Context, network, address string) (net.Conn, error)
}

// NewProbe derives host:port from the API base URL.
func NewProbe(baseURL string, timeout time.Duration) (*Probe, error) {
	addr, err := dialAddress(baseURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	d := &net.Dialer{}
	return &Probe{addr: addr, timeout: timeout, dial: d.DialContext}, nil
}

// Addr returns the host:port being probed.
func (p *Probe) Addr() string {
	return p.addr
}

// Reachable implements Oracle.
func (p *Probe) Reachable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	conn, err := p.dial(ctx, "tcp", p.addr)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

func dialAddress(baseURL string) (string, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return "", errors.New("api url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", errors.Wrapf(err, "parse api url %q", baseURL)
	}
	host := u.Hostname()
	if host == "" {
		return "", errors.Errorf("api url %q has no host", baseURL)
	}
	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "http":
			port = "80"
		default:
			port = "443"
		}
	}
	return net.JoinHostPort(host, port), nil
}
