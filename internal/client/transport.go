package client

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/proxy"
)

// credentialTransport attaches the stored bearer token to outgoing requests.
// Cookies are handled by the client's jar; both are only active when enabled.
type credentialTransport struct {
	next    http.RoundTripper
	enabled bool

	mu     sync.RWMutex
	bearer string
}

func (t *credentialTransport) setBearer(tok string) {
	if !t.enabled {
		return
	}
	t.mu.Lock()
	t.bearer = tok
	t.mu.Unlock()
}

func (t *credentialTransport) token() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.bearer
}

func (t *credentialTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !t.enabled {
		return t.next.RoundTrip(req)
	}
	tok := t.token()
	if tok == "" || req.Header.Get("Authorization") != "" {
		return t.next.RoundTrip(req)
	}
	// RoundTrippers must not modify the caller's request.
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", "Bearer "+tok)
	return t.next.RoundTrip(r)
}

// socks5Transport returns an http.Transport dialing through a SOCKS5 proxy.
// proxyAddr is "host:port" or "host:port:user:pass".
func socks5Transport(proxyAddr string) (*http.Transport, error) {
	parts := strings.Split(proxyAddr, ":")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("invalid socks5 proxy %q: want host:port[:user:pass]", proxyAddr)
	}
	var auth *proxy.Auth
	if len(parts) >= 4 {
		auth = &proxy.Auth{User: parts[2], Password: strings.Join(parts[3:], ":")}
	} else if len(parts) == 3 {
		return nil, fmt.Errorf("invalid socks5 proxy %q: password missing", proxyAddr)
	}
	dialer, err := proxy.SOCKS5("tcp", parts[0]+":"+parts[1], auth, &net.Dialer{Timeout: 30 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("socks5 dialer: %w", err)
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.Proxy = nil
	if cd, ok := dialer.(proxy.ContextDialer); ok {
		tr.DialContext = cd.DialContext
	} else {
		tr.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		}
	}
	return tr, nil
}
