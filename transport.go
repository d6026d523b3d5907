package httpauth

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sync"

	"github.com/go-httpauth/httpauth/uri"
	"github.com/jimrobinson/trace"
)

// Transport is an http.RoundTripper that answers Basic, Digest, and
// optional Negotiate challenges transparently, the way the teacher's
// Client wrapped http.Client with its own challenge-retry loop in
// AuthDo. It owns one Session per (host, Class) pair, created lazily
// on first use, satisfying the "exactly one AuthSession per (HTTP
// session, class) pair" invariant at the granularity an
// http.RoundTripper naturally offers: per destination host.
type Transport struct {
	// Inner is the wrapped RoundTripper. http.DefaultTransport is
	// used if nil.
	Inner http.RoundTripper

	// Creds supplies credentials for origin-server challenges.
	Creds CredentialSource

	// ProxyCreds supplies credentials for forward-proxy challenges.
	// Proxy authentication is only attempted if ProxyURL is set.
	ProxyCreds CredentialSource

	// ProxyURL names the forward proxy this Transport's requests are
	// routed through, if any. Over cleartext HTTP a proxy's 407
	// challenge is visible on the same response as the origin
	// request; over HTTPS it only ever applies to the CONNECT
	// handshake, which is why the context filter keys off scheme.
	ProxyURL *url.URL

	// Negotiate overrides the default GSSAPI-backed provider used
	// to answer Negotiate challenges on both server and proxy
	// sessions. Nil means each Session builds its own on demand.
	Negotiate NegotiateProvider

	// MaxAttempts bounds how many times a single request is sent
	// (the first send included) against a gated target before the
	// last response is returned as-is. Must be at least 2; any
	// smaller value selects the default of 3.
	MaxAttempts int

	// Logger receives a line when server or proxy authentication fails
	// and when a request gives up after MaxAttempts; challenge parsing
	// and scheme selection are not logged to it. Nil disables this
	// (trace.Trace governs the package-wide toggle).
	Logger *log.Logger

	mu       sync.Mutex
	sessions map[sessionKey]*Session
}

type sessionKey struct {
	host  string
	class *Class
}

func (t *Transport) maxAttempts() int {
	if t.MaxAttempts >= 2 {
		return t.MaxAttempts
	}
	return 3
}

func (t *Transport) sessionFor(host string, class *Class, target *uri.URI, creds CredentialSource) *Session {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sessions == nil {
		t.sessions = make(map[sessionKey]*Session)
	}
	key := sessionKey{host: host, class: class}
	s, ok := t.sessions[key]
	if !ok {
		s = NewSession(target, class, creds, t.Negotiate)
		t.sessions[key] = s
	}
	return s
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	inner := t.Inner
	if inner == nil {
		inner = http.DefaultTransport
	}

	target, err := uri.Parse(req.URL.String())
	if err != nil {
		return nil, fmt.Errorf("httpauth: parsing request target: %w", err)
	}

	serverSess := t.sessionFor(req.URL.Host, ServerClass, target, t.Creds)

	var proxySess *Session
	if t.ProxyURL != nil {
		proxyTarget, err := uri.Parse(t.ProxyURL.String())
		if err != nil {
			return nil, fmt.Errorf("httpauth: parsing proxy target: %w", err)
		}
		proxySess = t.sessionFor(t.ProxyURL.Host, ProxyClass, proxyTarget, t.ProxyCreds)
	}

	serverSess.onCreate(req)
	if proxySess != nil {
		proxySess.onCreate(req)
	}
	defer serverSess.onDestroy(req)
	if proxySess != nil {
		defer proxySess.onDestroy(req)
	}

	getBody := req.GetBody

	for attempt := 0; ; attempt++ {
		if attempt > 0 && getBody != nil {
			body, err := getBody()
			if err != nil {
				return nil, fmt.Errorf("httpauth: rewinding request body for retry: %w", err)
			}
			req.Body = body
		}

		if err := serverSess.onPreSend(req); err != nil {
			return nil, err
		}
		if proxySess != nil {
			if err := proxySess.onPreSend(req); err != nil {
				return nil, err
			}
		}

		resp, err := inner.RoundTrip(req)
		if err != nil {
			return nil, err
		}

		if err := serverSess.bufferAuthIntBody(req, resp); err != nil {
			return nil, err
		}
		if proxySess != nil {
			if err := proxySess.bufferAuthIntBody(req, resp); err != nil {
				return nil, err
			}
		}

		serverAction, serverErr := serverSess.onPostSend(req, resp)
		var proxyAction postSendAction
		var proxyErr error
		if proxySess != nil {
			proxyAction, proxyErr = proxySess.onPostSend(req, resp)
		}

		if serverAction == actionFail {
			t.tracef("server auth failed for %s: %v", req.URL.Host, serverErr)
			return nil, serverErr
		}
		if proxyAction == actionFail {
			t.tracef("proxy auth failed for %s: %v", req.URL.Host, proxyErr)
			return nil, proxyErr
		}

		retry := serverAction == actionRetry || proxyAction == actionRetry
		if !retry {
			return resp, nil
		}

		if attempt+1 >= t.maxAttempts() {
			t.tracef("giving up after %d attempts for %s", attempt+1, req.URL.Host)
			return resp, nil
		}

		resp.Body.Close()
	}
}

func (t *Transport) tracef(format string, args ...interface{}) {
	if t.Logger != nil {
		t.Logger.Printf(format, args...)
	}
	if fn, on := trace.M(traceID, trace.Trace); on {
		trace.T(fn, format, args...)
	}
}
