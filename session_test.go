package httpauth

import (
	"errors"
	"testing"

	"github.com/go-httpauth/httpauth/uri"
)

type fixedCreds struct {
	calls int
	user  string
	pass  string
}

func (c *fixedCreds) Login(target *uri.URI, realm string, attempt int) (string, string, error) {
	c.calls++
	if c.user == "" {
		return "", "", ErrNoCredentials
	}
	return c.user, c.pass, nil
}

func TestStaleChallengeReusesCredentials(t *testing.T) {
	creds := &fixedCreds{user: "Mufasa", pass: "Circle Of Life"}
	target, _ := uri.Parse("http://example.com/dir/index.html")
	s := NewSession(target, ServerClass, creds, nil)

	first := &challenge{scheme: SchemeDigest, realm: "testrealm@host.com", nonce: "n1", algorithm: AlgorithmMD5, gotQop: true, qopAuth: true}
	if err := s.acceptChallenges([]*challenge{first}); err != nil {
		t.Fatal(err)
	}
	if creds.calls != 1 {
		t.Fatalf("expected 1 credential lookup, got %d", creds.calls)
	}
	d1, ok := s.scheme.(*digestState)
	if !ok {
		t.Fatal("expected digest scheme installed")
	}
	ha1 := d1.ha1

	second := &challenge{scheme: SchemeDigest, realm: "testrealm@host.com", nonce: "n2", stale: true, algorithm: AlgorithmMD5, gotQop: true, qopAuth: true}
	if err := s.acceptChallenges([]*challenge{second}); err != nil {
		t.Fatal(err)
	}
	if creds.calls != 1 {
		t.Errorf("stale replay must not re-invoke credentials callback, calls=%d", creds.calls)
	}
	d2 := s.scheme.(*digestState)
	if d2.ha1 != ha1 {
		t.Errorf("expected H(A1) to be reused across stale replay")
	}
	if d2.nonce != "n2" {
		t.Errorf("expected new nonce installed, got %q", d2.nonce)
	}
}

func TestAcceptChallengesNoneAcceptable(t *testing.T) {
	creds := &fixedCreds{}
	target, _ := uri.Parse("http://example.com/")
	s := NewSession(target, ServerClass, creds, nil)

	c := &challenge{scheme: SchemeBasic, realm: "r"}
	err := s.acceptChallenges([]*challenge{c})
	if err == nil {
		t.Fatal("expected failure when credentials are unavailable")
	}
	var classErr *ClassError
	if !errors.As(err, &classErr) {
		t.Fatalf("expected a *ClassError, got %T: %v", err, err)
	}
	if s.canHandle() {
		t.Error("session must not report canHandle after rejection")
	}
}

func TestContextFilterProxyOverHTTPS(t *testing.T) {
	if got := contextFilterFor(ProxyClass, "https"); got != ContextConnect {
		t.Errorf("proxy auth over https must filter to Connect, got %v", got)
	}
	if got := contextFilterFor(ServerClass, "https"); got != ContextNotConnect {
		t.Errorf("server auth over https must filter to NotConnect, got %v", got)
	}
	if got := contextFilterFor(ProxyClass, "http"); got != ContextAny {
		t.Errorf("proxy auth over cleartext http must be Any, got %v", got)
	}
}

func TestContextFilterAllows(t *testing.T) {
	if !ContextConnect.allows("CONNECT") || ContextConnect.allows("GET") {
		t.Error("ContextConnect must allow only CONNECT")
	}
	if ContextNotConnect.allows("CONNECT") || !ContextNotConnect.allows("GET") {
		t.Error("ContextNotConnect must allow everything but CONNECT")
	}
}
