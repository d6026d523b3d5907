package httpauth

import (
	"fmt"
	"net/http"
	"strings"
)

// digestState holds everything an installed Digest challenge needs
// across the lifetime of a session: negotiated qop/algorithm, the
// server nonce and client cnonce, the running nonce-count, the cached
// H(A1), and the mid-computation MD5 snapshot used later to verify
// Authentication-Info without recomputing H(A1).
type digestState struct {
	realm      string
	domain     []string
	nonce      string
	cnonce     string
	opaque     string
	algorithm  Algorithm
	qop        Qop
	nonceCount uint32
	ha1        string // 32 lowercase hex chars; session-adjusted under MD5-sess
	baseHA1    string // md5(username:realm:password), never session-adjusted
	username   string

	storedRdig *md5ctx // snapshot taken before H(A2) is folded in
}

func (d *digestState) scheme() Scheme { return SchemeDigest }

// acceptDigest validates a Digest challenge and derives H(A1). If the
// challenge is stale and names the same realm as the session's prior
// Digest state, credentials are not re-requested: the existing
// username and base H(A1) = md5(username:realm:password) are reused
// and only the nonce/cnonce/nonce-count are refreshed. The base H(A1)
// is tracked separately from the (possibly MD5-sess-adjusted) H(A1)
// used in the digest math, so a stale MD5-sess replay re-derives its
// session hash from the unadjusted base against the new nonce/cnonce
// rather than folding a new nonce into an already-session-adjusted
// hash.
func acceptDigest(s *Session, c *challenge) (schemeState, error) {
	if c.realm == "" || c.nonce == "" {
		return nil, fmt.Errorf("httpauth: digest challenge missing realm or nonce")
	}
	if c.algorithm == AlgorithmUnknown {
		return nil, fmt.Errorf("httpauth: digest challenge names an unsupported algorithm")
	}
	if c.algorithm == AlgorithmMD5Sess && !c.qopAuth && !c.qopAuthInt {
		return nil, fmt.Errorf("httpauth: MD5-sess requires a qop option")
	}

	cnonce, err := newCnonce()
	if err != nil {
		return nil, err
	}

	var username, baseHA1 string

	if prior, ok := s.scheme.(*digestState); ok && c.stale && prior.realm == c.realm && prior.baseHA1 != "" {
		username = prior.username
		baseHA1 = prior.baseHA1
	} else {
		var password string
		username, password, err = s.creds.Login(s.target, c.realm, s.attempt)
		if err != nil {
			return nil, err
		}
		baseHA1 = md5Hex(username, ":", c.realm, ":", password)
		password = ""
	}

	ha1 := baseHA1
	if c.algorithm == AlgorithmMD5Sess {
		ha1 = md5Hex(baseHA1, ":", c.nonce, ":", cnonce)
	}

	qop := QopNone
	switch {
	case c.qopAuthInt:
		qop = QopAuthInt
	case c.qopAuth:
		qop = QopAuth
	}

	return &digestState{
		realm:     c.realm,
		domain:    c.domain,
		nonce:     c.nonce,
		cnonce:    cnonce,
		opaque:    c.opaque,
		algorithm: c.algorithm,
		qop:       qop,
		username:  username,
		ha1:       ha1,
		baseHA1:   baseHA1,
	}, nil
}

// buildHeader assembles the Authorization/Proxy-Authorization header
// value for the next request under this Digest state, per RFC 2617
// §3.2.2.
func (d *digestState) buildHeader(s *Session, req *http.Request, ar *authRequest) (string, error) {
	var nc string
	if d.qop != QopNone {
		d.nonceCount++
		nc = fmt.Sprintf("%08x", d.nonceCount)
	}

	uri := req.URL.RequestURI()

	h2 := newMD5()
	h2.update(req.Method)
	h2.update(":")
	h2.update(uri)
	if d.qop == QopAuthInt {
		h2.update(":")
		bodyHash := newMD5()
		if req.Body != nil || req.GetBody != nil {
			if err := pullRequestBody(req, bodyHashWriter{bodyHash}); err != nil {
				return "", err
			}
		}
		h2.update(bodyHash.finishHex())
	}
	ha2 := h2.finishHex()

	rdig := newMD5()
	rdig.update(d.ha1)
	rdig.update(":")
	rdig.update(d.nonce)
	rdig.update(":")

	var response string
	if d.qop != QopNone {
		rdig.update(nc)
		rdig.update(":")
		rdig.update(d.cnonce)
		rdig.update(":")
		d.storedRdig = rdig.clone()
		rdig.update(d.qop.String())
		rdig.update(":")
		rdig.update(ha2)
		response = rdig.finishHex()
	} else {
		d.storedRdig = rdig.clone()
		rdig.update(ha2)
		response = rdig.finishHex()
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Digest username="%s"`, d.username)
	fmt.Fprintf(&b, `, realm="%s"`, d.realm)
	fmt.Fprintf(&b, `, nonce="%s"`, d.nonce)
	fmt.Fprintf(&b, `, uri="%s"`, uri)
	fmt.Fprintf(&b, `, algorithm=%s`, d.algorithm)
	fmt.Fprintf(&b, `, response="%s"`, response)
	if d.opaque != "" {
		fmt.Fprintf(&b, `, opaque="%s"`, d.opaque)
	}
	if d.qop != QopNone {
		fmt.Fprintf(&b, `, qop=%s`, d.qop)
		fmt.Fprintf(&b, `, nc=%s`, nc)
		fmt.Fprintf(&b, `, cnonce="%s"`, d.cnonce)
	}

	return b.String(), nil
}

// verifyInfo implements §4.8: verification of Authentication-Info /
// Proxy-Authentication-Info. When qop is none, acceptance is
// automatic since the server's rspauth is advisory in that mode.
func (d *digestState) verifyInfo(s *Session, ar *authRequest, value string) error {
	pairs, err := parseAuthInfo(value)
	if err != nil {
		return fmt.Errorf("httpauth: %v: %w", err, ErrAuthProtocol)
	}

	if d.qop != QopNone {
		rspauth, ok := pairs["rspauth"]
		if !ok {
			return fmt.Errorf("httpauth: authentication-info missing rspauth: %w", ErrAuthProtocol)
		}
		cnonce, okC := pairs["cnonce"]
		nc, okN := pairs["nc"]
		if !okC || !okN {
			return fmt.Errorf("httpauth: authentication-info missing cnonce or nc: %w", ErrAuthProtocol)
		}
		if cnonce != d.cnonce {
			return fmt.Errorf("httpauth: authentication-info cnonce mismatch: %w", ErrAuthProtocol)
		}
		if nc != fmt.Sprintf("%08x", d.nonceCount) {
			return fmt.Errorf("httpauth: authentication-info nc mismatch: %w", ErrAuthProtocol)
		}

		if d.storedRdig == nil {
			return fmt.Errorf("httpauth: no stored digest context to verify against: %w", ErrAuthProtocol)
		}

		// H(A2') per RFC 2617 §3.2.3: the method is deliberately
		// empty here. The source implementation observed this
		// behaviour; preserved for wire compatibility even though
		// the RFC text is ambiguous about whether the method
		// belongs in this hash.
		h2 := newMD5()
		h2.update(":")
		h2.update(ar.uri)
		if d.qop == QopAuthInt {
			h2.update(":")
			h2.update(ar.respBodyDigest())
		}
		ha2p := h2.finishHex()

		resume := d.storedRdig.clone()
		resume.update(d.qop.String())
		resume.update(":")
		resume.update(ha2p)
		computed := resume.finishHex()

		if !strings.EqualFold(computed, rspauth) {
			return ErrAuthProtocol
		}
	}

	if nextnonce, ok := pairs["nextnonce"]; ok && nextnonce != "" {
		d.nonce = nextnonce
		d.nonceCount = 0
	}

	return nil
}

// bodyHashWriter adapts *md5ctx to io.Writer for use with pullRequestBody.
type bodyHashWriter struct{ c *md5ctx }

func (w bodyHashWriter) Write(p []byte) (int, error) {
	w.c.update(string(p))
	return len(p), nil
}
