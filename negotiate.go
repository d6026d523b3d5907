package httpauth

import (
	"encoding/base64"
	"fmt"
	"net/http"
)

// NegotiateProvider is the pluggable security-context backend the
// Negotiate driver drives. Embedding programs may supply their own
// (for example an SSPI-backed provider on Windows) in place of the
// default GSSAPI one.
type NegotiateProvider interface {
	// Init starts or continues a security context for the given
	// service principal, consuming a (possibly nil) input token from
	// the server and producing the next output token. done reports
	// whether the context is fully established.
	Init(principal string, input []byte) (output []byte, done bool, err error)
}

// negotiateState holds the opaque token exchanged with a Negotiate
// challenge. Unlike Digest, there is no per-request recomputation:
// the token is produced once when the challenge is accepted.
type negotiateState struct {
	provider  NegotiateProvider
	principal string
	token     string // base64-encoded output token
	done      bool
}

func (n *negotiateState) scheme() Scheme { return SchemeNegotiate }

// acceptNegotiate constructs a server principal name from the target
// hostname and initiates a security context through the session's
// provider. Failure at any step rejects this challenge rather than
// failing the response outright, so a Digest or Basic challenge
// offered alongside it can still be tried.
func acceptNegotiate(s *Session, c *challenge) (schemeState, error) {
	if s.negotiate == nil {
		return nil, fmt.Errorf("httpauth: no negotiate provider configured")
	}

	principal := "khttp@" + s.target.Host

	output, done, err := s.negotiate.Init(principal, nil)
	if err != nil {
		return nil, fmt.Errorf("httpauth: negotiate init: %w", err)
	}

	return &negotiateState{
		provider:  s.negotiate,
		principal: principal,
		token:     base64.StdEncoding.EncodeToString(output),
		done:      done,
	}, nil
}

func (n *negotiateState) buildHeader(s *Session, req *http.Request, ar *authRequest) (string, error) {
	return "GSS-Negotiate " + n.token, nil
}

func (n *negotiateState) verifyInfo(s *Session, ar *authRequest, value string) error {
	return nil
}
