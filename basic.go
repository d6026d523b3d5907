package httpauth

import (
	"encoding/base64"
	"fmt"
	"net/http"
)

// basicState holds everything needed to answer a Basic challenge:
// just the pre-encoded "user:pass" blob. There is no per-request
// state, unlike Digest.
type basicState struct {
	realm   string
	encoded string
}

func (b *basicState) scheme() Scheme { return SchemeBasic }

// acceptBasic validates a Basic challenge: realm is required, and
// credentials must be obtainable. The password is zeroed immediately
// after the base64 blob is built.
func acceptBasic(s *Session, c *challenge) (schemeState, error) {
	if c.realm == "" {
		return nil, fmt.Errorf("httpauth: basic challenge missing realm")
	}

	username, password, err := s.creds.Login(s.target, c.realm, s.attempt)
	if err != nil {
		return nil, err
	}

	buf := []byte(username + ":" + password)
	encoded := base64.StdEncoding.EncodeToString(buf)
	zero(buf)
	password = ""

	return &basicState{realm: c.realm, encoded: encoded}, nil
}

func (b *basicState) buildHeader(s *Session, req *http.Request, ar *authRequest) (string, error) {
	return "Basic " + b.encoded, nil
}

func (b *basicState) verifyInfo(s *Session, ar *authRequest, value string) error {
	return nil
}

// zero overwrites a byte slice that briefly held a password.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
