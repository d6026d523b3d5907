package httpauth

import (
	"net/http"
	"sync"

	"github.com/go-httpauth/httpauth/uri"
)

// schemeState is the tagged-union-over-function-pointer rewrite the
// source's session record used: one implementation per scheme
// (basicState, digestState, negotiateState), selected by
// acceptChallenges and held behind this interface for the lifetime of
// the session's installed scheme. can_handle from the source becomes
// simply "scheme != nil".
type schemeState interface {
	scheme() Scheme
	buildHeader(s *Session, req *http.Request, ar *authRequest) (string, error)
	verifyInfo(s *Session, ar *authRequest, value string) error
}

// Session holds the authentication state for one (target, Class)
// pair: the currently installed scheme (if any), the credentials
// source, the context filter gating which requests it applies to, and
// the in-flight AuthRequest records it owns. A Session is a
// single-owner object: the caller must not drive the same Session
// from multiple goroutines concurrently, though the mutex documents
// and enforces that rather than silently racing.
type Session struct {
	mu sync.Mutex

	target *uri.URI
	class  *Class
	filter ContextFilter

	creds     CredentialSource
	negotiate NegotiateProvider

	scheme  schemeState
	attempt int

	requests map[*http.Request]*authRequest
}

// NewSession returns a Session for target under class, using creds to
// answer credential challenges. negotiate may be nil, in which case a
// default GSSAPI-backed provider is constructed lazily the first time
// a Negotiate challenge is seen.
func NewSession(target *uri.URI, class *Class, creds CredentialSource, negotiate NegotiateProvider) *Session {
	return &Session{
		target:    target,
		class:     class,
		filter:    contextFilterFor(class, target.Scheme),
		creds:     creds,
		negotiate: negotiate,
		requests:  make(map[*http.Request]*authRequest),
	}
}

// canHandle reports whether a scheme is currently installed.
func (s *Session) canHandle() bool {
	return s.scheme != nil
}

// acceptChallenges tries challenges in preference order
// Negotiate -> Digest -> Basic, accepting the first one whose
// validator succeeds. A challenge that fails validation is skipped,
// not fatal; if nothing in the list is acceptable, the session's
// scheme is cleared and callers should surface the class's failure.
func (s *Session) acceptChallenges(challenges []*challenge) error {
	for _, want := range []Scheme{SchemeNegotiate, SchemeDigest, SchemeBasic} {
		for _, c := range challenges {
			if c.scheme != want {
				continue
			}

			if want == SchemeNegotiate && s.negotiate == nil {
				provider, err := newGSSAPIProvider()
				if err != nil {
					continue
				}
				s.negotiate = provider
			}

			var (
				st  schemeState
				err error
			)
			switch want {
			case SchemeNegotiate:
				st, err = acceptNegotiate(s, c)
			case SchemeDigest:
				st, err = acceptDigest(s, c)
			case SchemeBasic:
				st, err = acceptBasic(s, c)
			}
			if err != nil {
				continue
			}

			s.scheme = st
			return nil
		}
	}

	s.scheme = nil
	return newClassError(s.class, nil)
}
