package httpauth

import (
	"fmt"

	gssapi "github.com/golang-auth/go-gssapi/v3"
)

// gssapiProvider is the default NegotiateProvider, backed by
// github.com/golang-auth/go-gssapi/v3's Kerberos 5 initiator. It
// drives a single SecContext through to completion, buffering the
// context so subsequent calls to Init (a server asking for another
// round of the exchange) continue it rather than starting over.
type gssapiProvider struct {
	mech gssapi.Mechanism
	ctx  gssapi.SecContext
}

// newGSSAPIProvider resolves the Kerberos 5 mechanism from the host's
// ambient GSSAPI implementation (MIT krb5 or Heimdal, whichever the
// build links against).
func newGSSAPIProvider() (*gssapiProvider, error) {
	mech, err := gssapi.NewKrb5Mechanism()
	if err != nil {
		return nil, fmt.Errorf("httpauth: resolving krb5 gssapi mechanism: %w", err)
	}
	return &gssapiProvider{mech: mech}, nil
}

func (p *gssapiProvider) Init(principal string, input []byte) (output []byte, done bool, err error) {
	if p.ctx == nil {
		name, err := p.mech.ImportName(principal, gssapi.NtHostBasedService)
		if err != nil {
			return nil, false, fmt.Errorf("httpauth: importing gssapi principal name: %w", err)
		}
		p.ctx, err = p.mech.InitSecContext(name)
		if err != nil {
			return nil, false, fmt.Errorf("httpauth: initiating gssapi security context: %w", err)
		}
	}

	output, done, err = p.ctx.Continue(input)
	if err != nil {
		return nil, false, fmt.Errorf("httpauth: continuing gssapi security context: %w", err)
	}
	return output, done, nil
}
