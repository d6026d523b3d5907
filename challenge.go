package httpauth

import (
	"fmt"
	"strings"

	"github.com/jimrobinson/lexrec"
	"github.com/jimrobinson/trace"
)

// challenge is one candidate authentication challenge parsed from a
// single WWW-Authenticate or Proxy-Authenticate field value. It is
// transient: discarded once a scheme has been selected from it.
type challenge struct {
	scheme      Scheme
	realm       string
	domain      []string
	nonce       string
	opaque      string
	stale       bool
	algorithm   Algorithm
	gotQop      bool
	qopAuth     bool
	qopAuthInt  bool
}

// parseChallenges converts a complete header field value into an
// ordered list of candidate challenges. A bare scheme token opens a
// new challenge; subsequent key=value pairs populate the currently
// open one. A scheme token that is neither Basic, Digest, nor
// GSS-Negotiate/Negotiate invalidates the entire field value: parsing
// stops and an empty, nil-error result is returned, discarding any
// challenges already parsed earlier in the same header. A lexer error
// discards the remainder of the value and returns what was parsed so
// far together with the error.
func parseChallenges(value string) ([]*challenge, error) {
	traceFn, traceT := trace.M(traceID, trace.Trace)

	r := strings.NewReader(value)
	rec := lexrec.NewRecord(256, nil, func(l *lexrec.Lexer) {})

	l, err := lexrec.NewLexerRun("parseChallenges", r, rec, emitChallengeList)
	if err != nil {
		return nil, err
	}

	var parsed []*challenge

	for {
		item := l.NextItem()
		if item.Type == lexrec.ItemEOF {
			break
		}
		if item.Type == lexrec.ItemError {
			return parsed, fmt.Errorf("parseChallenges: error at position %d: %s", item.Pos, item.Value)
		}

		switch item.Type {
		case itemSchemeBasic:
			parsed = append(parsed, &challenge{scheme: SchemeBasic})
		case itemSchemeDigest:
			parsed = append(parsed, &challenge{scheme: SchemeDigest})
		case itemSchemeNegotiate:
			parsed = append(parsed, &challenge{scheme: SchemeNegotiate})
		case itemRealm:
			if c := lastChallenge(parsed); c != nil {
				c.realm = unquote(item.Value)
			}
		case itemDomain:
			if c := lastChallenge(parsed); c != nil {
				c.domain = strings.Fields(unquote(item.Value))
			}
		case itemNonce:
			if c := lastChallenge(parsed); c != nil {
				c.nonce = unquote(item.Value)
			}
		case itemOpaque:
			if c := lastChallenge(parsed); c != nil {
				c.opaque = unquote(item.Value)
			}
		case itemStale:
			if c := lastChallenge(parsed); c != nil {
				c.stale = strings.EqualFold(item.Value, "true")
			}
		case itemAlgorithm:
			if c := lastChallenge(parsed); c != nil {
				c.algorithm = parseAlgorithm(item.Value)
			}
		case itemQop:
			if c := lastChallenge(parsed); c != nil {
				c.gotQop = true
				for _, opt := range strings.Split(unquote(item.Value), ",") {
					switch strings.TrimSpace(strings.ToLower(opt)) {
					case "auth":
						c.qopAuth = true
					case "auth-int":
						c.qopAuthInt = true
					}
				}
			}
		case itemAuthParam:
			if traceT {
				trace.T(traceFn, "skipping unrecognized auth-param: %s", item.Value)
			}
		case itemUnknownScheme:
			if traceT {
				trace.T(traceFn, "discarding challenge list: unrecognized scheme")
			}
			return nil, nil
		default:
			return parsed, fmt.Errorf("parseChallenges: unhandled item type %d at position %d", item.Type, item.Pos)
		}
	}

	return parsed, nil
}

func lastChallenge(parsed []*challenge) *challenge {
	if len(parsed) == 0 {
		return nil
	}
	return parsed[len(parsed)-1]
}

// unquote strips a single layer of surrounding double quotes, if
// present; lexrec.Quote's emitted value includes the delimiters.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
