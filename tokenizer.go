package httpauth

import (
	"fmt"
	"strings"

	"github.com/jimrobinson/lexrec"
)

// Item types emitted while tokenizing a WWW-Authenticate or
// Proxy-Authenticate header field value.
const (
	itemIgnore lexrec.ItemType = lexrec.ItemEOF + 1 + iota
	itemSchemeBasic
	itemSchemeDigest
	itemSchemeNegotiate
	itemRealm
	itemDomain
	itemNonce
	itemOpaque
	itemStale
	itemAlgorithm
	itemQop
	itemAuthParam
	itemUnknownScheme
)

func itemName(t lexrec.ItemType) string {
	switch t {
	case lexrec.ItemError:
		return "ERROR"
	case lexrec.ItemEOF:
		return "EOF"
	case lexrec.ItemEOR:
		return "EOR"
	case itemSchemeBasic:
		return "Basic"
	case itemSchemeDigest:
		return "Digest"
	case itemSchemeNegotiate:
		return "GSS-Negotiate"
	case itemIgnore:
		return "ignore"
	case itemRealm:
		return "realm"
	case itemDomain:
		return "domain"
	case itemNonce:
		return "nonce"
	case itemOpaque:
		return "opaque"
	case itemStale:
		return "stale"
	case itemAlgorithm:
		return "algorithm"
	case itemQop:
		return "qop"
	case itemAuthParam:
		return "auth-param"
	case itemUnknownScheme:
		return "unknown-scheme"
	default:
		return fmt.Sprintf("unknown ItemType %d", t)
	}
}

// separators per RFC 2616
const tokSeparators = `()<>@,;:\"/[]?={} ` + "\t"

// whitespace per RFC 2616
const tokWhitespace = " \r\n\t"

// ctl are control characters per RFC 2616
var tokCtl = func() string {
	b := make([]byte, 0, 33)
	for c := byte(0); c <= 0x1F; c++ {
		b = append(b, c)
	}
	return string(b) + "\x7F"
}()

// nontoken characters are separators, whitespace, and ctl: anything
// that cannot appear inside a bare token.
var nontoken = tokSeparators + tokWhitespace + tokCtl

func isSpace(r rune) bool {
	return strings.ContainsRune(tokWhitespace, r)
}

// emitChallengeList drives a lexer over a WWW-Authenticate or
// Proxy-Authenticate field value, a comma-separated sequence of one or
// more challenges. Each challenge opens with a bare scheme token
// ("Basic", "Digest", "GSS-Negotiate", "Negotiate") followed by its
// parameters. A
// scheme token that is none of these is a fatal condition for the
// whole field value: itemUnknownScheme is emitted and scanning stops,
// so the caller discards everything parsed so far and returns no
// challenges at all.
func emitChallengeList(l *lexrec.Lexer) {
	defer l.Emit(lexrec.ItemEOF)

	if l.Peek() == lexrec.EOF {
		l.Errorf("emitChallengeList: expected token character, got EOF")
		return
	}

	if l.AcceptRun(tokWhitespace) {
		l.Skip()
	}

	if !l.ExceptRun(nontoken) {
		l.Errorf("emitChallengeList: expected token character, got %q", l.Peek())
		return
	}

	for {
		if l.Peek() == lexrec.EOF {
			return
		}

		switch strings.ToLower(string(l.Bytes())) {
		case "basic":
			l.Emit(itemSchemeBasic)
			if l.AcceptRun(tokWhitespace) {
				l.Skip()
			} else {
				l.Errorf("expected whitespace after 'Basic', got %q", l.Peek())
				return
			}
			emitBasicParams(l)

		case "digest":
			l.Emit(itemSchemeDigest)
			if l.AcceptRun(tokWhitespace) {
				l.Skip()
			} else {
				l.Errorf("expected whitespace after 'Digest', got %q", l.Peek())
				return
			}
			emitDigestParams(l)

		case "gss-negotiate", "negotiate":
			l.Emit(itemSchemeNegotiate)
			if l.AcceptRun(tokWhitespace) {
				l.Skip()
			}
			advanceChallenge(l)

		default:
			l.Emit(itemUnknownScheme)
			return
		}
	}
}

// advanceChallenge skips over a Negotiate challenge's parameters
// without emitting them.
func advanceChallenge(l *lexrec.Lexer) {
	if l.AcceptRun(tokWhitespace) {
		l.Skip()
	}

	expectParam := true
	for expectParam {
		if l.ExceptRun(nontoken) {
			r := l.Peek()
			if r == '=' {
				l.Accept("=")
				l.Skip()
				if l.Peek() == '"' {
					if lexrec.Quote(l, itemAuthParam, false) {
						l.Skip()
					}
				} else if l.ExceptRun(nontoken) {
					l.Skip()
				} else {
					l.Errorf("advanceChallenge: expected a token character, got %q", l.Peek())
				}
			} else if isSpace(r) {
				return
			} else {
				l.Errorf("advanceChallenge: expected either whitespace or '=', got %q", l.Peek())
				return
			}
			expectParam = advanceParam(l)
		} else {
			return
		}
	}
}

// emitBasicParams expects to be positioned at the start of the Basic
// challenge's parameter list.
func emitBasicParams(l *lexrec.Lexer) {
	expectParam := true
	for expectParam {
		if !l.ExceptRun(nontoken) {
			l.Errorf("emitBasicParams: expected a token character, got %q", l.Peek())
			return
		}
		switch strings.ToLower(string(l.Bytes())) {
		case "realm":
			emitQuotedToken(l, itemRealm)
		default:
			r := l.Peek()
			if r == ',' || isSpace(r) || r == lexrec.EOF {
				return
			}
			ignoreToken(l)
		}
		expectParam = advanceParam(l)
	}
}

// emitDigestParams expects to be positioned at the start of a Digest
// challenge's parameter list, <name>=<value> pairs separated by commas.
func emitDigestParams(l *lexrec.Lexer) {
	expectParam := true
	for expectParam {
		if !l.ExceptRun(nontoken) {
			l.Errorf("emitDigestParams: expected a token character, got %q", l.Peek())
			return
		}
		switch strings.ToLower(string(l.Bytes())) {
		case "realm":
			emitQuotedToken(l, itemRealm)
		case "domain":
			emitQuotedToken(l, itemDomain)
		case "nonce":
			emitQuotedToken(l, itemNonce)
		case "opaque":
			emitQuotedToken(l, itemOpaque)
		case "stale":
			emitBoolToken(l, itemStale)
		case "algorithm":
			emitToken(l, itemAlgorithm)
		case "qop":
			emitQuotedOrBareToken(l, itemQop)
		default:
			r := l.Peek()
			if r == ',' || isSpace(r) || r == lexrec.EOF {
				return
			}
			ignoreToken(l)
		}
		expectParam = advanceParam(l)
	}
}

// emitQuotedToken transmits the quoted-string value from <name>=<value>.
func emitQuotedToken(l *lexrec.Lexer, t lexrec.ItemType) {
	if !l.Accept("=") {
		l.Errorf("emitQuotedToken: expected '=' after '%s', got %q", itemName(t), l.Peek())
		return
	}
	l.Skip()
	if !lexrec.Quote(l, t, true) {
		l.Errorf("emitQuotedToken: expected a quoted string after '%s=', got %q", itemName(t), l.Peek())
	}
}

// emitToken emits the bare-token value from <name>=<value>.
func emitToken(l *lexrec.Lexer, t lexrec.ItemType) {
	if !l.Accept("=") {
		l.Errorf("emitToken: expected '=' after '%s', got %q", itemName(t), l.Peek())
		return
	}
	l.Skip()
	if !l.ExceptRun(nontoken) {
		l.Errorf("emitToken: expected a token character, got %q", l.Peek())
		return
	}
	l.Emit(t)
}

// emitQuotedOrBareToken emits the qop value, which servers sometimes
// send unquoted even though RFC 2617 specifies a quoted-string.
func emitQuotedOrBareToken(l *lexrec.Lexer, t lexrec.ItemType) {
	if !l.Accept("=") {
		l.Errorf("emitQuotedOrBareToken: expected '=' after '%s', got %q", itemName(t), l.Peek())
		return
	}
	l.Skip()
	if l.Peek() == '"' {
		if !lexrec.Quote(l, t, true) {
			l.Errorf("emitQuotedOrBareToken: malformed quoted string after '%s='", itemName(t))
		}
		return
	}
	if !l.ExceptRun(nontoken) {
		l.Errorf("emitQuotedOrBareToken: expected a token character, got %q", l.Peek())
		return
	}
	l.Emit(t)
}

// emitBoolToken emits the token value from <name>=<value>, where the
// value is either "true" or "false" (case insensitive).
func emitBoolToken(l *lexrec.Lexer, t lexrec.ItemType) {
	if !l.Accept("=") {
		l.Errorf("emitBoolToken: expected '=' after '%s', got %q", itemName(t), l.Peek())
		return
	}
	l.Skip()
	if !l.ExceptRun(nontoken) {
		l.Errorf("emitBoolToken: expected a token character, got %q", l.Peek())
		return
	}
	s := strings.ToLower(string(l.Bytes()))
	if s == "true" || s == "false" {
		l.Emit(t)
		return
	}
	l.Errorf("emitBoolToken: expected token to be 'true' or 'false', got %q", s)
}

// ignoreToken skips past <name>=<value>, where the value may be a
// token or a quoted-string.
func ignoreToken(l *lexrec.Lexer) {
	p := string(l.Bytes())
	l.Skip()
	if !l.Accept("=") {
		l.Errorf("ignoreToken: after '%s' expected '=', got %q", p, l.Peek())
		return
	}
	l.Skip()
	if l.Peek() == '"' {
		if lexrec.Quote(l, itemAuthParam, false) {
			l.Skip()
		}
	} else if l.ExceptRun(nontoken) {
		l.Skip()
	} else {
		l.Errorf("ignoreToken: expected a token character, got %q", l.Peek())
	}
}

// advanceParam attempts to advance to the start of the next parameter,
// returning true on success, or false at EOF or on unexpected input.
func advanceParam(l *lexrec.Lexer) bool {
	if l.Peek() == lexrec.EOF {
		return false
	}
	l.AcceptRun(tokWhitespace)
	if l.Next() != ',' {
		l.Errorf("advanceParam: expected comma, got %q", l.Peek())
		return false
	}
	l.AcceptRun(tokWhitespace)
	l.Skip()
	return true
}
