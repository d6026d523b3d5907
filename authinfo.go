package httpauth

import (
	"fmt"
	"strings"
)

// parseAuthInfo tokenizes an Authentication-Info or
// Proxy-Authentication-Info field value into its key=value pairs.
// Unlike a WWW-Authenticate challenge list, this header never opens a
// new challenge with a bare scheme token, so the full
// lexrec-driven challenge grammar in tokenizer.go is unnecessary here:
// this is a direct, generic "comma-separated key=value, quoted or
// bare" scan, implemented the way the teacher's quoted-string handling
// in lexauth.go treats a single quoted-string run (no escape
// processing; a quoted value simply runs to the next `"`).
func parseAuthInfo(value string) (map[string]string, error) {
	pairs := make(map[string]string)

	i := 0
	n := len(value)
	skipSpace := func() {
		for i < n && isTokSep(value[i]) {
			i++
		}
	}

	for {
		skipSpace()
		if i >= n {
			break
		}

		start := i
		for i < n && value[i] != '=' && value[i] != ',' && !isTokSep(value[i]) {
			i++
		}
		key := strings.ToLower(value[start:i])
		if key == "" {
			return pairs, fmt.Errorf("parseAuthInfo: expected a token at position %d", start)
		}

		skipSpace()
		if i >= n || value[i] != '=' {
			return pairs, fmt.Errorf("parseAuthInfo: expected '=' after %q", key)
		}
		i++
		skipSpace()

		var val string
		if i < n && value[i] == '"' {
			i++
			vs := i
			for i < n && value[i] != '"' {
				i++
			}
			if i >= n {
				return pairs, fmt.Errorf("parseAuthInfo: unterminated quoted value for %q", key)
			}
			val = value[vs:i]
			i++
		} else {
			vs := i
			for i < n && value[i] != ',' && !isTokSep(value[i]) {
				i++
			}
			val = value[vs:i]
		}

		pairs[key] = val

		skipSpace()
		if i >= n {
			break
		}
		if value[i] != ',' {
			return pairs, fmt.Errorf("parseAuthInfo: expected ',' after %q", key)
		}
		i++
	}

	return pairs, nil
}

func isTokSep(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}
