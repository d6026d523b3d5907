package httpauth

import (
	"encoding/json"
	"errors"
	"io"
	"sort"
	"strings"

	"github.com/go-httpauth/httpauth/uri"
)

// CredentialSource supplies a username/password pair for a realm on a
// target URI. attempt is the zero-based number of prior credential
// attempts against this session, so a source backed by an interactive
// prompt can stop retrying the same realm. Returning ErrNoCredentials
// declines the challenge without failing the whole response, letting
// scheme selection fall through to a lower-preference scheme.
type CredentialSource interface {
	Login(target *uri.URI, realm string, attempt int) (username, password string, err error)
}

// Credential is one entry in a static credential list: a domain/path
// scope plus a username and password. An empty Domain or Path matches
// anything.
type Credential struct {
	Domain   string
	Path     string
	Username string
	Password string
}

// NewCredential builds a Credential, lower-casing Domain for matching.
func NewCredential(domain, path, username, password string) Credential {
	return Credential{
		Domain:   strings.ToLower(domain),
		Path:     path,
		Username: username,
		Password: password,
	}
}

// Matches reports whether the credential's scope covers target.
func (c Credential) Matches(target *uri.URI) bool {
	return c.domainMatch(target.Host) && c.pathMatch(target.Path)
}

func (c Credential) domainMatch(host string) bool {
	s := strings.ToLower(host)
	if c.Domain == "" || c.Domain == s {
		return true
	}
	if strings.HasSuffix(s, c.Domain) && strings.Count(c.Domain, ".") >= 1 {
		if s[len(s)-len(c.Domain)-1] == '.' {
			return true
		}
	}
	return strings.HasPrefix(c.Domain, ".") && strings.HasSuffix(s, c.Domain)
}

func (c Credential) pathMatch(path string) bool {
	if c.Path == "" || c.Path == path {
		return true
	}
	if strings.HasPrefix(path, c.Path) {
		if strings.HasSuffix(c.Path, "/") {
			return true
		}
		return len(path) > len(c.Path) && path[len(c.Path)] == '/'
	}
	return false
}

// NewCredentialsFromJSON decodes a JSON array of Credential from r
// and returns a CredentialSource that tries them most-specific first.
func NewCredentialsFromJSON(r io.Reader) (CredentialSource, error) {
	if r == nil {
		return nil, errors.New("httpauth: nil io.Reader")
	}

	var v []Credential
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		return nil, err
	}
	for i := range v {
		v[i].Domain = strings.ToLower(v[i].Domain)
	}

	oc := &orderedCredentials{v: v}
	sort.Sort(oc)
	return oc, nil
}

// orderedCredentials tries its entries in order, preferring fully
// qualified and longer domains, then longer paths, so the most
// specific scope wins when several entries could match.
type orderedCredentials struct {
	v []Credential
}

func (c *orderedCredentials) Login(target *uri.URI, realm string, attempt int) (username, password string, err error) {
	if attempt > 0 {
		return "", "", ErrNoCredentials
	}
	for _, v := range c.v {
		if v.Matches(target) {
			return v.Username, v.Password, nil
		}
	}
	return "", "", ErrNoCredentials
}

func (c *orderedCredentials) Len() int      { return len(c.v) }
func (c *orderedCredentials) Swap(i, j int) { c.v[i], c.v[j] = c.v[j], c.v[i] }
func (c *orderedCredentials) Less(i, j int) bool {
	if c.v[i].Domain == "" && c.v[j].Domain != "" {
		return false
	} else if c.v[i].Domain != "" && c.v[j].Domain == "" {
		return true
	}

	if !strings.HasPrefix(c.v[i].Domain, ".") && strings.HasPrefix(c.v[j].Domain, ".") {
		return true
	} else if strings.HasPrefix(c.v[i].Domain, ".") && !strings.HasPrefix(c.v[j].Domain, ".") {
		return false
	}

	a, b := strings.Count(c.v[i].Domain, "."), strings.Count(c.v[j].Domain, ".")
	if a != b {
		return a > b
	}
	if c.v[i].Domain != c.v[j].Domain {
		return c.v[i].Domain < c.v[j].Domain
	}

	a, b = strings.Count(c.v[i].Path, "/"), strings.Count(c.v[j].Path, "/")
	if a != b {
		return a > b
	}
	return c.v[i].Path < c.v[j].Path
}

// Static is a CredentialSource backed by a single fixed username and
// password, ignoring realm and domain/path scoping entirely. Useful
// for programs that authenticate against exactly one target.
type Static struct {
	Username, Password string
}

func (s Static) Login(target *uri.URI, realm string, attempt int) (string, string, error) {
	if attempt > 0 {
		return "", "", ErrNoCredentials
	}
	return s.Username, s.Password, nil
}
