package httpauth

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
)

// TestDigestResponseRFC2617Vector reproduces the worked example from
// RFC 2617 §3.5: username=Mufasa, realm="testrealm@host.com",
// password="Circle Of Life", nonce="dcd98b7102dd2f0e8b11d0f600bfb0c093",
// cnonce="0a4f113b", nc=00000001, qop=auth, method=GET,
// uri=/dir/index.html, expecting response digest
// 6629fae49393a05397450978507c4ef1.
func TestDigestResponseRFC2617Vector(t *testing.T) {
	d := &digestState{
		realm:     "testrealm@host.com",
		nonce:     "dcd98b7102dd2f0e8b11d0f600bfb0c093",
		cnonce:    "0a4f113b",
		opaque:    "5ccc069c403ebaf9f0171e9517f40e41",
		algorithm: AlgorithmMD5,
		qop:       QopAuth,
		username:  "Mufasa",
		ha1:       md5Hex("Mufasa", ":", "testrealm@host.com", ":", "Circle Of Life"),
	}

	u, err := url.Parse("http://www.nowhere.org/dir/index.html")
	if err != nil {
		t.Fatal(err)
	}
	req := &http.Request{Method: "GET", URL: u, Header: make(http.Header)}

	value, err := d.buildHeader(&Session{}, req, &authRequest{})
	if err != nil {
		t.Fatal(err)
	}

	if !containsParam(value, `response="6629fae49393a05397450978507c4ef1"`) {
		t.Errorf("unexpected digest response, got header: %s", value)
	}
	if !containsParam(value, `nc=00000001`) {
		t.Errorf("expected nc=00000001, got: %s", value)
	}
}

func TestDigestNonceCountIncrementsAndResets(t *testing.T) {
	d := &digestState{
		realm:     "r",
		nonce:     "n1",
		cnonce:    "c1",
		algorithm: AlgorithmMD5,
		qop:       QopAuth,
		username:  "u",
		ha1:       md5Hex("u:r:p"),
	}

	u, _ := url.Parse("http://example.com/x")
	req := &http.Request{Method: "GET", URL: u, Header: make(http.Header)}

	for i, want := range []string{"00000001", "00000002", "00000003"} {
		value, err := d.buildHeader(&Session{}, req, &authRequest{})
		if err != nil {
			t.Fatal(err)
		}
		if !containsParam(value, "nc="+want) {
			t.Errorf("request %d: expected nc=%s, got %s", i, want, value)
		}
	}

	// Installing a new nonce resets the counter.
	d.nonce = "n2"
	d.nonceCount = 0
	value, err := d.buildHeader(&Session{}, req, &authRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if !containsParam(value, "nc=00000001") {
		t.Errorf("expected nc to reset to 00000001 after nonce change, got %s", value)
	}
}

func TestDigestQopNoneOmitsQopFields(t *testing.T) {
	d := &digestState{
		realm:     "r",
		nonce:     "n1",
		algorithm: AlgorithmMD5,
		qop:       QopNone,
		username:  "u",
		ha1:       md5Hex("u:r:p"),
	}
	u, _ := url.Parse("http://example.com/x")
	req := &http.Request{Method: "GET", URL: u, Header: make(http.Header)}

	value, err := d.buildHeader(&Session{}, req, &authRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if containsParam(value, "qop=") || containsParam(value, "nc=") || containsParam(value, "cnonce=") {
		t.Errorf("qop=none must omit qop/nc/cnonce, got %s", value)
	}
}

func containsParam(header, param string) bool {
	return strings.Contains(header, param)
}
