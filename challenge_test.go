package httpauth

import "testing"

func TestParseChallengesDigest(t *testing.T) {
	value := `Digest realm="Sample Digest Realm", nonce="nWjG15v1BAA=744a97693b14ea8805cadf32fcc3f57f245d08eb", algorithm=MD5, domain="/", qop="auth"`

	parsed, err := parseChallenges(value)
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed) != 1 {
		t.Fatalf("expected 1 challenge, got %d", len(parsed))
	}
	c := parsed[0]
	if c.scheme != SchemeDigest {
		t.Errorf("expected digest scheme, got %v", c.scheme)
	}
	if c.realm != "Sample Digest Realm" {
		t.Errorf("unexpected realm %q", c.realm)
	}
	if c.algorithm != AlgorithmMD5 {
		t.Errorf("expected MD5 algorithm, got %v", c.algorithm)
	}
	if !c.gotQop || !c.qopAuth || c.qopAuthInt {
		t.Errorf("expected qop=auth only, got auth=%v auth-int=%v", c.qopAuth, c.qopAuthInt)
	}
}

func TestParseChallengesMultipleSchemes(t *testing.T) {
	value := `Basic realm="basic realm", Digest realm="digest realm", nonce="abc123", algorithm=MD5-sess, qop="auth,auth-int"`

	parsed, err := parseChallenges(value)
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed) != 2 {
		t.Fatalf("expected 2 challenges, got %d", len(parsed))
	}
	if parsed[0].scheme != SchemeBasic || parsed[0].realm != "basic realm" {
		t.Errorf("unexpected first challenge: %+v", parsed[0])
	}
	if parsed[1].scheme != SchemeDigest || parsed[1].algorithm != AlgorithmMD5Sess {
		t.Errorf("unexpected second challenge: %+v", parsed[1])
	}
	if !parsed[1].qopAuth || !parsed[1].qopAuthInt {
		t.Errorf("expected both qop options set, got %+v", parsed[1])
	}
}

func TestParseChallengesStaleFlag(t *testing.T) {
	value := `Digest realm="r", nonce="n", stale=true`
	parsed, err := parseChallenges(value)
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed) != 1 || !parsed[0].stale {
		t.Errorf("expected stale=true, got %+v", parsed)
	}
}

func TestParseChallengesUnknownSchemeDiscardsList(t *testing.T) {
	value := `Weird realm="x", foo=bar, Digest realm="r", nonce="n"`
	parsed, err := parseChallenges(value)
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed) != 0 {
		t.Errorf("expected an unrecognized scheme to discard the whole list, got %+v", parsed)
	}
}

func TestParseAuthInfo(t *testing.T) {
	pairs, err := parseAuthInfo(`qop=auth, rspauth="6629fae49393a05397450978507c4ef1", cnonce="0a4f113b", nc=00000001`)
	if err != nil {
		t.Fatal(err)
	}
	if pairs["rspauth"] != "6629fae49393a05397450978507c4ef1" {
		t.Errorf("unexpected rspauth %q", pairs["rspauth"])
	}
	if pairs["cnonce"] != "0a4f113b" || pairs["nc"] != "00000001" {
		t.Errorf("unexpected cnonce/nc: %+v", pairs)
	}
}
