package uri

import (
	"testing"
)

func TestParseBasic(t *testing.T) {
	u, err := Parse("http://webdav.org:8080/bar")
	if err != nil {
		t.Fatal(err)
	}
	if u.Scheme != "http" || u.Host != "webdav.org" || u.Port != 8080 || u.Path != "/bar" {
		t.Errorf("got %+v", u)
	}
}

func TestParseIPv6(t *testing.T) {
	u, err := Parse("http://[::1]:8080/bar")
	if err != nil {
		t.Fatal(err)
	}
	if u.Host != "[::1]" || u.Port != 8080 || u.Path != "/bar" {
		t.Errorf("got %+v", u)
	}
}

func TestUnparseDefaultPort(t *testing.T) {
	u, err := Parse("http://foo.com/bar")
	if err != nil {
		t.Fatal(err)
	}
	u.Port = 80
	if got := Unparse(u); got != "http://foo.com/bar" {
		t.Errorf("got %q", got)
	}
}

func TestParseFailures(t *testing.T) {
	cases := []string{
		"",
		"http://[::1/bar",
		"/has space",
		"/has[bracket",
	}
	for _, c := range cases {
		if _, err := Parse(c); err == nil {
			t.Errorf("Parse(%q): expected failure", c)
		}
	}
}

func TestParseNetworkPathAndRelative(t *testing.T) {
	u, err := Parse("//example.com/x")
	if err != nil {
		t.Fatal(err)
	}
	if u.Scheme != "" || u.Host != "example.com" || u.Path != "/x" {
		t.Errorf("got %+v", u)
	}

	u, err = Parse("/x/y")
	if err != nil {
		t.Fatal(err)
	}
	if u.Host != "" || u.Path != "/x/y" {
		t.Errorf("got %+v", u)
	}

	u, err = Parse("x/y")
	if err != nil {
		t.Fatal(err)
	}
	if u.Path != "x/y" {
		t.Errorf("got %+v", u)
	}
}

func TestParseEmptyPathDefaultsToSlash(t *testing.T) {
	u, err := Parse("http://example.com")
	if err != nil {
		t.Fatal(err)
	}
	if u.Path != "/" {
		t.Errorf("got path %q", u.Path)
	}
}

func TestPathEscapeRoundTrip(t *testing.T) {
	samples := []string{
		"",
		"plain",
		"has space",
		"a/b?c#d",
		"\x00\x01binary",
		"percent%done",
	}
	for _, s := range samples {
		esc := PathEscape(s)
		got, err := PathUnescape(esc)
		if err != nil {
			t.Fatalf("PathUnescape(%q): %v", esc, err)
		}
		if got != s {
			t.Errorf("round trip mismatch: %q -> %q -> %q", s, esc, got)
		}
	}
}

func TestPathUnescapeMalformed(t *testing.T) {
	if _, err := PathUnescape("/foo%zzbar"); err == nil {
		t.Error("expected failure for malformed escape")
	}
}

func TestCompareCaseAndDefaultPort(t *testing.T) {
	a, _ := Parse("HTTP://Example.COM/x")
	b, _ := Parse("http://example.com/x")
	if !Equal(a, b) {
		t.Errorf("expected case-insensitive scheme/host match")
	}

	c, _ := Parse("http://example.com/y")
	if Equal(a, c) {
		t.Errorf("paths differ, should not compare equal")
	}

	d, _ := Parse("http://example.com:80/x")
	e, _ := Parse("http://example.com/x")
	if !Equal(d, e) {
		t.Errorf("default port should canonicalise to unspecified")
	}
}

func TestCompareAntisymmetric(t *testing.T) {
	pairs := [][2]string{
		{"http://a.com/x", "http://b.com/x"},
		{"http://a.com/x", "http://a.com/x"},
		{"http://a.com:8080/x", "http://a.com/x"},
	}
	for _, p := range pairs {
		a, _ := Parse(p[0])
		b, _ := Parse(p[1])
		if Compare(a, b) != -Compare(b, a) {
			t.Errorf("Compare not antisymmetric for %v", p)
		}
	}
}

func TestPathChildOf(t *testing.T) {
	cases := []struct {
		parent, child string
		want          bool
	}{
		{"/a", "/a/b", true},
		{"////", "/a", false},
		{"/a/", "/a/b", true},
		{"/aa/b", "/a/b/c", false},
	}
	for _, c := range cases {
		if got := PathChildOf(c.parent, c.child); got != c.want {
			t.Errorf("PathChildOf(%q, %q) = %v, want %v", c.parent, c.child, got, c.want)
		}
	}
}

func TestPathParent(t *testing.T) {
	if p, ok := PathParent("/a/b/c"); !ok || p != "/a/b/" {
		t.Errorf("got %q, %v", p, ok)
	}
	if _, ok := PathParent("/"); ok {
		t.Error("expected no parent for /")
	}
	if _, ok := PathParent("norman"); ok {
		t.Error("expected no parent for norman")
	}
}
