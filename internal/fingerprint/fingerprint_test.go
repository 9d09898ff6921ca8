package fingerprint

import (
	"net/http"
	"net/url"
	"testing"
)

func TestGoProfileIsPlainTransport(t *testing.T) {
	rt, err := NewTransport(ProfileGo, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tr, ok := rt.(*http.Transport)
	if !ok {
		t.Fatalf("expected *http.Transport, got %T", rt)
	}
	if tr.DialTLSContext != nil {
		t.Error("go profile must not install a custom TLS dialer")
	}
}

func TestBrowserProfilesInstallDialer(t *testing.T) {
	for _, p := range []Profile{ProfileChrome, ProfileFirefox, ProfileSafari} {
		rt, err := NewTransport(p, nil)
		if err != nil {
			t.Fatalf("profile %s: unexpected error: %v", p, err)
		}
		tr := rt.(*http.Transport)
		if tr.DialTLSContext == nil {
			t.Errorf("profile %s: expected custom TLS dialer", p)
		}
	}
}

func TestUnknownProfile(t *testing.T) {
	if _, err := NewTransport("netscape", nil); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestProxyWiredIntoTransport(t *testing.T) {
	pu, _ := url.Parse("http://127.0.0.1:3128")
	rt, err := NewTransport(ProfileGo, pu)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tr := rt.(*http.Transport)

	req, _ := http.NewRequest(http.MethodGet, "https://www.bing.com/search", nil)
	got, err := tr.Proxy(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.String() != pu.String() {
		t.Errorf("expected proxy %s, got %v", pu, got)
	}
}
