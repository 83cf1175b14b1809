package urlutil

import "testing"

func TestValidate(t *testing.T) {
	valid := []string{
		"http://example.com",
		"https://example.com/path",
	}
	for _, u := range valid {
		if err := ValidateURL(u); err != nil {
			t.Fatalf("expected valid, got error: %v", err)
		}
	}

	invalid := []string{"ftp://example.com", "//example.com", "http:///"}
	for _, u := range invalid {
		if err := ValidateURL(u); err == nil {
			t.Fatalf("expected invalid for %s", u)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"acme.io":              "https://acme.io",
		"  acme.io/about ":     "https://acme.io/about",
		"http://acme.io":       "http://acme.io",
		"HTTPS://acme.io/team": "HTTPS://acme.io/team",
		"//acme.io":            "https://acme.io",
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDomainLabel(t *testing.T) {
	tests := map[string]string{
		"https://acme.io":                  "Acme",
		"https://www.acme.io/about":        "Acme",
		"https://shop.acme.co.uk/products": "Acme",
		"https://blue-river.com":           "Blue River",
		"http://localhost:8080":            "Localhost",
		"not a url":                        "",
	}
	for in, want := range tests {
		if got := DomainLabel(in); got != want {
			t.Errorf("DomainLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSiteURL(t *testing.T) {
	got, err := SiteURL("https://acme.io/products/x?y=1", "/about")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://acme.io/about" {
		t.Errorf("got %q", got)
	}
	if _, err := SiteURL("/relative", "/about"); err == nil {
		t.Error("expected error for URL without host")
	}
}
