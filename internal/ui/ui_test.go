package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/law-makers/bizscrape/pkg/models"
)

func TestLabel(t *testing.T) {
	tests := map[string]string{
		"company_name":       "Company Name",
		"awards_recognition": "Awards Recognition",
		"url":                "Url",
	}
	for in, want := range tests {
		if got := Label(in); got != want {
			t.Errorf("Label(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestShorten(t *testing.T) {
	if got := Shorten("héllo world", 5); got != "héllo..." {
		t.Errorf("Shorten = %q", got)
	}
	if got := Shorten("short", 10); got != "short" {
		t.Errorf("Shorten = %q", got)
	}
}

func TestPrintRecord(t *testing.T) {
	rec := &models.Record{ID: "abc", CompanyName: "Acme", Industry: "Technology", AwardsRecognition: "Best of 2023"}

	var short bytes.Buffer
	PrintRecord(&short, rec, false)
	if !strings.Contains(short.String(), "Acme") || !strings.Contains(short.String(), "Technology") {
		t.Errorf("card missing headline fields: %q", short.String())
	}
	if strings.Contains(short.String(), "Best of 2023") {
		t.Error("short card should omit non-headline fields")
	}

	var full bytes.Buffer
	PrintRecord(&full, rec, true)
	if !strings.Contains(full.String(), "Best of 2023") {
		t.Error("full card should list every field")
	}
}
