package model

import (
	"math/big"
	"testing"
)

func TestParseUSD(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"1", "1000000000000000000"},
		{"19.99", "19990000000000000000"},
		{"0.5", "500000000000000000"},
		{".25", "250000000000000000"},
		{"1000", "1000000000000000000000"},
	}
	for _, tc := range cases {
		got, err := ParseUSD(tc.in)
		if err != nil {
			t.Fatalf("ParseUSD(%q) returned error: %v", tc.in, err)
		}
		if got.String() != tc.want {
			t.Errorf("ParseUSD(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseUSDRejectsInvalid(t *testing.T) {
	for _, in := range []string{"", "-1", "abc", "1.2.3", "1.1234567890123456789"} {
		if _, err := ParseUSD(in); err == nil {
			t.Errorf("ParseUSD(%q) should have failed", in)
		}
	}
}

func TestFormatUSD(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"1000000000000000000", "1"},
		{"19990000000000000000", "19.99"},
		{"500000000000000000", "0.5"},
	}
	for _, tc := range cases {
		v, _ := new(big.Int).SetString(tc.in, 10)
		if got := FormatUSD(v); got != tc.want {
			t.Errorf("FormatUSD(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
	if got := FormatUSD(nil); got != "0" {
		t.Errorf("FormatUSD(nil) = %q, want \"0\"", got)
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, in := range []string{"0", "1", "19.99", "0.001"} {
		v, err := ParseUSD(in)
		if err != nil {
			t.Fatalf("ParseUSD(%q): %v", in, err)
		}
		if got := FormatUSD(v); got != in {
			t.Errorf("round trip of %q produced %q", in, got)
		}
	}
}
