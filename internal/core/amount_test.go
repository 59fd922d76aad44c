package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"12.34", "12.34", true},
		{"12,34", "12.34", true},
		{" 5 ", "5", true},
		{"0.01", "0.01", true},
		{"", "", false},
		{"0", "", false},
		{"-3", "", false},
		{"+3", "", false},
		{"12.345", "", false}, // three decimal places
		{"abc", "", false},
		{"1.2.3", "", false},
	}
	for i, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("case %d (%q) expected ok, got %v", i, tc.in, err)
			}
			want, _ := decimal.NewFromString(tc.want)
			if !got.Equal(want) {
				t.Fatalf("case %d (%q) got %s want %s", i, tc.in, got, want)
			}
			continue
		}
		if err == nil {
			t.Fatalf("case %d (%q) expected error", i, tc.in)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	d := decimal.RequireFromString("1250.5")
	if got := FormatAmount(d); got != "1250.50 EGP" {
		t.Fatalf("got %q", got)
	}
}
