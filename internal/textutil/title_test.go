package textutil

import "testing"

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Heat", "heat"},
		{"  Heat (1995) ", "heat"},
		{"HEAT(1995)", "heat"},
		{"Blade Runner 2049", "blade runner 2049"},
		{"Alien (Director's Cut)", "alien (director's cut)"},
		{"Amélie (2001)", "amélie"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := NormalizeTitle(tc.in); got != tc.want {
			t.Fatalf("NormalizeTitle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSameTitle(t *testing.T) {
	if !SameTitle("The Thing (1982)", "the thing") {
		t.Fatal("expected year suffix and case to be ignored")
	}
	if SameTitle("The Thing", "The Thing 2") {
		t.Fatal("different titles should not match")
	}
}

func TestTruncateCountsRunes(t *testing.T) {
	if got := Truncate("ééééé", 3); got != "ééé" {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := Truncate("abc", 10); got != "abc" {
		t.Fatalf("short input should be unchanged: %q", got)
	}
	if got := Truncate("abc", 0); got != "" {
		t.Fatalf("zero limit should empty: %q", got)
	}
	if RuneLen("ééé") != 3 {
		t.Fatal("expected rune count")
	}
}
