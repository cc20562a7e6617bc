package action

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		want Kind
	}{
		{"close-tree", CloseTree},
		{"select", Select},
		{"out-dir", OutDir},
		{"in-dir", InDir},
		{"inc-level", IncLevel},
		{"dec-level", DecLevel},
		{"inc-limit", IncLevel}, // alias
		{"dec-limit", DecLevel}, // alias
		{"yank-abs-path", YankAbsPath},
		{"yank-rel-path", YankRelPath},
		{"create", Create},
		{"delete", Delete},
		{"rename", Rename},
		{"refresh", Refresh},
	}
	for _, tt := range tests {
		got, err := Parse(tt.name)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParse_Unknown(t *testing.T) {
	for _, name := range []string{"", "quit", "Select", "inc_level"} {
		if got, err := Parse(name); err == nil {
			t.Errorf("Parse(%q) = %v, want error", name, got)
		}
	}
}

func TestString_RoundTrip(t *testing.T) {
	for k := CloseTree; k <= Refresh; k++ {
		got, err := Parse(k.String())
		if err != nil || got != k {
			t.Errorf("Parse(%q) = %v, %v; want %v", k.String(), got, err, k)
		}
	}
	if Invalid.String() != "invalid" {
		t.Errorf("Invalid.String() = %q", Invalid.String())
	}
}
