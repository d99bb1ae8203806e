package search

import "testing"

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"gumbo", "gambol", 2},
		{"a", "b", 1},
		{"abc", "adc", 1},
		{"abc", "abcd", 1},
		{"abcd", "abc", 1},
		{"readme", "readme.md", 3},
		{"Saturday", "Sunday", 3},
		// case-sensitive on raw input; callers fold first
		{"abc", "ABC", 3},
		// rune-based, not byte-based
		{"héllo", "hello", 1},
		{"日本語", "日本", 1},
	}
	for _, tt := range tests {
		if got := Distance(tt.a, tt.b); got != tt.want {
			t.Errorf("Distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDistanceSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"kitten", "sitting"},
		{"", "abc"},
		{"readme", "license"},
		{"log1.txt", "log.txt"},
	}
	for _, p := range pairs {
		ab := Distance(p[0], p[1])
		ba := Distance(p[1], p[0])
		if ab != ba {
			t.Errorf("Distance(%q, %q) = %d but Distance(%q, %q) = %d",
				p[0], p[1], ab, p[1], p[0], ba)
		}
	}
}

func TestDistanceIdentity(t *testing.T) {
	for _, s := range []string{"", "a", "readme.md", "日本語テキスト"} {
		if got := Distance(s, s); got != 0 {
			t.Errorf("Distance(%q, %q) = %d, want 0", s, s, got)
		}
	}
}
