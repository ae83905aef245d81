package textmatch

import "testing"

func TestNormalize(t *testing.T) {
	if got := Normalize("  C++/Go, Node.js "); got != "c   go  node js" {
		t.Errorf("Normalize = %q", got)
	}
}

func TestRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"kubernetes", "kubernetes", 100},
		{"", "go", 0},
		{"abc", "abd", 67},
		{"go", "rust", 0},
		{"zurich", "zürich", 83},
		{"münchen", "münchen", 100},
	}
	for _, tt := range tests {
		if got := Ratio(tt.a, tt.b); got != tt.want {
			t.Errorf("Ratio(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestTokenSetRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"identical ignoring case", "Kubernetes", "kubernetes", 100},
		{"subset", "go developer", "Senior Go Developer", 100},
		{"word order", "developer go", "go developer", 100},
		{"empty", "", "go", 0},
		{"punctuation only", "--", "go", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TokenSetRatio(tt.a, tt.b); got != tt.want {
				t.Errorf("TokenSetRatio(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestTokenSetRatio_Bounds(t *testing.T) {
	pairs := [][2]string{{"aws", "kubernetes"}, {"python", "pytorch"}, {"java", "javascript"}}
	for _, p := range pairs {
		got := TokenSetRatio(p[0], p[1])
		if got < 0 || got > 100 {
			t.Errorf("TokenSetRatio(%q, %q) = %d out of bounds", p[0], p[1], got)
		}
		if got == 100 {
			t.Errorf("TokenSetRatio(%q, %q) should not be a full match", p[0], p[1])
		}
	}
}

func TestBestOf(t *testing.T) {
	if got := BestOf("kubernetes", []string{"aws", "kubernetes"}); got != 100 {
		t.Errorf("BestOf = %d, want 100", got)
	}
	if got := BestOf("kubernetes", nil); got != 0 {
		t.Errorf("BestOf(nil) = %d, want 0", got)
	}
}
