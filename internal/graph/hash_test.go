package graph

import "testing"

func TestHashCode(t *testing.T) {
	tests := []struct {
		in   string
		want int32
	}{
		{"", 0},
		{"a", 97},
		{"ab", 3105},
		{"hello", 99162322},
	}
	for _, tt := range tests {
		if got := hashCode(tt.in); got != tt.want {
			t.Errorf("hashCode(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestHashCode_Wraps(t *testing.T) {
	// Long inputs overflow int32 and must stay deterministic.
	s := "/files/ENCFF000AAA/,/files/ENCFF000AAB/,/files/ENCFF000AAC/"
	if hashCode(s) != hashCode(s) {
		t.Fatal("hashCode not deterministic")
	}
}

func TestGroupHash(t *testing.T) {
	if got := groupHash([]string{"a"}); got != "97" {
		t.Errorf("groupHash([a]) = %q, want 97", got)
	}
	if groupHash([]string{"a", "b"}) != groupHash([]string{"a", "b"}) {
		t.Error("groupHash not deterministic")
	}
	if groupHash([]string{"a", "b"}) == groupHash([]string{"ab"}) {
		t.Error("separator should distinguish [a b] from [ab]")
	}
}
