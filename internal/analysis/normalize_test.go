package analysis

import "testing"

func TestNormalizeAnswer(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a)", "A"},
		{"A.", "A"},
		{" a ", "A"},
		{"b", "B"},
		{"  C  ", "C"},
		{"e", "E"},
		{".) \t\n", ""},
		{"", ""},
		{"a) b", "AB"},
		{"Certo", "CERTO"},
	}

	for _, tc := range tests {
		if got := NormalizeAnswer(tc.in); got != tc.want {
			t.Errorf("NormalizeAnswer(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeAnswer_Idempotent(t *testing.T) {
	inputs := []string{"a)", " A .", "b", "", "  e)  ", "Errado."}
	for _, in := range inputs {
		once := NormalizeAnswer(in)
		twice := NormalizeAnswer(once)
		if once != twice {
			t.Errorf("NormalizeAnswer not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizeAnswer_StylisticVariantsEqual(t *testing.T) {
	variants := []string{"a)", " A ", "a.", "A", " a."}
	want := NormalizeAnswer(variants[0])
	for _, v := range variants[1:] {
		if NormalizeAnswer(v) != want {
			t.Errorf("expected %q to normalize equal to %q", v, variants[0])
		}
	}
}
