package hebrew

import "testing"

func TestMapKey(t *testing.T) {
	cases := []struct {
		in   rune
		want rune
	}{
		{'a', 'ש'},
		{'A', 'ש'},
		{'k', 'ל'},
		{',', 'ת'},
		{'ש', 'ש'}, // Hebrew input passes through
		{'1', '1'}, // unmapped passes through
	}
	for _, c := range cases {
		if got := MapKey(c.in); got != c.want {
			t.Errorf("MapKey(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
