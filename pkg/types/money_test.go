package types

import "testing"

func TestCentsToDollars(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{1999, "19.99"},
		{120000, "1200.00"},
	}
	for _, tc := range cases {
		if got := CentsToDollars(tc.cents); got != tc.want {
			t.Fatalf("%d cents: expected %q, got %q", tc.cents, tc.want, got)
		}
	}
}
