package utils

import "testing"

func TestFormatBRL(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "R$ 0,00"},
		{1, "R$ 1,00"},
		{25.5, "R$ 25,50"},
		{1234.56, "R$ 1.234,56"},
		{1000000, "R$ 1.000.000,00"},
		{-42.07, "-R$ 42,07"},
	}
	for _, tc := range cases {
		if got := FormatBRL(tc.in); got != tc.want {
			t.Errorf("FormatBRL(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0,00%"},
		{3.456, "3,46%"},
		{-1.2, "-1,20%"},
		{100, "100,00%"},
	}
	for _, tc := range cases {
		if got := FormatPercent(tc.in); got != tc.want {
			t.Errorf("FormatPercent(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
