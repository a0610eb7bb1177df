package utils

import "testing"

func TestNormalizeReference(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"rti/2024/001", "RTI/2024/001"},
		{"  RTI/2024/001  ", "RTI/2024/001"},
		{"rti / 2024 / 001", "RTI/2024/001"},
		{"fa-2024-17", "FA-2024-17"},
		{"   ", ""},
		{"", ""},
	}

	for _, tc := range cases {
		if got := NormalizeReference(tc.in); got != tc.want {
			t.Errorf("NormalizeReference(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
