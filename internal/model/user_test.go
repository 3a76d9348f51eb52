package model

import "testing"

func TestParseRole(t *testing.T) {
	cases := []struct {
		input  string
		want   Role
		wantOK bool
	}{
		{"client", RoleClient, true},
		{"establishment", RoleEstablishment, true},
		{"", "", false},
		{"admin", "", false},
		{"Client", "", false},
		{"CLIENT", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got, ok := ParseRole(tc.input)
			if ok != tc.wantOK {
				t.Errorf("ParseRole(%q) ok = %v, want %v", tc.input, ok, tc.wantOK)
			}
			if ok && got != tc.want {
				t.Errorf("ParseRole(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
