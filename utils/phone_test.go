package utils

import "testing"

func TestNormalizePhone10(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"bare national", "9876543210", "9876543210", false},
		{"with country code", "+919876543210", "9876543210", false},
		{"spaced", "+91 98765 43210", "9876543210", false},
		{"leading zero", "09876543210", "9876543210", false},
		{"dashed", "98765-43210", "9876543210", false},
		{"too short", "12345", "", true},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizePhone10(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestIsValidPhone10(t *testing.T) {
	if !IsValidPhone10("+91 98765 43210") {
		t.Error("expected a formatted mobile number to validate")
	}
	if IsValidPhone10("12") {
		t.Error("expected a short string to fail validation")
	}
}
