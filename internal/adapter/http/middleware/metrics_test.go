package middleware

import "testing"

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/health", "/health"},
		{"/api/v1/payments", "/api/v1/payments"},
		{"/api/v1/users/alice/receivable", "/api/v1/users/:id/receivable"},
		{"/api/v1/users/alice/payable", "/api/v1/users/:id/payable"},
		{"/api/v1/users/alice/transactions/bob", "/api/v1/users/:id/transactions/:id"},
		{"/api/v1/users/", "/api/v1/users/"},
	}

	for _, tc := range cases {
		if got := normalizePath(tc.path); got != tc.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}
