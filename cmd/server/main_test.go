package main

import "testing"

func TestIsWeakSecret(t *testing.T) {
	cases := map[string]bool{
		"":                                       true,
		"short":                                  true,
		"change-me-in-production-0123456789abcd": true,
		"Q7vJ2kL9mN4pR8sT1wX5yZ3aB6cD0eF2gH4":    false,
	}
	for secret, want := range cases {
		if got := isWeakSecret(secret); got != want {
			t.Fatalf("isWeakSecret(%q) want %v got %v", secret, want, got)
		}
	}
}
