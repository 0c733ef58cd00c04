package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{email: "ana@test.cl", want: true},
		{email: "first.last+tag@sub.example.com", want: true},
		{email: "under_score-dash@ex-ample.org", want: true},
		{email: "not-an-email", want: false},
		{email: "a@b", want: false},
		{email: "@b.com", want: false},
		{email: "a@.c", want: false},
		{email: "a@b.c", want: false},
		{email: "a@b.c0m", want: false},
		{email: "a b@c.com", want: false},
		{email: "a@b.com ", want: false},
		{email: " ana@test.cl", want: false},
		{email: strings.Repeat("a", 243) + "@example.com", want: true},
		{email: strings.Repeat("a", 244) + "@example.com", want: false},
		{email: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidEmail(tt.email))
		})
	}
}

func TestCanonicalEmail(t *testing.T) {
	assert.Equal(t, "ana@test.cl", CanonicalEmail("Ana@Test.CL"))
	assert.Equal(t, " ana@test.cl ", CanonicalEmail(" Ana@Test.CL "))
	assert.False(t, IsValidEmail(CanonicalEmail(" Ana@Test.CL ")))
}
