package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Devworks Bootcamp", "devworks-bootcamp"},
		{"ModernTech Bootcamp", "moderntech-bootcamp"},
		{"  Devcentral   Bootcamp ", "devcentral-bootcamp"},
		{"C# & .NET Academy", "c-net-academy"},
		{"already-slugged", "already-slugged"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}

func TestValidRegistrationRole(t *testing.T) {
	assert.True(t, ValidRegistrationRole(RoleUser))
	assert.True(t, ValidRegistrationRole(RolePublisher))
	assert.False(t, ValidRegistrationRole(RoleAdmin))
	assert.False(t, ValidRegistrationRole("superuser"))
}
