package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesAssignedUser(t *testing.T) {
	tests := []struct {
		name     string
		asset    string
		fullName string
		want     bool
	}{
		{"exact", "Siti Aminah", "Siti Aminah", true},
		{"case insensitive", "SITI AMINAH", "siti aminah", true},
		{"whitespace collapsed", "  Siti   Aminah ", "Siti Aminah", true},
		{"asset contains name", "Siti Aminah binti Ahmad", "Siti Aminah", true},
		{"name contains asset value", "Siti", "Siti Aminah", true},
		{"no overlap", "Rahman", "Siti Aminah", false},
		{"empty asset side", "", "Siti Aminah", false},
		{"empty name side", "Siti Aminah", "", false},
		{"both empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesAssignedUser(tt.asset, tt.fullName))
		})
	}
}
