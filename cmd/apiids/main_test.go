package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestCommand(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// Typos within edit distance 2
		{"rnu", "run"},
		{"ru", "run"},
		{"lokup", "lookup"},
		{"lookpu", "lookup"},
		{"tabel", "table"},
		{"tble", "table"},
		{"mpc", "mcp"},
		{"versio", "version"},
		{"hep", "help"},

		// Too far - no suggestion (distance > 2)
		{"xyzzy", ""},
		{"normalize", ""},
		{"lookupendpoint", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, suggestCommand(tt.input))
		})
	}
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein("table", "table"))
	assert.Equal(t, 3, levenshtein("", "mcp"))
	assert.Equal(t, 1, levenshtein("run", "ru"))
	assert.Equal(t, 2, levenshtein("→a", "b"))
}

func TestRun_Dispatch(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, 0, run(ctx, []string{"version"}))
	assert.Equal(t, 0, run(ctx, []string{"help"}))
	assert.Equal(t, 1, run(ctx, []string{"bogus"}))
}
