package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeDSN(t *testing.T) {
	tests := []struct {
		name     string
		dsn      string
		expected string
	}{
		{
			name:     "bare dsn",
			dsn:      "user:password@tcp(localhost:3306)/rfp_tracker",
			expected: "user:password@tcp(localhost:3306)/rfp_tracker?parseTime=true&clientFoundRows=true",
		},
		{
			name:     "existing parameters",
			dsn:      "user:password@tcp(localhost:3306)/rfp_tracker?charset=utf8mb4",
			expected: "user:password@tcp(localhost:3306)/rfp_tracker?charset=utf8mb4&parseTime=true&clientFoundRows=true",
		},
		{
			name:     "parseTime already set",
			dsn:      "user:password@tcp(localhost:3306)/rfp_tracker?parseTime=true",
			expected: "user:password@tcp(localhost:3306)/rfp_tracker?parseTime=true&clientFoundRows=true",
		},
		{
			name:     "nothing to add",
			dsn:      "user:password@tcp(localhost:3306)/rfp_tracker?parseTime=true&clientFoundRows=true",
			expected: "user:password@tcp(localhost:3306)/rfp_tracker?parseTime=true&clientFoundRows=true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, normalizeDSN(tt.dsn))
		})
	}
}
