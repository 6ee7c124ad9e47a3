package service_test

import (
	"testing"

	"dreamhack-badge/internal/service"

	"github.com/stretchr/testify/require"
)

func TestTopPercentage(t *testing.T) {
	tests := []struct {
		name  string
		rank  int
		total int
		want  string
	}{
		{"always two decimals", 200, 1000, "20.00"},
		{"repeating fraction", 1, 3, "33.33"},
		{"whole percentage", 100, 1000, "10.00"},
		{"zero rank", 0, 1000, "N/A"},
		{"zero total", 200, 0, "N/A"},
		{"both zero", 0, 0, "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, service.TopPercentage(tt.rank, tt.total))
		})
	}
}
