package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseYear(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"2015", 2015},
		{"October 26, 2015", 2015},
		{"Oct 2015", 2015},
		{"n.d.", 0},
		{"", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseYear(tt.in), "input %q", tt.in)
	}
}
