package courses

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundUpToTen(t *testing.T) {
	cases := []struct {
		avg  float64
		want int
	}{
		{10000, 10000},
		{9999, 10000},
		{9991, 10000},
		{6333.333, 6340},
		{1, 10},
		{0, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RoundUpToTen(tc.avg), "avg %v", tc.avg)
	}
}
