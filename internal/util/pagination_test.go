package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	offset, limit := Calculate(2, 10)
	assert.Equal(t, 10, offset)
	assert.Equal(t, 10, limit)

	// Out-of-range values clamp to the defaults.
	offset, limit = Calculate(0, 0)
	assert.Equal(t, 0, offset)
	assert.Equal(t, DefaultPageSize, limit)

	_, limit = Calculate(1, 1000)
	assert.Equal(t, DefaultPageSize, limit)
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 5, ParseIntDefault("5", 1))
	assert.Equal(t, 1, ParseIntDefault("", 1))
	assert.Equal(t, 1, ParseIntDefault("abc", 1))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, int64(2), TotalPages(15, 10))
	assert.Equal(t, int64(1), TotalPages(10, 10))
	assert.Equal(t, int64(0), TotalPages(0, 10))
}
