package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "a", FirstNonEmpty("a", "b"))
	assert.Equal(t, "b", FirstNonEmpty("", "b"))
	assert.Equal(t, "", FirstNonEmpty("", ""))
	assert.Equal(t, "", FirstNonEmpty())
}

func TestEqualFold(t *testing.T) {
	assert.True(t, EqualFold("Admin@Shop.io ", "admin@shop.io"))
	assert.False(t, EqualFold("a", "b"))
}

func TestCompactStrings(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, CompactStrings([]string{" a ", "", "  ", "b"}))
	assert.Empty(t, CompactStrings(nil))
}
