package utils

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var idPattern = regexp.MustCompile(`^([A-Z]+)-(\d+)-([0-9A-Z]{5})$`)

func TestGenerateIDFormat(t *testing.T) {
	m := idPattern.FindStringSubmatch(GenerateID("PROD"))
	require.NotNil(t, m)
	assert.Equal(t, "PROD", m[1])

	assert.True(t, strings.HasPrefix(GenerateID(""), "ID-"))
}

func TestGenerateIDUnique(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		id := GenerateID("EVT")
		_, dup := seen[id]
		require.False(t, dup, id)
		seen[id] = struct{}{}
	}
}

func TestGenerateIDMillisIncrease(t *testing.T) {
	var last int64
	for i := 0; i < 100; i++ {
		m := idPattern.FindStringSubmatch(GenerateID("X"))
		require.NotNil(t, m)
		ms, err := strconv.ParseInt(m[2], 10, 64)
		require.NoError(t, err)
		assert.Greater(t, ms, last)
		last = ms
	}
}

func TestNextMillisNeverGoesBack(t *testing.T) {
	now := time.Now()
	a := nextMillis(now)
	b := nextMillis(now.Add(-time.Hour))
	assert.Equal(t, a+1, b)
}

func TestRandomCode(t *testing.T) {
	assert.Equal(t, "", RandomCode(0))
	for _, n := range []int{1, 5, 9, 30} {
		code := RandomCode(n)
		assert.Len(t, code, n)
		assert.Regexp(t, `^[0-9A-Z]+$`, code)
	}
}
