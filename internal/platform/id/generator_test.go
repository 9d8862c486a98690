package id

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunIDGenerator_FormatAndUniqueness(t *testing.T) {
	g := NewRunIDGenerator("")
	g.now = func() time.Time { return time.Date(2026, 10, 18, 2, 39, 0, 0, time.UTC) }

	first, err := g.NewID()
	require.NoError(t, err)
	second, err := g.NewID()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(first, "run_20261018T023900Z_"), first)
	assert.Len(t, first, len("run_20261018T023900Z_")+16)
	assert.NotEqual(t, first, second)
}
