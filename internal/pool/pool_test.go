package pool_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodeframe/internal/pool"
)

func TestInternReturnsStableIDForRepeatedValue(t *testing.T) {
	p := pool.New()

	a := p.Intern("alpha")
	b := p.Intern("beta")
	aAgain := p.Intern("alpha")

	require.Equal(t, a, aAgain)
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, p.Len())
}

func TestGetOutOfRangeReturnsEmptyString(t *testing.T) {
	p := pool.New()

	assert.Equal(t, "", p.Get(0))
	assert.Equal(t, "", p.Get(pool.InvalidID))
	assert.False(t, p.IsValid(pool.InvalidID))
}

func TestGetRoundTrips(t *testing.T) {
	p := pool.New()
	id := p.Intern("hello")

	assert.Equal(t, "hello", p.Get(id))
	assert.True(t, p.IsValid(id))
}

func TestClearResetsPool(t *testing.T) {
	p := pool.New()
	id := p.Intern("gone")
	p.Clear()

	assert.Equal(t, 0, p.Len())
	assert.False(t, p.IsValid(id))
}
