package airports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	a, ok := Lookup(" jfk ")
	require.True(t, ok)
	assert.Equal(t, "New York", a.City)

	_, ok = Lookup("ZZZ")
	assert.False(t, ok)
}

func TestNearby(t *testing.T) {
	assert.Equal(t, []string{"EWR", "LGA"}, Nearby("JFK"))
	assert.Nil(t, Nearby("ZZZ"))
}

func TestByCityIsDeterministic(t *testing.T) {
	// "New York" names both JFK and LGA; code order makes JFK win.
	a, ok := ByCity("flights out of New York please")
	require.True(t, ok)
	assert.Equal(t, "JFK", a.Code)

	_, ok = ByCity("middle of nowhere")
	assert.False(t, ok)
}
