package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjacent(t *testing.T) {
	range12 := NewRange("0", 1, 2)
	range24 := NewRange("0", 2, 4)
	range56 := NewRange("0", 5, 6)

	assert.True(t, range12.Adjacent(range24))
	assert.True(t, range24.Adjacent(range12))
	assert.False(t, range12.Adjacent(range56))
	assert.False(t, range12.Adjacent(NewRange("1", 2, 4)), "different chromosomes are never adjacent")
}

func TestConcat(t *testing.T) {
	range12 := NewRange("0", 1, 2)
	range24 := NewRange("0", 2, 4)
	range56 := NewRange("0", 5, 6)

	merged, err := range12.Concat(range24)
	require.NoError(t, err)
	assert.Equal(t, NewRange("0", 1, 4), merged)

	merged, err = range24.Concat(range12)
	require.NoError(t, err)
	assert.Equal(t, NewRange("0", 1, 4), merged)

	_, err = range12.Concat(range56)
	assert.Error(t, err)
}

func TestCondense(t *testing.T) {
	range12 := NewRange("0", 1, 2)
	range24 := NewRange("0", 2, 4)
	range56 := NewRange("0", 5, 6)

	assert.Equal(t,
		[]Range{NewRange("0", 1, 4)},
		Condense(range12, range24))

	assert.Equal(t,
		[]Range{NewRange("0", 1, 4), range56},
		Condense(range12, range24, range56))
}

func TestComplement(t *testing.T) {
	assert.Equal(t, "tcgaggctTTAAGGCC", Complement("agctccgaAATTCCGG"))
}

func TestReverseComplement(t *testing.T) {
	assert.Equal(t, "CCGGAATTtcggagct", ReverseComplement("agctccgaAATTCCGG"))
}

func TestReverseComplementPreservesNs(t *testing.T) {
	assert.Equal(t, "ccNNNt", ReverseComplement("aNNNgg"))
}
