package flags

import (
	"testing"

	"github.com/phantom820/streams/v2/spliterator"
	"github.com/stretchr/testify/assert"
)

func TestCombine(t *testing.T) {

	// Case 1 : Setting a property on the initial word makes it known.
	word := Combine(Set(Sized), Initial)
	assert.Equal(t, true, word.Knows(Sized))
	assert.Equal(t, false, word.Knows(Ordered))

	// Case 2 : An absent property preserves the accumulated state.
	word = Combine(Set(Ordered), word)
	assert.Equal(t, true, word.Knows(Sized))
	assert.Equal(t, true, word.Knows(Ordered))

	// Case 3 : Clearing a property drops it.
	word = Combine(Clear(Sized), word)
	assert.Equal(t, false, word.Knows(Sized))
	assert.Equal(t, true, word.Cleared(Sized))
	assert.Equal(t, true, word.Knows(Ordered))

	// Case 4 : Setting a cleared property restores it.
	word = Combine(Set(Sized), word)
	assert.Equal(t, true, word.Knows(Sized))
}

func TestCombineWordWithOnlySetBits(t *testing.T) {

	// A word with only set bits combined into the initial accumulator compresses back to itself.
	word := Set(Distinct).Or(Set(Sorted)).Or(Set(Ordered)).Or(Set(Sized))
	combined := Combine(word, Initial)
	assert.Equal(t, word, combined)
}

func TestCombineIsLeftBiased(t *testing.T) {

	// The newest op wins per property regardless of the accumulated state.
	prev := Combine(Set(Distinct).Or(Set(Sorted)), Initial)
	next := Combine(Clear(Sorted), prev)
	assert.Equal(t, true, next.Knows(Distinct))
	assert.Equal(t, false, next.Knows(Sorted))
}

func TestCharacteristicsRoundTrip(t *testing.T) {

	// Case 1 : Source characteristics surface as stream flags.
	chars := spliterator.Sized | spliterator.Ordered | spliterator.Sorted | spliterator.Distinct
	word := FromCharacteristics(chars)
	assert.Equal(t, true, word.Knows(Sized))
	assert.Equal(t, true, word.Knows(Ordered))
	assert.Equal(t, true, word.Knows(Sorted))
	assert.Equal(t, true, word.Knows(Distinct))
	assert.Equal(t, chars, word.ToCharacteristics())

	// Case 2 : Uniform and infinite are spliterator only characteristics.
	word = FromCharacteristics(spliterator.Uniform | spliterator.Infinite)
	assert.Equal(t, Initial, word)
}

func TestShortCircuitAndParallel(t *testing.T) {

	word := Combine(Set(ShortCircuit), Initial)
	assert.Equal(t, true, word.Knows(ShortCircuit))
	assert.Equal(t, false, word.Knows(Parallel))

	word = Combine(Set(Parallel), word)
	assert.Equal(t, true, word.Knows(ShortCircuit))
	assert.Equal(t, true, word.Knows(Parallel))
}
