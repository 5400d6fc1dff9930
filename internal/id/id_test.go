package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShort(t *testing.T) {
	first := Short()
	second := Short()

	assert.Len(t, first, 16)
	assert.Regexp(t, "^[0-9a-f]{16}$", first)
	assert.NotEqual(t, first, second)
}
