package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatter_Format(t *testing.T) {
	f, err := NewFormatter("USD", "en-US")
	require.NoError(t, err)

	out := f.Format(12550)
	assert.Contains(t, out, "125.50")
	assert.Contains(t, out, "$")
	assert.Equal(t, "USD", f.Code())
}

func TestFormatter_Zero(t *testing.T) {
	f, err := NewFormatter("USD", "en-US")
	require.NoError(t, err)

	assert.Contains(t, f.Format(0), "0.00")
}

func TestNewFormatter_InvalidCurrency(t *testing.T) {
	_, err := NewFormatter("DOLLARS", "en-US")
	assert.Error(t, err)
}
