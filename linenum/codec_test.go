package linenum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	assert.Equal(t, "Person_LINE_5", Encode("Person", 5))
	assert.Equal(t, "http://example.org/Person_LINE_12", Encode("http://example.org/Person", 12))
}

func TestDecodeRoundTrip(t *testing.T) {
	value, line, err := Decode(Encode("Person", 5))
	require.NoError(t, err)
	assert.Equal(t, "Person", value)
	assert.Equal(t, 5, line)
}

func TestDecodeNoSuffix(t *testing.T) {
	value, line, err := Decode("Person")
	require.NoError(t, err)
	assert.Equal(t, "Person", value)
	assert.Equal(t, 0, line)
}

func TestDecodeSplitsOnLastSeparator(t *testing.T) {
	// A value that legitimately contains the separator must survive a
	// round trip.
	value, line, err := Decode(Encode("Chart_LINE_Series", 7))
	require.NoError(t, err)
	assert.Equal(t, "Chart_LINE_Series", value)
	assert.Equal(t, 7, line)
}

func TestDecodeMalformedSuffix(t *testing.T) {
	_, _, err := Decode("Person_LINE_abc")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedSuffix)
}

func TestDecodeZeroMeansAbsent(t *testing.T) {
	value, line, err := Decode("Person_LINE_0")
	require.NoError(t, err)
	assert.Equal(t, "Person", value)
	assert.Equal(t, 0, line)
}
