package mutf8

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeASCII(t *testing.T) {
	s := "java/lang/Object"
	enc := Encode(s)
	dec, err := Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, s, dec)
	assert.Equal(t, len(enc), Length(s))
}

func TestEncodeNulByte(t *testing.T) {
	enc := Encode("a\x00b")
	assert.Equal(t, []byte{'a', 0xC0, 0x80, 'b'}, enc)

	dec, err := Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, "a\x00b", dec)
}

func TestDecodeRejectsRawNul(t *testing.T) {
	_, err := Decode([]byte{'a', 0x00, 'b'})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestSupplementaryCharacterRoundTrip(t *testing.T) {
	s := "\U0001F600" // outside the BMP, must use a surrogate pair
	enc := Encode(s)
	assert.Equal(t, 6, len(enc))

	dec, err := Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, s, dec)
}

func TestDecodeRejectsTruncatedSequence(t *testing.T) {
	_, err := Decode([]byte{0xE0, 0x80})
	assert.Error(t, err)
}
