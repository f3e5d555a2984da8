package rank

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewKeyFromHex(t *testing.T) {
	key, err := NewKeyFromHex(16, "ab01")
	require.NoError(t, err)
	require.Equal(t, uint32(16), key.BitLen())
	require.Equal(t, []byte{0xab, 0x01}, key.AsBytes())
}

func TestNewKeyFromHex_WrongLength(t *testing.T) {
	_, err := NewKeyFromHex(16, "ab")
	require.ErrorIs(t, err, ErrLength)
}

func TestNewKeyFromHex_InvalidChars(t *testing.T) {
	_, err := NewKeyFromHex(8, "zz")
	require.ErrorIs(t, err, ErrInvalid)
}

func TestNewKeyFromBytes_WrongLength(t *testing.T) {
	_, err := NewKeyFromBytes(16, []byte{0x01, 0x02, 0x03})
	require.ErrorIs(t, err, ErrLength)
}

func TestSubkeyValue(t *testing.T) {
	// byte 0 = 0b10110010 -> bit0=0,bit1=1,bit2=0,bit3=0,bit4=1,bit5=1,bit6=0,bit7=1
	key, err := NewKeyFromBytes(8, []byte{0b10110010})
	require.NoError(t, err)

	span, err := NewBitSpan(0, 4)
	require.NoError(t, err)

	v, err := SubkeyValue[uint8](key, span)
	require.NoError(t, err)
	require.Equal(t, uint8(0b0010), v)

	span2, err := NewBitSpan(4, 4)
	require.NoError(t, err)
	v2, err := SubkeyValue[uint8](key, span2)
	require.NoError(t, err)
	require.Equal(t, uint8(0b1011), v2)
}

func TestSubkeyValue_OutOfRange(t *testing.T) {
	key, err := NewKeyFromBytes(8, []byte{0x00})
	require.NoError(t, err)

	span, err := NewBitSpan(0, 9)
	require.NoError(t, err)

	_, err = SubkeyValue[uint16](key, span)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestSubkeyValue_SpanPastKeyLength(t *testing.T) {
	key, err := NewKeyFromBytes(8, []byte{0x00})
	require.NoError(t, err)

	span, err := NewBitSpan(4, 8)
	require.NoError(t, err)

	_, err = SubkeyValue[uint8](key, span)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestAsLeIntegerValue(t *testing.T) {
	key, err := NewKeyFromBytes(16, []byte{0x01, 0x02})
	require.NoError(t, err)

	v, err := AsLeIntegerValue[uint32](key)
	require.NoError(t, err)
	require.Equal(t, uint32(0x0201), v)
}

func TestRandomKey(t *testing.T) {
	key, err := RandomKey(bytes.NewReader([]byte{0xff, 0xff}), 12)
	require.NoError(t, err)
	require.Equal(t, 2, len(key.AsBytes()))
	// top nibble of the second byte must be cleared (12 bits = 1 byte + 4 bits)
	require.Equal(t, byte(0x0f), key.AsBytes()[1])
}
