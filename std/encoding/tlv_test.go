package encoding_test

import (
	"testing"

	"github.com/ndn-go/forwarder/std/encoding"
	"github.com/stretchr/testify/require"
)

func TestTLVEncodeDecodeRoundTrip(t *testing.T) {
	tlv := encoding.TLV{Type: 8, Value: []byte("hello")}
	buf := make([]byte, tlv.EncodingLength())
	n := tlv.EncodeInto(buf)
	require.Equal(t, len(buf), n)

	d, consumed, err := encoding.DecodeTLV(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), consumed)
	require.Equal(t, tlv.Type, d.TLV.Type)
	require.Equal(t, tlv.Value, d.TLV.Value)
}

func TestTLVIsCritical(t *testing.T) {
	require.True(t, encoding.TLV{Type: 1}.IsCritical())   // < 32
	require.True(t, encoding.TLV{Type: 33}.IsCritical())  // odd
	require.False(t, encoding.TLV{Type: 32}.IsCritical()) // >= 32, even
	require.False(t, encoding.TLV{Type: 36}.IsCritical())
}

func TestDecodeTLVRejectsZeroType(t *testing.T) {
	buf := []byte{0x00, 0x00}
	_, _, err := encoding.DecodeTLV(buf)
	require.ErrorIs(t, err, encoding.ErrZeroType)
}

func TestDecodeTLVShortBuffer(t *testing.T) {
	tlv := encoding.TLV{Type: 8, Value: []byte("hello")}
	full := make([]byte, tlv.EncodingLength())
	tlv.EncodeInto(full)

	_, _, err := encoding.DecodeTLV(full[:len(full)-1])
	require.ErrorIs(t, err, encoding.ErrBufferTooShort)
}

func TestDecodeOuterSingleTLV(t *testing.T) {
	tlv := encoding.TLV{Type: 5, Value: []byte{1, 2, 3}}
	buf := make([]byte, tlv.EncodingLength())
	tlv.EncodeInto(buf)

	got, n, err := encoding.DecodeOuter(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	require.Equal(t, tlv.Type, got.Type)
	require.Equal(t, tlv.Value, got.Value)
}
