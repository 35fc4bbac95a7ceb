package encoding_test

import (
	"testing"

	"github.com/ndn-go/forwarder/std/encoding"
	"github.com/stretchr/testify/require"
)

func TestComponentEncodeDecodeRoundTrip(t *testing.T) {
	c := encoding.NewGenericComponent("hello")
	buf := make([]byte, c.EncodingLength())
	c.EncodeInto(buf)

	got, n, err := encoding.ParseComponent(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	require.True(t, c.Equal(got))
}

func TestComponentEqual(t *testing.T) {
	a := encoding.NewGenericComponent("x")
	b := encoding.NewGenericComponent("x")
	c := encoding.NewGenericComponent("y")
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}

func TestImplicitSha256DigestComponent(t *testing.T) {
	var digest [32]byte
	for i := range digest {
		digest[i] = byte(i)
	}
	c := encoding.NewImplicitSha256DigestComponent(digest)
	require.Equal(t, encoding.TypeImplicitSha256DigestComponent, c.Typ)
	require.Equal(t, digest[:], c.Val)
}

func TestComponentStringEscapesNonPrintable(t *testing.T) {
	c := encoding.NewBytesComponent(encoding.TypeGenericNameComponent, []byte{0x00, 0x01})
	require.Equal(t, "%00%01", c.String())
}
