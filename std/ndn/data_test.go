package ndn_test

import (
	"testing"

	"github.com/ndn-go/forwarder/std/encoding"
	"github.com/ndn-go/forwarder/std/ndn"
	"github.com/ndn-go/forwarder/std/types/optional"
	"github.com/stretchr/testify/require"
)

func buildData(name encoding.Name, content []byte) ndn.Data {
	return ndn.Data{
		Name: name,
		MetaInfo: optional.Some(ndn.MetaInfo{
			ContentType:     optional.Some(ndn.ContentTypeBlob),
			FreshnessPeriod: optional.Some(uint64(10)),
		}),
		Content: optional.Some(content),
		SigInfo: ndn.SignatureInfo{
			SignatureType: ndn.SignatureTypeDigestSha,
		},
		SigValue: []byte{0xde, 0xad, 0xbe, 0xef},
	}
}

func TestDataRoundTrip(t *testing.T) {
	d := buildData(buildName("A"), []byte("hi"))
	buf := d.Bytes()

	outer, n, err := encoding.DecodeOuter(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	require.Equal(t, uint64(ndn.TypeData), outer.Type)

	decoded, err := ndn.ParseData(outer.Value)
	require.NoError(t, err)
	require.True(t, d.Name.Equal(decoded.Name))

	mi, ok := decoded.MetaInfo.Get()
	require.True(t, ok)
	ct, ok := mi.ContentType.Get()
	require.True(t, ok)
	require.Equal(t, ndn.ContentTypeBlob, ct)

	content, ok := decoded.Content.Get()
	require.True(t, ok)
	require.Equal(t, []byte("hi"), content)

	require.Equal(t, ndn.SignatureTypeDigestSha, decoded.SigInfo.SignatureType)
	require.Equal(t, d.SigValue, decoded.SigValue)
	require.Equal(t, buf, decoded.Bytes())
}

func TestDataSignedPortion(t *testing.T) {
	d := buildData(buildName("A"), []byte("hi"))
	buf := d.Bytes()

	outer, _, err := encoding.DecodeOuter(buf)
	require.NoError(t, err)
	decoded, err := ndn.ParseData(outer.Value)
	require.NoError(t, err)

	signed, ok := decoded.SignedPortion()
	require.True(t, ok)

	// The signed portion must start at Name and exclude SignatureValue.
	nameTLV := d.Name.AsOuterTLV()
	nameBuf := make([]byte, nameTLV.EncodingLength())
	nameTLV.EncodeInto(nameBuf)
	require.Equal(t, nameBuf, signed[:len(nameBuf)])

	sv := encoding.TLV{Type: uint64(ndn.TypeSignatureValue), Value: d.SigValue}
	svBuf := make([]byte, sv.EncodingLength())
	sv.EncodeInto(svBuf)
	require.NotContains(t, string(signed), string(svBuf))
}

func TestDataRequiresSignatureFields(t *testing.T) {
	name := buildName("A")
	nameTLV := name.AsOuterTLV()
	buf := make([]byte, nameTLV.EncodingLength())
	nameTLV.EncodeInto(buf)

	_, err := ndn.ParseData(buf)
	require.Error(t, err)
}

func TestDataRejectsEmptyName(t *testing.T) {
	nameTLV := encoding.EmptyName.AsOuterTLV()
	buf := make([]byte, nameTLV.EncodingLength())
	nameTLV.EncodeInto(buf)

	_, err := ndn.ParseData(buf)
	require.Error(t, err)
}
