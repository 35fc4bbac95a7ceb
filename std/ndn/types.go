package ndn

import "github.com/ndn-go/forwarder/std/encoding"

// Wire TLV type numbers (spec.md section 6). Bit-exact with the NDN
// packet format -- these are not implementation choices.
const (
	TypeInterest TLNum = 5
	TypeData     TLNum = 6

	TypeNonce                   TLNum = 10
	TypeInterestLifetime        TLNum = 12
	TypeMustBeFresh             TLNum = 18
	TypeMetaInfo                TLNum = 20
	TypeContent                 TLNum = 21
	TypeSignatureInfo           TLNum = 22
	TypeSignatureValue          TLNum = 23
	TypeContentType             TLNum = 24
	TypeFreshnessPeriod         TLNum = 25
	TypeFinalBlockId            TLNum = 26
	TypeSignatureType           TLNum = 27
	TypeKeyDigest               TLNum = 28
	TypeKeyLocator              TLNum = 29
	TypeForwardingHint          TLNum = 30
	TypeCanBePrefix             TLNum = 33
	TypeHopLimit                TLNum = 34
	TypeApplicationParameters   TLNum = 36
	TypeInterestSignatureNonce  TLNum = 38
	TypeInterestSignatureTime   TLNum = 40
	TypeInterestSignatureSeqNum TLNum = 42
	TypeInterestSignatureInfo   TLNum = 44
	TypeInterestSignatureValue  TLNum = 46
)

// TLNum aliases the TLV codec's varint type so packet fields can name
// wire type numbers without importing encoding directly everywhere.
type TLNum = encoding.TLNum

// ContentType is the value of a Data's MetaInfo ContentType field.
type ContentType uint64

const (
	ContentTypeBlob      ContentType = 0
	ContentTypeLink      ContentType = 1
	ContentTypeKey       ContentType = 2
	ContentTypeNack      ContentType = 3
	ContentTypeManifest  ContentType = 4
	ContentTypePrefixAnn ContentType = 5
)

// SignatureType is the value of a SignatureInfo's SignatureType field.
type SignatureType uint64

const (
	SignatureTypeNone       SignatureType = 0
	SignatureTypeDigestSha  SignatureType = 1
	SignatureTypeEcdsaSha   SignatureType = 3
	SignatureTypeHmacSha    SignatureType = 4
	SignatureTypeEd25519    SignatureType = 5
)
