package xcodeml

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/text/unicode/norm"
)

// Domain prefixes for content hashes. The version suffix allows the
// algorithm to change without colliding with recorded hashes.
const (
	DomainDocument = "declgen/document/v1"
	DomainConfig   = "declgen/config/v1"
	DomainOutput   = "declgen/output/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data) as lowercase hex.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// DocumentHash identifies an IR document. Input is NFC-normalised first so
// equivalent encodings of the same names hash the same.
func DocumentHash(data []byte) string {
	return hashWithDomain(DomainDocument, norm.NFC.Bytes(data))
}

// ConfigHash identifies a canonical configuration encoding.
func ConfigHash(canonical []byte) string {
	return hashWithDomain(DomainConfig, canonical)
}

// OutputHash identifies generated text.
func OutputHash(text string) string {
	return hashWithDomain(DomainOutput, []byte(text))
}
