package ethaddr

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

// AddressLength is the number of hex characters in an address body.
const AddressLength = 40

// ChecksumAddress converts an address to its mixed-case checksum form as
// defined by EIP-55. The input may carry a 0x prefix and any mix of upper and
// lower case hex characters; the output is always 0x followed by the 40
// character checksummed body.
func ChecksumAddress(address string) (string, error) {
	body, err := NormalizeAddress(address)
	if err != nil {
		return "", err
	}
	return "0x" + checksumHex(body), nil
}

// MustChecksumAddress is like ChecksumAddress but panics on malformed input.
// Meant for addresses that are hardcoded or already validated.
func MustChecksumAddress(address string) string {
	checksummed, err := ChecksumAddress(address)
	if err != nil {
		panic(err)
	}
	return checksummed
}

// IsChecksumAddress reports whether the address already carries the exact
// casing ChecksumAddress would produce for it.
func IsChecksumAddress(address string) (bool, error) {
	body := stripHexPrefix(address)
	if err := validateAddressBody(body); err != nil {
		return false, err
	}
	return body == checksumHex(strings.ToLower(body)), nil
}

// NormalizeAddress strips the optional 0x prefix, validates the remaining
// body and returns it lowercased. The normalized form is what the checksum
// digest is computed over, and what callers should use as a canonical
// case-insensitive key.
func NormalizeAddress(address string) (string, error) {
	body := stripHexPrefix(address)
	if err := validateAddressBody(body); err != nil {
		return "", err
	}
	return strings.ToLower(body), nil
}

// checksumHex applies the EIP-55 casing rule to a lowercase hex string. The
// digest is the legacy Keccak-256, not the finalized SHA-3, over the ASCII
// bytes of the input. For each hex character the corresponding digest nibble
// decides the case: 8 or above means upper.
func checksumHex(unchecksummed string) string {
	sha := sha3.NewLegacyKeccak256()
	sha.Write([]byte(unchecksummed))
	hash := sha.Sum(nil)

	result := []byte(unchecksummed)
	for i := 0; i < len(result); i++ {
		hashByte := hash[i/2]
		if i%2 == 0 {
			hashByte = hashByte >> 4
		} else {
			hashByte &= 0xf
		}
		if result[i] > '9' && hashByte > 7 {
			result[i] -= 32
		}
	}
	return string(result)
}

// Only the lowercase 0x prefix is recognised. An uppercase 0X marker is left
// in place and rejected by validation, the same as any other stray character.
func stripHexPrefix(address string) string {
	return strings.TrimPrefix(address, "0x")
}

func validateAddressBody(body string) error {
	if len(body) != AddressLength {
		return errors.Wrapf(ErrInvalidAddressFormat, "got %d characters", len(body))
	}
	for i := 0; i < len(body); i++ {
		if !isHexChar(body[i]) {
			return errors.Wrapf(ErrInvalidAddressFormat, "character %q at position %d", body[i], i)
		}
	}
	return nil
}

func isHexChar(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
