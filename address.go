package ethaddr

import (
	"bytes"
	"encoding/hex"
)

// LocalAddress is a raw 20 byte Ethereum account address.
type LocalAddress [20]byte

// LocalAddressFromHexString parses an address from its hex form, with or
// without the 0x prefix and in any casing.
func LocalAddressFromHexString(hexAddrStr string) (LocalAddress, error) {
	var addr LocalAddress
	body, err := NormalizeAddress(hexAddrStr)
	if err != nil {
		return addr, err
	}
	b, err := hex.DecodeString(body)
	if err != nil {
		return addr, err
	}
	copy(addr[:], b)
	return addr, nil
}

// MustLocalAddressFromHexString is like LocalAddressFromHexString but panics
// on malformed input.
func MustLocalAddressFromHexString(hexAddrStr string) LocalAddress {
	addr, err := LocalAddressFromHexString(hexAddrStr)
	if err != nil {
		panic(err)
	}
	return addr
}

// Hex returns the checksummed hex encoding of the address without the 0x
// prefix.
func (a LocalAddress) Hex() string {
	return checksumHex(hex.EncodeToString(a[:]))
}

func (a LocalAddress) String() string {
	return "0x" + a.Hex()
}

func (a LocalAddress) IsEmpty() bool {
	return a == LocalAddress{}
}

// Compare lexicographically compares the raw bytes of two addresses.
func (a LocalAddress) Compare(other LocalAddress) int {
	return bytes.Compare(a[:], other[:])
}

// Bytes returns a copy of the raw address bytes.
func (a LocalAddress) Bytes() []byte {
	b := make([]byte, len(a))
	copy(b, a[:])
	return b
}
