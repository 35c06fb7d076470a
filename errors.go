package ethaddr

import (
	"github.com/pkg/errors"
)

// ErrInvalidAddressFormat is the cause of every rejection of a malformed
// address. Callers can match on it with errors.Cause after the package has
// annotated it with the offending detail.
var ErrInvalidAddressFormat = errors.New("invalid Ethereum address format, must be 40 hexadecimal characters")
