package contract

import (
	"crypto/sha256"
	"encoding/hex"
)

// ID returns the contract id of owner: the lowercase hex SHA-256 of the
// owner string. The same owner always maps to the same id.
func ID(owner string) string {
	sum := sha256.Sum256([]byte(owner))
	return hex.EncodeToString(sum[:])
}
