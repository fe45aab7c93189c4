package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// DeriveID computes the content-addressed identifier for a transaction:
// the SHA-256 digest, rendered as hex, of the record's textual
// representation. The caller-supplied salt is stamped into the id field
// before hashing so that two submissions with identical content still
// produce distinct ids; the salt itself is discarded and only the digest
// is ever persisted.
//
// The function is pure: the same transaction content and salt always
// yield the same id.
func DeriveID(txn Transaction, salt string) string {
	txn.ID = salt
	sum := sha256.Sum256([]byte(txn.String()))
	return hex.EncodeToString(sum[:])
}
