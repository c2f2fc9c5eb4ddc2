package crypto

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

// Algorithm identifiers. The set is closed: a stored hash naming anything
// else is rejected at parse time so a tampered record can never select a
// weaker or unknown computation.
const (
	AlgMD5          = "md5"
	AlgPBKDF2SHA256 = "pbkdf2_sha256"
)

// Current defaults for newly set passwords and for chain-extension rehashes.
const (
	DefaultAlgorithm = AlgPBKDF2SHA256
	DefaultCost      = 100000

	saltLength = 24
)

type algorithm struct {
	costRequired bool
	compute      func(input, salt string, cost int) string
}

var registry = map[string]algorithm{
	// Legacy simply-salted digest, kept only so old chains still verify.
	AlgMD5: {
		costRequired: false,
		compute: func(input, salt string, _ int) string {
			sum := md5.Sum([]byte(salt + input))
			return hex.EncodeToString(sum[:])
		},
	},
	AlgPBKDF2SHA256: {
		costRequired: true,
		compute: func(input, salt string, cost int) string {
			key := pbkdf2.Key([]byte(input), []byte(salt), cost, sha256.Size, sha256.New)
			return hex.EncodeToString(key)
		},
	},
}

// KnownAlgorithm reports whether id is in the registry.
func KnownAlgorithm(id string) bool {
	_, ok := registry[id]
	return ok
}
