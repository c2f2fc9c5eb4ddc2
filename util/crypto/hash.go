package crypto

import (
	"crypto/subtle"
	"errors"

	"house-panel/util/random"
)

var (
	ErrUnsupportedAlgorithm = errors.New("unsupported hash algorithm")
	ErrMissingCost          = errors.New("hash algorithm requires a cost parameter")
)

// HashPassword computes a single chain stage with the named algorithm.
func HashPassword(password, salt string, cost *int, algorithmID string) (string, error) {
	alg, ok := registry[algorithmID]
	if !ok {
		return "", ErrUnsupportedAlgorithm
	}
	if alg.costRequired && cost == nil {
		return "", ErrMissingCost
	}
	c := 0
	if cost != nil {
		c = *cost
	}
	return alg.compute(password, salt, c), nil
}

// Verify re-derives the whole chain from the candidate password: the digest
// of stage i is the input material of stage i+1. The final digest is compared
// to the stored value with TimingSafeEquals. Any stage failure verifies
// false, never errors.
func Verify(record *HashRecord, password string) bool {
	material := password
	for i := range record.Algorithms {
		digest, err := HashPassword(material, record.Salts[i], record.Costs[i], record.Algorithms[i])
		if err != nil {
			return false
		}
		material = digest
	}
	return TimingSafeEquals(material, record.Value)
}

// IsLegacy reports whether a verified record should be rehashed: any chain
// longer than one stage, or a single stage that is not the current default
// algorithm at the current default cost.
func IsLegacy(record *HashRecord) bool {
	if record.Stages() != 1 {
		return true
	}
	if record.Algorithms[0] != DefaultAlgorithm {
		return true
	}
	if record.Costs[0] == nil || *record.Costs[0] != DefaultCost {
		return true
	}
	return false
}

// NeedsRehash reports whether a verified record should be upgraded on login:
// true when the final stage is not the current default algorithm at the
// current default cost. Unlike IsLegacy it is false again after one Extend,
// so the login-side upgrade converges instead of growing the chain forever.
func NeedsRehash(record *HashRecord) bool {
	last := record.Stages() - 1
	if record.Algorithms[last] != DefaultAlgorithm {
		return true
	}
	if record.Costs[last] == nil || *record.Costs[last] != DefaultCost {
		return true
	}
	return false
}

// NewHash hashes a freshly supplied plaintext password into a single-stage
// record with the current default algorithm, cost and a fresh salt. This is
// the only construction that resets a chain back to length one.
func NewHash(password string) *HashRecord {
	salt := random.Seq(saltLength)
	cost := DefaultCost
	digest, _ := HashPassword(password, salt, &cost, DefaultAlgorithm)
	return &HashRecord{
		Algorithms: []string{DefaultAlgorithm},
		Costs:      []*int{&cost},
		Salts:      []string{salt},
		Value:      digest,
	}
}

// Extend appends a current-default stage whose input is the record's stored
// digest. Used on login when a legacy hash verified: the plaintext never has
// to be re-derived, the old chain survives as provenance.
func Extend(record *HashRecord) (*HashRecord, error) {
	salt := random.Seq(saltLength)
	cost := DefaultCost
	digest, err := HashPassword(record.Value, salt, &cost, DefaultAlgorithm)
	if err != nil {
		return nil, err
	}

	extended := &HashRecord{
		Algorithms: append(append([]string{}, record.Algorithms...), DefaultAlgorithm),
		Costs:      append(append([]*int{}, record.Costs...), &cost),
		Salts:      append(append([]string{}, record.Salts...), salt),
		Value:      digest,
	}
	return extended, nil
}

// TimingSafeEquals compares two strings in time independent of where they
// first differ. Shared by hash verification and token confirmation paths.
func TimingSafeEquals(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
