// Package crypto implements the panel's chained password hashing: the
// $-delimited hash serialization, the closed algorithm registry, stage-wise
// verification with timing-safe comparison, and the legacy rehash rules.
package crypto

import (
	"errors"
	"strconv"
	"strings"
)

// ErrMalformedHash is returned for any stored hash string that does not
// round-trip through the serialization rules below.
var ErrMalformedHash = errors.New("malformed password hash")

// HashRecord is the parsed form of a stored password hash:
//
//	$alg_1|...|alg_N$cost_1|...|cost_N$salt_1|...|salt_N$value
//
// Stage 1 is the oldest surviving layer, stage N the most recently applied
// algorithm. A nil cost means the stage's algorithm takes no work factor.
// Records are values: every mutation path builds a new record.
type HashRecord struct {
	Algorithms []string
	Costs      []*int
	Salts      []string
	Value      string
}

// Stages returns the number of chain stages.
func (r *HashRecord) Stages() int {
	return len(r.Algorithms)
}

// splitField splits a pipe-delimited field. An empty field carries zero
// entries, not one empty entry.
func splitField(field string) []string {
	if field == "" {
		return nil
	}
	return strings.Split(field, "|")
}

// ParseHash parses a stored hash string into a HashRecord. It fails if the
// field count is wrong, the string does not start with "$", the hash value
// is empty, any algorithm is not registered, any non-empty cost is not an
// integer, or the per-stage lists differ in length.
func ParseHash(text string) (*HashRecord, error) {
	fields := strings.Split(text, "$")
	if len(fields) != 5 || fields[0] != "" || fields[4] == "" {
		return nil, ErrMalformedHash
	}

	algorithms := splitField(fields[1])
	// The cost field is split plainly: a single stage with no work factor
	// stores an empty cost field, which still carries one entry.
	costFields := strings.Split(fields[2], "|")
	salts := splitField(fields[3])

	if len(algorithms) < 1 || len(costFields) != len(algorithms) || len(salts) != len(algorithms) {
		return nil, ErrMalformedHash
	}

	costs := make([]*int, len(costFields))
	for i, field := range costFields {
		if field == "" {
			continue
		}
		cost, err := strconv.Atoi(field)
		if err != nil {
			return nil, ErrMalformedHash
		}
		costs[i] = &cost
	}

	for _, algorithm := range algorithms {
		if !KnownAlgorithm(algorithm) {
			return nil, ErrMalformedHash
		}
	}

	return &HashRecord{
		Algorithms: algorithms,
		Costs:      costs,
		Salts:      salts,
		Value:      fields[4],
	}, nil
}

// String serializes the record back to its stored form. It does not
// re-validate algorithm names; callers only format records they built from
// the registry or from ParseHash.
func (r *HashRecord) String() string {
	costs := make([]string, len(r.Costs))
	for i, cost := range r.Costs {
		if cost != nil {
			costs[i] = strconv.Itoa(*cost)
		}
	}

	var b strings.Builder
	b.WriteByte('$')
	b.WriteString(strings.Join(r.Algorithms, "|"))
	b.WriteByte('$')
	b.WriteString(strings.Join(costs, "|"))
	b.WriteByte('$')
	b.WriteString(strings.Join(r.Salts, "|"))
	b.WriteByte('$')
	b.WriteString(r.Value)
	return b.String()
}
