package precondition

import (
	"errors"
	"fmt"
	"regexp"
)

const (
	// DefaultPrefixLength is the length of autogenerated placeholder
	// prefixes.
	DefaultPrefixLength = 3

	// DefaultAlphabet is the candidate character set for autogenerated
	// placeholder prefixes.
	DefaultAlphabet = "abcdefghijklmnopqrstuvwxyz"
)

// ErrPrefixSpaceExhausted indicates that every candidate prefix of the
// requested length already occurs in the document. Retry with a longer
// prefix or a larger alphabet.
var ErrPrefixSpaceExhausted = errors.New("prefix space exhausted")

// AllocatePrefix returns a prefix of the given length, drawn from
// alphabet, that does not occur as "<prefix>:" anywhere in text.
// Candidates are enumerated in deterministic counting order, so the same
// document always receives the same placeholder.
func AllocatePrefix(text string, length int, alphabet string) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("allocate prefix: length must be positive, got %d", length)
	}
	if alphabet == "" {
		return "", fmt.Errorf("allocate prefix: empty alphabet")
	}

	pattern, err := regexp.Compile(fmt.Sprintf(`(\w{%d}):`, length))
	if err != nil {
		return "", fmt.Errorf("allocate prefix: %w", err)
	}

	taken := make(map[string]bool)
	for _, m := range pattern.FindAllStringSubmatch(text, -1) {
		taken[m[1]] = true
	}

	seq := newPrefixSequence(length, alphabet)
	for candidate, ok := seq.next(); ok; candidate, ok = seq.next() {
		if !taken[candidate] {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no unused %d-character prefix over %q: %w",
		length, alphabet, ErrPrefixSpaceExhausted)
}

// prefixSequence enumerates candidate prefixes as a base-N counter over
// the alphabet, most significant position first: "aaa", "aab", ... It is
// lazy and restartable; the candidate space is never materialized.
type prefixSequence struct {
	length   int
	alphabet string
	count    uint64
	max      uint64
}

func newPrefixSequence(length int, alphabet string) *prefixSequence {
	base := uint64(len(alphabet))
	max := uint64(1)
	for i := 0; i < length; i++ {
		next := max * base
		if next/base != max {
			// Overflow: the candidate space is effectively unbounded.
			max = ^uint64(0)
			break
		}
		max = next
	}
	return &prefixSequence{length: length, alphabet: alphabet, max: max}
}

func (s *prefixSequence) next() (string, bool) {
	if s.count >= s.max {
		return "", false
	}

	digits := make([]byte, s.length)
	base := uint64(len(s.alphabet))
	c := s.count
	for i := s.length - 1; i >= 0; i-- {
		digits[i] = s.alphabet[c%base]
		c /= base
	}

	s.count++
	return string(digits), true
}

func (s *prefixSequence) reset() {
	s.count = 0
}
