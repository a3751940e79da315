// Package linenum implements the line-number suffix codec shared by the
// precondition rewriter and the postcondition normalizer. A value is
// stamped by appending "_LINE_<n>" where n is the 1-based source line;
// decoding splits on the last occurrence of the separator so values that
// legitimately contain "_LINE_" survive a round trip.
package linenum

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Separator is the literal marker between a value and its embedded line
// number. It must never change: documents stamped by one version must
// decode under another.
const Separator = "_LINE_"

// ErrMalformedSuffix indicates text that contains the separator but whose
// trailing portion does not parse as a base-10 integer. This means the
// embedding contract was violated, e.g. the text was modified between
// precondition and postcondition.
var ErrMalformedSuffix = errors.New("malformed line number suffix")

// Encode appends the line-number suffix to value.
func Encode(value string, line int) string {
	return value + Separator + strconv.Itoa(line)
}

// Decode splits text on the last occurrence of the separator. If no
// separator is present, Decode returns (text, 0, nil): the value carries
// no line number. Line numbers are 1-based, so a returned line of 0 always
// means "absent".
func Decode(text string) (string, int, error) {
	idx := strings.LastIndex(text, Separator)
	if idx < 0 {
		return text, 0, nil
	}

	suffix := text[idx+len(Separator):]
	line, err := strconv.Atoi(suffix)
	if err != nil {
		return "", 0, fmt.Errorf("decode %q: %w", text, ErrMalformedSuffix)
	}

	return text[:idx], line, nil
}
