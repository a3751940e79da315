package precondition

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/c360studio/semtrace/linenum"
)

// ErrMultipleEmptyPrefixes indicates more than one empty-context
// declaration in the document. The textual rewrite cannot disambiguate
// them, so no substitution is applied at all.
var ErrMultipleEmptyPrefixes = errors.New("multiple empty-prefix context declarations")

var (
	// An empty-prefix @context declaration: the two-character empty quoted
	// key, a colon, optional whitespace, and a quoted URI with an accepted
	// scheme. Example: `"": "http://example.org/ns#"`.
	emptyContextPattern = regexp.MustCompile(`"":(\s*"(?:http|https|file)://)`)

	// An empty-prefixed token: a bare identifier immediately preceded by a
	// colon, both inside quotes. Example: `":Bob"`.
	emptyTokenPattern = regexp.MustCompile(`":([\w-]+)"`)

	// A @type declaration line: leading spaces, the quoted @type key, a
	// quoted value, a trailing comma. Matched per line, anchored at the
	// start; anything after the closing `",` is preserved untouched.
	typeLinePattern = regexp.MustCompile(`^( *"@type": *")([\w:#/-]+)(",)`)
)

// Config controls placeholder prefix allocation during Rewrite.
type Config struct {
	// PrefixLength is the length of autogenerated prefixes.
	// Zero means DefaultPrefixLength.
	PrefixLength int

	// Alphabet is the candidate character set for autogenerated prefixes.
	// Empty means DefaultAlphabet.
	Alphabet string
}

// Result carries the rewritten document text and what was done to it.
type Result struct {
	// Text is the preconditioned document.
	Text string

	// Prefix is the placeholder prefix, explicit or allocated.
	Prefix string

	// EmptyPrefixReplaced reports whether an empty-context declaration was
	// found and substituted. When false, no token rewriting occurred
	// either.
	EmptyPrefixReplaced bool

	// TokensRewritten counts `":<identifier>"` tokens given the
	// placeholder prefix.
	TokensRewritten int

	// TypeLinesStamped counts @type lines that received a line-number
	// suffix.
	TypeLinesStamped int
}

// Precondition rewrites text for ingest. If prefix is empty a placeholder
// is allocated from the document with default length and alphabet. This is
// the one-call form of Rewrite.
func Precondition(text, prefix string) (string, error) {
	res, err := Rewrite(text, prefix, Config{})
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// Rewrite applies the full precondition transform: empty-prefix
// substitution (steps A and B) followed by line-number embedding (step C).
// The input text is never modified.
func Rewrite(text, prefix string, cfg Config) (*Result, error) {
	length := cfg.PrefixLength
	if length == 0 {
		length = DefaultPrefixLength
	}
	alphabet := cfg.Alphabet
	if alphabet == "" {
		alphabet = DefaultAlphabet
	}

	if prefix == "" {
		allocated, err := AllocatePrefix(text, length, alphabet)
		if err != nil {
			return nil, err
		}
		prefix = allocated
	}

	res := &Result{Prefix: prefix}

	text, replaced, tokens, err := replaceEmptyPrefix(text, prefix)
	if err != nil {
		return nil, err
	}
	res.EmptyPrefixReplaced = replaced
	res.TokensRewritten = tokens

	res.Text, res.TypeLinesStamped = embedLineNumbers(text)
	return res, nil
}

// replaceEmptyPrefix substitutes the empty-context declaration and all
// empty-prefixed tokens with prefix. A document with no declaration is
// returned unchanged: its bare ":name" tokens have no context entry for
// the placeholder to stand in for, so rewriting them would orphan them.
func replaceEmptyPrefix(text, prefix string) (string, bool, int, error) {
	declarations := emptyContextPattern.FindAllStringIndex(text, -1)
	if len(declarations) == 0 {
		return text, false, 0, nil
	}
	if len(declarations) > 1 {
		return "", false, 0, fmt.Errorf("found %d empty-prefix declarations: %w",
			len(declarations), ErrMultipleEmptyPrefixes)
	}

	text = emptyContextPattern.ReplaceAllStringFunc(text, func(m string) string {
		return `"` + prefix + `":` + m[len(`"":`):]
	})

	tokens := 0
	text = emptyTokenPattern.ReplaceAllStringFunc(text, func(m string) string {
		tokens++
		// m is `":<identifier>"`; splice the prefix in after the opening quote.
		return `"` + prefix + m[1:]
	})

	return text, true, tokens, nil
}

// embedLineNumbers stamps every @type declaration line with its 1-based
// line number. Lines that do not match the documented shape are left
// untouched; embedding is best effort, not a parse.
func embedLineNumbers(text string) (string, int) {
	lines := strings.Split(text, "\n")
	stamped := 0

	for i, line := range lines {
		loc := typeLinePattern.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}

		// Groups: 1 = key portion, 2 = type value, 3 = closing `",`.
		valueStart, valueEnd := loc[4], loc[5]
		lines[i] = line[:valueStart] +
			linenum.Encode(line[valueStart:valueEnd], i+1) +
			line[valueEnd:]
		stamped++
	}

	return strings.Join(lines, "\n"), stamped
}
