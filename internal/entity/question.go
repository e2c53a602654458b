package entity

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// maskedRunes covers the characters a stored answer is expected to be
// built from; everything else (spaces, punctuation) stays visible in the
// mask to give players a shape hint.
var maskedRunes = regexp.MustCompile(`[A-Z0-9()]`)

// Question is a single corpus record: a prompt and its expected answer.
type Question struct {
	Definition string `json:"definition" yaml:"definition"`
	Answer     string `json:"answer" yaml:"answer"`
}

// Mask replaces every masked rune of the answer with an underscore,
// leaving separators verbatim: "AB 12" -> "__ __".
func (that *Question) Mask() string {
	return maskedRunes.ReplaceAllString(that.Answer, "_")
}

// AnswerLength is the answer length in runes, sent alongside the mask.
func (that *Question) AnswerLength() int {
	return utf8.RuneCountInString(that.Answer)
}

// Grade compares a submitted answer against the expected one,
// case-insensitively.
func (that *Question) Grade(submitted string) bool {
	return strings.EqualFold(submitted, that.Answer)
}

// CanonicalAnswer is the comparison/reveal form of the answer.
func (that *Question) CanonicalAnswer() string {
	return strings.ToUpper(that.Answer)
}
