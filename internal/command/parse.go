// Package command turns chat text into handler invocations: it parses the
// keyword, resolves the caller, looks up a handler and translates failures
// into exactly one reply.
package command

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sentinel prefixes every keyword so command names live in their own
// namespace.
const Sentinel = "_"

// Command is the parsed form of a message.
type Command struct {
	// Keyword is Sentinel plus the lowercased first token, or empty for
	// blank input.
	Keyword string
	// Args is the raw text after the first whitespace character.
	Args string
}

// Name returns the keyword without its sentinel.
func (c Command) Name() string {
	return strings.TrimPrefix(c.Keyword, Sentinel)
}

// Parse splits trimmed text at its first whitespace character. Only that
// one separator is consumed; Args keeps its case and inner spacing.
func Parse(raw string) Command {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Command{}
	}
	i := strings.IndexFunc(text, unicode.IsSpace)
	if i < 0 {
		return Command{Keyword: Sentinel + strings.ToLower(text)}
	}
	_, size := utf8.DecodeRuneInString(text[i:])
	return Command{
		Keyword: Sentinel + strings.ToLower(text[:i]),
		Args:    text[i+size:],
	}
}
