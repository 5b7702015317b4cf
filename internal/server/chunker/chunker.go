// Package chunker splits text that is too long for a single backend field into
// a main segment plus ordered overflow segments, and joins them back.
//
// Lengths are counted in UTF-16 code units, which is how the remote backend
// measures its rich-text limit. Segment boundaries never fall inside a
// grapheme cluster; a cluster that is longer than the limit on its own is cut
// at rune boundaries instead. Bytes are never altered, so Join(Split(s)) == s
// for any input, including invalid UTF-8.
package chunker

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

const (
	// FieldLimit is the backend's limit for one rich-text item.
	FieldLimit = 2000

	// DefaultMaxLen keeps a margin below FieldLimit.
	DefaultMaxLen = 1990

	// Marker is appended to a main segment that has overflow.
	Marker = "..."

	// MinMaxLen is the smallest usable limit: the marker plus one character.
	MinMaxLen = len(Marker) + 1

	// MaxMaxLen is the largest limit whose main segment, marker included,
	// still fits in FieldLimit.
	MaxMaxLen = FieldLimit - len(Marker)
)

var (
	ErrLimitTooSmall = errors.New("chunk limit too small")
	ErrLimitTooLarge = errors.New("chunk limit too large")
)

// Len returns the length of s in UTF-16 code units.
func Len(s string) int {
	n := 0
	for _, r := range s {
		n += runeLen(r)
	}
	return n
}

func runeLen(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}

// Split returns s unchanged with no overflow when it fits in maxLen. Otherwise
// main holds the first maxLen units followed by Marker, and overflow holds the
// rest in consecutive pieces of at most maxLen units.
func Split(s string, maxLen int) (main string, overflow []string, err error) {
	if maxLen < MinMaxLen {
		return "", nil, ErrLimitTooSmall
	}
	if Len(s) <= maxLen {
		return s, nil, nil
	}

	head, rest := cut(s, maxLen)
	for rest != "" {
		var part string
		part, rest = cut(rest, maxLen)
		overflow = append(overflow, part)
	}
	return head + Marker, overflow, nil
}

// Join is the inverse of Split.
func Join(main string, overflow []string) string {
	if len(overflow) == 0 {
		return main
	}
	var b strings.Builder
	b.WriteString(strings.TrimSuffix(main, Marker))
	for _, part := range overflow {
		b.WriteString(part)
	}
	return b.String()
}

// Pieces cuts s into consecutive segments of at most maxLen units without
// any marker. Concatenating them gives back s; an empty s yields none.
func Pieces(s string, maxLen int) []string {
	var out []string
	for s != "" {
		head, rest := cut(s, maxLen)
		if head == "" {
			_, size := utf8.DecodeRuneInString(s)
			head, rest = s[:size], s[size:]
		}
		out = append(out, head)
		s = rest
	}
	return out
}

// Truncate shortens s to at most maxLen units plus Marker. Strings that
// already fit are returned as is.
func Truncate(s string, maxLen int) string {
	if Len(s) <= maxLen {
		return s
	}
	head, _ := cut(s, maxLen)
	return head + Marker
}

// cut returns the longest prefix of s made of whole grapheme clusters that
// fits in maxLen units, and the remainder.
func cut(s string, maxLen int) (string, string) {
	n, end := 0, 0
	state := -1
	rest := s
	for rest != "" {
		cluster, next, _, newState := uniseg.FirstGraphemeClusterInString(rest, state)
		w := Len(cluster)
		if n+w > maxLen {
			break
		}
		n += w
		end += len(cluster)
		rest, state = next, newState
	}
	if end == 0 {
		return cutRunes(s, maxLen)
	}
	return s[:end], s[end:]
}

func cutRunes(s string, maxLen int) (string, string) {
	n, end := 0, 0
	for end < len(s) {
		r, size := utf8.DecodeRuneInString(s[end:])
		w := runeLen(r)
		if n+w > maxLen {
			break
		}
		n += w
		end += size
	}
	return s[:end], s[end:]
}
