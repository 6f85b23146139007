// Package segmentation splits streamed assistant text into fragments that are
// ready to be spoken by the avatar.
//
// Text is measured in units: one Han ideograph, one ASCII digit or one run of
// ASCII letters each count as a single unit. A fragment ends right after the
// first sentence punctuation that appears once at least MinSplitLength units
// have been seen. When no such punctuation appears within MaxSplitLength
// units, the text is force split right after the unit that reached the limit.
package segmentation

import "unicode/utf8"

const (
	// MinSplitLength is the number of units that must precede punctuation
	// for it to end a fragment.
	MinSplitLength = 2
	// MaxSplitLength is the number of units after which a fragment is force
	// split when no punctuation was found.
	MaxSplitLength = 20
)

var defaultSegmenter = Segmenter{}

// Split splits text with the default bounds. See [Segmenter.Split].
func Split(text string) (head, tail string, ok bool) {
	return defaultSegmenter.Split(text)
}

// Segmenter splits text into a speakable head and the remaining tail.
//
// The zero value uses [MinSplitLength] and [MaxSplitLength].
type Segmenter struct {
	// MinUnits overrides MinSplitLength when positive.
	MinUnits int
	// MaxUnits overrides MaxSplitLength when positive.
	MaxUnits int
}

// Split returns the fragment that is ready to be spoken and the text that
// should keep accumulating. When text can not be split yet, ok is false, head
// is the whole text and tail is empty. When ok is true, head is never empty,
// tail is never empty and head+tail equals text.
func (s Segmenter) Split(text string) (head, tail string, ok bool) {
	minUnits, maxUnits := s.bounds()

	idx := splitIndex(text, minUnits, maxUnits)
	if idx <= 0 || idx >= len(text) {
		return text, "", false
	}

	return text[:idx], text[idx:], true
}

func (s Segmenter) bounds() (minUnits int, maxUnits int) {
	minUnits, maxUnits = MinSplitLength, MaxSplitLength
	if s.MinUnits > 0 {
		minUnits = s.MinUnits
	}
	if s.MaxUnits > 0 {
		maxUnits = s.MaxUnits
	}
	return minUnits, maxUnits
}

// splitIndex scans text once, left to right, and returns the byte offset at
// which it should be split or -1.
func splitIndex(text string, minUnits, maxUnits int) int {
	count := 0
	punctuationBreak := -1
	forceBreak := -1

	i := 0
	for i < len(text) && count < maxUnits {
		r, size := utf8.DecodeRuneInString(text[i:])

		switch {
		case isHan(r), isDigit(r):
			i += size
			count++
			if count == maxUnits {
				forceBreak = i
			}

		case isLetter(r):
			// The whole word counts as a single unit
			for i < len(text) && isLetter(rune(text[i])) {
				i++
			}
			count++
			if count == maxUnits {
				forceBreak = i
			}

		default:
			next := i + size
			if punctuationBreak == -1 && count >= minUnits && endsSentence(text, r, next) {
				punctuationBreak = next
			}
			i = next
		}
	}

	if punctuationBreak != -1 {
		return punctuationBreak
	}
	return forceBreak
}

// endsSentence reports whether r is punctuation that can end a fragment. next
// is the byte offset right after r.
func endsSentence(text string, r rune, next int) bool {
	switch r {
	case '、', '，', '：', '；', '。', '？', '！', '…', '\n':
		return true
	case ',', ':', ';', '.', '?', '!':
		return next >= len(text) || text[next] == ' '
	}
	return false
}

func isHan(r rune) bool    { return r >= '\u4e00' && r <= '\u9fff' }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isLetter(r rune) bool { return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }
