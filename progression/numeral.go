package progression

import (
	"strings"

	"github.com/jvetere1999/producer-hub-core/theory"
)

// degreeOffsets maps the seven roman degrees to semitone offsets from the
// tonic in a major key.
var degreeOffsets = map[string]int{
	"I": 0, "II": 2, "III": 4, "IV": 5, "V": 7, "VI": 9, "VII": 11,
}

// degreeOrder is scanned longest-first so "VII" is not read as "V"+"II".
var degreeOrder = []string{"VII", "III", "VI", "IV", "II", "V", "I"}

// ParseNumeral is the default roman-numeral lookup: upper-case numerals are
// major, lower-case minor, with optional leading accidental (b or #) and a
// quality suffix (dim, °, ø, aug, +, 7, maj7, sus2, sus4). Returns nil for
// anything it cannot resolve.
func ParseNumeral(numeral string) *ParsedNumeral {
	s := strings.TrimSpace(numeral)
	if s == "" {
		return nil
	}

	accidental := 0
	if s[0] == 'b' {
		accidental = -1
		s = s[1:]
	} else if s[0] == '#' {
		accidental = 1
		s = s[1:]
	}
	if s == "" {
		return nil
	}

	upper := strings.ToUpper(s)
	var degree string
	for _, d := range degreeOrder {
		if strings.HasPrefix(upper, d) {
			degree = d
			break
		}
	}
	if degree == "" {
		return nil
	}

	body := s[:len(degree)]
	suffix := s[len(degree):]
	isMinor := body == strings.ToLower(body)

	offset := degreeOffsets[degree] + accidental

	chordType := theory.ChordMajor
	if isMinor {
		chordType = theory.ChordMinor
	}
	switch suffix {
	case "":
	case "7":
		if isMinor {
			chordType = theory.ChordMinor7
		} else {
			chordType = theory.ChordDominant7
		}
	case "maj7":
		chordType = theory.ChordMajor7
	case "dim", "°":
		chordType = theory.ChordDiminished
	case "dim7", "°7":
		chordType = theory.ChordDiminished7
	case "ø", "ø7", "m7b5":
		chordType = theory.ChordHalfDiminished7
	case "aug", "+":
		chordType = theory.ChordAugmented
	case "sus2":
		chordType = theory.ChordSus2
	case "sus4":
		chordType = theory.ChordSus4
	default:
		return nil
	}

	return &ParsedNumeral{DegreeOffset: offset, ChordType: chordType}
}
