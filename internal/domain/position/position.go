package position

import (
	"strconv"
	"strings"
)

// Class buckets a finish position into the ordering groups used by every
// ranking path. Numeric positions always sort before the sentinel classes.
type Class int

const (
	ClassNumeric Class = iota
	ClassUnknown
	ClassCut
	ClassWithdrawn
	ClassDisqualified
)

const (
	TokenCut          = "CUT"
	TokenWithdrawn    = "WD"
	TokenDisqualified = "DQ"
)

// Rank is the canonical ordering key for a raw finish-position string.
// Value is only meaningful for ClassNumeric.
type Rank struct {
	Class Class
	Value int
	Tied  bool
}

// Parse canonicalizes a finish-position string: "1", "T5", CUT, WD, DQ.
// Malformed or absent input maps to ClassUnknown rather than an error, so a
// bad record can never sink a whole leaderboard. Unknown orders after every
// numeric position and before CUT, which keeps rows with missing positions
// adjacent to the field instead of below disqualifications.
func Parse(raw string) Rank {
	value := strings.ToUpper(strings.TrimSpace(raw))
	switch value {
	case "":
		return Rank{Class: ClassUnknown}
	case TokenCut:
		return Rank{Class: ClassCut}
	case TokenWithdrawn:
		return Rank{Class: ClassWithdrawn}
	case TokenDisqualified:
		return Rank{Class: ClassDisqualified}
	}

	tied := false
	if strings.HasPrefix(value, "T") {
		tied = true
		value = value[1:]
	}

	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return Rank{Class: ClassUnknown}
	}

	return Rank{Class: ClassNumeric, Value: n, Tied: tied}
}

// ParsePtr treats a nil position the same as an empty one.
func ParsePtr(raw *string) Rank {
	if raw == nil {
		return Rank{Class: ClassUnknown}
	}
	return Parse(*raw)
}

// Compare returns -1, 0 or 1. The order is total: numeric positions ascend
// by value, every numeric position precedes every non-numeric class, and
// the classes order Unknown < CUT < WD < DQ. "T5" and "5" compare equal;
// callers break such ties with their own secondary keys.
func Compare(a, b Rank) int {
	if a.Class != b.Class {
		if a.Class < b.Class {
			return -1
		}
		return 1
	}
	if a.Class != ClassNumeric {
		return 0
	}
	switch {
	case a.Value < b.Value:
		return -1
	case a.Value > b.Value:
		return 1
	default:
		return 0
	}
}

// CompareRaw parses both inputs and compares the resulting ranks.
func CompareRaw(a, b string) int {
	return Compare(Parse(a), Parse(b))
}

// IsWin reports whether the position is an outright or shared first place.
func (r Rank) IsWin() bool {
	return r.Class == ClassNumeric && r.Value == 1
}

// IsTopTen reports whether the position parsed to a numeric rank of 10 or
// better.
func (r Rank) IsTopTen() bool {
	return r.Class == ClassNumeric && r.Value <= 10
}

func (c Class) String() string {
	switch c {
	case ClassNumeric:
		return "numeric"
	case ClassUnknown:
		return "unknown"
	case ClassCut:
		return "cut"
	case ClassWithdrawn:
		return "withdrawn"
	case ClassDisqualified:
		return "disqualified"
	default:
		return "invalid"
	}
}
