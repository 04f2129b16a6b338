// Package version models the four-part major.minor.update.build identifier
// the release ledger is keyed by.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind selects which component an increment bumps.
type Kind string

const (
	KindMajor  Kind = "major"
	KindMinor  Kind = "minor"
	KindUpdate Kind = "update"
	KindBuild  Kind = "build"
)

// Kinds lists the increment kinds from most to least significant.
var Kinds = []Kind{KindMajor, KindMinor, KindUpdate, KindBuild}

// ParseKind validates an increment kind supplied by a caller.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindMajor, KindMinor, KindUpdate, KindBuild:
		return k, nil
	}
	return "", fmt.Errorf("unknown increment kind %q (want major, minor, update or build)", s)
}

// ReleaseType maps an increment kind to the type recorded on a release.
// Minor bumps ship features and build bumps ship fixes.
func ReleaseType(k Kind) string {
	switch k {
	case KindMajor:
		return "major"
	case KindMinor:
		return "feature"
	case KindBuild:
		return "fix"
	default:
		return "update"
	}
}

// Identifier is an immutable version value. The canonical string is always
// derived from the components, never stored alongside them.
type Identifier struct {
	Major  int `json:"major"`
	Minor  int `json:"minor"`
	Update int `json:"update"`
	Build  int `json:"build"`
}

// String returns the canonical four-part form, e.g. "0.01.012.000".
func (v Identifier) String() string {
	return Format(v.Major, v.Minor, v.Update, v.Build)
}

// Short returns the three-part display form without the build component.
func (v Identifier) Short() string {
	return Format(v.Major, v.Minor, v.Update)
}

// Format zero-pads minor to two digits and update and build to three.
// Build is included only when given.
func Format(major, minor, update int, build ...int) string {
	if len(build) > 0 {
		return fmt.Sprintf("%d.%02d.%03d.%03d", major, minor, update, build[0])
	}
	return fmt.Sprintf("%d.%02d.%03d", major, minor, update)
}

// Parse reads a dotted version string. Missing or non-numeric segments
// read as zero; it never fails.
func Parse(s string) Identifier {
	v, _ := ParseLenient(s)
	return v
}

// ParseLenient behaves like Parse but also reports which segments were
// malformed so callers can log them. The returned Identifier is always
// usable.
func ParseLenient(s string) (Identifier, error) {
	var parts [4]int
	var bad []string

	segments := strings.Split(strings.TrimSpace(s), ".")
	for i := 0; i < len(parts) && i < len(segments); i++ {
		seg := strings.TrimSpace(segments[i])
		if seg == "" {
			continue
		}
		n, err := strconv.Atoi(seg)
		if err != nil || n < 0 {
			bad = append(bad, seg)
			continue
		}
		parts[i] = n
	}

	v := Identifier{Major: parts[0], Minor: parts[1], Update: parts[2], Build: parts[3]}
	if len(bad) > 0 {
		return v, fmt.Errorf("version %q has malformed segments %q", s, bad)
	}
	return v, nil
}

// Increment returns the next identifier for the given kind. Every component
// below the bumped one resets to zero.
func Increment(current Identifier, kind Kind) (Identifier, error) {
	next := current
	switch kind {
	case KindMajor:
		next = Identifier{Major: current.Major + 1}
	case KindMinor:
		next = Identifier{Major: current.Major, Minor: current.Minor + 1}
	case KindUpdate:
		next = Identifier{Major: current.Major, Minor: current.Minor, Update: current.Update + 1}
	case KindBuild:
		next.Build = current.Build + 1
	default:
		return current, fmt.Errorf("unknown increment kind %q", kind)
	}
	return next, nil
}

// SegmentCount returns the number of dot-separated parts in s.
func SegmentCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, ".") + 1
}

// IsLegacy reports whether s is in the old three-part form.
func IsLegacy(s string) bool {
	return SegmentCount(s) == 3
}

// Canonicalize upgrades a three-part version to four parts by appending a
// zero build. Any other input is returned unchanged.
func Canonicalize(s string) string {
	if IsLegacy(s) {
		return s + ".000"
	}
	return s
}

// Compare orders identifiers component by component and returns -1, 0 or 1.
func Compare(a, b Identifier) int {
	pairs := [][2]int{
		{a.Major, b.Major},
		{a.Minor, b.Minor},
		{a.Update, b.Update},
		{a.Build, b.Build},
	}
	for _, p := range pairs {
		switch {
		case p[0] < p[1]:
			return -1
		case p[0] > p[1]:
			return 1
		}
	}
	return 0
}
