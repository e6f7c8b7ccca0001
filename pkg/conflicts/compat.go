package conflicts

import (
	"regexp"
	"strings"
)

var (
	majorPattern      = regexp.MustCompile(`\d+`)
	majorMinorPattern = regexp.MustCompile(`(\d+)\.(\d+)`)
)

// IsCompatible applies the heuristic compatibility check to two raw
// constraint strings. It is intentionally conservative: anything outside
// the matched caret/tilde/identical cases is incompatible.
func IsCompatible(versionA, versionB string) bool {
	if versionA == versionB {
		return true
	}

	caretA := strings.HasPrefix(versionA, "^")
	caretB := strings.HasPrefix(versionB, "^")
	if caretA && caretB {
		return majorOf(versionA) != "" && majorOf(versionA) == majorOf(versionB)
	}

	tildeA := strings.HasPrefix(versionA, "~")
	tildeB := strings.HasPrefix(versionB, "~")
	if tildeA && tildeB {
		ma, na := majorMinorOf(versionA)
		mb, nb := majorMinorOf(versionB)
		return ma != "" && ma == mb && na == nb
	}

	return false
}

// majorOf extracts the first run of digits.
func majorOf(version string) string {
	return majorPattern.FindString(version)
}

// majorMinorOf extracts the first digits.digits groups.
func majorMinorOf(version string) (major, minor string) {
	m := majorMinorPattern.FindStringSubmatch(version)
	if m == nil {
		return "", ""
	}
	return m[1], m[2]
}

// allPairsCompatible reports whether every unordered pair of the given
// distinct versions passes IsCompatible.
func allPairsCompatible(versions []string) bool {
	for i := 0; i < len(versions); i++ {
		for j := i + 1; j < len(versions); j++ {
			if !IsCompatible(versions[i], versions[j]) {
				return false
			}
		}
	}
	return true
}
