package translator

import (
	"strconv"
	"strings"
)

// EngineVersion is the JAS engine version this translator implements,
// checked against any "$jas.version" key present at the root of a
// translation unit (spec.md §4.3's version-gate step).
const EngineVersion = "1.0.0"

// compareVersions compares two dot-separated version strings component by
// component, numerically where both sides parse as integers and
// lexicographically otherwise; a shorter version sorts before a longer one
// that shares its prefix (so "1.9" < "1.9.1").
func compareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		var ac, bc string
		if i < len(as) {
			ac = as[i]
		}
		if i < len(bs) {
			bc = bs[i]
		}
		if ac == bc {
			continue
		}
		an, aerr := strconv.Atoi(ac)
		bn, berr := strconv.Atoi(bc)
		if aerr == nil && berr == nil {
			if an != bn {
				if an < bn {
					return -1
				}
				return 1
			}
			continue
		}
		if ac < bc {
			return -1
		}
		return 1
	}
	return 0
}
