package translator

import (
	"strconv"
	"strings"

	"github.com/sepcon/go-jas/internal/jerrors"
	"github.com/sepcon/go-jas/internal/jvar"
)

// typedLiteralSuffixes maps a trailing "(%x)" marker to the jvar.Var it
// forces the preceding text into, bypassing any further $/@ shorthand
// recognition on that text (spec.md §4.3 pipeline step 6).
var typedLiteralSuffixes = []string{"(%d)", "(%l)", "(%f)", "(%s)", "(%b)"}

// parseTypedLiteral recognises a string ending in one of the typed-literal
// suffixes and parses its prefix accordingly. ok is false when s does not
// end in a recognised suffix, in which case the caller should fall through
// to ordinary string/variable recognition.
func parseTypedLiteral(s string) (v jvar.Var, ok bool, err error) {
	for _, suffix := range typedLiteralSuffixes {
		if !strings.HasSuffix(s, suffix) {
			continue
		}
		body := s[:len(s)-len(suffix)]
		switch suffix {
		case "(%d)", "(%l)":
			n, perr := strconv.ParseInt(body, 10, 64)
			if perr != nil {
				return jvar.Var{}, true, jerrors.Syntax("typed literal %q is not a valid integer", s)
			}
			return jvar.Int(n), true, nil
		case "(%f)":
			f, perr := strconv.ParseFloat(body, 64)
			if perr != nil {
				return jvar.Var{}, true, jerrors.Syntax("typed literal %q is not a valid float", s)
			}
			return jvar.Double(f), true, nil
		case "(%s)":
			return jvar.Str(body), true, nil
		case "(%b)":
			switch body {
			case "true":
				return jvar.Bool(true), true, nil
			case "false":
				return jvar.Bool(false), true, nil
			default:
				return jvar.Var{}, true, jerrors.Syntax("typed literal %q is not a valid boolean", s)
			}
		}
	}
	return jvar.Var{}, false, nil
}
