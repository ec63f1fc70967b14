package dataset

import (
	"regexp"
	"strconv"
	"strings"
)

// separators guesses the decimal and thousands marks of a number when the
// caller did not fix them: the rightmost of ',' and '.' is the decimal mark.
func separators(raw string, dec, thou rune) (rune, rune) {
	if dec != 0 {
		return dec, thou
	}
	comma, dot := strings.LastIndexByte(raw, ','), strings.LastIndexByte(raw, '.')
	switch {
	case comma > dot && dot >= 0:
		return ',', '.'
	case dot > comma && comma >= 0:
		return '.', ','
	case comma >= 0:
		return ',', thou
	}
	return '.', thou
}

// parseNumeric parses s honoring the given decimal and thousands separators.
// A zero separator is auto-detected per value; percent signs are dropped.
func parseNumeric(s string, dec, thou rune) (float64, bool) {
	raw := strings.NewReplacer("%", "", "\u00A0", " ").Replace(s)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	dec, thou = separators(raw, dec, thou)
	drop := func(r rune) bool {
		if thou == 0 {
			return r != dec && (r == ',' || r == '.' || r == ' ')
		}
		return r == thou && thou != dec
	}
	var b strings.Builder
	for _, r := range raw {
		switch {
		case drop(r):
		case r == dec:
			b.WriteByte('.')
		default:
			b.WriteRune(r)
		}
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Header unit forms: "Alpha (%)", "Mass [mg/L]" and "Conc_mg/L".
var (
	unitBracket = regexp.MustCompile(`^(.*?)\s*[(\[]([^)\]]+)[)\]]\s*$`)
	unitSuffix  = regexp.MustCompile(`^(.*?)[_\s-]+(mg/L|g/L|ug/L|°[CF]|Brix|%|ppm|ppb)$`)
)

func splitUnits(name string) (clean string, unit string) {
	s := strings.TrimSpace(name)
	for _, re := range []*regexp.Regexp{unitBracket, unitSuffix} {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		base, u := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		if base != "" && u != "" {
			return base, u
		}
	}
	return s, ""
}
