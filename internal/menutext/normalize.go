package menutext

import "strings"

// Normalize applies the spelling correction tables to one cleaned line:
// misreads, doubled qualifiers, whole-line truncations, then prefix
// restorations.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	for _, r := range Misreads {
		s = strings.ReplaceAll(s, r.From, r.To)
	}
	for _, r := range Doubled {
		s = strings.ReplaceAll(s, r.From, r.To)
	}
	if full, ok := Truncated[s]; ok {
		s = full
	}
	for _, r := range Restorations {
		s = restore(s, r)
	}
	return s
}

// restore inserts r.Prefix before each occurrence of r.Dish not already
// preceded by it. Spaces between prefix and dish count as preceded, so
// "얼큰 콩나물국" is left alone.
func restore(s string, r Restoration) string {
	var b strings.Builder
	rest := s
	for {
		i := strings.Index(rest, r.Dish)
		if i < 0 {
			b.WriteString(rest)
			break
		}
		before := rest[:i]
		b.WriteString(before)
		seen := strings.TrimRight(b.String(), " ")
		if !strings.HasSuffix(seen, r.Prefix) {
			b.WriteString(r.Prefix)
		}
		b.WriteString(r.Dish)
		rest = rest[i+len(r.Dish):]
	}
	return b.String()
}
