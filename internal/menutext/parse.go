package menutext

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	reMeaningful   = regexp.MustCompile(`[가-힣A-Za-z0-9]`)
	reJamoOnly     = regexp.MustCompile(`^[ㄱ-ㅎㅏ-ㅣ]+$`)
	reLeadingJunk  = regexp.MustCompile(`^[^가-힣A-Za-z0-9]+`)
	reDisallowed   = regexp.MustCompile(`[^가-힣A-Za-z0-9/()\-\s.&*]`)
	reLeadingDigit = regexp.MustCompile(`^\d{1,2}\s*`)
	reHangul       = regexp.MustCompile(`[가-힣]`)
	reLatin        = regexp.MustCompile(`[A-Za-z]`)
)

const edgePunct = "-·•|:; "

// maxCleanPasses bounds the fixed-point loop in cleanLine.
const maxCleanPasses = 32

// ParseLines splits one OCR text block into cleaned, corrected and
// deduplicated candidate dish lines, in order of first appearance.
//
// Each line is cleaned repeatedly until it stops changing, so feeding the
// joined output back in returns the same lines.
func ParseLines(text string) []string {
	var lines []string
	for _, raw := range strings.Split(norm.NFC.String(text), "\n") {
		if line, ok := cleanLine(raw); ok {
			lines = append(lines, line)
		}
	}
	return Dedupe(lines)
}

// cleanLine runs cleanOnce to a fixed point. A line still changing after
// maxCleanPasses keeps its last form.
func cleanLine(s string) (string, bool) {
	for pass := 0; pass < maxCleanPasses; pass++ {
		next, ok := cleanOnce(s)
		if !ok {
			return "", false
		}
		if next == s {
			return s, true
		}
		s = next
	}
	return s, true
}

func cleanOnce(s string) (string, bool) {
	s = collapseSpace(s)
	if utf8.RuneCountInString(s) < 2 && !Dishes.In(s) {
		return "", false
	}
	if !reMeaningful.MatchString(s) {
		return "", false
	}
	if Boilerplate.In(s) {
		return "", false
	}
	if reJamoOnly.MatchString(s) {
		return "", false
	}

	s = strings.Trim(s, edgePunct)
	s = reLeadingJunk.ReplaceAllString(s, "")
	s = reDisallowed.ReplaceAllString(s, "")
	s = collapseSpace(s)
	if s == "" {
		return "", false
	}

	hangul := len(reHangul.FindAllStringIndex(s, -1))
	latin := len(reLatin.FindAllStringIndex(s, -1))
	if latin > 0 && hangul < 2 {
		return "", false
	}

	s = Normalize(s)
	s = stripDayPrefix(s)
	s = Normalize(s)
	if s == "" {
		return "", false
	}
	return s, true
}

// stripDayPrefix removes a day number or weekday character that OCR picked
// up from the date header. A weekday character only counts when it stands
// alone, so dishes like 수육 or 목살구이 keep their first syllable.
func stripDayPrefix(s string) string {
	if loc := reLeadingDigit.FindStringIndex(s); loc != nil {
		return strings.TrimSpace(s[loc[1]:])
	}
	r, size := utf8.DecodeRuneInString(s)
	if !strings.ContainsRune("월화수목금토일", r) {
		return s
	}
	next, _ := utf8.DecodeRuneInString(s[size:])
	if size < len(s) && isHangulSyllable(next) {
		return s
	}
	return strings.TrimSpace(s[size:])
}

func isHangulSyllable(r rune) bool {
	return r >= '가' && r <= '힣'
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Key is the comparison key for deduplication: the item with all spaces
// removed.
func Key(item string) string {
	return strings.ReplaceAll(item, " ", "")
}

// Dedupe drops items whose Key was already seen, keeping first occurrences.
func Dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		k := Key(it)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}
