// Package extract turns free-form chat text into typed loan parameters.
//
// Extraction is intentionally conservative: ambiguous input yields the zero
// value rather than a guess, so the dialogue machine asks a clarifying
// question instead of committing to a misread number.
package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	digitRunRe = regexp.MustCompile(`\d+`)
	lakhRe     = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:lakh|lakhs|lac|lacs)`)
	croreRe    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:crore|crores)`)
	rawGroupRe = regexp.MustCompile(`(\d[\d,]{2,})`)
	// raw amount groups optionally prefixed with a currency marker
	prefixedGroupRe = regexp.MustCompile(`(?:₹|rs\.?\s*)?(\d[\d,]{2,})`)

	yearsRe     = regexp.MustCompile(`(\d+)\s*(?:year|years|yr|yrs)`)
	monthsRe    = regexp.MustCompile(`\b(\d+)\s*(?:month|months|mo|mos)\b`)
	bareDigits  = regexp.MustCompile(`^\d+$`)
	whitespace  = regexp.MustCompile(`\s+`)

	rangeRes = []*regexp.Regexp{
		regexp.MustCompile(`between\s+.*\s+(?:and|to|or)`),
		regexp.MustCompile(`range\s+(?:from|between|of)`),
		regexp.MustCompile(`\d+\s*-\s*\d+\s*(?:lakh|lakhs|crore)`),
		regexp.MustCompile(`(?:from|around)\s+\d.*to\s+\d`),
	}
)

const (
	lakh  = 100_000
	crore = 10_000_000
)

// Phone returns the first maximal run of exactly 10 digits, or "".
func Phone(text string) string {
	for _, run := range digitRunRe.FindAllString(text, -1) {
		if len(run) == 10 {
			return run
		}
	}
	return ""
}

// Amount extracts a loan amount in rupees. Recognizers in precedence order:
// "<n> lakh(s)/lac(s)", "<n> crore(s)", then a raw digit group of length >= 3
// with optional thousands separators. Returns (0, false) when nothing matches.
func Amount(text string) (int64, bool) {
	raw := strings.ToLower(strings.TrimSpace(text))
	if raw == "" {
		return 0, false
	}

	if m := lakhRe.FindStringSubmatch(raw); m != nil {
		return scaled(m[1], lakh)
	}
	if m := croreRe.FindStringSubmatch(raw); m != nil {
		return scaled(m[1], crore)
	}
	if m := rawGroupRe.FindStringSubmatch(raw); m != nil {
		v, err := strconv.ParseInt(strings.ReplaceAll(m[1], ",", ""), 10, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	return 0, false
}

// AmountCandidates collects every distinct positive amount in the text, in
// recognizer-precedence order. Digit groups that look like a mobile number
// (exactly 10 digits starting 6-9) are excluded.
func AmountCandidates(text string) []int64 {
	raw := strings.ToLower(strings.TrimSpace(text))
	if raw == "" {
		return nil
	}

	var candidates []int64
	for _, m := range lakhRe.FindAllStringSubmatch(raw, -1) {
		if v, ok := scaled(m[1], lakh); ok {
			candidates = append(candidates, v)
		}
	}
	for _, m := range croreRe.FindAllStringSubmatch(raw, -1) {
		if v, ok := scaled(m[1], crore); ok {
			candidates = append(candidates, v)
		}
	}
	for _, m := range prefixedGroupRe.FindAllStringSubmatch(raw, -1) {
		digits := strings.ReplaceAll(m[1], ",", "")
		if len(digits) == 10 && digits[0] >= '6' && digits[0] <= '9' {
			continue
		}
		v, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			continue
		}
		candidates = append(candidates, v)
	}

	seen := make(map[int64]bool, len(candidates))
	uniq := candidates[:0]
	for _, v := range candidates {
		if v > 0 && !seen[v] {
			uniq = append(uniq, v)
			seen[v] = true
		}
	}
	return uniq
}

// IsRangeExpression reports whether the user gave a range ("between 2 and 5
// lakh") or mentioned two or more distinct amounts, signalling the caller to
// disambiguate rather than silently pick one.
func IsRangeExpression(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	raw := strings.ToLower(text)
	for _, re := range rangeRes {
		if re.MatchString(raw) {
			return true
		}
	}
	return len(AmountCandidates(text)) >= 2
}

// TenureMonths extracts a repayment tenure. "<n> year(s)" converts to months;
// "<n> month(s)" is taken as-is; a message that is purely digits (after
// whitespace removal) is read as a bare month count. A message containing an
// amount phrase is never misread as tenure.
func TenureMonths(text string) (int, bool) {
	raw := strings.ToLower(strings.TrimSpace(text))
	if raw == "" {
		return 0, false
	}

	if m := yearsRe.FindStringSubmatch(raw); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, false
		}
		return n * 12, true
	}
	if m := monthsRe.FindStringSubmatch(raw); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, false
		}
		return n, true
	}

	compact := whitespace.ReplaceAllString(raw, "")
	if bareDigits.MatchString(compact) {
		n, err := strconv.Atoi(compact)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// TenureMonthsExplicit is TenureMonths without the bare-digits rule: it only
// accepts tenures written with a year/month unit. Used when the same message
// may also carry an amount, where a plain number belongs to the amount.
func TenureMonthsExplicit(text string) (int, bool) {
	raw := strings.ToLower(strings.TrimSpace(text))
	if raw == "" {
		return 0, false
	}
	if m := yearsRe.FindStringSubmatch(raw); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, false
		}
		return n * 12, true
	}
	if m := monthsRe.FindStringSubmatch(raw); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

var affirmatives = map[string]bool{
	"yes": true, "y": true, "yeah": true, "yep": true, "ok": true,
	"okay": true, "sure": true, "proceed": true, "go ahead": true,
}

var negatives = map[string]bool{
	"no": true, "n": true, "nope": true, "nah": true,
	"don't": true, "do not": true, "decline": true,
}

// IsAffirmative reports whether the text reads as consent.
func IsAffirmative(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	return affirmatives[t] || strings.Contains(t, "yes")
}

// IsNegative reports whether the text reads as refusal.
func IsNegative(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	return negatives[t] || strings.HasPrefix(t, "no")
}

func scaled(num string, multiplier int64) (int64, bool) {
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	return int64(math.Round(f * float64(multiplier))), true
}
