package cidr

import "regexp"

var candidateRegex = regexp.MustCompile(`\b\d{1,3}(?:\.\d{1,3}){3}(?:/\d{1,2})?\b`)

// ExtractCandidates scans free text for IPv4 addresses and CIDR ranges.
// Every character-level match is re-validated through Parse, so strings like
// 999.999.999.999 that fit the pattern but fail the octet bounds are dropped
// silently rather than reported. The result keeps first-appearance order and
// is deduplicated by exact matched text.
func ExtractCandidates(text string) []string {
	matches := candidateRegex.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, match := range matches {
		if _, ok := seen[match]; ok {
			continue
		}
		seen[match] = struct{}{}
		if !IsValid(match) {
			continue
		}
		out = append(out, match)
	}
	return out
}
