// Package cidr implements the IPv4 range algebra behind the blocklist:
// parsing CIDR tokens, subset (containment) tests, and the smart merge that
// keeps a range set free of subsumed entries. Everything here is pure; the
// caller owns the set and its persistence.
package cidr

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

var (
	ErrInvalidAddress    = errors.New("invalid IPv4 address")
	ErrInvalidCIDRFormat = errors.New("malformed CIDR token")
)

// Parse turns one token into an AddressRange. A bare address gets prefix
// length 32. The first applicable error kind is returned and nothing is
// partially constructed.
func Parse(token string) (AddressRange, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return AddressRange{}, fmt.Errorf("%w: empty token", ErrInvalidCIDRFormat)
	}

	parts := strings.Split(token, "/")
	if len(parts) > 2 {
		return AddressRange{}, fmt.Errorf("%w: %q", ErrInvalidCIDRFormat, token)
	}

	addr, err := parseAddr(parts[0])
	if err != nil {
		return AddressRange{}, err
	}

	prefixLen := addressBits
	if len(parts) == 2 {
		prefixLen, err = strconv.Atoi(parts[1])
		if err != nil || prefixLen < 0 || prefixLen > addressBits {
			return AddressRange{}, fmt.Errorf("%w: %q", ErrInvalidPrefixLength, parts[1])
		}
	}

	return New(addr, prefixLen)
}

// IsValid reports whether Parse would accept the token.
func IsValid(token string) bool {
	_, err := Parse(token)
	return err == nil
}

// IsSubsetOf reports whether every address candidate can represent lies
// inside reference. A range with a shorter prefix spans more addresses and
// can never be a subset of a narrower one; otherwise the candidate's network
// base must fall inside the reference's network under the reference's mask.
func IsSubsetOf(candidate, reference AddressRange) bool {
	if candidate.PrefixLen < reference.PrefixLen {
		return false
	}
	return candidate.Network()&reference.Mask() == reference.Network()
}

// Merge folds incoming into existing while keeping the set minimal. Ranges
// subsumed by incoming are dropped first; incoming itself is then discarded
// when one of the survivors already covers it. The input slice is never
// mutated, and merging the same range twice yields the same set.
func Merge(existing []AddressRange, incoming AddressRange) []AddressRange {
	kept := make([]AddressRange, 0, len(existing)+1)
	for _, r := range existing {
		if IsSubsetOf(r, incoming) {
			continue
		}
		kept = append(kept, r)
	}

	for _, r := range kept {
		if IsSubsetOf(incoming, r) {
			return kept
		}
	}

	return append(kept, incoming)
}

// AddMany parses every token and folds it through Merge, left to right. The
// first invalid token aborts the whole call with the parser's error; none of
// the earlier merges are committed. Callers that want partial application
// must pre-filter with IsValid or ExtractCandidates.
func AddMany(existing []AddressRange, tokens []string) ([]AddressRange, error) {
	merged := existing
	for _, token := range tokens {
		r, err := Parse(token)
		if err != nil {
			return nil, err
		}
		merged = Merge(merged, r)
	}
	return merged, nil
}

func parseAddr(raw string) (uint32, error) {
	// net.ParseIP also accepts IPv6 text whose To4 is non-nil, so insist on
	// the dotted-quad shape up front.
	if strings.Count(raw, ".") != 3 || strings.Contains(raw, ":") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAddress, raw)
	}
	parsed := net.ParseIP(raw)
	if parsed == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAddress, raw)
	}
	ip := parsed.To4()
	if ip == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAddress, raw)
	}
	return uint32(ip[0])<<24 | uint32(ip[1])<<16 | uint32(ip[2])<<8 | uint32(ip[3]), nil
}
