package domain

import (
	"slices"
	"strings"
)

const (
	mappedIPv4Prefix = "::ffff:"
	reverseDNSSuffix = ".in-addr.arpa"
)

// Normalize takes a raw IP, domain or URL as a user would paste it
// and reduces it to the bare host used as the ledger key.
//
// The function is total: malformed input is passed through best-effort,
// and if anything goes wrong the trimmed input is returned unchanged.
// No case folding is applied, so "Example.com" and "example.com" differ.
func Normalize(raw string) (host CanonicalHost) {
	trimmed := strings.TrimSpace(raw)
	defer func() {
		if r := recover(); r != nil {
			host = CanonicalHost(trimmed)
		}
	}()

	s := stripPrefixes(trimmed)

	// IPv4-mapped IPv6 ("::ffff:10.0.0.1") must be handled before the
	// ':' truncation below, which would otherwise leave an empty string.
	mapped := false
	if rest, ok := strings.CutPrefix(s, mappedIPv4Prefix); ok {
		s = rest
		mapped = true
	}

	// Drop path, query and port.
	if i := strings.IndexAny(s, "/:"); i != -1 {
		s = s[:i]
	}

	if !mapped {
		if rest, ok := strings.CutSuffix(s, reverseDNSSuffix); ok {
			s = reversePTR(rest)
		}
	}

	return CanonicalHost(s)
}

// stripPrefixes removes one leading "http://" or "https://" and then one
// leading "www.". Matching is literal and case-sensitive.
func stripPrefixes(s string) string {
	if rest, ok := strings.CutPrefix(s, "https://"); ok {
		s = rest
	} else if rest, ok := strings.CutPrefix(s, "http://"); ok {
		s = rest
	}
	s = strings.TrimPrefix(s, "www.")
	return strings.TrimSpace(s)
}

// reversePTR turns "4.3.2.1" (the label part of 4.3.2.1.in-addr.arpa)
// back into forward order "1.2.3.4".
func reversePTR(labels string) string {
	parts := strings.Split(labels, ".")
	slices.Reverse(parts)
	return strings.Join(parts, ".")
}
