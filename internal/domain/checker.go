package domain

// Contains reports whether key is present in hosts (exact, case-sensitive).
func Contains(hosts []CanonicalHost, key CanonicalHost) bool {
	for _, h := range hosts {
		if h == key {
			return true
		}
	}
	return false
}

// Prepend returns a new slice with key in front of hosts, truncated to limit.
// hosts is never modified, so snapshots that share it stay valid.
func Prepend(hosts []CanonicalHost, key CanonicalHost, limit int) []CanonicalHost {
	if limit <= 0 {
		limit = MaxHosts
	}
	n := len(hosts) + 1
	if n > limit {
		n = limit
	}
	out := make([]CanonicalHost, 0, n)
	out = append(out, key)
	for _, h := range hosts {
		if len(out) == n {
			break
		}
		out = append(out, h)
	}
	return out
}

// Truncate drops everything beyond the first limit hosts.
func Truncate(hosts []CanonicalHost, limit int) []CanonicalHost {
	if limit > 0 && len(hosts) > limit {
		return hosts[:limit]
	}
	return hosts
}
