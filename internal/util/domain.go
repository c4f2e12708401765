package util

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// UnknownDomain is the grouping key for URLs without a parseable host
const UnknownDomain = "unknown"

// Host returns the lowercased host of rawURL without port or leading "www.".
// Unparseable URLs map to UnknownDomain.
func Host(rawURL string) string {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return UnknownDomain
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return UnknownDomain
	}

	host := strings.ToLower(parsed.Hostname())
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimSuffix(host, ".")
	if host == "" {
		return UnknownDomain
	}
	return host
}

// RegisteredDomain returns the eTLD+1 for rawURL (bbc.co.uk for news.bbc.co.uk).
// Falls back to Host when the public suffix list cannot resolve it.
func RegisteredDomain(rawURL string) string {
	host := Host(rawURL)
	if host == UnknownDomain {
		return host
	}
	registered, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return registered
}

// MatchesDomain reports whether host equals domain or is a subdomain of it
func MatchesDomain(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}
