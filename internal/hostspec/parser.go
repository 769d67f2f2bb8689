// Package hostspec parses the comma-separated host list of the plugin
// configuration.
//
// Each entry is either a plain address or name, or "<prefix>:<name>" where the
// prefix selects DNS expansion or the IPv6 ping variant:
//
//	example.com          ping example.com as-is
//	A:example.com        ping every A record of example.com
//	AAAA:example.com     ping6 every AAAA record of example.com
//	6:example.com        ping6 example.com as-is
//	MX:example.com       resolve with record type MX
//	2001:db8::1          bare IPv6 literal, ping6 as-is
//
// A prefix made only of hex digits (or an empty one, as in "::1") is taken for
// the first group of an IPv6 literal. Record types that are valid hex words
// ("CAA") are misread that way, and so are literals whose first group is "A",
// "AAAA" or "6".
package hostspec

import (
	"regexp"
	"strings"

	"ozzus/multiping/internal/domain"
)

var hexGroupRegexp = regexp.MustCompile(`^[0-9A-Fa-f]*$`)

// Split splits a comma-separated list into trimmed, non-empty tokens. The
// host list and the name list both go through it so they pair up by position.
func Split(raw string) []string {
	var tokens []string
	for _, token := range strings.Split(raw, ",") {
		if token = strings.TrimSpace(token); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// Parse splits raw with Split and parses each token. Output order follows
// input order.
func Parse(raw string) []domain.HostSpec {
	var specs []domain.HostSpec
	for _, token := range Split(raw) {
		specs = append(specs, ParseToken(token))
	}
	return specs
}

// ParseToken parses a single trimmed host entry.
func ParseToken(token string) domain.HostSpec {
	spec := domain.HostSpec{Raw: token, Address: token}

	prefix, rest, annotated := strings.Cut(token, ":")
	if !annotated {
		return spec
	}

	switch {
	case prefix == "A":
		spec.Mode = domain.ResolveA
		spec.RecordType = domain.DNSRecordA
		spec.Address = rest
	case prefix == "AAAA":
		spec.Mode = domain.ResolveAAAA
		spec.RecordType = domain.DNSRecordAAAA
		spec.Address = rest
	case prefix == "6":
		spec.ForceIPv6 = true
		spec.Address = rest
	case hexGroupRegexp.MatchString(prefix):
		spec.ForceIPv6 = true
	default:
		spec.Mode = domain.ResolveCustom
		spec.RecordType = prefix
		spec.Address = rest
	}

	return spec
}
