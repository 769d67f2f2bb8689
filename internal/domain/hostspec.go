package domain

type ResolveMode int

const (
	ResolveNone ResolveMode = iota
	ResolveA
	ResolveAAAA
	ResolveCustom
)

func (m ResolveMode) String() string {
	switch m {
	case ResolveA:
		return "A"
	case ResolveAAAA:
		return "AAAA"
	case ResolveCustom:
		return "custom"
	default:
		return "none"
	}
}

// DNS record types requested from the resolver
const (
	DNSRecordA    = "A"
	DNSRecordAAAA = "AAAA"
)

// HostSpec is one parsed entry of the configured host list.
type HostSpec struct {
	Raw        string
	Mode       ResolveMode
	RecordType string // record type passed to the resolver, empty for ResolveNone
	ForceIPv6  bool
	Address    string
}

// NeedsResolve reports whether Address is a name to be expanded via DNS.
func (h HostSpec) NeedsResolve() bool {
	return h.Mode != ResolveNone
}

// UseIPv6 reports whether the IPv6 ping variant must be used for this spec.
func (h HostSpec) UseIPv6() bool {
	return h.ForceIPv6 || h.Mode == ResolveAAAA
}
