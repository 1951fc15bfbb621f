package geo

// Provider looks up geo data for a single IP address.
//
// Implementations return ErrAddressNotFound when they have no record for the
// address, and must be safe for concurrent use.
type Provider interface {
	Lookup(ip string) (Snapshot, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ip string) (Snapshot, error)

func (f ProviderFunc) Lookup(ip string) (Snapshot, error) { return f(ip) }
