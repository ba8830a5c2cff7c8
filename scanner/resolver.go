package scanner

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"slices"
)

// lookupNetIP is the name-service seam; tests swap it to avoid real DNS.
var lookupNetIP = func(host string) ([]netip.Addr, error) {
	return net.DefaultResolver.LookupNetIP(context.Background(), "ip", host)
}

// ResolveTarget resolves a hostname or literal IP into a deduplicated
// set of addresses sorted by their binary representation, so the same
// target always yields the same ordering regardless of lookup order.
// The lookup carries no internal timeout; callers needing a hard bound
// must impose their own.
func ResolveTarget(target string) ([]netip.Addr, error) {
	if addr, err := netip.ParseAddr(target); err == nil {
		return []netip.Addr{addr.Unmap()}, nil
	}

	addrs, err := lookupNetIP(target)
	if err != nil {
		return nil, fmt.Errorf("resolution failed: %w", err)
	}

	for i, a := range addrs {
		addrs[i] = a.Unmap()
	}
	slices.SortFunc(addrs, netip.Addr.Compare)
	addrs = slices.Compact(addrs)

	if len(addrs) == 0 {
		return nil, fmt.Errorf("no addresses found for target %q", target)
	}
	return addrs, nil
}
