package scanner

import (
	"net"
	"net/netip"
	"strconv"
	"time"
)

// dialTimeout is the connection seam; tests swap it to count attempts
// and to bound-check concurrency without touching the network.
var dialTimeout = net.DialTimeout

// ProbePort attempts a TCP connection to (addr, port), retrying up to
// retries times after the first failure. A completed handshake counts
// as open; the connection is closed immediately and no bytes are
// exchanged. Every failure mode, including a cancelled run, collapses
// to false — closed, filtered and not-checked are deliberately
// indistinguishable. The call never blocks longer than
// (retries+1) x timeout and never panics on malformed network input.
func ProbePort(addr netip.Addr, port uint16, timeout time.Duration, retries int, cancel *Canceller) bool {
	if cancel.Cancelled() {
		return false
	}

	target := net.JoinHostPort(addr.String(), strconv.Itoa(int(port)))
	attempts := retries + 1

	for i := 0; i < attempts; i++ {
		if cancel.Cancelled() {
			return false
		}

		conn, err := dialTimeout("tcp", target, timeout)
		if err == nil {
			_ = conn.Close()
			return true
		}
	}

	return false
}
