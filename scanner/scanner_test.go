package scanner

import (
	"errors"
	"net"
	"net/netip"
	"reflect"
	"sort"
	"sync/atomic"
	"testing"
	"time"
)

// localFixture opens openCount listeners and frees closedCount ports,
// returning the combined ascending port list and the set of open ones.
func localFixture(t *testing.T, openCount, closedCount int) ([]uint16, map[uint16]bool) {
	t.Helper()
	open := make(map[uint16]bool)
	var ports []uint16
	for i := 0; i < openCount; i++ {
		_, port := listenLocal(t)
		open[port] = true
		ports = append(ports, port)
	}
	for i := 0; i < closedCount; i++ {
		ports = append(ports, closedLocalPort(t))
	}
	sort.Slice(ports, func(i, j int) bool { return ports[i] < ports[j] })
	return ports, open
}

func assertScan(t *testing.T, results []Result, ports []uint16, open map[uint16]bool) {
	t.Helper()
	if len(results) != len(ports) {
		t.Fatalf("got %d results, want %d", len(results), len(ports))
	}
	for i, r := range results {
		if r.Port != ports[i] {
			t.Fatalf("result %d has port %d, want %d (ascending order contract)", i, r.Port, ports[i])
		}
		if r.Open != open[r.Port] {
			t.Fatalf("port %d: open=%v, want %v", r.Port, r.Open, open[r.Port])
		}
	}
}

func TestScanAddress_Sequential(t *testing.T) {
	ports, open := localFixture(t, 2, 3)
	progress := NewProgress()

	cfg := Config{Timeout: 500 * time.Millisecond}
	results := ScanAddress(localhost, ports, cfg, progress, NewCanceller())

	assertScan(t, results, ports, open)
	if progress.Count() != int64(len(ports)) {
		t.Fatalf("progress = %d, want %d", progress.Count(), len(ports))
	}
}

func TestScanAddress_Parallel(t *testing.T) {
	ports, open := localFixture(t, 3, 5)
	progress := NewProgress()

	cfg := Config{Timeout: 500 * time.Millisecond, Parallel: true, Workers: 4}
	results := ScanAddress(localhost, ports, cfg, progress, NewCanceller())

	assertScan(t, results, ports, open)
	if progress.Count() != int64(len(ports)) {
		t.Fatalf("progress = %d, want %d", progress.Count(), len(ports))
	}
}

func TestScanAddress_Idempotent(t *testing.T) {
	ports, _ := localFixture(t, 2, 2)
	cfg := Config{Timeout: 500 * time.Millisecond, Parallel: true, Workers: 3}

	first := ScanAddress(localhost, ports, cfg, nil, NewCanceller())
	second := ScanAddress(localhost, ports, cfg, nil, NewCanceller())

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ between runs:\n%v\n%v", first, second)
	}
}

func TestScanAddress_CancelledBeforeStart(t *testing.T) {
	var attempts atomic.Int64
	withDial(t, func(string, string, time.Duration) (net.Conn, error) {
		attempts.Add(1)
		return nil, errors.New("connection refused")
	})

	ports := []uint16{1, 2, 3, 4, 5, 6, 7, 8}
	cancel := NewCanceller()
	cancel.Cancel()

	for _, parallel := range []bool{false, true} {
		attempts.Store(0)
		progress := NewProgress()
		cfg := Config{Timeout: time.Second, Retries: 2, Parallel: parallel, Workers: 4}

		results := ScanAddress(localhost, ports, cfg, progress, cancel)

		if len(results) != len(ports) {
			t.Fatalf("parallel=%v: got %d results, want %d", parallel, len(results), len(ports))
		}
		for _, r := range results {
			if r.Open {
				t.Fatalf("parallel=%v: port %d reported open after cancellation", parallel, r.Port)
			}
		}
		if attempts.Load() != 0 {
			t.Fatalf("parallel=%v: %d connection attempts after cancellation, want 0", parallel, attempts.Load())
		}
		// Cancelled no-ops still count as ports accounted for.
		if progress.Count() != int64(len(ports)) {
			t.Fatalf("parallel=%v: progress = %d, want %d", parallel, progress.Count(), len(ports))
		}
	}
}

func TestScanAddress_WorkerBound(t *testing.T) {
	var inflight, peak atomic.Int64
	withDial(t, func(string, string, time.Duration) (net.Conn, error) {
		n := inflight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inflight.Add(-1)
		return nil, errors.New("connection refused")
	})

	const workers = 3
	ports := make([]uint16, 40)
	for i := range ports {
		ports[i] = uint16(i + 1)
	}

	cfg := Config{Timeout: time.Second, Parallel: true, Workers: workers}
	ScanAddress(localhost, ports, cfg, nil, NewCanceller())

	if got := peak.Load(); got > workers {
		t.Fatalf("observed %d concurrent attempts, bound is %d", got, workers)
	}
}

func TestScanAddress_SingleOpenPortScenario(t *testing.T) {
	// One listener among a handful of closed neighbours; the result
	// list must flag exactly that port, in ascending order.
	ports, open := localFixture(t, 1, 4)

	cfg := Config{Timeout: 50 * time.Millisecond}
	results := ScanAddress(localhost, ports, cfg, nil, NewCanceller())

	assertScan(t, results, ports, open)
	openCount := 0
	for _, r := range results {
		if r.Open {
			openCount++
		}
	}
	if openCount != 1 {
		t.Fatalf("open count = %d, want 1", openCount)
	}
}

func TestScanAddress_EmptyPortList(t *testing.T) {
	results := ScanAddress(netip.MustParseAddr("127.0.0.1"), nil, Config{Timeout: time.Millisecond, Parallel: true, Workers: 2}, nil, NewCanceller())
	if len(results) != 0 {
		t.Fatalf("got %d results for empty port list", len(results))
	}
}
