package scanner

import (
	"net/netip"
	"sort"
	"sync"
	"time"
)

// Result is the outcome for one scanned port. Every failure cause —
// refused, timed out, unreachable, or skipped after cancellation —
// reports as Open=false.
type Result struct {
	Port uint16 `json:"port"`
	Open bool   `json:"open"`
}

// Config holds the per-scan knobs supplied by the caller.
type Config struct {
	// Timeout bounds each individual connection attempt.
	Timeout time.Duration
	// Retries is the number of additional attempts after the first
	// failure; a probe makes Retries+1 attempts in total.
	Retries int
	// Parallel selects the worker-pool path; when false ports are
	// probed one at a time in order.
	Parallel bool
	// Workers is the pool size in parallel mode. Values below 1 are
	// clamped to 1; callers normally pass the host's available
	// concurrency.
	Workers int
}

// ScanAddress probes every port in ports against addr and returns one
// Result per port, sorted ascending by port number regardless of the
// order probes completed in. progress (optional) is incremented exactly
// once per port, including ports skipped after cancellation. The
// cancellation flag is observed before each probe and before each
// retry; attempts already in flight run to their own timeout.
func ScanAddress(addr netip.Addr, ports []uint16, cfg Config, progress *Progress, cancel *Canceller) []Result {
	if cfg.Parallel {
		return scanParallel(addr, ports, cfg, progress, cancel)
	}
	return scanSequential(addr, ports, cfg, progress, cancel)
}

func scanSequential(addr netip.Addr, ports []uint16, cfg Config, progress *Progress, cancel *Canceller) []Result {
	results := make([]Result, 0, len(ports))
	for _, port := range ports {
		open := ProbePort(addr, port, cfg.Timeout, cfg.Retries, cancel)
		progress.Inc()
		results = append(results, Result{Port: port, Open: open})
	}
	return results
}

// scanParallel fans the port list across a fixed pool of workers over a
// jobs channel and merges their results once, after all workers finish.
// The pool size is the only backpressure mechanism; no goroutine is
// spawned per port.
func scanParallel(addr netip.Addr, ports []uint16, cfg Config, progress *Progress, cancel *Canceller) []Result {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	jobs := make(chan uint16, len(ports))
	out := make(chan Result, len(ports))

	wg.Add(len(ports))
	for w := 0; w < workers; w++ {
		go func() {
			for port := range jobs {
				open := false
				// Skip the dial entirely once cancelled so no new
				// connection attempts are issued; in-flight ones
				// already committed to their timeout.
				if !cancel.Cancelled() {
					open = ProbePort(addr, port, cfg.Timeout, cfg.Retries, cancel)
				}
				progress.Inc()
				out <- Result{Port: port, Open: open}
				wg.Done()
			}
		}()
	}

	for _, port := range ports {
		jobs <- port
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(out)
	}()

	results := make([]Result, 0, len(ports))
	for r := range out {
		results = append(results, r)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Port < results[j].Port })
	return results
}
