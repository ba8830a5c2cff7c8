package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/netip"
	"os"
	"os/signal"
	"runtime"
	"time"

	"pscan/scanner"
)

// Run is the main entry point for the CLI. It parses flags, resolves
// the target, wires the interrupt handler to the cancellation flag, and
// scans each selected address in turn.
func Run() {
	target := flag.String("target", "", "Hostname or IP address to scan (required)")
	flag.StringVar(target, "H", "", "Shorthand for -target")
	portSpec := flag.String("ports", "1-1000", "Port range in start-end form")
	flag.StringVar(portSpec, "p", "1-1000", "Shorthand for -ports")
	timeoutMS := flag.Int("timeout-ms", 50, "Per-attempt connect timeout in milliseconds")
	flag.IntVar(timeoutMS, "t", 50, "Shorthand for -timeout-ms")
	retries := flag.Int("retries", 0, "Extra connection attempts per port after the first failure")
	parallel := flag.Bool("parallel", false, "Probe ports concurrently with a bounded worker pool")
	threads := flag.Int("threads", 0, "Worker pool size (default: number of CPUs)")
	showClosed := flag.Bool("show-closed", false, "List closed ports as well as open ones")
	allIPs := flag.Bool("all-ips", false, "Scan every resolved address, not just the first")
	progress := flag.Bool("progress", true, "Show a live progress line on stderr")
	jsonOutput := flag.Bool("json", false, "Output results in JSON format")
	flag.Parse()

	// Positional form: pscan [flags] host [start-end]
	if *target == "" && flag.NArg() > 0 {
		*target = flag.Arg(0)
		if flag.NArg() > 1 {
			*portSpec = flag.Arg(1)
		}
	}
	if *target == "" {
		printUsage()
		os.Exit(2)
	}
	if *timeoutMS <= 0 {
		fatal(fmt.Errorf("timeout must be at least 1 ms"))
	}

	portRange, err := scanner.ParsePortRange(*portSpec)
	if err != nil {
		fatal(err)
	}

	workers := *threads
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}

	addrs, err := scanner.ResolveTarget(*target)
	if err != nil {
		fatal(err)
	}
	if !*allIPs {
		addrs = addrs[:1]
	}

	cfg := scanner.Config{
		Timeout:  time.Duration(*timeoutMS) * time.Millisecond,
		Retries:  *retries,
		Parallel: *parallel,
		Workers:  workers,
	}

	// The interrupt handler is the only writer of the cancellation
	// flag; the scan itself never sets it.
	cancel := scanner.NewCanceller()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		cancel.Cancel()
	}()

	if !*jsonOutput {
		printBanner(os.Stdout, *target, len(addrs), portRange, cfg)
	}

	ports := portRange.Ports()
	var reports []addressReport

	for _, addr := range addrs {
		started := time.Now()

		counter := scanner.NewProgress()
		var stopProgress func()
		if *progress && !*jsonOutput {
			stopProgress = startProgressLine(os.Stderr, len(ports), counter, started)
		}

		results := scanner.ScanAddress(addr, ports, cfg, counter, cancel)

		if stopProgress != nil {
			stopProgress()
		}

		cancelled := cancel.Cancelled()
		if cancelled {
			fmt.Fprintln(os.Stderr, "scan cancelled (results may be incomplete)")
		} else if !*jsonOutput {
			fmt.Fprintf(os.Stderr, "scan complete in %s\n", time.Since(started).Round(time.Millisecond))
		}

		if *jsonOutput {
			reports = append(reports, addressReport{
				Address:    addr.String(),
				Results:    results,
				Incomplete: cancelled,
			})
		} else {
			printResults(os.Stdout, addr, results, *showClosed)
		}

		// After cancellation remaining addresses are skipped; their
		// results would be meaningless anyway.
		if cancelled {
			break
		}
	}

	if *jsonOutput {
		data, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			fatal(fmt.Errorf("encoding results: %w", err))
		}
		fmt.Println(string(data))
	}
}

// addressReport is the JSON output shape for one scanned address.
type addressReport struct {
	Address    string           `json:"address"`
	Results    []scanner.Result `json:"results"`
	Incomplete bool             `json:"incomplete,omitempty"`
}

func printUsage() {
	fmt.Println("Usage: pscan [flags] host [start-end]")
	fmt.Println("Example: pscan -parallel -p 1-1024 scanme.nmap.org")
	fmt.Println("Example: pscan --json 127.0.0.1 20-25")
	flag.PrintDefaults()
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printBanner(w io.Writer, target string, addrCount int, r scanner.PortRange, cfg scanner.Config) {
	fmt.Fprintln(w, "pscan")
	fmt.Fprintf(w, "  target      : %s\n", target)
	fmt.Fprintf(w, "  ips scanned : %d\n", addrCount)
	fmt.Fprintf(w, "  ports       : %s\n", r)
	fmt.Fprintf(w, "  timeout     : %s\n", cfg.Timeout)
	fmt.Fprintf(w, "  retries     : %d\n", cfg.Retries)
	fmt.Fprintf(w, "  parallel    : %v\n", cfg.Parallel)
	if cfg.Parallel {
		fmt.Fprintf(w, "  threads     : %d\n", cfg.Workers)
	}
}

// startProgressLine spawns a goroutine that redraws a single progress
// line on w every 200ms. The returned function stops it and waits for
// the final newline to be written.
func startProgressLine(w io.Writer, total int, counter *scanner.Progress, started time.Time) func() {
	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				fmt.Fprintln(w)
				return
			case <-ticker.C:
				n := counter.Count()
				pct := 100.0
				if total > 0 {
					pct = float64(n) / float64(total) * 100
				}
				fmt.Fprintf(w, "\rscanning... %d/%d (%.1f%%) elapsed: %s",
					n, total, pct, time.Since(started).Round(time.Millisecond))
			}
		}
	}()

	return func() {
		close(stop)
		<-done
	}
}

// printResults renders the result table for one address. Closed ports
// are hidden unless showClosed is set; open ports carry a best-effort
// service name hint.
func printResults(w io.Writer, addr netip.Addr, results []scanner.Result, showClosed bool) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "target ip: %s\n", addr)
	fmt.Fprintf(w, "%-8s  %-6s  %s\n", "port", "state", "hint")
	fmt.Fprintf(w, "%-8s  %-6s  %s\n", "--------", "------", "--------")

	openCount := 0
	for _, r := range results {
		state := "closed"
		if r.Open {
			state = "open"
			openCount++
		}
		if r.Open || showClosed {
			fmt.Fprintf(w, "%-8d  %-6s  %s\n", r.Port, state, serviceHint(r.Port))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "open ports found: %d\n", openCount)
}
