package api

import (
	"net"
	"strconv"
	"testing"

	"pscan/scanner"
)

func TestRunTask_LocalScan(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	_, portStr, err := net.SplitHostPort(ln.Addr().String())
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	port, _ := strconv.Atoi(portStr)

	task := &ScanTask{
		ID:        "local-scan",
		Target:    "127.0.0.1",
		Ports:     portStr + "-" + portStr,
		TimeoutMS: 500,
		Parallel:  true,
		Workers:   2,
	}

	if err := runTask(task, scanner.NewCanceller()); err != nil {
		t.Fatalf("runTask: %v", err)
	}

	if len(task.Results) != 1 {
		t.Fatalf("got %d address results, want 1", len(task.Results))
	}
	got := task.Results[0]
	if got.Address != "127.0.0.1" {
		t.Fatalf("address = %s", got.Address)
	}
	if len(got.Ports) != 1 || got.Ports[0].Port != uint16(port) || !got.Ports[0].Open {
		t.Fatalf("unexpected port results: %+v", got.Ports)
	}
}

func TestRunTask_BadRange(t *testing.T) {
	task := &ScanTask{ID: "bad", Target: "127.0.0.1", Ports: "100-1", TimeoutMS: 50}
	if err := runTask(task, scanner.NewCanceller()); err == nil {
		t.Fatal("expected error for inverted range")
	}
}

func TestRunTask_UnresolvableTarget(t *testing.T) {
	task := &ScanTask{
		ID:        "unresolvable",
		Target:    "definitely-not-a-real-host.invalid",
		Ports:     "1-5",
		TimeoutMS: 50,
	}
	if err := runTask(task, scanner.NewCanceller()); err == nil {
		t.Fatal("expected resolution error")
	}
}

func TestRunTask_CancelledMarksIncompleteViaCaller(t *testing.T) {
	cancel := scanner.NewCanceller()
	cancel.Cancel()

	task := &ScanTask{ID: "cancelled", Target: "127.0.0.1", Ports: "1-5", TimeoutMS: 50}
	if err := runTask(task, cancel); err != nil {
		t.Fatalf("cancellation must not surface as an error: %v", err)
	}

	// Results exist but every port reads closed; the worker loop turns
	// the flag into status=cancelled / incomplete=true.
	if len(task.Results) != 1 {
		t.Fatalf("got %d address results, want 1", len(task.Results))
	}
	for _, r := range task.Results[0].Ports {
		if r.Open {
			t.Fatalf("port %d open after pre-cancelled run", r.Port)
		}
	}
}
