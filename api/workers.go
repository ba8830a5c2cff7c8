package api

import (
	"runtime"
	"sync"
	"time"

	"pscan/logging"
	"pscan/scanner"
)

// Registry tracks the cancellation handle of every running task, so a
// DELETE on a task ID can reach the worker executing it. Each task owns
// its own Canceller; cancelling one never touches another.
type Registry struct {
	mu      sync.Mutex
	running map[string]*scanner.Canceller
}

// NewRegistry returns an empty cancellation registry.
func NewRegistry() *Registry {
	return &Registry{running: make(map[string]*scanner.Canceller)}
}

func (r *Registry) add(taskID string, c *scanner.Canceller) {
	r.mu.Lock()
	r.running[taskID] = c
	r.mu.Unlock()
}

func (r *Registry) remove(taskID string) {
	r.mu.Lock()
	delete(r.running, taskID)
	r.mu.Unlock()
}

// CancelTask sets the cancellation flag of a running task. It reports
// whether a live scan was found for the ID.
func (r *Registry) CancelTask(taskID string) bool {
	r.mu.Lock()
	c, ok := r.running[taskID]
	r.mu.Unlock()
	if ok {
		c.Cancel()
	}
	return ok
}

// StartWorkers launches background goroutines that process queued scan
// tasks.
func StartWorkers(store TaskStore, reg *Registry, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go workerLoop(store, reg)
	}
}

func workerLoop(store TaskStore, reg *Registry) {
	logger := logging.Logger()
	for {
		taskID, err := store.PopFromQueue()
		if err != nil {
			logger.Error("worker failed to pop task", "error", err)
			time.Sleep(time.Second)
			continue
		}

		task, err := store.GetTask(taskID)
		if err != nil {
			if err == ErrTaskNotFound {
				logger.Warn("worker task disappeared", "task_id", taskID)
				continue
			}
			logger.Error("worker failed to load task", "task_id", taskID, "error", err)
			continue
		}

		// Cancelled while still queued; nothing to run.
		if task.Status == StatusCancelled {
			continue
		}

		task.Status = StatusRunning
		task.Error = ""
		task.Results = nil
		task.CompletedAt = nil
		if err := store.UpdateTask(task); err != nil {
			logger.Error("worker failed to mark task running", "task_id", taskID, "error", err)
			continue
		}

		cancel := scanner.NewCanceller()
		reg.add(task.ID, cancel)
		err = runTask(task, cancel)
		reg.remove(task.ID)

		now := time.Now().UTC()
		task.CompletedAt = &now
		switch {
		case err != nil:
			task.Status = StatusFailed
			task.Error = err.Error()
			task.Results = nil
			logger.Error("worker task failed", "task_id", task.ID, "error", err)
		case cancel.Cancelled():
			task.Status = StatusCancelled
			task.Incomplete = true
		default:
			task.Status = StatusCompleted
		}

		if err := store.UpdateTask(task); err != nil {
			logger.Error("worker failed to update task", "task_id", task.ID, "error", err)
		}
	}
}

// runTask resolves the task target and scans each selected address in
// turn, attaching the port-ordered results to the task. Cancellation is
// not an error; the caller inspects the flag afterwards.
func runTask(task *ScanTask, cancel *scanner.Canceller) error {
	portRange, err := scanner.ParsePortRange(task.Ports)
	if err != nil {
		return err
	}

	addrs, err := scanner.ResolveTarget(task.Target)
	if err != nil {
		return err
	}
	if !task.AllAddresses {
		addrs = addrs[:1]
	}

	workers := task.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}

	cfg := scanner.Config{
		Timeout:  time.Duration(task.TimeoutMS) * time.Millisecond,
		Retries:  task.Retries,
		Parallel: task.Parallel,
		Workers:  workers,
	}

	ports := portRange.Ports()
	for _, addr := range addrs {
		results := scanner.ScanAddress(addr, ports, cfg, scanner.NewProgress(), cancel)
		task.Results = append(task.Results, AddressResult{Address: addr.String(), Ports: results})
		if cancel.Cancelled() {
			break
		}
	}

	return nil
}
