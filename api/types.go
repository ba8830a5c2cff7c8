package api

import (
	"time"

	"pscan/scanner"
)

// Task statuses. A task moves pending -> running -> completed/failed;
// cancelled is reached via DELETE /scans/{id} and is terminal.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// ScanTask is a scan managed by the API service.
type ScanTask struct {
	// ID is the immutable UUIDv4 identifier assigned at acceptance.
	ID string `json:"id" example:"a3f5c62e-1234-4f72-a84a-1c2d3e4f5678"`
	// Status is the task lifecycle state.
	Status string `json:"status" enums:"pending,running,completed,failed,cancelled" example:"pending"`
	// Target is the hostname or IP literal to scan.
	Target string `json:"target" example:"scanme.nmap.org"`
	// Ports is the requested inclusive range in start-end form.
	Ports string `json:"ports" example:"1-1024"`
	// TimeoutMS bounds each connection attempt, in milliseconds.
	TimeoutMS int `json:"timeout_ms" example:"500"`
	// Retries is the number of extra attempts per port after the first failure.
	Retries int `json:"retries" example:"0"`
	// Parallel selects the bounded worker pool instead of a sequential sweep.
	Parallel bool `json:"parallel" example:"true"`
	// Workers is the pool size in parallel mode; 0 means the host's CPU count.
	Workers int `json:"workers,omitempty" example:"16"`
	// AllAddresses scans every resolved address instead of just the first.
	AllAddresses bool `json:"all_addresses,omitempty"`
	// Results holds one ordered port list per scanned address, set on completion.
	Results []AddressResult `json:"results,omitempty"`
	// Incomplete is set when the scan was cancelled mid-run; partial
	// results must not be treated as authoritative.
	Incomplete bool `json:"incomplete,omitempty"`
	// CreatedAt records when the API accepted the request (UTC).
	CreatedAt time.Time `json:"created_at"`
	// CompletedAt is set once the task reaches a terminal state.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	// Error explains a failed status.
	Error string `json:"error,omitempty" example:"resolution failed: no such host"`
}

// AddressResult pairs one resolved address with its port-ordered results.
type AddressResult struct {
	Address string           `json:"address" example:"45.33.32.156"`
	Ports   []scanner.Result `json:"ports"`
}

// CreateScanRequest is the payload for creating a scan task.
type CreateScanRequest struct {
	// Target is a hostname or IP literal.
	Target string `json:"target" binding:"required" example:"scanme.nmap.org"`
	// Ports is an inclusive range in start-end form.
	Ports string `json:"ports" binding:"required" example:"1-1024"`
	// TimeoutMS bounds each connection attempt; defaults to 500 when omitted.
	TimeoutMS int `json:"timeout_ms" binding:"omitempty,gt=0" example:"500"`
	// Retries is the number of extra attempts per port (0-10).
	Retries int `json:"retries" binding:"omitempty,gte=0,lte=10" example:"0"`
	// Parallel enables the bounded worker pool.
	Parallel bool `json:"parallel" example:"true"`
	// Workers overrides the pool size (1-1024); 0 picks the host's CPU count.
	Workers int `json:"workers" binding:"omitempty,gte=1,lte=1024" example:"16"`
	// AllAddresses scans every resolved address sequentially.
	AllAddresses bool `json:"all_addresses"`
}

// ScanAcceptedResponse acknowledges an accepted scan task.
type ScanAcceptedResponse struct {
	ID     string `json:"id" example:"a3f5c62e-1234-4f72-a84a-1c2d3e4f5678"`
	Status string `json:"status" example:"pending"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error" example:"task not found"`
}
