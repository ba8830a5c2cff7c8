package api

import (
	"crypto/rand"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pscan/scanner"
)

// Server bundles dependencies for HTTP handlers.
type Server struct {
	store    TaskStore
	registry *Registry
}

// NewServer creates a new API server instance.
func NewServer(store TaskStore, registry *Registry) *Server {
	return &Server{store: store, registry: registry}
}

// RegisterRoutes attaches handlers to the provided route group.
func (s *Server) RegisterRoutes(routes gin.IRoutes) {
	routes.POST("/scans", s.createScanHandler)
	routes.GET("/scans/:id", s.getScanHandler)
	routes.DELETE("/scans/:id", s.cancelScanHandler)
}

// createScanHandler accepts a scan request, queues it for background
// workers, and answers 202 with the task ID.
//
//	@Summary	Create a scan task
//	@Tags		Scans
//	@Accept		json
//	@Produce	json
//	@Param		scanRequest	body		CreateScanRequest	true	"Scan parameters"
//	@Success	202			{object}	ScanAcceptedResponse
//	@Failure	400			{object}	ErrorResponse
//	@Router		/scans [post]
func (s *Server) createScanHandler(c *gin.Context) {
	var req CreateScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	// Reject malformed ranges at acceptance time rather than letting
	// the task fail asynchronously.
	if _, err := scanner.ParsePortRange(req.Ports); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if req.TimeoutMS == 0 {
		req.TimeoutMS = 500
	}

	taskID, err := generateUUID()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to generate task id"})
		return
	}

	task := &ScanTask{
		ID:           taskID,
		Status:       StatusPending,
		Target:       req.Target,
		Ports:        req.Ports,
		TimeoutMS:    req.TimeoutMS,
		Retries:      req.Retries,
		Parallel:     req.Parallel,
		Workers:      req.Workers,
		AllAddresses: req.AllAddresses,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.CreateTask(task); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to persist task"})
		return
	}

	if err := s.store.PushToQueue(task.ID); err != nil {
		task.Status = StatusFailed
		task.Error = "failed to queue task"
		now := time.Now().UTC()
		task.CompletedAt = &now
		_ = s.store.UpdateTask(task)

		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to queue task"})
		return
	}

	c.JSON(http.StatusAccepted, ScanAcceptedResponse{ID: task.ID, Status: task.Status})
}

// getScanHandler returns the current state of a task, including results
// once it has completed.
//
//	@Summary	Get a scan task
//	@Tags		Scans
//	@Produce	json
//	@Param		id	path		string	true	"Task ID"
//	@Success	200	{object}	ScanTask
//	@Failure	404	{object}	ErrorResponse
//	@Router		/scans/{id} [get]
func (s *Server) getScanHandler(c *gin.Context) {
	task, err := s.store.GetTask(c.Param("id"))
	if err != nil {
		if err == ErrTaskNotFound {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load task"})
		return
	}

	c.JSON(http.StatusOK, task)
}

// cancelScanHandler cancels a pending or running task. A running scan
// stops cooperatively: in-flight connection attempts run to their own
// timeout, so the task may take up to one timeout to settle.
//
//	@Summary	Cancel a scan task
//	@Tags		Scans
//	@Produce	json
//	@Param		id	path		string	true	"Task ID"
//	@Success	202	{object}	ScanAcceptedResponse
//	@Failure	404	{object}	ErrorResponse
//	@Failure	409	{object}	ErrorResponse
//	@Router		/scans/{id} [delete]
func (s *Server) cancelScanHandler(c *gin.Context) {
	id := c.Param("id")

	task, err := s.store.GetTask(id)
	if err != nil {
		if err == ErrTaskNotFound {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load task"})
		return
	}

	switch task.Status {
	case StatusCompleted, StatusFailed, StatusCancelled:
		c.JSON(http.StatusConflict, ErrorResponse{Error: fmt.Sprintf("task already %s", task.Status)})
		return
	case StatusRunning:
		if !s.registry.CancelTask(id) {
			// Finished between the load above and now.
			c.JSON(http.StatusConflict, ErrorResponse{Error: "task already settled"})
			return
		}
		c.JSON(http.StatusAccepted, ScanAcceptedResponse{ID: id, Status: StatusCancelled})
	default:
		// Still queued; mark it so the worker skips it on pop.
		task.Status = StatusCancelled
		now := time.Now().UTC()
		task.CompletedAt = &now
		if err := s.store.UpdateTask(task); err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to update task"})
			return
		}
		c.JSON(http.StatusAccepted, ScanAcceptedResponse{ID: id, Status: StatusCancelled})
	}
}

func generateUUID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	// Variant bits; version 4 UUID.
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16]), nil
}
