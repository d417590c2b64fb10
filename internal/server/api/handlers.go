package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"listfilter/internal/metrics"
	"listfilter/internal/nodes"
	"listfilter/internal/storage"
	"listfilter/internal/types"
	"listfilter/internal/workflow"
)

const (
	defaultRunsLimit = 50
	maxRunsLimit     = 500
)

func (s *Server) handleApply(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		s.writeError(c, types.NewRequestError("", "Invalid JSON in request body"))
		return
	}

	obj, err := decodeObject(body)
	if err != nil {
		s.writeError(c, err)
		return
	}

	list, err := listField(obj, "items")
	if err != nil {
		s.writeError(c, err)
		return
	}

	indices, err := listField(obj, "selected_indices")
	if err != nil {
		s.writeError(c, err)
		return
	}

	filtered := selectIndices(list, indices)
	c.JSON(http.StatusOK, applyResponse{Filtered: filtered, Count: len(filtered)})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleListNodes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"nodes": s.catalog.Definitions()})
}

func (s *Server) handleExecuteNode(c *gin.Context) {
	name := c.Param("name")
	node, ok := s.catalog.Get(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown node " + name})
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		s.writeError(c, types.NewRequestError("", "Invalid JSON in request body"))
		return
	}

	req, err := s.executeRequest(body)
	if err != nil {
		s.writeError(c, err)
		return
	}

	out := node.Execute(c.Request.Context(), req)

	metrics.NodeExecutionsTotal.WithLabelValues(name).Inc()
	metrics.NodeItemsTotal.WithLabelValues(name, "in").Add(float64(out.Total))
	metrics.NodeItemsTotal.WithLabelValues(name, "out").Add(float64(out.Active))

	s.recordRun(c.Request.Context(), storage.Run{
		ID:          uuid.NewString(),
		NodeType:    name,
		UniqueID:    req.UniqueID,
		InputCount:  out.Total,
		OutputCount: out.Active,
		CreatedAt:   time.Now(),
	})

	c.JSON(http.StatusOK, out)
}

// executeRequest turns an execute body into a node request. Graph metadata
// that cannot be read is dropped so the node falls back to all items active.
func (s *Server) executeRequest(body []byte) (nodes.Request, error) {
	req := nodes.Request{Inputs: map[string]any{}}
	if len(body) == 0 {
		return req, nil
	}

	obj, err := decodeObject(body)
	if err != nil {
		return req, err
	}

	if raw, ok := obj["inputs"]; ok && raw != nil {
		inputs, ok := raw.(map[string]any)
		if !ok {
			return req, types.NewRequestError("inputs", "must be an object")
		}
		req.Inputs = inputs
	}

	req.UniqueID = workflow.NodeID(obj["unique_id"])

	meta, err := workflow.FromValue(obj["extra_pnginfo"])
	if err != nil {
		s.logger.Warn("Ignoring unreadable workflow metadata", "unique_id", req.UniqueID, "error", err)
	} else {
		req.Metadata = meta
	}

	return req, nil
}

func (s *Server) recordRun(ctx context.Context, run storage.Run) {
	if s.runs == nil {
		return
	}

	if err := s.runs.Record(ctx, run); err != nil {
		s.logger.Error("Failed to record node run", "node", run.NodeType, "error", err)
	}
}

func (s *Server) handleListRuns(c *gin.Context) {
	limit := defaultRunsLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(c, types.NewRequestError("limit", "must be a positive integer"))
			return
		}
		limit = min(n, maxRunsLimit)
	}

	if s.runs == nil {
		c.JSON(http.StatusOK, gin.H{"runs": []storage.Run{}})
		return
	}

	runs, err := s.runs.ListRecent(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error("Failed to list runs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if runs == nil {
		runs = []storage.Run{}
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) writeError(c *gin.Context, err error) {
	var reqErr *types.RequestError
	if errors.As(err, &reqErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": reqErr.Error()})
		return
	}

	s.logger.Error("Request failed", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
