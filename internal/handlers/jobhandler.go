package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/birrama/careers/internal/catalog"
	"github.com/birrama/careers/internal/dtos"
)

// JobHandler serves the read-only job catalog.
type JobHandler struct {
	Catalog *catalog.Catalog
}

func NewJobHandler(c *catalog.Catalog) *JobHandler {
	return &JobHandler{Catalog: c}
}

// ListJobs is GET /jobs
func (h *JobHandler) ListJobs(c *gin.Context) {
	c.JSON(http.StatusOK, h.Catalog)
}

// GetJob is GET /jobs/:kind/:index, the expanded description view.
func (h *JobHandler) GetJob(c *gin.Context) {
	kind, err := catalog.ParseKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job kind: " + err.Error()})
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job index: " + err.Error()})
		return
	}
	job, ok := h.Catalog.Listing(kind, index)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	c.JSON(http.StatusOK, dtos.JobDetailResponse{
		Kind:        string(kind),
		Index:       index,
		Title:       job.Title,
		Description: job.Description,
		Form:        job.Form,
		Questions:   job.Questions,
	})
}
