package handlers

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/birrama/careers/internal/catalog"
	"github.com/birrama/careers/internal/dtos"
	"github.com/birrama/careers/internal/middleware"
	"github.com/birrama/careers/internal/services"
	"github.com/birrama/careers/internal/session"
	"github.com/birrama/careers/internal/storage"
	"github.com/birrama/careers/internal/wizard"
)

type WizardHandler struct {
	Sessions        *session.Manager
	Files           session.FileStore
	Catalog         *catalog.Catalog
	Submissions     *services.SubmissionService
	Recommendations *services.RecommendationService
	MaxUploadBytes  int64
}

func NewWizardHandler(sessions *session.Manager, files session.FileStore, c *catalog.Catalog, submissions *services.SubmissionService, recommendations *services.RecommendationService, maxUpload int64) *WizardHandler {
	return &WizardHandler{
		Sessions:        sessions,
		Files:           files,
		Catalog:         c,
		Submissions:     submissions,
		Recommendations: recommendations,
		MaxUploadBytes:  maxUpload,
	}
}

// update applies fn to the caller's wizard and answers with the resulting view.
func (h *WizardHandler) update(c *gin.Context, fn func(w *wizard.Wizard) error) {
	w, err := h.Sessions.Update(c.Request.Context(), middleware.SessionID(c), fn)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, wizard.ErrUnknownStep), errors.Is(err, wizard.ErrEmptyAttachment):
			status = http.StatusBadRequest
		case errors.Is(err, wizard.ErrUnknownJob), errors.Is(err, wizard.ErrUnknownAttachment):
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, w.View(h.Catalog))
}

// GetWizard is GET /wizard
func (h *WizardHandler) GetWizard(c *gin.Context) {
	w, err := h.Sessions.Get(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, w.View(h.Catalog))
}

func (h *WizardHandler) SetStep(c *gin.Context) {
	var req dtos.StepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	h.update(c, func(w *wizard.Wizard) error {
		step, err := wizard.ParseStep(req.Step)
		if err != nil {
			return err
		}
		w.SetStep(step)
		return nil
	})
}

func (h *WizardHandler) Back(c *gin.Context) {
	h.update(c, func(w *wizard.Wizard) error {
		w.Back()
		return nil
	})
}

func (h *WizardHandler) SelectJob(c *gin.Context) {
	var req dtos.SelectJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	h.update(c, func(w *wizard.Wizard) error {
		return w.SelectJob(h.Catalog, catalog.Kind(req.Kind), *req.Index)
	})
}

func (h *WizardHandler) Input(c *gin.Context) {
	var req dtos.InputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	h.update(c, func(w *wizard.Wizard) error {
		w.HandleInput(req.Name, req.Value)
		return nil
	})
}

// PutAttachment is PUT /wizard/attachments/:field with a multipart "file" part. The bytes go
// to the pending file store; the session only keeps a reference.
func (h *WizardHandler) PutAttachment(c *gin.Context) {
	field := c.Param("field")
	if err := wizard.CheckAttachmentField(field); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes+1<<20)
	}
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required: " + err.Error()})
		return
	}
	if h.MaxUploadBytes > 0 && header.Size > h.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File is too large"})
		return
	}
	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file: " + err.Error()})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file: " + err.Error()})
		return
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is empty"})
		return
	}

	fileID := uuid.NewString()
	if err := h.Files.PutFile(c.Request.Context(), fileID, data); err != nil {
		log.Printf("❌ Failed to keep pending file %s: %v", header.Filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file: " + err.Error()})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = storage.DetectContentType(header.Filename)
	}
	file := wizard.LocalFile{ID: fileID, Name: header.Filename, ContentType: contentType, Size: int64(len(data))}
	h.update(c, func(w *wizard.Wizard) error {
		return w.AttachFile(field, file)
	})
}

func (h *WizardHandler) DeleteAttachment(c *gin.Context) {
	field := c.Param("field")
	h.update(c, func(w *wizard.Wizard) error {
		return w.ClearAttachment(field)
	})
}

// Reset is POST /wizard/reset, also the "back to start" action of the confirmation screen.
func (h *WizardHandler) Reset(c *gin.Context) {
	h.update(c, func(w *wizard.Wizard) error {
		w.Reset()
		return nil
	})
}

// Submit is POST /wizard/submit. The pipeline runs outside the session lock so that reads
// of the wizard (and the loading flag) stay responsive while files upload.
func (h *WizardHandler) Submit(c *gin.Context) {
	id := middleware.SessionID(c)

	var sub wizard.Submission
	_, err := h.Sessions.Update(c.Request.Context(), id, func(w *wizard.Wizard) error {
		var err error
		sub, err = w.BeginSubmit()
		return err
	})
	if errors.Is(err, wizard.ErrSubmissionInFlight) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session: " + err.Error()})
		return
	}

	// Once started, the chain finishes even if the browser goes away, but never outlives
	// the window in which the loading flag blocks another attempt.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), wizard.SubmitTimeout)
	defer cancel()
	outcome, submitErr := h.Submissions.Submit(ctx, sub)

	w, err := h.Sessions.Update(context.WithoutCancel(ctx), id, func(w *wizard.Wizard) error {
		w.CompleteSubmit(sub, outcome)
		return nil
	})
	if err != nil {
		log.Printf("❌ Failed to save session after submit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session: " + err.Error()})
		return
	}
	view := w.View(h.Catalog)

	if submitErr != nil {
		status := http.StatusInternalServerError
		var ue *storage.UploadError
		switch {
		case errors.Is(submitErr, services.ErrNoJobSelected):
			status = http.StatusConflict
		case errors.Is(submitErr, services.ErrIncomplete), errors.Is(submitErr, session.ErrFileNotFound):
			status = http.StatusBadRequest
		case errors.As(submitErr, &ue):
			status = http.StatusBadGateway
		}
		c.JSON(status, dtos.ActionResponse{Success: false, Error: submitErr.Error(), View: view})
		return
	}

	msg := "Fellowship application submitted successfully!"
	if sub.Selection.Kind() == catalog.KindFulltime {
		msg = "Full-time application submitted successfully!"
	}
	c.JSON(http.StatusOK, dtos.ActionResponse{Success: true, Message: msg, View: view})
}

// Recommend is POST /wizard/recommend. The form is read from the request body; the session
// only contributes the role tag.
func (h *WizardHandler) Recommend(c *gin.Context) {
	var req dtos.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	id := middleware.SessionID(c)
	current, err := h.Sessions.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session: " + err.Error()})
		return
	}

	_, err = h.Recommendations.Submit(c.Request.Context(), services.Referral{
		RecommenderName:     req.RecName,
		RecommenderEmail:    req.RecEmail,
		RecommenderPhone:    req.RecPhone,
		RecommenderLinkedIn: req.RecLinkedIn,
		RecommendedName:     req.RecommendedName,
		RecommendedEmail:    req.RecommendedEmail,
		RecommendedPhone:    req.RecommendedPhone,
	}, current.Selection())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrIncomplete) {
			status = http.StatusBadRequest
		}
		c.JSON(status, dtos.ActionResponse{Success: false, Error: err.Error(), View: current.View(h.Catalog)})
		return
	}

	w, err := h.Sessions.Update(c.Request.Context(), id, func(w *wizard.Wizard) error {
		w.SetStep(wizard.StepDesc)
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, dtos.ActionResponse{Success: true, Message: "Recommendation submitted successfully!", View: w.View(h.Catalog)})
}
