package handlers

import (
	"io"
	"mime"
	"net/http"

	"github.com/upb/admission-webhook/services"
	"github.com/upb/admission-webhook/services/admission"
	"github.com/upb/admission-webhook/utils"
	"go.uber.org/zap"
)

// AdmissionHandler adapts the review pipeline to HTTP. Allow and deny both
// travel as 200 with the verdict in the body; non-200 is reserved for genuine
// engine failures, where the API server's failure policy takes over.
type AdmissionHandler struct {
	service *admission.Service
	maxBody int64
	logger  *zap.Logger
}

// NewAdmissionHandler creates a new AdmissionHandler
func NewAdmissionHandler(service *admission.Service, maxBody int64, logger *zap.Logger) *AdmissionHandler {
	return &AdmissionHandler{
		service: service,
		maxBody: maxBody,
		logger:  logger,
	}
}

// HandleReview handles POST /admit/pods
func (h *AdmissionHandler) HandleReview(w http.ResponseWriter, r *http.Request) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		_ = utils.WriteUnsupportedMediaType(w, "expected Content-Type application/json")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBody))
	if err != nil {
		h.logger.Warn("failed to read review body", zap.Error(err))
		_ = utils.WriteBadRequest(w, "cannot read request body", nil)
		return
	}

	response, err := h.service.Review(r.Context(), body)
	switch {
	case err == nil:
		_ = utils.WriteRaw(w, http.StatusOK, response)
	case services.IsMalformedEnvelopeError(err):
		_ = utils.WriteBadRequest(w, err.Error(), services.GetErrorDetails(err))
	default:
		h.logger.Error("review pipeline failed", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "admission review failed")
	}
}
