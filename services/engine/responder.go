package engine

import (
	"github.com/upb/admission-webhook/models"
)

// Respond maps a decision onto the wire-format verdict envelope. The request's
// uid is echoed verbatim and the envelope apiVersion/kind match whatever the
// caller declared. Allowed decisions carry no status block; denials carry the
// fixed Failure status with the policy-rejection code. Pure and total.
func Respond(review *models.AdmissionReview, decision models.Decision) *models.AdmissionReview {
	response := &models.AdmissionResponse{
		Allowed: decision.Allowed,
	}
	if review.Request != nil {
		response.UID = review.Request.UID
	}
	if !decision.Allowed {
		response.Status = &models.Status{
			Status:  "Failure",
			Message: decision.Message,
			Reason:  decision.Reason,
			Code:    decision.Code,
		}
	}

	return &models.AdmissionReview{
		APIVersion: review.APIVersion,
		Kind:       review.Kind,
		Response:   response,
	}
}
