// Package codec parses inbound review envelopes into their typed form and
// serializes outbound verdicts back to the wire. It owns no I/O and no logging
// policy; it only turns bytes into models and back.
package codec

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/upb/admission-webhook/models"
	"github.com/upb/admission-webhook/services"
)

// Codec decodes and encodes AdmissionReview envelopes.
type Codec struct {
	validate *validator.Validate
}

// New creates a new Codec instance
func New() *Codec {
	return &Codec{
		validate: validator.New(),
	}
}

// Decode parses a raw review envelope. It fails with a malformed_envelope
// error when the payload is not well-formed JSON, the top-level request field
// is absent, or mandatory identifying fields (uid, operation, object) are
// missing. It never guesses: a payload that fails here produces no decision.
func (c *Codec) Decode(raw []byte) (*models.AdmissionReview, error) {
	if len(raw) == 0 {
		return nil, services.WrapMalformed("empty request body", nil)
	}

	var review models.AdmissionReview
	if err := json.Unmarshal(raw, &review); err != nil {
		return nil, services.WrapMalformed("request body is not valid JSON", err)
	}

	if review.Request == nil {
		return nil, services.ErrMissingRequest
	}

	if review.Request.Object == nil {
		return nil, services.ErrMissingObject
	}

	if err := c.validate.Struct(review.Request); err != nil {
		return nil, services.WrapMalformed("request is missing mandatory fields", err)
	}

	return &review, nil
}

// Encode serializes an outbound review envelope. It is total for any envelope
// the responder can produce; a marshal failure is surfaced as an internal
// error rather than swallowed.
func (c *Codec) Encode(review *models.AdmissionReview) ([]byte, error) {
	raw, err := json.Marshal(review)
	if err != nil {
		return nil, services.WrapInternal("failed to encode review response", err)
	}
	return raw, nil
}
