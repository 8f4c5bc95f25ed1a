// Package extract narrows the arbitrary-schema object carried by a review
// request down to the fields rules care about. Navigation is defensive: the
// payload's shape is governed by its declared kind/version and optional fields
// may simply be absent.
package extract

import (
	"fmt"

	"github.com/upb/admission-webhook/models"
	"github.com/upb/admission-webhook/services"
)

// Extractor produces the rule-relevant view of one resource kind.
type Extractor interface {
	// Supports reports whether this extractor understands the given kind.
	Supports(gvk models.GroupVersionKind) bool

	// Extract builds the target. It tolerates missing optional fields; only a
	// payload it cannot interpret at all is an error.
	Extract(req *models.AdmissionRequest) (*models.ExtractedTarget, error)
}

// Registry dispatches extraction by resource kind.
type Registry struct {
	extractors []Extractor
}

// NewRegistry creates a registry over an ordered list of extractors.
func NewRegistry(extractors ...Extractor) *Registry {
	return &Registry{extractors: extractors}
}

// Extract finds the first extractor claiming the request's kind and runs it.
// A kind no extractor claims is an unsupported_kind error; the caller decides
// whether that default-allows or default-denies.
func (r *Registry) Extract(req *models.AdmissionRequest) (*models.ExtractedTarget, error) {
	gvk := req.TargetKind()
	for _, ex := range r.extractors {
		if ex.Supports(gvk) {
			return ex.Extract(req)
		}
	}
	return nil, services.NewDomainError(
		services.ErrorTypeUnsupportedKind,
		fmt.Sprintf("no extractor registered for kind %s", gvk),
		nil,
	).WithDetail("kind", gvk.String())
}

// mapField returns a nested mapping, or nil when absent or of another type.
func mapField(obj map[string]interface{}, key string) map[string]interface{} {
	value, ok := obj[key].(map[string]interface{})
	if !ok {
		return nil
	}
	return value
}

// sliceField returns a nested sequence, or nil when absent or of another type.
func sliceField(obj map[string]interface{}, key string) []interface{} {
	value, ok := obj[key].([]interface{})
	if !ok {
		return nil
	}
	return value
}

// stringField returns a nested string, or "" when absent or of another type.
func stringField(obj map[string]interface{}, key string) string {
	value, ok := obj[key].(string)
	if !ok {
		return ""
	}
	return value
}
