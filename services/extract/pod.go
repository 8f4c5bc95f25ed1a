package extract

import (
	"github.com/upb/admission-webhook/models"
)

// PodExtractor handles core/v1 Pod objects. Each container becomes one
// sub-unit, with name and order preserved.
type PodExtractor struct{}

// NewPodExtractor creates a new PodExtractor
func NewPodExtractor() PodExtractor {
	return PodExtractor{}
}

// Supports reports whether the kind is a core-group Pod.
func (PodExtractor) Supports(gvk models.GroupVersionKind) bool {
	return gvk.Group == "" && gvk.Kind == "Pod"
}

// Extract walks metadata and spec.containers. A pod with no spec or no
// containers yields a target with no sub-units rather than an error: absence
// of optional fields must not fail the whole review.
func (PodExtractor) Extract(req *models.AdmissionRequest) (*models.ExtractedTarget, error) {
	target := &models.ExtractedTarget{
		Name: stringField(mapField(req.Object, "metadata"), "name"),
		Kind: req.TargetKind(),
	}

	spec := mapField(req.Object, "spec")
	if spec == nil {
		return target, nil
	}

	containers := sliceField(spec, "containers")
	target.SubUnits = make([]models.SubUnit, 0, len(containers))
	for _, entry := range containers {
		container, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}

		// Presence check, not value check: an empty or null env list still
		// marks the container as env-configured.
		_, hasEnv := container["env"]

		target.SubUnits = append(target.SubUnits, models.SubUnit{
			Name:         stringField(container, "name"),
			HasEnvSource: hasEnv,
		})
	}

	return target, nil
}
