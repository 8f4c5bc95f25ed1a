package models

// SubUnit is one individually named component of the object under review,
// e.g. a single container of a pod.
type SubUnit struct {
	Name string

	// HasEnvSource is true when the sub-unit's own spec carries an explicit
	// environment-configuration field. This is a presence check: an empty env
	// list still counts as present.
	HasEnvSource bool
}

// ExtractedTarget is the narrowed, rule-relevant view of the object under
// review. It is built once per review, read-only, and mirrors the object's
// sub-unit list by name and order.
type ExtractedTarget struct {
	Name     string
	Kind     GroupVersionKind
	SubUnits []SubUnit
}
