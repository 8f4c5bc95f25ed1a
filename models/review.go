package models

// Operation is the kind of change the control plane is about to persist.
type Operation string

const (
	OperationCreate  Operation = "CREATE"
	OperationUpdate  Operation = "UPDATE"
	OperationDelete  Operation = "DELETE"
	OperationConnect Operation = "CONNECT"
)

// GroupVersionKind identifies the schema of the object under review.
type GroupVersionKind struct {
	Group   string `json:"group"`
	Version string `json:"version"`
	Kind    string `json:"kind"`
}

// String returns the group/version/kind in the usual display form.
func (gvk GroupVersionKind) String() string {
	if gvk.Group == "" {
		return gvk.Version + "/" + gvk.Kind
	}
	return gvk.Group + "/" + gvk.Version + "/" + gvk.Kind
}

// AdmissionRequest is the inbound half of a review envelope. The object
// payload is kept as a generic tree because its shape is governed by the
// declared kind/version, not known at compile time.
type AdmissionRequest struct {
	UID       string                 `json:"uid" validate:"required"`
	Kind      GroupVersionKind       `json:"kind"`
	Operation Operation              `json:"operation" validate:"required,oneof=CREATE UPDATE DELETE CONNECT"`
	Object    map[string]interface{} `json:"object" validate:"required"`
}

// TargetKind resolves the kind/version the request declares for its object.
// The envelope-level kind field wins; the object's own apiVersion/kind is the
// fallback for callers that omit it.
func (r *AdmissionRequest) TargetKind() GroupVersionKind {
	if r.Kind.Kind != "" {
		return r.Kind
	}
	gvk := GroupVersionKind{}
	if kind, ok := r.Object["kind"].(string); ok {
		gvk.Kind = kind
	}
	if apiVersion, ok := r.Object["apiVersion"].(string); ok {
		gvk.Version = apiVersion
	}
	return gvk
}

// Status carries the machine- and human-readable explanation of a denial.
type Status struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Reason  string `json:"reason"`
	Code    int32  `json:"code"`
}

// AdmissionResponse is the outbound half of a review envelope. Status is
// present only when the request was denied.
type AdmissionResponse struct {
	UID     string  `json:"uid"`
	Allowed bool    `json:"allowed"`
	Status  *Status `json:"status,omitempty"`
}

// AdmissionReview is the full wire envelope. The API server sends one with
// Request set; we reply with one echoing apiVersion/kind and carrying Response.
type AdmissionReview struct {
	APIVersion string             `json:"apiVersion,omitempty"`
	Kind       string             `json:"kind,omitempty"`
	Request    *AdmissionRequest  `json:"request,omitempty"`
	Response   *AdmissionResponse `json:"response,omitempty"`
}
