package admission

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/admission-webhook/models"
	"github.com/upb/admission-webhook/services"
	"github.com/upb/admission-webhook/services/codec"
	"github.com/upb/admission-webhook/services/engine"
	"github.com/upb/admission-webhook/services/extract"
	"github.com/upb/admission-webhook/services/rules"
	"go.uber.org/zap"
)

type capturingRecorder struct {
	audits []*models.ReviewAudit
}

func (r *capturingRecorder) Record(audit *models.ReviewAudit) {
	r.audits = append(r.audits, audit)
}

func newService(policy UnsupportedKindPolicy, recorder Recorder) *Service {
	return NewService(
		codec.New(),
		extract.NewRegistry(extract.NewPodExtractor()),
		engine.New(rules.Default()),
		policy,
		zap.NewNop(),
		recorder,
	)
}

func podReview(object string) []byte {
	return []byte(`{
		"apiVersion": "admission.k8s.io/v1",
		"kind": "AdmissionReview",
		"request": {
			"uid": "review-uid",
			"kind": {"group": "", "version": "v1", "kind": "Pod"},
			"operation": "CREATE",
			"object": ` + object + `
		}
	}`)
}

func decodeResponse(t *testing.T, raw []byte) *models.AdmissionReview {
	t.Helper()
	var review models.AdmissionReview
	require.NoError(t, json.Unmarshal(raw, &review))
	require.NotNil(t, review.Response)
	return &review
}

func TestReviewAllowsCleanPod(t *testing.T) {
	// Scenario A: container without an env field is admitted.
	s := newService(UnsupportedKindAllow, nil)

	raw, err := s.Review(context.Background(), podReview(
		`{"metadata": {"name": "nginx"}, "spec": {"containers": [{"name": "nginx"}]}}`))
	require.NoError(t, err)

	review := decodeResponse(t, raw)
	assert.True(t, review.Response.Allowed)
	assert.Nil(t, review.Response.Status)
	assert.Equal(t, "review-uid", review.Response.UID)
	assert.Equal(t, "admission.k8s.io/v1", review.APIVersion)
}

func TestReviewDeniesEnvConfiguredPod(t *testing.T) {
	// Scenario B: env-configured container is rejected with code 402 and a
	// message naming the offender.
	s := newService(UnsupportedKindAllow, nil)

	raw, err := s.Review(context.Background(), podReview(
		`{"metadata": {"name": "p"}, "spec": {"containers": [{"name": "nginx-with-env", "env": [{"name": "PASSWORD", "value": "fail"}]}]}}`))
	require.NoError(t, err)

	review := decodeResponse(t, raw)
	require.False(t, review.Response.Allowed)
	require.NotNil(t, review.Response.Status)
	assert.Equal(t, "Failure", review.Response.Status.Status)
	assert.Equal(t, models.CodePolicyDenied, review.Response.Status.Code)
	assert.Contains(t, review.Response.Status.Message, "nginx-with-env")
	assert.Contains(t, review.Response.Status.Reason, "nginx-with-env")
}

func TestReviewMixedContainersNamesFirstOffender(t *testing.T) {
	// Scenario C: mixed containers deny; the first offending container in
	// sub-unit order supplies the message.
	s := newService(UnsupportedKindAllow, nil)

	raw, err := s.Review(context.Background(), podReview(`{"spec": {"containers": [
		{"name": "clean"},
		{"name": "dirty-one", "env": []},
		{"name": "dirty-two", "env": [{"name": "X", "value": "1"}]}
	]}}`))
	require.NoError(t, err)

	review := decodeResponse(t, raw)
	require.False(t, review.Response.Allowed)
	assert.Contains(t, review.Response.Status.Message, "dirty-one")
	assert.NotContains(t, review.Response.Status.Message, "dirty-two")
}

func TestReviewMalformedEnvelope(t *testing.T) {
	// Scenario D: missing request.object surfaces as a malformed envelope
	// error with no response body, never a body claiming allowed.
	s := newService(UnsupportedKindAllow, nil)

	raw, err := s.Review(context.Background(),
		[]byte(`{"request": {"uid": "u", "operation": "CREATE"}}`))

	require.Error(t, err)
	assert.True(t, services.IsMalformedEnvelopeError(err))
	assert.Nil(t, raw)
}

func TestReviewUnsupportedKindPolicy(t *testing.T) {
	// Scenario E: both policies, same unrecognized kind.
	deploymentReview := []byte(`{
		"request": {
			"uid": "deploy-uid",
			"kind": {"group": "apps", "version": "v1", "kind": "Deployment"},
			"operation": "CREATE",
			"object": {"metadata": {"name": "web"}}
		}
	}`)

	t.Run("allow", func(t *testing.T) {
		s := newService(UnsupportedKindAllow, nil)
		raw, err := s.Review(context.Background(), deploymentReview)
		require.NoError(t, err)
		assert.True(t, decodeResponse(t, raw).Response.Allowed)
	})

	t.Run("deny", func(t *testing.T) {
		s := newService(UnsupportedKindDeny, nil)
		raw, err := s.Review(context.Background(), deploymentReview)
		require.NoError(t, err)
		review := decodeResponse(t, raw)
		require.False(t, review.Response.Allowed)
		assert.Contains(t, review.Response.Status.Message, "apps/v1/Deployment")
	})
}

func TestReviewRecordsAudit(t *testing.T) {
	recorder := &capturingRecorder{}
	s := newService(UnsupportedKindAllow, recorder)

	_, err := s.Review(context.Background(), podReview(
		`{"metadata": {"name": "p"}, "spec": {"containers": [{"name": "c", "env": []}]}}`))
	require.NoError(t, err)

	require.Len(t, recorder.audits, 1)
	audit := recorder.audits[0]
	assert.Equal(t, "review-uid", audit.RequestUID)
	assert.Equal(t, models.AuditOutcomeDenied, audit.Outcome)
	assert.Equal(t, "p", audit.ObjectName)
	assert.Equal(t, 1, audit.Violations)
	assert.Equal(t, models.OperationCreate, audit.Operation)
}

func TestReviewNoAuditForMalformedEnvelope(t *testing.T) {
	recorder := &capturingRecorder{}
	s := newService(UnsupportedKindAllow, recorder)

	_, err := s.Review(context.Background(), []byte(`not json`))
	require.Error(t, err)
	assert.Empty(t, recorder.audits)
}

func TestUnsupportedKindPolicyValid(t *testing.T) {
	assert.True(t, UnsupportedKindAllow.Valid())
	assert.True(t, UnsupportedKindDeny.Valid())
	assert.False(t, UnsupportedKindPolicy("fail-open").Valid())
}
