package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evergrid/emissary/internal/common"
	"github.com/evergrid/emissary/internal/model"
)

func TestEffectiveConfidence(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		partial    bool
		want       float64
	}{
		{"complete extraction keeps raw confidence", 0.95, false, 0.95},
		{"partial extraction pays the penalty", 0.95, true, 0.75},
		{"penalty clamps at zero", 0.1, true, 0},
		{"zero stays zero", 0, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, EffectiveConfidence(tt.confidence, tt.partial), 1e-9)
		})
	}
}

func TestInitial(t *testing.T) {
	thresholds := Thresholds{AutoApprove: 0.90, Version: 1}

	tests := []struct {
		name       string
		confidence float64
		partial    bool
		failed     bool
		want       model.Status
	}{
		{"high confidence auto-approves", 0.95, false, false, model.StatusAutoApproved},
		{"threshold is inclusive", 0.90, false, false, model.StatusAutoApproved},
		{"below threshold goes to review", 0.89, false, false, model.StatusPending},
		{"partial extraction never auto-approves", 0.99, true, false, model.StatusPending},
		{"failed extraction needs a human", 0, false, true, model.StatusNeedsManualExtraction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Initial(tt.confidence, tt.partial, tt.failed, thresholds))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		from     model.Status
		to       model.Status
		wantNoop bool
		wantErr  bool
	}{
		{"pending to approved", model.StatusPending, model.StatusApproved, false, false},
		{"pending to rejected", model.StatusPending, model.StatusRejected, false, false},
		{"approved to deleted", model.StatusApproved, model.StatusDeleted, false, false},
		{"auto-approved to deleted", model.StatusAutoApproved, model.StatusDeleted, false, false},
		{"rejected to deleted", model.StatusRejected, model.StatusDeleted, false, false},
		{"manual extraction back to pending", model.StatusNeedsManualExtraction, model.StatusPending, false, false},
		{"same state is a no-op", model.StatusApproved, model.StatusApproved, true, false},
		{"deleted is terminal", model.StatusDeleted, model.StatusPending, false, true},
		{"rejected cannot be approved", model.StatusRejected, model.StatusApproved, false, true},
		{"rejected cannot be auto-approved", model.StatusRejected, model.StatusAutoApproved, false, true},
		{"auto-approved cannot be rejected", model.StatusAutoApproved, model.StatusRejected, false, true},
		{"manual extraction cannot be approved directly", model.StatusNeedsManualExtraction, model.StatusApproved, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			noop, err := Validate(tt.from, tt.to)
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrInvalidTransition)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantNoop, noop)
		})
	}
}

func TestAuthorize(t *testing.T) {
	reviewer := Actor{Name: "sam", Capabilities: []Capability{CapApprove, CapReject}}

	require.NoError(t, Authorize(reviewer, model.StatusApproved))
	require.NoError(t, Authorize(reviewer, model.StatusRejected))

	err := Authorize(reviewer, model.StatusDeleted)
	require.ErrorIs(t, err, common.ErrNotPermitted)
	assert.Contains(t, err.Error(), "sam")

	// Statuses no operator drives directly need no capability.
	require.NoError(t, Authorize(Actor{Name: "nobody"}, model.StatusPending))
}

func TestSystemActorHoldsAllCapabilities(t *testing.T) {
	for _, cap := range []Capability{CapApprove, CapReject, CapDelete} {
		assert.True(t, SystemActor.Can(cap), "system actor should hold %s", cap)
	}
}
