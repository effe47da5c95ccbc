package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/utilikit/gl_posting_app/internal/core/domain"
)

func TestBatchStatusTransitions(t *testing.T) {
	allowed := []struct {
		from, to domain.BatchStatus
	}{
		{domain.StatusDraft, domain.StatusPendingApproval},
		{domain.StatusDraft, domain.StatusRejected},
		{domain.StatusPendingApproval, domain.StatusApproved},
		{domain.StatusPendingApproval, domain.StatusRejected},
		{domain.StatusApproved, domain.StatusPosted},
		{domain.StatusPosted, domain.StatusReversed},
	}
	for _, tc := range allowed {
		assert.True(t, tc.from.CanTransitionTo(tc.to), "%s -> %s should be legal", tc.from, tc.to)
	}

	denied := []struct {
		from, to domain.BatchStatus
	}{
		{domain.StatusDraft, domain.StatusApproved},
		{domain.StatusDraft, domain.StatusPosted},
		{domain.StatusPendingApproval, domain.StatusPosted},
		{domain.StatusApproved, domain.StatusDraft},
		{domain.StatusApproved, domain.StatusRejected},
		{domain.StatusPosted, domain.StatusDraft},
		{domain.StatusPosted, domain.StatusPosted},
		{domain.StatusRejected, domain.StatusDraft},
		{domain.StatusRejected, domain.StatusPendingApproval},
		{domain.StatusReversed, domain.StatusPosted},
	}
	for _, tc := range denied {
		assert.False(t, tc.from.CanTransitionTo(tc.to), "%s -> %s should be illegal", tc.from, tc.to)
	}
}

func TestBatchStatusFlags(t *testing.T) {
	assert.True(t, domain.StatusDraft.IsMutable())
	assert.True(t, domain.StatusPendingApproval.IsMutable())
	assert.False(t, domain.StatusApproved.IsMutable())
	assert.False(t, domain.StatusPosted.IsMutable())

	assert.True(t, domain.StatusRejected.IsTerminal())
	assert.True(t, domain.StatusReversed.IsTerminal())
	assert.False(t, domain.StatusPosted.IsTerminal())
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad date %s: %v", s, err)
	}
	return parsed
}
