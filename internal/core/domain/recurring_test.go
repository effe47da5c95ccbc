package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/utilikit/gl_posting_app/internal/core/domain"
)

func TestRecurringNextRunAfter(t *testing.T) {
	days := 14
	cases := []struct {
		name     string
		template domain.RecurringTemplate
		from     string
		want     string
	}{
		{"monthly", domain.RecurringTemplate{Frequency: domain.Monthly}, "2025-01-31", "2025-03-03"},
		{"monthly mid-month", domain.RecurringTemplate{Frequency: domain.Monthly}, "2025-03-15", "2025-04-15"},
		{"quarterly", domain.RecurringTemplate{Frequency: domain.Quarterly}, "2025-01-01", "2025-04-01"},
		{"annually", domain.RecurringTemplate{Frequency: domain.Annually}, "2024-02-29", "2025-03-01"},
		{"custom days", domain.RecurringTemplate{Frequency: domain.Custom, CustomIntervalDays: &days}, "2025-06-01", "2025-06-15"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			from := mustDate(t, tc.from)
			got, err := tc.template.NextRunAfter(from)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got.Format("2006-01-02"))
		})
	}

	t.Run("custom without interval errors", func(t *testing.T) {
		template := domain.RecurringTemplate{Frequency: domain.Custom}
		_, err := template.NextRunAfter(mustDate(t, "2025-06-01"))
		assert.Error(t, err)
	})
}

func TestRecurringIsDue(t *testing.T) {
	template := domain.RecurringTemplate{
		Status:      domain.RecurringActive,
		NextRunDate: mustDate(t, "2025-08-01"),
	}

	assert.True(t, template.IsDue(mustDate(t, "2025-08-01")))
	assert.True(t, template.IsDue(mustDate(t, "2025-08-15")))
	assert.False(t, template.IsDue(mustDate(t, "2025-07-31")))

	template.Status = domain.RecurringSuspended
	assert.False(t, template.IsDue(mustDate(t, "2025-08-15")))

	template.Status = domain.RecurringExpired
	assert.False(t, template.IsDue(mustDate(t, "2025-08-15")))
}
