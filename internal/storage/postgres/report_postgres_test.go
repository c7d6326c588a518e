package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SocialShift/Knowledge-Backend/internal/models"
)

func TestReviewStamp(t *testing.T) {
	admin := uuid.New()
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	status := func(s string) *string { return &s }
	notes := status("checked")

	tests := []struct {
		name  string
		upd   models.ReportUpdate
		stamp bool
	}{
		{"notes only", models.ReportUpdate{AdminNotes: notes}, false},
		{"pending status", models.ReportUpdate{Status: status(models.ReportStatusPending)}, false},
		{"resolved status", models.ReportUpdate{Status: status("resolved"), AdminNotes: notes}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reviewedAt, reviewedBy := reviewStamp(tt.upd, admin, at)
			if !tt.stamp {
				assert.Nil(t, reviewedAt)
				assert.Nil(t, reviewedBy)
				return
			}
			require.NotNil(t, reviewedAt)
			require.NotNil(t, reviewedBy)
			assert.True(t, reviewedAt.Equal(at))
			assert.Equal(t, admin, *reviewedBy)
		})
	}
}
