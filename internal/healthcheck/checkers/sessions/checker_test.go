package sessionschecker

import (
	"context"
	"testing"

	"github.com/tripstudioapp/tripstudio/internal/healthcheck"
)

type fixedCount int

func (f fixedCount) Count() int { return int(f) }

func TestListChecks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		sessions   Counter
		wantStatus string
	}{
		{name: "nil registry", sessions: nil, wantStatus: healthcheck.StatusWarn},
		{name: "normal count", sessions: fixedCount(3), wantStatus: healthcheck.StatusOK},
		{name: "high count", sessions: fixedCount(warnThreshold), wantStatus: healthcheck.StatusWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			checker := NewChecker(nil, tt.sessions)
			results := checker.ListChecks(context.Background())
			if len(results) != 1 {
				t.Fatalf("expected one result, got %d", len(results))
			}
			if results[0].Status != tt.wantStatus {
				t.Fatalf("expected status %q, got %q", tt.wantStatus, results[0].Status)
			}
		})
	}
}
