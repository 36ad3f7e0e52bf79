package scenarios

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/spedops/pullout/core/model"
	"github.com/spedops/pullout/core/schedule"
	"github.com/spedops/pullout/core/slot"
	"github.com/spedops/pullout/infra/logger"
	"github.com/spedops/pullout/infra/store"
	"github.com/spedops/pullout/internal/eventbus"
	"github.com/spedops/pullout/metrics"
)

// RunScenario loads the scenario's people and requirements, batch-schedules
// everything, and checks the outcome counts plus the global invariants.
func RunScenario(t *testing.T, sc *Scenario) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSink(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	dir, err := sc.BuildDirectory()
	if err != nil {
		t.Fatalf("directory: %v", err)
	}

	st := store.NewMemoryStore()
	searcher, err := slot.NewSearcher(slot.DefaultConfig())
	if err != nil {
		t.Fatalf("searcher: %v", err)
	}
	sched, err := schedule.New(st, dir, searcher, logger.NopLogger{}, sink, eventbus.New())
	if err != nil {
		t.Fatalf("scheduler: %v", err)
	}

	for _, def := range sc.Requirements {
		r, err := def.ToModel()
		if err != nil {
			t.Fatalf("requirement for %s: %v", def.Student, err)
		}
		if err := st.PutRequirement(r); err != nil {
			t.Fatalf("seed requirement: %v", err)
		}
	}

	res, err := sched.ScheduleAllPending("qa")
	if err != nil {
		t.Fatalf("batch run: %v", err)
	}

	if res.Scheduled != sc.Expected.Scheduled {
		t.Errorf("scenario %s expected %d scheduled, got %d", sc.Name, sc.Expected.Scheduled, res.Scheduled)
	}
	if res.SkippedNoStaff != sc.Expected.Skipped {
		t.Errorf("scenario %s expected %d skipped, got %d", sc.Name, sc.Expected.Skipped, res.SkippedNoStaff)
	}
	if res.Failed != sc.Expected.Failed {
		t.Errorf("scenario %s expected %d failed, got %d", sc.Name, sc.Expected.Failed, res.Failed)
	}

	conflicts, err := sched.DetectConflicts()
	if err != nil {
		t.Fatalf("conflict sweep: %v", err)
	}
	if len(conflicts) != 0 {
		t.Errorf("scenario %s committed %d double-bookings", sc.Name, len(conflicts))
	}

	fully := 0
	reqs, err := st.Requirements()
	if err != nil {
		t.Fatalf("requirements: %v", err)
	}
	for _, r := range reqs {
		if r.Status == model.FullyScheduled {
			fully++
		}
	}
	if fully != sc.Expected.FullyScheduled {
		t.Errorf("scenario %s expected %d fully scheduled requirements, got %d", sc.Name, sc.Expected.FullyScheduled, fully)
	}
}
