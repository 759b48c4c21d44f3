package diplomacy

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/talgya/sector-diplomacy/internal/entropy"
	"github.com/talgya/sector-diplomacy/internal/social"
)

func testBrain(w *fakeWorld, id social.FactionID, seed int64) *Brain {
	return NewBrain(id, DefaultConfig(), w, entropy.NewSeeded(seed), stubPeers(0))
}

// prime runs the bookkeeping of both cycles without letting the brain act.
func prime(b *Brain) {
	b.UpdateEnemiesAndCeasefires(0)
	b.refresh(0)
}

func TestAdvanceRequiresRehydrate(t *testing.T) {
	w := newFakeWorld(standard("a"), standard("b"))
	saved := testBrain(w, "a", 1).Snapshot()

	b := RestoreBrain(saved, DefaultConfig())
	if _, err := b.Advance(1); !errors.Is(err, ErrNotHydrated) {
		t.Fatalf("Advance before Rehydrate: err = %v, want ErrNotHydrated", err)
	}
	b.Rehydrate(w, entropy.NewSeeded(1), stubPeers(0))
	if _, err := b.Advance(1); err != nil {
		t.Fatalf("Advance after Rehydrate: %v", err)
	}
}

func TestCeasefireCountsDownAndExpires(t *testing.T) {
	w := newFakeWorld(standard("a"), standard("b"))
	b := testBrain(w, "a", 1)
	b.RecordCeasefire("b", "ev-1")

	b.UpdateEnemiesAndCeasefires(10)
	if got := b.Ceasefires()["b"]; got != CeasefireLength-10 {
		t.Fatalf("remaining = %f, want %f", got, CeasefireLength-10)
	}
	b.UpdateEnemiesAndCeasefires(CeasefireLength - 10)
	if _, ok := b.Ceasefires()["b"]; ok {
		t.Fatal("ceasefire survived reaching zero")
	}
}

func TestRecordCeasefireSameEventIsIdempotent(t *testing.T) {
	w := newFakeWorld(standard("a"), standard("b"))
	b := testBrain(w, "a", 1)
	b.RecordCeasefire("b", "ev-1")
	b.UpdateEnemiesAndCeasefires(20)
	b.RecordCeasefire("b", "ev-1")
	if got := b.Ceasefires()["b"]; got != CeasefireLength-20 {
		t.Errorf("re-recording the same event reset the timer: %f", got)
	}
	b.RecordCeasefire("b", "ev-2")
	if got := b.Ceasefires()["b"]; got != CeasefireLength {
		t.Errorf("a new event should restart the timer: %f", got)
	}
}

func TestFormerEnemyGetsCeasefire(t *testing.T) {
	w := newFakeWorld(standard("a"), standard("b"))
	w.setRelation("a", "b", -0.6)
	b := testBrain(w, "a", 1)

	b.UpdateEnemiesAndCeasefires(0)
	if diff := cmp.Diff([]social.FactionID{"b"}, b.Enemies()); diff != "" {
		t.Fatalf("enemies (-want +got):\n%s", diff)
	}

	w.setRelation("a", "b", 0)
	b.UpdateEnemiesAndCeasefires(0.5)
	if got := b.Ceasefires()["b"]; got != CeasefireLength {
		t.Errorf("ceasefire = %f, want %f", got, CeasefireLength)
	}
	if len(b.Enemies()) != 0 {
		t.Errorf("enemies = %v, want none", b.Enemies())
	}
}

func TestReportEventFeedsEventsModifier(t *testing.T) {
	w := newFakeWorld(standard("a"), standard("b"))
	b := testBrain(w, "a", 1)
	if got := b.ReportEvent("b", -0.1); got != -0.1*EventMult {
		t.Errorf("events = %f, want %f", got, -0.1*EventMult)
	}
	b.UpdateDisposition("b", 10)
	if got, want := b.EventsToward("b"), -0.1*EventMult+10*EventDecrementPerDay; got != want {
		t.Errorf("events after 10 days = %f, want %f", got, want)
	}
}

func TestLongCycleRefreshesDispositions(t *testing.T) {
	w := newFakeWorld(standard("a"), standard("b"))
	b := testBrain(w, "a", 3)

	for day := 0; day < 10; day++ {
		if _, err := b.Advance(1); err != nil {
			t.Fatal(err)
		}
	}
	if _, ok := b.Disposition("b"); ok {
		t.Fatal("disposition computed before the first long cycle")
	}
	for day := 0; day < 7; day++ {
		if _, err := b.Advance(1); err != nil {
			t.Fatal(err)
		}
	}
	if _, ok := b.Disposition("b"); !ok {
		t.Fatal("no disposition after the first long cycle")
	}
}

func TestAlternateControllerSkipsDecisions(t *testing.T) {
	w := newFakeWorld(standard("a"), standard("b"))
	w.alternate["a"] = true
	w.setRelation("a", "b", -0.25)
	w.factions["a"].BaseDispositions = map[social.FactionID]float64{"b": -500}
	b := testBrain(w, "a", 4)

	for day := 0; day < 60; day++ {
		d, err := b.Advance(1)
		if err != nil {
			t.Fatal(err)
		}
		if d != nil {
			t.Fatalf("day %d: decision %v with an alternate controller", day, d.Kind)
		}
	}
	if _, ok := b.Disposition("b"); !ok {
		t.Error("bookkeeping should still run")
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	w := newFakeWorld(standard("a"), standard("b"), standard("c"))
	w.setRelation("a", "b", -0.6)
	w.market("b", "a", 5)
	b := testBrain(w, "a", 5)
	for day := 0; day < 20; day++ {
		if _, err := b.Advance(1); err != nil {
			t.Fatal(err)
		}
	}
	b.RecordCeasefire("c", "ev-9")
	b.ReportEvent("c", 0.05)

	data, err := json.Marshal(b.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	var st BrainState
	if err := json.Unmarshal(data, &st); err != nil {
		t.Fatal(err)
	}
	restored := RestoreBrain(st, DefaultConfig())
	restored.Rehydrate(w, entropy.NewSeeded(5), stubPeers(0))

	if diff := cmp.Diff(b.Snapshot(), restored.Snapshot()); diff != "" {
		t.Errorf("restored state differs (-orig +restored):\n%s", diff)
	}
}
