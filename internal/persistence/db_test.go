package persistence

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/talgya/sector-diplomacy/internal/diplomacy"
	"github.com/talgya/sector-diplomacy/internal/entropy"
	"github.com/talgya/sector-diplomacy/internal/sector"
	"github.com/talgya/sector-diplomacy/internal/social"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "sector.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func runSector(t *testing.T, days int) (*sector.Sector, *diplomacy.Manager) {
	t.Helper()
	rng := entropy.NewSeeded(7)
	sec := sector.Generate(sector.GenConfig{Seed: 7, MarketsPerFaction: 3, MaxMarketSize: 6, ConqueredFraction: 0.2}, rng)
	mgr := diplomacy.NewManager(diplomacy.DefaultConfig(), sec, rng)
	for i := 0; i < days; i++ {
		sec.Advance(1)
		if _, err := mgr.Advance(1); err != nil {
			t.Fatalf("day %d: %v", i, err)
		}
	}
	return sec, mgr
}

func TestLoadStateEmpty(t *testing.T) {
	db := openTemp(t)
	if _, err := db.LoadState(); !errors.Is(err, ErrNoState) {
		t.Fatalf("err = %v, want ErrNoState", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	db := openTemp(t)
	sec, mgr := runSector(t, 90)
	want := Snapshot{Sector: sec.State(), Diplomacy: mgr.State()}

	if err := db.SaveState(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := db.LoadState()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}

	day, ok, err := db.GetMeta(MetaLastDay)
	if err != nil || !ok || day != "90" {
		t.Errorf("last_day = %q, %v, %v", day, ok, err)
	}
}

func TestMeta(t *testing.T) {
	db := openTemp(t)
	if _, ok, err := db.GetMeta(MetaSeed); err != nil || ok {
		t.Fatalf("unsaved seed: ok = %v, err = %v", ok, err)
	}

	for _, v := range []string{"11", "42"} {
		if err := db.SaveMeta(MetaSeed, v); err != nil {
			t.Fatal(err)
		}
	}
	seed, ok, err := db.GetMeta(MetaSeed)
	if err != nil || !ok || seed != "42" {
		t.Errorf("seed = %q, %v, %v; want the last write", seed, ok, err)
	}

	// SaveState only owns last_day.
	sec, mgr := runSector(t, 10)
	if err := db.SaveState(Snapshot{Sector: sec.State(), Diplomacy: mgr.State()}); err != nil {
		t.Fatal(err)
	}
	if seed, _, _ := db.GetMeta(MetaSeed); seed != "42" {
		t.Errorf("seed after SaveState = %q", seed)
	}
	if day, _, _ := db.GetMeta(MetaLastDay); day != "10" {
		t.Errorf("last_day = %q, want 10", day)
	}
}

func TestSaveReplacesBrainsAndAppendsEvents(t *testing.T) {
	db := openTemp(t)
	sec, mgr := runSector(t, 30)
	first := Snapshot{Sector: sec.State(), Diplomacy: mgr.State()}
	if err := db.SaveState(first); err != nil {
		t.Fatal(err)
	}

	// A second save of the same log must not duplicate events.
	second := first
	second.Diplomacy.Brains = first.Diplomacy.Brains[:1]
	if err := db.SaveState(second); err != nil {
		t.Fatal(err)
	}

	got, err := db.LoadState()
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Diplomacy.Brains) != 1 {
		t.Errorf("brains = %d, want 1", len(got.Diplomacy.Brains))
	}
	if len(got.Sector.Events) != len(first.Sector.Events) {
		t.Errorf("events = %d, want %d", len(got.Sector.Events), len(first.Sector.Events))
	}
}

func TestFactionEvents(t *testing.T) {
	db := openTemp(t)
	st := sector.State{
		Day: 3,
		Events: []sector.Event{
			{ID: "e1", Day: 1, Kind: social.EventDeclareWar, A: "a", B: "b"},
			{ID: "e2", Day: 2, Kind: social.EventCeasefire, A: "b", B: "c"},
			{ID: "e3", Day: 3, Kind: social.EventRandom, Name: "trade_dispute", A: "c", B: "d"},
		},
	}
	if err := db.SaveState(Snapshot{Sector: st}); err != nil {
		t.Fatal(err)
	}

	got, err := db.FactionEvents("b", 10)
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, e := range got {
		ids = append(ids, e.ID)
	}
	if diff := cmp.Diff([]string{"e2", "e1"}, ids); diff != "" {
		t.Errorf("events for b (-want +got):\n%s", diff)
	}
}
