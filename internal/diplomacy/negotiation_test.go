package diplomacy

import (
	"errors"
	"testing"

	"github.com/talgya/sector-diplomacy/internal/entropy"
	"github.com/talgya/sector-diplomacy/internal/social"
)

func openNegotiation(t *testing.T, treaty bool) (*fakeWorld, *CeasefireNegotiation) {
	t.Helper()
	w := newFakeWorld(standard("a"), standard(social.PlayerFactionID))
	w.setRelation("a", social.PlayerFactionID, -0.6)
	w.weariness["a"] = 9000
	w.weariness[social.PlayerFactionID] = 9000
	n := NewCeasefireNegotiation("a", social.PlayerFactionID, treaty, DefaultConfig(), entropy.NewSeeded(1))
	return w, n
}

func TestNegotiationExplicitAnswers(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("reject", func(t *testing.T) {
		w, n := openNegotiation(t, false)
		if err := n.Reject(cfg); err != nil {
			t.Fatal(err)
		}
		if n.State != NegotiationRejected {
			t.Fatalf("state = %v, want rejected", n.State)
		}
		if err := n.Accept(w, cfg); !errors.Is(err, ErrNegotiationResolved) {
			t.Errorf("Accept after reject: err = %v", err)
		}
		if len(w.events) != 0 {
			t.Errorf("reject enacted events: %+v", w.events)
		}
	})

	t.Run("accept ceasefire", func(t *testing.T) {
		w, n := openNegotiation(t, false)
		if err := n.Accept(w, cfg); err != nil {
			t.Fatal(err)
		}
		if n.State != NegotiationAccepted {
			t.Fatalf("state = %v, want accepted", n.State)
		}
		if len(w.events) != 1 || w.events[0].kind != social.EventCeasefire {
			t.Errorf("events = %+v", w.events)
		}
		if got := w.weariness["a"]; got != 9000-cfg.WarWearinessCeasefireReduction {
			t.Errorf("weariness = %f", got)
		}
		if err := n.Reject(cfg); !errors.Is(err, ErrNegotiationResolved) {
			t.Errorf("Reject after accept: err = %v", err)
		}
	})

	t.Run("accept treaty", func(t *testing.T) {
		w, n := openNegotiation(t, true)
		if err := n.Accept(w, cfg); err != nil {
			t.Fatal(err)
		}
		if w.events[0].kind != social.EventPeaceTreaty {
			t.Errorf("kind = %v, want peace treaty", w.events[0].kind)
		}
	})

	t.Run("failed accept stays pending", func(t *testing.T) {
		w, n := openNegotiation(t, false)
		w.eventErr = errors.New("no route")
		if err := n.Accept(w, cfg); err == nil {
			t.Fatal("expected an error")
		}
		if !n.Pending() {
			t.Errorf("state = %v, want pending", n.State)
		}
	})
}

func TestNegotiationAutomaticTransitions(t *testing.T) {
	tests := []struct {
		name     string
		autoAcc  bool
		setup    func(w *fakeWorld)
		days     float64
		want     NegotiationState
		expired  bool
		accepted bool
	}{
		{name: "still pending", days: 1, want: NegotiationPending},
		{name: "timeout rejects", days: 30, want: NegotiationRejected, expired: true},
		{name: "timeout accepts when configured", autoAcc: true, days: 30, want: NegotiationAccepted, expired: true, accepted: true},
		{name: "proposer gone", days: 1, want: NegotiationRejected, expired: true, setup: func(w *fakeWorld) { w.dead["a"] = true }},
		{name: "player made peace", days: 1, want: NegotiationAccepted, accepted: true, setup: func(w *fakeWorld) {
			w.setRelation("a", social.PlayerFactionID, -0.3)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.AcceptCeasefiresOnTimeout = tt.autoAcc
			w, n := openNegotiation(t, false)
			if tt.setup != nil {
				tt.setup(w)
			}
			accepted := n.Advance(tt.days, w, cfg)
			if n.State != tt.want || n.Expired != tt.expired || accepted != tt.accepted {
				t.Errorf("after %v days: state=%v expired=%v accepted=%v, want %v %v %v",
					tt.days, n.State, n.Expired, accepted, tt.want, tt.expired, tt.accepted)
			}
		})
	}
}

func TestNegotiationEndsAfterDisplay(t *testing.T) {
	cfg := DefaultConfig()
	w, n := openNegotiation(t, false)
	n.DaysRemaining = 0
	n.Advance(0, w, cfg)
	if n.State != NegotiationRejected {
		t.Fatalf("zero days remaining: state = %v, want rejected", n.State)
	}
	if n.Ended() {
		t.Fatal("ended before display period")
	}
	n.Advance(cfg.NegotiationDisplayDays, w, cfg)
	if !n.Ended() {
		t.Error("still showing after display period")
	}
}
