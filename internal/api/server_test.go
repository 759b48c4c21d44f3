package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/talgya/sector-diplomacy/internal/diplomacy"
	"github.com/talgya/sector-diplomacy/internal/engine"
	"github.com/talgya/sector-diplomacy/internal/entropy"
	"github.com/talgya/sector-diplomacy/internal/sector"
	"github.com/talgya/sector-diplomacy/internal/social"
)

// testServer builds a sector at war with the player and one pending offer
// from the hegemony.
func testServer(t *testing.T, adminKey string) (*httptest.Server, string) {
	t.Helper()
	rng := entropy.NewSeeded(3)
	sec := sector.Generate(sector.GenConfig{Seed: 3, MarketsPerFaction: 3, MaxMarketSize: 6}, rng)
	sec.SetRelation("hegemony", social.PlayerFactionID, -0.6)

	offer := diplomacy.NewCeasefireNegotiation("hegemony", social.PlayerFactionID, false, diplomacy.DefaultConfig(), rng)
	mgr := diplomacy.RestoreManager(diplomacy.ManagerState{
		Negotiations: []*diplomacy.CeasefireNegotiation{offer},
	}, diplomacy.DefaultConfig())
	mgr.Rehydrate(sec, rng)

	sim := engine.NewSimulation(sec, mgr)
	if err := sim.Advance(1); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer((&Server{Sim: sim, AdminKey: adminKey}).Handler())
	t.Cleanup(srv.Close)
	return srv, offer.ID
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK && v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func post(t *testing.T, url, token string) int {
	t.Helper()
	req, _ := http.NewRequest(http.MethodPost, url, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestReadEndpoints(t *testing.T) {
	srv, _ := testServer(t, "")

	var status map[string]any
	if code := getJSON(t, srv.URL+"/api/v1/status", &status); code != http.StatusOK {
		t.Fatalf("status code %d", code)
	}
	if status["sim_time"] != "c.206, month 1, day 2" {
		t.Errorf("sim_time = %v", status["sim_time"])
	}

	var factions []factionSummary
	getJSON(t, srv.URL+"/api/v1/factions", &factions)
	if len(factions) == 0 {
		t.Fatal("no factions listed")
	}

	var detail map[string]any
	if code := getJSON(t, srv.URL+"/api/v1/faction/hegemony", &detail); code != http.StatusOK {
		t.Fatalf("faction detail code %d", code)
	}
	if _, ok := detail["dispositions"]; !ok {
		t.Error("hegemony detail has no dispositions")
	}
	if code := getJSON(t, srv.URL+"/api/v1/faction/nobody", nil); code != http.StatusNotFound {
		t.Errorf("unknown faction code %d, want 404", code)
	}

	var negs []diplomacy.CeasefireNegotiation
	getJSON(t, srv.URL+"/api/v1/negotiations", &negs)
	if len(negs) != 1 || negs[0].Proposer != "hegemony" {
		t.Errorf("negotiations = %+v", negs)
	}
}

func TestAnswerRequiresAdminKey(t *testing.T) {
	srv, id := testServer(t, "")
	if code := post(t, srv.URL+"/api/v1/negotiation/"+id+"/accept", "x"); code != http.StatusForbidden {
		t.Errorf("code %d with admin disabled, want 403", code)
	}

	srv, id = testServer(t, "secret")
	if code := post(t, srv.URL+"/api/v1/negotiation/"+id+"/accept", "wrong"); code != http.StatusUnauthorized {
		t.Errorf("code %d with bad token, want 401", code)
	}
}

func TestAnswerNegotiation(t *testing.T) {
	srv, id := testServer(t, "secret")
	base := srv.URL + "/api/v1/negotiation/"

	tests := []struct {
		name string
		path string
		want int
	}{
		{"bad answer", id + "/maybe", http.StatusBadRequest},
		{"unknown", "missing/accept", http.StatusNotFound},
		{"accept", id + "/accept", http.StatusOK},
		{"already resolved", id + "/reject", http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := post(t, base+tt.path, "secret"); code != tt.want {
				t.Errorf("code %d, want %d", code, tt.want)
			}
		})
	}

	var negs []diplomacy.CeasefireNegotiation
	getJSON(t, srv.URL+"/api/v1/negotiations", &negs)
	if len(negs) != 1 || negs[0].State != diplomacy.NegotiationAccepted {
		t.Errorf("negotiations after accept = %+v", negs)
	}
}

func TestRateLimiter(t *testing.T) {
	now := time.Unix(0, 0)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("a") {
		t.Error("third request in the window should be limited")
	}
	if !rl.Allow("b") {
		t.Error("limits are per IP")
	}
	if got := rl.RetryAfter("a"); got != 61 {
		t.Errorf("RetryAfter = %d, want 61", got)
	}

	now = now.Add(time.Minute)
	if !rl.Allow("a") {
		t.Error("window should have reset")
	}
}
