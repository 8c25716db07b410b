package climate

import (
	"errors"
	"testing"
)

func TestParseTier(t *testing.T) {
	cases := []struct {
		in   string
		want Tier
		ok   bool
	}{
		{"tier_3_humid_temperate", HumidTemperate, true},
		{"humid_temperate", HumidTemperate, true},
		{"tier_1_tropical", Tropical, true},
		{"tropical", Tropical, true},
		{"ARID", Arid, true},
		{"tier_6_arid", Arid, true},
		{"temperate", 0, false},
		{"", 0, false},
	}

	for _, tc := range cases {
		got, err := ParseTier(tc.in)
		if tc.ok && err != nil {
			t.Errorf("ParseTier(%q): unexpected error %v", tc.in, err)
			continue
		}
		if !tc.ok {
			if err == nil {
				t.Errorf("ParseTier(%q): expected error", tc.in)
			}
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTier(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestTierSetRoundTrip(t *testing.T) {
	s := NewTierSet(Tropical, Arid)
	if !s.Has(Tropical) || !s.Has(Arid) || s.Has(Continental) {
		t.Fatalf("membership wrong: %v", s)
	}
	got := s.Tiers()
	if len(got) != 2 || got[0] != Tropical || got[1] != Arid {
		t.Fatalf("Tiers() = %v", got)
	}
}

func TestSharedTiersSingleTierGuild(t *testing.T) {
	// Seven plants all flagged humid-temperate must pass with that tier.
	members := make([]Membership, 7)
	for i := range members {
		members[i] = Membership{
			PlantID: "wfo-x",
			Tiers:   NewTierSet(HumidTemperate),
		}
	}

	shared, err := SharedTiers(members)
	if err != nil {
		t.Fatalf("SharedTiers: %v", err)
	}
	if !shared.Has(HumidTemperate) || len(shared.Tiers()) != 1 {
		t.Fatalf("shared = %v, want exactly humid_temperate", shared)
	}
}

func TestSharedTiersIntersection(t *testing.T) {
	members := []Membership{
		{PlantID: "a", Tiers: NewTierSet(Tropical, HumidTemperate)},
		{PlantID: "b", Tiers: NewTierSet(HumidTemperate, Continental)},
	}
	shared, err := SharedTiers(members)
	if err != nil {
		t.Fatalf("SharedTiers: %v", err)
	}
	if shared != NewTierSet(HumidTemperate) {
		t.Fatalf("shared = %v", shared)
	}
}

func TestSharedTiersVeto(t *testing.T) {
	members := []Membership{
		{PlantID: "a", ScientificName: "Acacia koa", Tiers: NewTierSet(Tropical)},
		{PlantID: "b", ScientificName: "Abies concolor", Tiers: NewTierSet(BorealPolar)},
	}
	_, err := SharedTiers(members)
	var incompat *IncompatibleError
	if !errors.As(err, &incompat) {
		t.Fatalf("expected IncompatibleError, got %v", err)
	}
	if len(incompat.Plants) != 2 {
		t.Fatalf("want 2 reported plants, got %d", len(incompat.Plants))
	}
}

func TestSharedTiersMissingTierData(t *testing.T) {
	members := []Membership{
		{PlantID: "a", Tiers: NewTierSet(Tropical)},
		{PlantID: "b", Tiers: 0},
		{PlantID: "c", Tiers: NewTierSet(Tropical)},
		{PlantID: "d", Tiers: NewTierSet(Tropical)},
	}
	_, err := SharedTiers(members)
	var incompat *IncompatibleError
	if !errors.As(err, &incompat) {
		t.Fatalf("expected IncompatibleError, got %v", err)
	}
	if len(incompat.Plants) != 3 {
		t.Fatalf("diagnostics capped at 3, got %d", len(incompat.Plants))
	}
	if !incompat.Plants[0].Tiers.Empty() {
		t.Fatal("plant with missing tier data should be reported first")
	}
}
