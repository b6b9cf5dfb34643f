package revenue

import (
	"errors"
	"math"
	"math/big"
	"testing"
)

func resolver(owners map[string]string) OwnerResolver {
	return func(song string) (string, bool) {
		owner, ok := owners[song]
		return owner, ok
	}
}

func TestDistributeProportional(t *testing.T) {
	a := NewAllocator(resolver(map[string]string{
		"Glow": "Nora",
		"Tide": "Nora",
		"Echo": "Milo",
	}))

	// 4 listens against a pool of 1000000: 250000 per listen.
	err := a.Distribute(1000000, map[string]int{"Glow": 2, "Tide": 1, "Echo": 1})
	if err != nil {
		t.Fatalf("Distribute() error = %v", err)
	}

	reports := a.Report()
	if len(reports) != 2 {
		t.Fatalf("len(reports) = %d, want 2", len(reports))
	}
	if reports[0].Owner != "Nora" || reports[0].SongRevenue != 750000 {
		t.Errorf("reports[0] = %+v, want Nora with 750000", reports[0])
	}
	if reports[0].MostProfitable != "Glow" {
		t.Errorf("MostProfitable = %q, want Glow", reports[0].MostProfitable)
	}
	if reports[1].Owner != "Milo" || reports[1].SongRevenue != 250000 {
		t.Errorf("reports[1] = %+v, want Milo with 250000", reports[1])
	}
	if reports[0].Ranking != 1 || reports[1].Ranking != 2 {
		t.Errorf("rankings = %d, %d, want 1, 2", reports[0].Ranking, reports[1].Ranking)
	}
}

func TestDistributeEmptySnapshot(t *testing.T) {
	a := NewAllocator(resolver(nil))
	if err := a.Distribute(1000000, nil); !errors.Is(err, ErrNoListens) {
		t.Fatalf("Distribute(empty) error = %v, want ErrNoListens", err)
	}
	if got := a.Report(); len(got) != 0 {
		t.Fatalf("report after failed distribute = %v, want empty", got)
	}
}

func TestDistributeExactUntilReport(t *testing.T) {
	// 1000000 / 3 is not representable in floats; the thirds must cancel
	// exactly across settlements before any rounding happens.
	a := NewAllocator(resolver(map[string]string{
		"Glow": "Nora",
		"Echo": "Milo",
	}))
	for i := 0; i < 3; i++ {
		if err := a.Distribute(1000000, map[string]int{"Glow": 2, "Echo": 1}); err != nil {
			t.Fatalf("Distribute() error = %v", err)
		}
	}

	reports := a.Report()
	var sum float64
	for _, r := range reports {
		sum += r.SongRevenue
	}
	if sum != 3000000 {
		t.Fatalf("total reported revenue = %v, want exactly 3000000", sum)
	}
}

func TestDistributeConservationWithinCent(t *testing.T) {
	a := NewAllocator(resolver(map[string]string{
		"a": "A", "b": "B", "c": "C", "d": "D", "e": "E", "f": "F", "g": "G",
	}))
	listens := map[string]int{"a": 1, "b": 2, "c": 3, "d": 5, "e": 7, "f": 11, "g": 13}
	if err := a.Distribute(999999, listens); err != nil {
		t.Fatalf("Distribute() error = %v", err)
	}

	var sum float64
	for _, r := range a.Report() {
		sum += r.SongRevenue
	}
	if diff := math.Abs(sum - 999999); diff > 0.01*float64(len(listens)) {
		t.Fatalf("reported total %v drifts %v from the pool", sum, diff)
	}
}

func TestDistributeUnknownSongDropped(t *testing.T) {
	a := NewAllocator(resolver(map[string]string{"Glow": "Nora"}))
	// The unknown listen dilutes the pool but credits no one.
	if err := a.Distribute(100, map[string]int{"Glow": 1, "Ghost": 1}); err != nil {
		t.Fatalf("Distribute() error = %v", err)
	}

	reports := a.Report()
	if len(reports) != 1 || reports[0].SongRevenue != 50 {
		t.Fatalf("reports = %+v, want only Nora with 50", reports)
	}
}

func TestReportTieBreaksByName(t *testing.T) {
	a := NewAllocator(resolver(map[string]string{
		"Glow": "Nora",
		"Echo": "Milo",
	}))
	if err := a.Distribute(200, map[string]int{"Glow": 1, "Echo": 1}); err != nil {
		t.Fatalf("Distribute() error = %v", err)
	}

	reports := a.Report()
	if reports[0].Owner != "Milo" || reports[1].Owner != "Nora" {
		t.Fatalf("tie order = %s, %s, want Milo, Nora", reports[0].Owner, reports[1].Owner)
	}
}

func TestRoundCentsHalvesUp(t *testing.T) {
	cases := []struct {
		num, den int64
		want     float64
	}{
		{1, 3, 0.33},
		{2, 3, 0.67},
		{1, 200, 0.01},  // exactly half a cent rounds up
		{1, 201, 0},     // just under half a cent rounds down
		{12345, 10, 1234.5},
	}
	for _, c := range cases {
		if got := roundCents(big.NewRat(c.num, c.den)); got != c.want {
			t.Errorf("roundCents(%d/%d) = %v, want %v", c.num, c.den, got, c.want)
		}
	}
}
