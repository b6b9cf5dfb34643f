// Package revenue splits settled money pools across content owners in
// proportion to monetized listens. All arithmetic is exact rational math;
// rounding to cents happens once, when the report is produced.
package revenue

import (
	"errors"
	"math/big"
	"sort"

	"github.com/sirupsen/logrus"
)

// ErrNoListens is returned when a pool is settled against an empty listen
// snapshot. The pool is left untouched in that case.
var ErrNoListens = errors.New("revenue: no listens to distribute against")

// OwnerResolver maps a song name to its content owner. The second return
// value reports whether the song is known.
type OwnerResolver func(song string) (string, bool)

// Allocator accumulates per-owner and per-song revenue across every
// settlement of the run.
type Allocator struct {
	ownerOf OwnerResolver
	owners  map[string]*big.Rat
	songs   map[string]map[string]*big.Rat
	log     *logrus.Entry
}

// NewAllocator creates an allocator that credits owners through resolve.
func NewAllocator(resolve OwnerResolver) *Allocator {
	return &Allocator{
		ownerOf: resolve,
		owners:  make(map[string]*big.Rat),
		songs:   make(map[string]map[string]*big.Rat),
		log:     logrus.WithField("component", "revenue"),
	}
}

// Distribute splits pool across the songs in listens, each song earning
// pool * count / totalListens. Songs the resolver does not know still count
// toward the denominator but earn nothing.
func (a *Allocator) Distribute(pool int64, listens map[string]int) error {
	total := 0
	for _, count := range listens {
		total += count
	}
	if total == 0 {
		return ErrNoListens
	}

	for song, count := range listens {
		if count <= 0 {
			continue
		}
		owner, ok := a.ownerOf(song)
		if !ok {
			a.log.WithField("song", song).Warn("listen for unknown song, revenue dropped")
			continue
		}
		share := new(big.Rat).SetFrac64(pool*int64(count), int64(total))
		a.credit(owner, song, share)
	}
	return nil
}

func (a *Allocator) credit(owner, song string, share *big.Rat) {
	if prev, ok := a.owners[owner]; ok {
		prev.Add(prev, share)
	} else {
		a.owners[owner] = new(big.Rat).Set(share)
	}
	perSong := a.songs[owner]
	if perSong == nil {
		perSong = make(map[string]*big.Rat)
		a.songs[owner] = perSong
	}
	if prev, ok := perSong[song]; ok {
		prev.Add(prev, share)
	} else {
		perSong[song] = new(big.Rat).Set(share)
	}
}

// OwnerReport is one owner's line in the end-of-run revenue report.
type OwnerReport struct {
	Owner          string  `json:"owner"`
	SongRevenue    float64 `json:"songRevenue"`
	MostProfitable string  `json:"mostProfitableSong"`
	Ranking        int     `json:"ranking"`
}

// Report rounds every owner's accumulated revenue to cents and ranks owners
// by revenue descending, name ascending for equal revenue. The most
// profitable song breaks ties the same way.
func (a *Allocator) Report() []OwnerReport {
	reports := make([]OwnerReport, 0, len(a.owners))
	for owner, total := range a.owners {
		reports = append(reports, OwnerReport{
			Owner:          owner,
			SongRevenue:    roundCents(total),
			MostProfitable: a.mostProfitable(owner),
		})
	}
	sort.Slice(reports, func(i, j int) bool {
		if reports[i].SongRevenue != reports[j].SongRevenue {
			return reports[i].SongRevenue > reports[j].SongRevenue
		}
		return reports[i].Owner < reports[j].Owner
	})
	for i := range reports {
		reports[i].Ranking = i + 1
	}
	return reports
}

func (a *Allocator) mostProfitable(owner string) string {
	var best string
	var bestShare *big.Rat
	for song, share := range a.songs[owner] {
		switch {
		case bestShare == nil,
			share.Cmp(bestShare) > 0,
			share.Cmp(bestShare) == 0 && song < best:
			best, bestShare = song, share
		}
	}
	return best
}

// roundCents rounds a rational money amount to two decimals, halves up.
func roundCents(r *big.Rat) float64 {
	cents := new(big.Rat).Mul(r, big.NewRat(100, 1))
	// floor(cents + 1/2)
	cents.Add(cents, big.NewRat(1, 2))
	floor := new(big.Int).Div(cents.Num(), cents.Denom())
	rounded, _ := new(big.Rat).SetFrac(floor, big.NewInt(100)).Float64()
	return rounded
}
