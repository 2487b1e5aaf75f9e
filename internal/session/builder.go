// Package session assembles practice sessions and runs them.
package session

import (
	"math/rand/v2"
	"sort"
	"time"

	"github.com/verte-zerg/quizdrill/internal/bank"
	"github.com/verte-zerg/quizdrill/internal/mastery"
	"github.com/verte-zerg/quizdrill/internal/model"
)

// Default per-domain quotas.
const (
	DefaultWeakQuota  = 4
	DefaultOtherQuota = 1
)

// Shuffler permutes n elements through swap. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Builder picks questions biased toward the weakest domain.
type Builder struct {
	WeakQuota  int
	OtherQuota int
	shuffler   Shuffler
}

// NewBuilder returns a Builder. A nil shuffler uses a time-seeded source.
func NewBuilder(weak, other int, shuffler Shuffler) *Builder {
	if shuffler == nil {
		seed := uint64(time.Now().UnixNano())
		shuffler = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return &Builder{WeakQuota: max(weak, 0), OtherQuota: max(other, 0), shuffler: shuffler}
}

// Build selects the lowest-level questions of each domain, takes WeakQuota
// from the weakest domain and OtherQuota from the rest, then shuffles.
func (b *Builder) Build(levels map[string]int, bk *bank.Bank) []model.Question {
	weakest, _ := mastery.WeakestDomain(mastery.ComputeDomainStats(levels, bk))

	var out []model.Question
	for _, domain := range bk.Domains() {
		qs := bk.ByDomain(domain)
		sort.SliceStable(qs, func(i, j int) bool {
			return levels[qs[i].ID] < levels[qs[j].ID]
		})
		quota := b.OtherQuota
		if domain == weakest {
			quota = b.WeakQuota
		}
		out = append(out, qs[:min(quota, len(qs))]...)
	}

	b.shuffler.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
