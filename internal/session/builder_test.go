package session

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/quizdrill/internal/bank"
	"github.com/verte-zerg/quizdrill/internal/model"
)

// noShuffle keeps selection order so tests can assert it.
type noShuffle struct{}

func (noShuffle) Shuffle(int, func(i, j int)) {}

func makeBank(t *testing.T, perDomain map[string]int, domains ...string) *bank.Bank {
	t.Helper()
	var qs []model.Question
	for _, d := range domains {
		for i := 0; i < perDomain[d]; i++ {
			qs = append(qs, model.Question{
				ID:      fmt.Sprintf("%s-%d", d, i),
				Domain:  d,
				Prompt:  "?",
				Options: []string{"a", "b"},
				Correct: []int{0},
			})
		}
	}
	b, err := bank.New(domains, qs)
	require.NoError(t, err)
	return b
}

func ids(qs []model.Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func countByDomain(qs []model.Question) map[string]int {
	out := map[string]int{}
	for _, q := range qs {
		out[q.Domain]++
	}
	return out
}

func TestBuildFiveDomainsFreshLevels(t *testing.T) {
	domains := []string{"D1", "D2", "D3", "D4", "D5"}
	b := makeBank(t, map[string]int{"D1": 4, "D2": 3, "D3": 4, "D4": 3, "D5": 3}, domains...)

	got := NewBuilder(DefaultWeakQuota, DefaultOtherQuota, noShuffle{}).Build(map[string]int{}, b)
	require.Len(t, got, 8)
	assert.Equal(t, map[string]int{"D1": 4, "D2": 1, "D3": 1, "D4": 1, "D5": 1}, countByDomain(got))
}

func TestBuildTargetsWeakestDomain(t *testing.T) {
	b := makeBank(t, map[string]int{"A": 2, "B": 5}, "A", "B")
	levels := map[string]int{"A-0": 4, "A-1": 4}

	got := NewBuilder(4, 1, noShuffle{}).Build(levels, b)
	assert.Equal(t, map[string]int{"A": 1, "B": 4}, countByDomain(got))
}

func TestBuildPrefersLowestLevels(t *testing.T) {
	b := makeBank(t, map[string]int{"A": 4}, "A")
	levels := map[string]int{"A-0": 3, "A-1": 0, "A-2": 2, "A-3": 0}

	got := NewBuilder(3, 1, noShuffle{}).Build(levels, b)
	// Ties keep bank order.
	assert.Equal(t, []string{"A-1", "A-3", "A-2"}, ids(got))
}

func TestBuildQuotaDegradesToAvailable(t *testing.T) {
	b := makeBank(t, map[string]int{"A": 2, "B": 0, "C": 1}, "A", "B", "C")

	got := NewBuilder(4, 1, noShuffle{}).Build(map[string]int{}, b)
	assert.Equal(t, map[string]int{"A": 2, "C": 1}, countByDomain(got))
}

func TestBuildEmptyBank(t *testing.T) {
	b, err := bank.New(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, NewBuilder(4, 1, nil).Build(map[string]int{}, b))
}

func TestBuildShufflePreservesSelection(t *testing.T) {
	domains := []string{"D1", "D2", "D3"}
	b := makeBank(t, map[string]int{"D1": 5, "D2": 5, "D3": 5}, domains...)

	ordered := NewBuilder(4, 1, noShuffle{}).Build(map[string]int{}, b)
	shuffled := NewBuilder(4, 1, rand.New(rand.NewPCG(1, 2))).Build(map[string]int{}, b)
	assert.ElementsMatch(t, ids(ordered), ids(shuffled))
}

func TestBuildNoDuplicates(t *testing.T) {
	b := makeBank(t, map[string]int{"A": 3, "B": 3}, "A", "B")
	got := NewBuilder(10, 10, nil).Build(map[string]int{}, b)
	seen := map[string]bool{}
	for _, q := range got {
		assert.False(t, seen[q.ID], "duplicate %s", q.ID)
		seen[q.ID] = true
	}
	assert.Len(t, got, 6)
}

func TestBuildOneQuestionPerDomain(t *testing.T) {
	domains := []string{"D1", "D2", "D3", "D4", "D5"}
	b := makeBank(t, map[string]int{"D1": 1, "D2": 1, "D3": 1, "D4": 1, "D5": 1}, domains...)

	got := NewBuilder(DefaultWeakQuota, DefaultOtherQuota, nil).Build(map[string]int{}, b)
	assert.Len(t, got, 5)
}
