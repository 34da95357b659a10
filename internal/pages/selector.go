// Package pages picks which pages of a document get a share of a limited
// OCR budget.
package pages

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sort"

	"github.com/joseph-ayodele/docreview/constants"
)

// DensityFunc reports the dark-pixel fraction of a 0-based page.
type DensityFunc func(ctx context.Context, pageIndex int) (float64, error)

type Selector struct {
	logger *slog.Logger
}

func NewSelector(logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{logger: logger}
}

// Select returns a sorted, deduplicated list of at most budget page indexes
// out of pageCount. A budget of zero or one covering every page selects all
// pages. density is only consulted by the density strategy.
func (s *Selector) Select(ctx context.Context, pageCount, budget int, strategy constants.Strategy, density DensityFunc) ([]int, error) {
	if pageCount <= 0 {
		return nil, nil
	}
	if budget <= 0 || budget >= pageCount {
		return allPages(pageCount), nil
	}

	var (
		out []int
		err error
	)
	switch strategy {
	case constants.StrategyUniform:
		out = Uniform(pageCount, budget)
	case constants.StrategyFrontBack:
		out = FrontBack(pageCount, budget)
	case constants.StrategyDensity:
		if density == nil {
			return nil, fmt.Errorf("density strategy needs a page renderer")
		}
		out, err = Density(ctx, pageCount, budget, density)
	default:
		return nil, fmt.Errorf("unknown page selection strategy %q", strategy)
	}
	if err != nil {
		return nil, err
	}
	s.logger.Debug("pages.select.ok", "strategy", strategy, "page_count", pageCount, "budget", budget, "selected", out)
	return out, nil
}

func allPages(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// Uniform takes every stride-th page from the first, stride = max(1, n/budget).
func Uniform(n, budget int) []int {
	stride := max(1, n/budget)
	out := make([]int, 0, budget)
	for i := 0; i < n && len(out) < budget; i += stride {
		out = append(out, i)
	}
	return out
}

// FrontBack anchors the first two and last two pages, then spreads the rest
// of the budget evenly across the pages in between.
func FrontBack(n, budget int) []int {
	chosen := make(map[int]bool, budget)
	var picked []int
	add := func(i int) {
		if i >= 0 && i < n && !chosen[i] {
			chosen[i] = true
			picked = append(picked, i)
		}
	}
	for _, i := range []int{0, 1, n - 1, n - 2} {
		add(i)
	}

	fill := budget - len(picked)
	for j := 0; j < fill && len(picked) < n; j++ {
		target := int(math.Round(float64(j+1) * float64(n-1) / float64(fill+1)))
		add(nearestFree(target, n, chosen))
	}

	slices.Sort(picked)
	if len(picked) > budget {
		picked = picked[:budget]
	}
	return picked
}

// nearestFree probes target, target-1, target+1, ... for an unchosen index.
func nearestFree(target, n int, chosen map[int]bool) int {
	for d := 0; d < n; d++ {
		for _, c := range []int{target - d, target + d} {
			if c >= 0 && c < n && !chosen[c] {
				return c
			}
		}
	}
	return -1
}

// Density ranks pages by dark-pixel fraction and keeps the densest budget
// pages. Ties keep the lower page first.
func Density(ctx context.Context, n, budget int, density DensityFunc) ([]int, error) {
	type scored struct {
		page int
		frac float64
	}
	all := make([]scored, 0, n)
	for i := 0; i < n; i++ {
		f, err := density(ctx, i)
		if err != nil {
			return nil, fmt.Errorf("density of page %d: %w", i+1, err)
		}
		all = append(all, scored{page: i, frac: f})
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].frac > all[j].frac })

	out := make([]int, 0, budget)
	for _, s := range all[:min(budget, len(all))] {
		out = append(out, s.page)
	}
	slices.Sort(out)
	return out, nil
}
