package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/seesaw/internal/experiment"
)

// ErrNoCandidate is returned when every grid point failed or never reached
// the metric.
var ErrNoCandidate = errors.New("optim: no grid point produced a usable metric")

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search runs every point of the grid and returns the one minimizing the
// metric. Negative metric values mean "never reached" (an unsettled beam)
// and are skipped.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) (map[string]float64, float64, error) {

	best := math.Inf(1)
	var bestParams map[string]float64

	if err := g.searchRecursive(ctx, 0, make(map[string]float64), buildExperiment, metricName, &best, &bestParams); err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, ErrNoCandidate
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		exp, err := buildExperiment(current)
		if err != nil {
			return nil
		}

		result, err := exp.Run(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		}

		val, ok := result.Metrics[metricName]
		if !ok {
			return fmt.Errorf("unknown metric: %s", metricName)
		}
		if val >= 0 && val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, buildExperiment, metricName, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

// ParseRange parses "name=min:max:steps" into a name and evenly spaced
// values; "name=v" is a single value.
func ParseRange(expr string) (string, []float64, error) {
	name, rng, ok := strings.Cut(expr, "=")
	if !ok || name == "" {
		return "", nil, fmt.Errorf("bad range %q, want name=min:max:steps", expr)
	}

	parts := strings.Split(rng, ":")
	nums := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return "", nil, fmt.Errorf("bad range %q: %w", expr, err)
		}
		nums[i] = v
	}

	switch len(nums) {
	case 1:
		return name, nums, nil
	case 3:
		lo, hi, n := nums[0], nums[1], int(nums[2])
		if n < 2 {
			return name, []float64{lo}, nil
		}
		vals := make([]float64, n)
		step := (hi - lo) / float64(n-1)
		for i := range vals {
			vals[i] = lo + float64(i)*step
		}
		return name, vals, nil
	}
	return "", nil, fmt.Errorf("bad range %q, want name=min:max:steps", expr)
}
