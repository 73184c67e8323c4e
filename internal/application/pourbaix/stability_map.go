package pourbaix

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	domain "github.com/turtacn/pourbaix-engine/internal/domain/pourbaix"
	"github.com/turtacn/pourbaix-engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/pourbaix-engine/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/pourbaix-engine/pkg/errors"
	ptypes "github.com/turtacn/pourbaix-engine/pkg/types/pourbaix"
)

// MapInput selects what a stability map samples.
type MapInput struct {
	Quantity ptypes.Quantity
	// Entry names the entry of a decomposition map.
	Entry string
	// Resolution is the number of samples along each axis. Zero selects the
	// configured resolution.
	Resolution int
	// Window overrides the diagram window when non-zero.
	Window domain.Window
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + step*float64(i)
	}
	out[n-1] = hi
	return out
}

// StabilityMap samples the hull energy, or the decomposition energy of one
// entry, on a regular pH×V mesh. Rows of constant V are evaluated in
// parallel by at most Options.Workers goroutines.
func (s *serviceImpl) StabilityMap(ctx context.Context, req *BuildRequest, input *MapInput) (*ptypes.StabilityMap, error) {
	if input == nil {
		return nil, errors.InvalidParam("map input is nil")
	}
	quantity := input.Quantity
	if quantity == "" {
		quantity = ptypes.QuantityDecomposition
		if input.Entry == "" {
			quantity = ptypes.QuantityHull
		}
	}
	if _, err := ptypes.ParseQuantity(string(quantity)); err != nil {
		return nil, errors.NewValidationError("quantity", err.Error())
	}
	if quantity == ptypes.QuantityDecomposition && input.Entry == "" {
		return nil, errors.NewValidationError("entry", "a decomposition map needs an entry")
	}
	res := input.Resolution
	if res == 0 {
		res = s.opts.MapResolution
	}
	if res < 2 {
		return nil, errors.NewValidationError("resolution", fmt.Sprintf("must be ≥ 2, got %d", res))
	}

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	d, err := s.Build(ctx, req)
	if err != nil {
		return nil, err
	}
	w := d.Window()
	if input.Window != (domain.Window{}) {
		if err := input.Window.Validate(); err != nil {
			return nil, err
		}
		w = input.Window
	}

	var entry domain.Entry
	if quantity == ptypes.QuantityDecomposition {
		if entry, err = d.FindEntry(input.Entry); err != nil {
			return nil, err
		}
	}

	out := &ptypes.StabilityMap{
		Quantity: quantity,
		PH:       Linspace(w.PHMin, w.PHMax, res),
		V:        Linspace(w.VMin, w.VMax, res),
		Values:   make([][]float64, res),
	}
	if entry != nil {
		out.Entry = entry.Name()
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	active := s.metrics.MapWorkersActive.WithLabelValues()
	for i := range out.V {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			active.Inc()
			defer active.Dec()

			v := []float64{out.V[i]}
			var row []float64
			var err error
			if entry != nil {
				row, err = d.DecompositionEnergies(entry, out.PH, v)
			} else {
				row, err = d.HullEnergies(out.PH, v)
			}
			if err != nil {
				return err
			}
			out.Values[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		prometheus.RecordError(s.metrics, "map", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, canceled(ctxErr)
		}
		return nil, err
	}
	took := time.Since(start)
	prometheus.RecordMap(s.metrics, string(quantity), res*res, took)

	out.Min, out.Max = math.Inf(1), math.Inf(-1)
	for _, row := range out.Values {
		for _, x := range row {
			out.Min = math.Min(out.Min, x)
			out.Max = math.Max(out.Max, x)
		}
	}

	s.logger.Info("stability map computed",
		logging.String("quantity", string(quantity)),
		logging.String("entry", out.Entry),
		logging.Int("resolution", res),
		logging.Int("workers", s.opts.Workers),
		logging.Duration("took", took),
	)
	return out, nil
}

//Personal.AI order the ending
