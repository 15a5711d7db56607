package period

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/warp/payroll-engine/payroll"
)

// Job is one period to recalculate. Inputs is keyed by 0-based week index.
type Job struct {
	Period   PayPeriod
	Employee payroll.Employee
	Inputs   map[int]payroll.PayrollInput
}

// RecalculateBatch recalculates independent periods concurrently, at most
// workers at a time (unbounded when workers <= 0). Results come back in job
// order. The first failure cancels the jobs that have not started yet.
//
// Each job owns its period, so no coordination between jobs is needed; the
// calculator is read-only and shared.
func RecalculateBatch(ctx context.Context, calc *payroll.Calculator, jobs []Job, workers int) ([]PayPeriod, error) {
	out := make([]PayPeriod, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := recalculateJob(job, calc)
			if err != nil {
				return fmt.Errorf("period %q (employee %s): %w", job.Period.ID, job.Employee.ID, err)
			}
			out[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func recalculateJob(job Job, calc *payroll.Calculator) (PayPeriod, error) {
	indices := make([]int, 0, len(job.Inputs))
	for idx := range job.Inputs {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	p := job.Period.Clone()
	for _, idx := range indices {
		var err error
		p, err = RecalculateWeek(p, idx, job.Employee, job.Inputs[idx], calc)
		if err != nil {
			return PayPeriod{}, fmt.Errorf("week index %d: %w", idx, err)
		}
	}
	return p, nil
}
