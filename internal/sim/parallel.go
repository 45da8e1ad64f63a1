package sim

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Job is one named simulation in an Ensemble.
type Job struct {
	Name      string
	Simulator *Simulator
	Ticks     int
	// Metrics builds fresh metric instances for this job; metrics carry
	// state and must not be shared between concurrent runs.
	Metrics func() []Metric
}

type Ensemble struct {
	jobs []Job
}

func NewEnsemble(jobs ...Job) *Ensemble {
	return &Ensemble{jobs: jobs}
}

func (e *Ensemble) Add(j Job) { e.jobs = append(e.jobs, j) }

// Run executes every job concurrently. Results are returned in job order;
// the first error cancels the remaining runs.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, len(e.jobs))

	g, ctx := errgroup.WithContext(ctx)
	for i, job := range e.jobs {
		i, job := i, job
		g.Go(func() error {
			s := *job.Simulator
			s.metrics = nil
			s.observers = nil
			if job.Metrics != nil {
				s.metrics = job.Metrics()
			}
			res, err := s.Run(ctx, job.Ticks)
			results[i] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
