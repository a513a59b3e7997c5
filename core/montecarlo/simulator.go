// Package montecarlo estimates schedule risk by perturbing wagon durations
// over many independent trials and aggregating the resulting completion
// distribution.
//
// Perturbation model: each trial draws one uniform factor in [1-v, 1+v] per
// wagon (v = variancePct/100), scales the wagon duration, rounds to the
// nearest working day and clamps to one day minimum. Trial i derives its RNG
// from seed+i, so trials are independent of scheduling order and a run is
// bit-reproducible for a fixed (plan, iterations, variance, seed) tuple even
// when executed across a worker pool.
package montecarlo

import (
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/taktflow/taktd/core/model"
	"github.com/taktflow/taktd/core/takt"
)

// MaxVariancePct bounds the accepted duration variance. Beyond this the
// uniform factor would regularly floor durations and the distribution stops
// meaning anything.
const MaxVariancePct = 95

// DefaultHistogramBins is used when the caller does not request a bin count.
const DefaultHistogramBins = 20

// Config parametrizes a simulation run.
type Config struct {
	Iterations    int     `json:"iterations"`
	VariancePct   float64 `json:"variance_pct"`
	Seed          int64   `json:"seed"`
	Workers       int     `json:"workers,omitempty"`        // 0 = GOMAXPROCS
	HistogramBins int     `json:"histogram_bins,omitempty"` // 0 = DefaultHistogramBins
}

// Validate rejects unusable parameters before any trial runs.
func (c Config) Validate() error {
	if c.Iterations <= 0 {
		return model.SimConfigf("iterations must be positive, got %d", c.Iterations)
	}
	if c.VariancePct < 0 {
		return model.SimConfigf("variance must not be negative, got %g", c.VariancePct)
	}
	if c.VariancePct > MaxVariancePct {
		return model.SimConfigf("variance %g%% exceeds the %d%% maximum", c.VariancePct, MaxVariancePct)
	}
	if c.HistogramBins < 0 {
		return model.SimConfigf("histogram bins must not be negative, got %d", c.HistogramBins)
	}
	return nil
}

// HistogramBin is one bucket of the completion-duration distribution.
type HistogramBin struct {
	MinDays   float64 `json:"min_days"`
	MaxDays   float64 `json:"max_days"`
	Count     int     `json:"count"`
	Frequency float64 `json:"frequency"`
}

// Result aggregates a full simulation run. Trial-level state is discarded
// after aggregation.
type Result struct {
	P50EndDate        time.Time      `json:"p50_end_date"`
	P80EndDate        time.Time      `json:"p80_end_date"`
	P95EndDate        time.Time      `json:"p95_end_date"`
	P50Days           int            `json:"p50_days"`
	P80Days           int            `json:"p80_days"`
	P95Days           int            `json:"p95_days"`
	MeanDurationDays  float64        `json:"mean_duration_days"`
	StdDevDays        float64        `json:"std_dev_days"`
	OnTimeProbability float64        `json:"on_time_probability"` // percent, 0..100
	BaselineDays      int            `json:"baseline_days"`
	BaselineEndDate   time.Time      `json:"baseline_end_date"`
	Histogram         []HistogramBin `json:"histogram"`
	Iterations        int            `json:"iterations"`
	Seed              int64          `json:"seed"`
}

// Run executes the simulation with an explicit seed. Two runs with identical
// (plan, config) produce identical results.
func Run(plan model.Plan, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	_, baseline, err := takt.Generate(plan)
	if err != nil {
		return Result{}, err
	}

	totals := make([]float64, cfg.Iterations)
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > cfg.Iterations {
		workers = cfg.Iterations
	}

	var wg sync.WaitGroup
	trials := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range trials {
				totals[i] = float64(runTrial(plan, cfg.Seed+int64(i), cfg.VariancePct))
			}
		}()
	}
	for i := 0; i < cfg.Iterations; i++ {
		trials <- i
	}
	close(trials)
	wg.Wait()

	return aggregate(plan, cfg, baseline, totals), nil
}

// runTrial perturbs every wagon duration with the trial's own RNG and
// re-derives the schedule length. Wagons are visited in slice order, which is
// part of the plan snapshot, so the draw sequence is fixed.
func runTrial(plan model.Plan, seed int64, variancePct float64) int {
	rng := rand.New(rand.NewSource(seed))
	v := variancePct / 100
	trial := plan.Clone()
	for i := range trial.Wagons {
		factor := 1 + (rng.Float64()*2-1)*v
		d := int(math.Round(float64(trial.Wagons[i].DurationDays) * factor))
		if d < 1 {
			d = 1
		}
		trial.Wagons[i].DurationDays = d
	}
	_, total, err := takt.Generate(trial)
	if err != nil {
		// The base plan validated and perturbation keeps durations >= 1,
		// so a trial cannot fail.
		return 0
	}
	return total
}

func aggregate(plan model.Plan, cfg Config, baseline int, totals []float64) Result {
	sorted := append([]float64(nil), totals...)
	sort.Float64s(sorted)

	p50 := int(stat.Quantile(0.50, stat.Empirical, sorted, nil))
	p80 := int(stat.Quantile(0.80, stat.Empirical, sorted, nil))
	p95 := int(stat.Quantile(0.95, stat.Empirical, sorted, nil))

	onTime := 0
	for _, d := range sorted {
		if int(d) <= baseline {
			onTime++
		}
	}

	start := takt.NextWorkingDay(plan.StartDate)
	return Result{
		P50EndDate:        completionDate(start, p50),
		P80EndDate:        completionDate(start, p80),
		P95EndDate:        completionDate(start, p95),
		P50Days:           p50,
		P80Days:           p80,
		P95Days:           p95,
		MeanDurationDays:  stat.Mean(sorted, nil),
		StdDevDays:        stat.PopStdDev(sorted, nil),
		OnTimeProbability: 100 * float64(onTime) / float64(len(sorted)),
		BaselineDays:      baseline,
		BaselineEndDate:   takt.EndDate(plan, baseline),
		Histogram:         buildHistogram(sorted, cfg.HistogramBins),
		Iterations:        cfg.Iterations,
		Seed:              cfg.Seed,
	}
}

func completionDate(start time.Time, days int) time.Time {
	if days <= 0 {
		return start
	}
	return takt.AddWorkingDays(start, days-1)
}
