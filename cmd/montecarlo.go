package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taktflow/taktd/core/montecarlo"
)

var (
	mcPlanPath   string
	mcIterations int
	mcVariance   float64
	mcSeed       int64
	mcBins       int
)

var montecarloCmd = &cobra.Command{
	Use:   "montecarlo",
	Short: "Run a schedule risk simulation for a plan file",
	RunE:  runMonteCarlo,
}

func init() {
	montecarloCmd.Flags().StringVarP(&mcPlanPath, "plan", "p", "plan.json", "plan file")
	montecarloCmd.Flags().IntVarP(&mcIterations, "iterations", "n", 1000, "number of trials")
	montecarloCmd.Flags().Float64Var(&mcVariance, "variance", 15, "duration variance in percent")
	montecarloCmd.Flags().Int64Var(&mcSeed, "seed", 0, "random seed")
	montecarloCmd.Flags().IntVar(&mcBins, "bins", 0, "histogram bins (0 = default)")
	rootCmd.AddCommand(montecarloCmd)
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	plan, err := loadPlan(mcPlanPath)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("seed") {
		fmt.Fprintf(cmd.ErrOrStderr(), "no --seed given, using %d; pass --seed to vary trials\n", mcSeed)
	}
	res, err := montecarlo.Run(plan, montecarlo.Config{
		Iterations:    mcIterations,
		VariancePct:   mcVariance,
		Seed:          mcSeed,
		HistogramBins: mcBins,
	})
	if err != nil {
		return err
	}
	return printJSON(res)
}
