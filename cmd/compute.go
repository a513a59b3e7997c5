package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taktflow/taktd/core/conflict"
	"github.com/taktflow/taktd/core/model"
	"github.com/taktflow/taktd/core/takt"
	"github.com/taktflow/taktd/pkg/export"
)

var (
	planPath      string
	planGroup     string
	withFlowline  bool
	computeFormat string
)

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute the takt grid for a plan file",
	RunE:  compute,
}

func init() {
	computeCmd.Flags().StringVarP(&planPath, "plan", "p", "plan.json", "plan file")
	computeCmd.Flags().StringVarP(&planGroup, "group", "g", "", "compute only the named zone/wagon group")
	computeCmd.Flags().BoolVar(&withFlowline, "flowline", false, "include flowline data")
	computeCmd.Flags().StringVarP(&computeFormat, "format", "f", "report", "output format: report, json or csv")
	rootCmd.AddCommand(computeCmd)
}

func compute(cmd *cobra.Command, args []string) error {
	plan, err := loadPlan(planPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("group") {
		parts := model.PartitionByGroup(plan)
		sub, ok := parts[planGroup]
		if !ok {
			return fmt.Errorf("no zones or wagons in group %q", planGroup)
		}
		plan = sub
	}
	assignments, total, err := takt.Generate(plan)
	if err != nil {
		return err
	}
	warnings := conflict.Detect(plan, assignments)

	switch computeFormat {
	case "csv":
		return export.WriteCSV(os.Stdout, assignments)
	case "json":
		return export.WriteJSON(os.Stdout, assignments)
	case "report":
	default:
		return fmt.Errorf("unknown format %q", computeFormat)
	}

	out := map[string]any{
		"assignments":   assignments,
		"total_periods": total,
		"summary":       takt.Summarize(plan, total),
		"warnings":      warnings,
		"counts":        conflict.CountBySeverity(warnings),
	}
	if withFlowline {
		out["flowline"] = takt.Flowline(plan, assignments)
	}
	return printJSON(out)
}
