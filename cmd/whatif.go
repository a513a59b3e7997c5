package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taktflow/taktd/core/scenario"
)

var (
	whatifPlanPath    string
	whatifChangesPath string
)

var whatifCmd = &cobra.Command{
	Use:   "whatif",
	Short: "Evaluate a list of changes against a plan file",
	RunE:  whatif,
}

func init() {
	whatifCmd.Flags().StringVarP(&whatifPlanPath, "plan", "p", "plan.json", "plan file")
	whatifCmd.Flags().StringVar(&whatifChangesPath, "changes", "changes.json", "changes file")
	rootCmd.AddCommand(whatifCmd)
}

func whatif(cmd *cobra.Command, args []string) error {
	plan, err := loadPlan(whatifPlanPath)
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(whatifChangesPath)
	if err != nil {
		return fmt.Errorf("read changes: %w", err)
	}
	var envs []scenario.ChangeEnvelope
	if err := json.Unmarshal(raw, &envs); err != nil {
		return fmt.Errorf("parse changes: %w", err)
	}
	changes, err := scenario.ParseChanges(envs)
	if err != nil {
		return err
	}
	res, err := scenario.RunWhatIf(plan, changes)
	if err != nil {
		return err
	}
	return printJSON(res)
}
