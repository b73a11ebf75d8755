package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ChristoGH/url-miner/internal/app/report"
)

func reportCmd() *cobra.Command {
	var workspace string
	var out string

	c := &cobra.Command{
		Use:   "report <run-id>",
		Short: "Render a saved run as a Markdown digest",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			run, err := ws.store.LoadRun(args[0])
			if err != nil {
				return err
			}

			if out == "" {
				return report.Markdown(os.Stdout, run)
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create report file: %w", err)
			}
			defer f.Close()

			if err := report.Markdown(f, run); err != nil {
				return err
			}
			fmt.Printf("Report written to %s\n", out)
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVarP(&out, "out", "o", "", "Write the report to a file instead of stdout")
	return c
}
