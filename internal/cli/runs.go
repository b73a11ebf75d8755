package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func runsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "runs",
		Short: "Browse saved fetch runs",
	}

	c.AddCommand(runsListCmd(), runsShowCmd())
	return c
}

func runsListCmd() *cobra.Command {
	var workspace string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved runs, newest first",
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			summaries, err := ws.store.ListRuns(limit)
			if err != nil {
				return err
			}

			if len(summaries) == 0 {
				fmt.Println("(no runs found)")
				return nil
			}

			fmt.Printf("Workspace: %s\n\n", ws.root)
			for _, s := range summaries {
				line := fmt.Sprintf("- %s  %s  feed=%s  kept=%d/%d",
					s.SavedAt.Local().Format(time.RFC3339), s.RunID, s.FeedName, s.Kept, s.TotalResults)
				if s.ErrorKind != "" {
					line += "  error=" + s.ErrorKind
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 = all)")
	return cmd
}

func runsShowCmd() *cobra.Command {
	var workspace string
	var format string

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one saved run (prefix of the id is enough)",
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

			return printRun(os.Stdout, run, format)
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	cmd.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return cmd
}
