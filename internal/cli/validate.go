package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChristoGH/url-miner/internal/usecase"
)

func validateCmd() *cobra.Command {
	var workspace string
	var feed string

	c := &cobra.Command{
		Use:   "validate",
		Short: "Validate a feed's query template and rules (no network)",
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			feedPath, err := resolveFeedPath(ws, feed)
			if err != nil {
				return err
			}

			uc := usecase.NewValidateFeed(ws.feeds)
			if err := uc.Execute(feedPath); err != nil {
				return err
			}

			fmt.Println("OK")
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVarP(&feed, "feed", "f", "", "Feed name or path (optional; defaults.feed is used if omitted)")

	return c
}
