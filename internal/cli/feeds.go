package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func feedsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "feeds",
		Short: "Manage feeds in a workspace",
	}

	c.AddCommand(feedsListCmd())
	return c
}

func feedsListCmd() *cobra.Command {
	var workspace string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List feeds",
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			refs, err := ws.feeds.ListFeeds(ws.root)
			if err != nil {
				return err
			}

			if len(refs) == 0 {
				fmt.Println("(no feeds found)")
				return nil
			}

			fmt.Printf("Workspace: %s\n", ws.root)
			if ws.cfg.Defaults.Feed != "" {
				fmt.Printf("Default:   %s\n", ws.cfg.Defaults.Feed)
			}
			fmt.Println()

			for _, r := range refs {
				rel, _ := filepath.Rel(ws.root, r.Path)
				fmt.Printf("- %s  (%s)\n", r.Name, rel)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	return cmd
}
