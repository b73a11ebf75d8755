package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ChristoGH/url-miner/internal/domain"
	"github.com/ChristoGH/url-miner/internal/infra/logger"
	"github.com/ChristoGH/url-miner/internal/usecase"
)

func fetchCmd(debug *bool) *cobra.Command {
	var workspace string
	var feed string
	var all bool
	var varFlags []string
	var noSave bool
	var format string

	c := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch articles for a feed (or every feed) and save the run",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if all && feed != "" {
				return fmt.Errorf("--feed and --all are mutually exclusive")
			}

			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			cleanup, _ := logger.Setup(logger.Config{
				Root:    ws.root,
				Debug:   *debug,
				Console: *debug,
			})
			if cleanup != nil {
				defer func() { _ = cleanup() }()
			}
			log := logger.L()

			overrides, err := parseVarFlags(varFlags)
			if err != nil {
				return err
			}

			source, err := ws.articleSource()
			if err != nil {
				return err
			}

			store := ws.store
			if noSave {
				store = nil
			}

			if all {
				log.Info("fetch.start", "workspace", ws.root, "all", true)
				uc := usecase.NewFetchAll(ws.cfg, ws.feeds, source, store)
				runs, err := uc.Execute(cmd.Context(), ws.root, overrides)
				if err != nil {
					log.Error("fetch.failed", "err", err)
					return err
				}
				return printRuns(os.Stdout, runs, format, log)
			}

			feedPath, err := resolveFeedPath(ws, feed)
			if err != nil {
				return err
			}

			log.Info("fetch.start", "workspace", ws.root, "feed_path", feedPath)
			uc := usecase.NewFetchFeed(ws.cfg, ws.feeds, source, store)
			run, err := uc.Execute(cmd.Context(), feedPath, overrides)
			if err != nil {
				log.Error("fetch.failed", "err", err)
				return err
			}
			return printRuns(os.Stdout, []domain.FetchArtifact{run}, format, log)
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVarP(&feed, "feed", "f", "", "Feed name or path (optional; defaults.feed is used if omitted)")
	c.Flags().BoolVar(&all, "all", false, "Fetch every feed in the workspace")
	c.Flags().StringArrayVar(&varFlags, "var", nil, "Override a feed variable (name=value, repeatable)")
	c.Flags().BoolVar(&noSave, "no-save", false, "Do not save run artifacts under runs/")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")

	return c
}

// printRuns prints every run and turns recorded fetch errors into a non-zero
// exit so scripted callers notice partial results.
func printRuns(w io.Writer, runs []domain.FetchArtifact, format string, log *slog.Logger) error {
	failed := 0
	for _, run := range runs {
		if err := printRun(w, run, format); err != nil {
			return err
		}
		if run.Error != nil {
			failed++
			log.Warn("fetch.provider_error",
				"feed", run.FeedName,
				"kind", string(run.Error.Kind),
				"status", run.Error.StatusCode,
			)
		} else {
			log.Info("fetch.done",
				"feed", run.FeedName,
				"run_id", run.RunID,
				"kept", run.Stats.Kept,
				"dropped", run.Stats.Dropped,
				"duplicates", run.Stats.Duplicates,
			)
		}
	}
	if failed > 0 {
		return fmt.Errorf("fetch finished with errors (%d feed(s) failed)", failed)
	}
	return nil
}

func printRun(w io.Writer, run domain.FetchArtifact, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	case "pretty", "":
		printPrettyRun(w, run)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printPrettyRun(w io.Writer, run domain.FetchArtifact) {
	total := run.FinishedAt.Sub(run.StartedAt)
	if run.StartedAt.IsZero() || run.FinishedAt.IsZero() {
		total = 0
	}

	fmt.Fprintf(w, "Feed:     %s\n", run.FeedName)
	fmt.Fprintf(w, "Query:    %s\n", run.Query)
	fmt.Fprintf(w, "Window:   %s .. %s\n", run.Window.FromParam(), run.Window.ToParam())
	fmt.Fprintf(w, "Started:  %s\n", run.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Duration: %s\n", total.Round(time.Millisecond))
	if run.RunID != "" {
		fmt.Fprintf(w, "Run ID:   %s\n", run.RunID)
	}
	fmt.Fprintf(w, "Pages:    %d (%d result(s) reported by the server)\n", run.PagesFetched, run.TotalResults)
	fmt.Fprintf(w, "Articles: %d kept / %d dropped / %d duplicate(s)\n",
		run.Stats.Kept, run.Stats.Dropped, run.Stats.Duplicates)
	if run.Error != nil {
		fmt.Fprintf(w, "Error:    %s\n", run.Error)
	}
	fmt.Fprintln(w)

	for _, a := range run.Articles {
		fmt.Fprintf(w, "- %s\n", articleHeadline(a))
		fmt.Fprintf(w, "  %s\n", a.URL)
		for k, v := range a.Meta {
			fmt.Fprintf(w, "    %s = %s\n", k, v)
		}
	}

	if len(run.Dropped) > 0 {
		fmt.Fprintln(w)
		for _, d := range run.Dropped {
			fmt.Fprintf(w, "  ✗ dropped %q — rule %s (%s)\n", d.Title, d.Rule, d.Reason)
		}
	}
	fmt.Fprintln(w)
}

func articleHeadline(a domain.Article) string {
	title := a.Title
	if title == "" {
		title = "(untitled)"
	}
	if a.Source.Name == "" {
		return title
	}
	return fmt.Sprintf("%s — %s", a.Source.Name, title)
}
