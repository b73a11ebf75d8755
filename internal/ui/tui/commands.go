package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ChristoGH/url-miner/internal/domain"
	"github.com/ChristoGH/url-miner/internal/infra/config"
	"github.com/ChristoGH/url-miner/internal/infra/envfile"
	"github.com/ChristoGH/url-miner/internal/infra/httpclient"
	"github.com/ChristoGH/url-miner/internal/infra/newsapi"
	"github.com/ChristoGH/url-miner/internal/infra/runstore"
	"github.com/ChristoGH/url-miner/internal/infra/yamlfeed"
	"github.com/ChristoGH/url-miner/internal/usecase"
)

func cmdRefreshWorkspace(deps Deps) tea.Cmd {
	return func() tea.Msg {
		wd, err := os.Getwd()
		if err != nil {
			return workspaceRefreshedMsg{cwd: "", found: false, err: fmt.Errorf("getwd: %w", err)}
		}
		if deps.WorkspaceLocator == nil {
			return workspaceRefreshedMsg{cwd: wd, found: false, err: errors.New("WorkspaceLocator is nil")}
		}

		root, findErr := deps.WorkspaceLocator.FindRoot(wd)
		if findErr != nil {
			return workspaceRefreshedMsg{cwd: wd, found: false, err: findErr}
		}

		return workspaceRefreshedMsg{cwd: wd, found: true, root: root, err: nil}
	}
}

func cmdInitWorkspaceHere(deps Deps, root string) tea.Cmd {
	return func() tea.Msg {
		if deps.WorkspaceInitializer == nil {
			return initWorkspaceDoneMsg{root: root, err: errors.New("WorkspaceInitializer is nil")}
		}

		err := deps.WorkspaceInitializer.Init(domain.NewWorkspaceSpec(root), true)
		return initWorkspaceDoneMsg{root: root, err: err}
	}
}

func cmdLoadFeeds(root string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := config.Load(root)
		if err != nil {
			return feedsLoadedMsg{root: root, err: err}
		}

		loader := yamlfeed.NewLoader(
			yamlfeed.WithFeedsDir(cfg.Paths.FeedsDir),
		)

		refs, err := loader.ListFeeds(root)
		return feedsLoadedMsg{root: root, refs: refs, err: err}
	}
}

func cmdLoadRuns(root string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := config.Load(root)
		if err != nil {
			return runsLoadedMsg{root: root, err: err}
		}

		store := runstore.NewJSONStore(root, cfg)
		summaries, err := store.ListRuns(listRunsLimit)
		return runsLoadedMsg{root: root, summaries: summaries, err: err}
	}
}

// listRunsLimit keeps the runs screen snappy in long-lived workspaces.
const listRunsLimit = 100

func cmdLoadRun(root, id string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := config.Load(root)
		if err != nil {
			return runLoadedMsg{err: err}
		}

		store := runstore.NewJSONStore(root, cfg)
		run, err := store.LoadRun(id)
		return runLoadedMsg{run: run, err: err}
	}
}

func listenFetch(ch <-chan fetchDoneMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return fetchDoneMsg{err: errors.New("fetch channel closed")}
		}
		return msg
	}
}

func startFetchAsync(
	workspaceRoot, feedPath string,
	log *slog.Logger,
	debug bool,
) (chan fetchDoneMsg, tea.Cmd) {
	ch := make(chan fetchDoneMsg, 1)

	if log == nil {
		log = slog.Default()
	}

	go func() {
		defer close(ch)

		log.Info("fetch.start",
			"workspace", workspaceRoot,
			"feed_path", feedPath,
			"debug", debug,
		)

		cfg, err := config.Load(workspaceRoot)
		if err != nil {
			log.Error("fetch.load_config.failed", "err", err)
			ch <- fetchDoneMsg{err: err}
			return
		}

		key, err := envfile.NewSource(workspaceRoot).APIKey()
		if err != nil {
			log.Error("fetch.credentials.failed", "err", err)
			ch <- fetchDoneMsg{err: err}
			return
		}

		feedLoader := yamlfeed.NewLoader(
			yamlfeed.WithFeedsDir(cfg.Paths.FeedsDir),
		)
		source := newsapi.New(key,
			newsapi.WithHTTPClient(httpclient.New(httpclient.DefaultConfig())),
		)
		store := runstore.NewJSONStore(workspaceRoot, cfg)

		uc := usecase.NewFetchFeed(cfg, feedLoader, source, store)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		run, execErr := uc.Execute(ctx, feedPath, nil)

		if execErr != nil {
			log.Error("fetch.failed", "err", execErr)
		} else if run.Error != nil {
			log.Warn("fetch.provider_error",
				"feed", run.FeedName,
				"kind", string(run.Error.Kind),
				"status", run.Error.StatusCode,
				"message", run.Error.Message,
			)
		} else {
			log.Info("fetch.done",
				"feed", run.FeedName,
				"run_id", run.RunID,
				"pages", run.PagesFetched,
				"kept", run.Stats.Kept,
				"dropped", run.Stats.Dropped,
				"duplicates", run.Stats.Duplicates,
			)
		}

		if debug {
			for _, d := range run.Dropped {
				log.Debug("fetch.dropped",
					"url", d.URL,
					"rule", d.Rule,
					"reason", d.Reason,
				)
			}
		}

		ch <- fetchDoneMsg{run: run, err: execErr}
	}()

	return ch, listenFetch(ch)
}
