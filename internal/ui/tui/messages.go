package tui

import "github.com/ChristoGH/url-miner/internal/domain"

type workspaceRefreshedMsg struct {
	cwd   string
	found bool
	root  string
	err   error
}

type initWorkspaceDoneMsg struct {
	root string
	err  error
}

type feedsLoadedMsg struct {
	root string
	refs []domain.FeedRef
	err  error
}

type runsLoadedMsg struct {
	root      string
	summaries []domain.RunSummary
	err       error
}

type runLoadedMsg struct {
	run domain.FetchArtifact
	err error
}

type fetchDoneMsg struct {
	run domain.FetchArtifact
	err error
}
