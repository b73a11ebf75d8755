package domain

// WorkspaceSpec describes a workspace to scaffold.
type WorkspaceSpec struct {
	Root string

	// FeedsDir and RunsDir override the default layout when set.
	FeedsDir string
	RunsDir  string
}

// NewWorkspaceSpec returns a spec for root with the default layout.
func NewWorkspaceSpec(root string) WorkspaceSpec {
	cfg := DefaultConfig()
	return WorkspaceSpec{
		Root:     root,
		FeedsDir: cfg.Paths.FeedsDir,
		RunsDir:  cfg.Paths.RunsDir,
	}
}
