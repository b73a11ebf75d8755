package ports

// WorkspaceLocator finds a url-miner workspace root starting from an arbitrary directory.
type WorkspaceLocator interface {
	FindRoot(startDir string) (string, error)
}
