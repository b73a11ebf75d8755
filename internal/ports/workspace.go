package ports

import "github.com/ChristoGH/url-miner/internal/domain"

type WorkspaceInitializer interface {
	Init(spec domain.WorkspaceSpec, force bool) error
}
