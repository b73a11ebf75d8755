package ports

import "github.com/ChristoGH/url-miner/internal/domain"

// ArtifactStore persists fetch artifacts for reproducibility.
type ArtifactStore interface {
	SaveRun(run domain.FetchArtifact) (id string, err error)
	ListRuns(limit int) ([]domain.RunSummary, error)
	LoadRun(id string) (domain.FetchArtifact, error)
}
