package usecase

import (
	"errors"
	"testing"

	"github.com/ChristoGH/url-miner/internal/domain"
	"github.com/ChristoGH/url-miner/internal/ports"
)

type spyInitializer struct {
	spec  domain.WorkspaceSpec
	force bool
	err   error
}

func (s *spyInitializer) Init(spec domain.WorkspaceSpec, force bool) error {
	s.spec = spec
	s.force = force
	return s.err
}

var _ ports.WorkspaceInitializer = (*spyInitializer)(nil)

func TestInitWorkspace_PassesSpecThrough(t *testing.T) {
	spy := &spyInitializer{}
	uc := NewInitWorkspace(spy)

	if err := uc.Execute("/tmp/ws", true); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if spy.spec.Root != "/tmp/ws" {
		t.Fatalf("expected root passed through, got=%q", spy.spec.Root)
	}
	if !spy.force {
		t.Fatalf("expected force passed through")
	}
}

func TestInitWorkspace_PropagatesError(t *testing.T) {
	boom := errors.New("disk full")
	uc := NewInitWorkspace(&spyInitializer{err: boom})

	if err := uc.Execute("/tmp/ws", false); !errors.Is(err, boom) {
		t.Fatalf("expected error propagated, got=%v", err)
	}
}
