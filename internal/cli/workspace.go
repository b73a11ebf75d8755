package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ChristoGH/url-miner/internal/domain"
	"github.com/ChristoGH/url-miner/internal/infra/config"
	"github.com/ChristoGH/url-miner/internal/infra/envfile"
	"github.com/ChristoGH/url-miner/internal/infra/httpclient"
	"github.com/ChristoGH/url-miner/internal/infra/newsapi"
	"github.com/ChristoGH/url-miner/internal/infra/runstore"
	"github.com/ChristoGH/url-miner/internal/infra/workspacefinder"
	"github.com/ChristoGH/url-miner/internal/infra/yamlfeed"
	"github.com/ChristoGH/url-miner/internal/ports"
)

type workspaceCtx struct {
	root string
	cfg  domain.Config

	feeds ports.FeedLoader
	creds ports.CredentialSource
	store ports.ArtifactStore
}

func loadWorkspace(workspaceFlag string) (*workspaceCtx, error) {
	root, err := resolveWorkspaceRoot(workspaceFlag)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}

	feedLoader := yamlfeed.NewLoader(
		yamlfeed.WithFeedsDir(cfg.Paths.FeedsDir),
	)

	store := runstore.NewJSONStore(root, cfg)

	return &workspaceCtx{
		root:  root,
		cfg:   cfg,
		feeds: feedLoader,
		creds: envfile.NewSource(root),
		store: store,
	}, nil
}

// articleSource builds the provider client. Deferred until a command really
// talks to the provider so read-only commands work without an API key.
func (ws *workspaceCtx) articleSource() (ports.ArticleSource, error) {
	key, err := ws.creds.APIKey()
	if err != nil {
		return nil, err
	}

	client := newsapi.New(key,
		newsapi.WithHTTPClient(httpclient.New(httpclient.DefaultConfig())),
	)
	return client, nil
}

func resolveWorkspaceRoot(workspaceFlag string) (string, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	locator := workspacefinder.NewFinder()
	root, err := locator.FindRoot(wd)
	if err != nil {
		return "", fmt.Errorf("workspace not found from %q (tip: run `url-miner init`): %w", wd, err)
	}
	return root, nil
}

func resolveFeedPath(ws *workspaceCtx, arg string) (string, error) {
	in := strings.TrimSpace(arg)
	if in == "" {
		in = ws.cfg.Defaults.Feed
	}
	if in == "" {
		return "", fmt.Errorf("feed is required (use --feed or -f, or set defaults.feed in %s)", config.FileName)
	}

	// If arg looks like a path (contains separators), resolve relative to workspace root.
	if looksLikePath(in) {
		p := in
		if !filepath.IsAbs(p) {
			p = filepath.Join(ws.root, p)
		}
		return filepath.Clean(p), nil
	}

	feedsDir := filepath.Join(ws.root, ws.cfg.Paths.FeedsDir)

	// If user provided "trafficking.yaml", treat it as file under the feeds dir.
	if hasYAMLExt(in) {
		p := filepath.Join(feedsDir, in)
		if fileExists(p) {
			return p, nil
		}
	}

	// If user provided "trafficking", try trafficking.yaml / trafficking.yml.
	p1 := filepath.Join(feedsDir, in+".yaml")
	if fileExists(p1) {
		return p1, nil
	}
	p2 := filepath.Join(feedsDir, in+".yml")
	if fileExists(p2) {
		return p2, nil
	}

	// As a last resort: match by the feed's "name" field.
	refs, err := ws.feeds.ListFeeds(ws.root)
	if err == nil {
		for _, r := range refs {
			if strings.EqualFold(r.Name, in) {
				return r.Path, nil
			}
		}
	}

	return "", fmt.Errorf("feed %q not found in %q", in, feedsDir)
}

func parseVarFlags(entries []string) (domain.Vars, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	vars := domain.Vars{}
	for _, e := range entries {
		k, v, ok := strings.Cut(e, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --var %q (expected name=value)", e)
		}
		vars[k] = v
	}
	return vars, nil
}

func looksLikePath(s string) bool {
	return strings.Contains(s, "/") || strings.Contains(s, string(filepath.Separator))
}

func hasYAMLExt(s string) bool {
	ext := strings.ToLower(filepath.Ext(s))
	return ext == ".yaml" || ext == ".yml"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
