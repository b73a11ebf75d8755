// Package runstore persists fetch artifacts as JSON files under the
// workspace runs directory.
package runstore

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ChristoGH/url-miner/internal/domain"
	"github.com/ChristoGH/url-miner/internal/ports"
)

const (
	defaultRunsDir = "runs"
	indexFile      = "index.jsonl"
	maskValue      = "********"
	stampLayout    = "20060102T150405Z"
)

type JSONStore struct {
	rootDir        string
	runsDirName    string
	maskingEnabled bool
	writeIndex     bool
	now            func() time.Time
}

type Option func(*JSONStore)

// WithIndex toggles the JSONL index: runs/index.jsonl
func WithIndex(enabled bool) Option {
	return func(s *JSONStore) { s.writeIndex = enabled }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *JSONStore) { s.now = now }
}

func NewJSONStore(root string, cfg domain.Config, opts ...Option) *JSONStore {
	runsDir := cfg.Paths.RunsDir
	if strings.TrimSpace(runsDir) == "" {
		runsDir = defaultRunsDir
	}

	s := &JSONStore{
		rootDir:        root,
		runsDirName:    runsDir,
		maskingEnabled: cfg.Masking.Enabled,
		writeIndex:     true,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.ArtifactStore = (*JSONStore)(nil)

func (s *JSONStore) dir() string {
	return filepath.Join(s.rootDir, s.runsDirName)
}

func (s *JSONStore) SaveRun(run domain.FetchArtifact) (string, error) {
	dir := s.dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &domain.OpError{
			Op:   "runstore.mkdir",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	ts := run.StartedAt
	if ts.IsZero() {
		ts = s.now()
	}
	ts = ts.UTC()

	toSave := run
	if toSave.StartedAt.IsZero() {
		toSave.StartedAt = ts
	}

	feedPart := run.FeedName
	if strings.TrimSpace(feedPart) == "" {
		feedPart = strings.TrimSuffix(filepath.Base(run.FeedPath), filepath.Ext(run.FeedPath))
	}
	slug := slugify(feedPart)
	if slug == "" {
		slug = "run"
	}

	filename := fmt.Sprintf("%s_%s.json", ts.Format(stampLayout), slug)
	path := filepath.Join(dir, filename)

	// Two runs of the same feed within a second collide; bump a suffix.
	for n := 2; ; n++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		filename = fmt.Sprintf("%s_%s_%d.json", ts.Format(stampLayout), slug, n)
		path = filepath.Join(dir, filename)
	}

	id := toSave.RunID
	if id == "" {
		id = strings.TrimSuffix(filename, ".json")
		toSave.RunID = id
	}

	if s.maskingEnabled {
		toSave = maskArtifact(toSave)
	}

	b, err := json.MarshalIndent(toSave, "", "  ")
	if err != nil {
		return "", &domain.OpError{
			Op:   "runstore.marshal",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	// Atomic-ish write: tmp then rename.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return "", &domain.OpError{
			Op:   "runstore.write",
			Kind: domain.KindExecution,
			Path: tmp,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", &domain.OpError{
			Op:   "runstore.rename",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	if s.writeIndex {
		_ = s.appendIndex(dir, filename, toSave, ts)
	}

	return id, nil
}

// ListRuns returns saved runs, newest first. A zero or negative limit
// returns everything. The index is the fast path; without one the runs
// directory is scanned and each artifact decoded.
func (s *JSONStore) ListRuns(limit int) ([]domain.RunSummary, error) {
	dir := s.dir()

	entries, err := readIndex(filepath.Join(dir, indexFile))
	if err != nil {
		return nil, &domain.OpError{
			Op:   "runstore.list",
			Kind: domain.KindExecution,
			Path: filepath.Join(dir, indexFile),
			Err:  err,
		}
	}

	var out []domain.RunSummary
	if entries == nil {
		out, err = scanRuns(dir)
		if err != nil {
			return nil, err
		}
	} else {
		out = make([]domain.RunSummary, 0, len(entries))
		for _, e := range entries {
			out = append(out, e.summary(dir))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].SavedAt.Equal(out[j].SavedAt) {
			return out[i].SavedAt.After(out[j].SavedAt)
		}
		return out[i].Path > out[j].Path
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// LoadRun reads one artifact back by run id, filename stem, or an
// unambiguous prefix of either.
func (s *JSONStore) LoadRun(id string) (domain.FetchArtifact, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.FetchArtifact{}, &domain.OpError{
			Op:   "runstore.load",
			Kind: domain.KindNotFound,
			Err:  errors.New("empty run id"),
		}
	}

	sums, err := s.ListRuns(0)
	if err != nil {
		return domain.FetchArtifact{}, err
	}

	var matches []domain.RunSummary
	for _, sum := range sums {
		stem := strings.TrimSuffix(filepath.Base(sum.Path), ".json")
		if sum.RunID == id || stem == id {
			matches = []domain.RunSummary{sum}
			break
		}
		if strings.HasPrefix(sum.RunID, id) || strings.HasPrefix(stem, id) {
			matches = append(matches, sum)
		}
	}

	switch len(matches) {
	case 0:
		return domain.FetchArtifact{}, &domain.OpError{
			Op:   "runstore.load",
			Kind: domain.KindNotFound,
			Err:  fmt.Errorf("no run matches %q", id),
		}
	case 1:
		return loadArtifact(matches[0].Path)
	default:
		return domain.FetchArtifact{}, &domain.OpError{
			Op:   "runstore.load",
			Kind: domain.KindExecution,
			Err:  fmt.Errorf("run id %q is ambiguous (%d matches)", id, len(matches)),
		}
	}
}

func loadArtifact(path string) (domain.FetchArtifact, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.FetchArtifact{}, &domain.OpError{
			Op:   "runstore.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var run domain.FetchArtifact
	if err := json.Unmarshal(b, &run); err != nil {
		return domain.FetchArtifact{}, &domain.OpError{
			Op:   "runstore.load",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}
	return run, nil
}

type indexEntry struct {
	ID           string    `json:"id"`
	File         string    `json:"file"`
	Feed         string    `json:"feed"`
	SavedAt      time.Time `json:"saved_at"`
	Kept         int       `json:"kept"`
	TotalResults int       `json:"total_results"`
	ErrorKind    string    `json:"error_kind,omitempty"`
}

func (e indexEntry) summary(dir string) domain.RunSummary {
	return domain.RunSummary{
		RunID:        e.ID,
		FeedName:     e.Feed,
		SavedAt:      e.SavedAt,
		Path:         filepath.Join(dir, e.File),
		Kept:         e.Kept,
		TotalResults: e.TotalResults,
		ErrorKind:    e.ErrorKind,
	}
}

func (s *JSONStore) appendIndex(dir, filename string, run domain.FetchArtifact, ts time.Time) error {
	line, err := json.Marshal(indexEntry{
		ID:           run.RunID,
		File:         filename,
		Feed:         run.FeedName,
		SavedAt:      ts,
		Kept:         run.Stats.Kept,
		TotalResults: run.TotalResults,
		ErrorKind:    fetchErrorKind(run.Error),
	})
	if err != nil {
		return err
	}

	indexPath := filepath.Join(dir, indexFile)
	f, err := os.OpenFile(indexPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, _ = f.Write(append(line, '\n'))
	return nil
}

// readIndex returns nil (no error) when the index file does not exist.
// Malformed lines are skipped so a damaged index degrades, not fails.
func readIndex(path string) ([]indexEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	entries := []indexEntry{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var e indexEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func scanRuns(dir string) ([]domain.RunSummary, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.RunSummary{}, nil
		}
		return nil, &domain.OpError{
			Op:   "runstore.list",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	out := []domain.RunSummary{}
	for _, de := range des {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, de.Name())
		run, err := loadArtifact(path)
		if err != nil {
			continue
		}

		id := run.RunID
		if id == "" {
			id = strings.TrimSuffix(de.Name(), ".json")
		}
		out = append(out, domain.RunSummary{
			RunID:        id,
			FeedName:     run.FeedName,
			SavedAt:      run.StartedAt,
			Path:         path,
			Kept:         run.Stats.Kept,
			TotalResults: run.TotalResults,
			ErrorKind:    fetchErrorKind(run.Error),
		})
	}
	return out, nil
}

func fetchErrorKind(fe *domain.FetchError) string {
	if fe == nil {
		return ""
	}
	return string(fe.Kind)
}

// maskArtifact returns a masked copy (does NOT mutate the input).
func maskArtifact(run domain.FetchArtifact) domain.FetchArtifact {
	out := run
	out.Articles = make([]domain.Article, 0, len(run.Articles))

	for _, a := range run.Articles {
		c := a
		c.Meta = cloneVars(a.Meta)
		for k := range c.Meta {
			if isSensitiveKey(k) {
				c.Meta[k] = maskValue
			}
		}
		out.Articles = append(out.Articles, c)
	}

	return out
}

func isSensitiveKey(k string) bool {
	kk := strings.ToLower(k)
	return strings.Contains(kk, "token") ||
		strings.Contains(kk, "secret") ||
		strings.Contains(kk, "password") ||
		strings.Contains(kk, "apikey") ||
		strings.Contains(kk, "api-key") ||
		strings.Contains(kk, "api_key")
}

func cloneVars(in domain.Vars) domain.Vars {
	if in == nil {
		return domain.Vars{}
	}
	out := domain.Vars{}
	for k, v := range in {
		out[k] = v
	}
	return out
}

// slugify produces a safe filename component.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))

	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
			lastDash = false
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}
