// Package envfile resolves the NewsAPI key from the process environment
// or the workspace .env file.
package envfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ChristoGH/url-miner/internal/domain"
	"github.com/ChristoGH/url-miner/internal/ports"
)

// KeyVar is the environment variable holding the NewsAPI key.
const KeyVar = "NEWS_API_KEY"

type Source struct {
	rootDir  string
	fileName string
}

type Option func(*Source)

// WithFileName overrides the dotenv file name, mainly for tests.
func WithFileName(name string) Option {
	return func(s *Source) { s.fileName = name }
}

func NewSource(root string, opts ...Option) *Source {
	s := &Source{
		rootDir:  root,
		fileName: ".env",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.CredentialSource = (*Source)(nil)

// APIKey returns the NewsAPI key. The process environment wins over the
// dotenv file so CI and one-off overrides behave as expected.
func (s *Source) APIKey() (string, error) {
	if v := strings.TrimSpace(os.Getenv(KeyVar)); v != "" {
		return v, nil
	}

	path := filepath.Join(s.rootDir, s.fileName)
	vars, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", s.missingKey(path)
		}
		return "", &domain.OpError{
			Op:   "envfile.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	if v := strings.TrimSpace(vars[KeyVar]); v != "" {
		return v, nil
	}
	return "", s.missingKey(path)
}

func (s *Source) missingKey(path string) error {
	return &domain.OpError{
		Op:   "envfile.load",
		Kind: domain.KindMissingCredentials,
		Path: path,
		Err:  fmt.Errorf("%s is not set; export it or add it to %s: %w", KeyVar, s.fileName, domain.ErrMissingCredentials),
	}
}
