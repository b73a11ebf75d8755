package fsworkspace

import "embed"

// all: so dotfiles like .env.example are embedded too.
//
//go:embed all:templates
var templatesFS embed.FS
