//go:build tools
// +build tools

// Package tools tracks tool dependencies for the project.
// These are not imported by the miner itself but we want go.mod to pin them
// so every checkout runs the same tool revisions.
// Note: golangci-lint is installed as a binary, per upstream recommendation.
package tools

import (
	_ "github.com/daixiang0/gci"
	_ "github.com/evilmartians/lefthook"
	_ "github.com/securego/gosec/v2/cmd/gosec"
	_ "golang.org/x/vuln/cmd/govulncheck"
	_ "honnef.co/go/tools/cmd/staticcheck"
	_ "mvdan.cc/gofumpt"
)
