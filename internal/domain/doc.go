// Package domain holds the core model for url-miner: feeds, articles,
// fetch runs and the error taxonomy they share.
//
// The package depends on the standard library only. YAML parsing, HTTP
// and the filesystem live in infra adapters that map into these types.
package domain
