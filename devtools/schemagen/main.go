// Command schemagen writes JSON Schemas for the workspace config and for
// feed files, so editors can validate url-miner.yaml and feeds/*.yaml.
//
// Run from the repository root: go run ./devtools/schemagen
package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/invopop/jsonschema"

	"github.com/ChristoGH/url-miner/internal/infra/config"
	"github.com/ChristoGH/url-miner/internal/infra/yamlfeed"
)

func main() {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	write(r, &config.YAMLConfig{},
		"url-miner Configuration",
		"Schema for url-miner.yaml, the workspace configuration and root marker.",
		"url-miner.schema.json",
	)

	write(r, &yamlfeed.YAMLFeed{},
		"url-miner Feed",
		"Schema for feed files under feeds/: query template, vars, window, screening and extraction rules.",
		"url-miner-feed.schema.json",
	)
}

func write(r *jsonschema.Reflector, v any, title, desc, path string) {
	schema := r.Reflect(v)
	schema.Title = title
	schema.Description = desc

	// Workspace files lean on url-miner's own defaults; nothing is required
	// at the schema level except what the loader enforces.
	schema.Required = nil

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		log.Fatalf("marshal schema %s: %v", path, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatalf("write schema %s: %v", path, err)
	}

	log.Printf("wrote %s", path)
}
