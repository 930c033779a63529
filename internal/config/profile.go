package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/goccy/go-yaml"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// Profile is a reusable search definition loaded from YAML, for runs that
// outgrow one-off flags.
type Profile struct {
	Metadata ProfileMetadata `yaml:"metadata"`
	Search   ProfileSearch   `yaml:"search"`
	Output   ProfileOutput   `yaml:"output"`
}

// ProfileMetadata identifies a profile.
type ProfileMetadata struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// ProfileSearch defines what to search and how hard.
type ProfileSearch struct {
	Term        string   `yaml:"term"`
	TLDs        []string `yaml:"tlds"`
	SkipRDAP    bool     `yaml:"skip_rdap"`
	Concurrency int      `yaml:"concurrency"`
	RateLimit   int      `yaml:"rate_limit"`
}

// ProfileOutput defines where results go.
type ProfileOutput struct {
	File   string `yaml:"file"`
	Format string `yaml:"format"`
	Filter string `yaml:"filter"`
}

// profileSchema validates profile structure before the typed decode ever
// sees it, so error messages point at the offending field.
const profileSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["metadata", "search"],
  "properties": {
    "metadata": {
      "type": "object",
      "required": ["name", "version"],
      "properties": {
        "name": {"type": "string", "minLength": 1},
        "version": {"type": "string", "minLength": 1}
      },
      "additionalProperties": false
    },
    "search": {
      "type": "object",
      "required": ["term"],
      "properties": {
        "term": {"type": "string", "minLength": 1},
        "tlds": {"type": "array", "items": {"type": "string", "minLength": 1}},
        "skip_rdap": {"type": "boolean"},
        "concurrency": {"type": "integer", "minimum": 1},
        "rate_limit": {"type": "integer", "minimum": 1}
      },
      "additionalProperties": false
    },
    "output": {
      "type": "object",
      "properties": {
        "file": {"type": "string"},
        "format": {"type": "string", "enum": ["table", "json", "jsonl", "csv", "yaml"]},
        "filter": {"type": "string"}
      },
      "additionalProperties": false
    }
  },
  "additionalProperties": false
}`

// LoadProfile loads and validates a profile from a YAML file.
func LoadProfile(path string) (*Profile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open profile: %w", err)
	}
	defer file.Close()

	return LoadProfileFromReader(file)
}

// LoadProfileFromReader loads and validates a profile from an io.Reader.
// Useful for testing with in-memory YAML.
func LoadProfileFromReader(r io.Reader) (*Profile, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	var profile Profile
	if err := yaml.UnmarshalWithOptions(raw, &profile, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}

	if _, err := semver.NewVersion(profile.Metadata.Version); err != nil {
		return nil, fmt.Errorf("profile version %q is not valid semver: %w", profile.Metadata.Version, err)
	}

	return &profile, nil
}

func validateSchema(raw []byte) error {
	schema, err := jsonschema.CompileString("profile.schema.json", profileSchema)
	if err != nil {
		return fmt.Errorf("compile profile schema: %w", err)
	}

	// The schema library validates decoded JSON values; round-trip the
	// YAML document through JSON to feed it.
	jsonRaw, err := yaml.YAMLToJSON(raw)
	if err != nil {
		return fmt.Errorf("parse profile: %w", err)
	}
	var doc any
	if err := json.Unmarshal(jsonRaw, &doc); err != nil {
		return fmt.Errorf("parse profile: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("profile validation failed: %w", err)
	}
	return nil
}
