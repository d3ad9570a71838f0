package hero

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Frontmatter delimiters.
var (
	yamlDelimiter = []byte("---")
	tomlDelimiter = []byte("+++")
)

// splitFrontmatter detects and separates frontmatter from raw content bytes.
// It supports YAML (--- delimiters) and TOML (+++ delimiters) and returns
// the format ("yaml", "toml" or "" when there is none), the frontmatter
// bytes, and the remaining body.
func splitFrontmatter(raw []byte) (format string, front, body []byte, err error) {
	trimmed := bytes.TrimLeft(raw, " \t\n\r")

	var delimiter []byte
	switch {
	case bytes.HasPrefix(trimmed, yamlDelimiter):
		delimiter = yamlDelimiter
		format = "yaml"
	case bytes.HasPrefix(trimmed, tomlDelimiter):
		delimiter = tomlDelimiter
		format = "toml"
	default:
		return "", nil, raw, nil
	}

	rest := trimmed[len(delimiter):]
	nlIdx := bytes.IndexByte(rest, '\n')
	if nlIdx == -1 {
		// Only the opening delimiter, no closing one.
		return "", nil, raw, nil
	}
	rest = rest[nlIdx+1:]

	before, after, ok := bytes.Cut(rest, delimiter)
	if !ok {
		return "", nil, raw, fmt.Errorf("closing frontmatter delimiter %q not found", string(delimiter))
	}

	nlIdx = bytes.IndexByte(after, '\n')
	if nlIdx != -1 {
		body = after[nlIdx+1:]
	}
	return format, before, body, nil
}

// articleMeta is the part of an article's frontmatter herogen reads.
type articleMeta struct {
	Title       string      `yaml:"title"       toml:"title"`
	Slug        string      `yaml:"slug"        toml:"slug"`
	Summary     string      `yaml:"summary"     toml:"summary"`
	Description string      `yaml:"description" toml:"description"`
	Hero        *Definition `yaml:"hero"        toml:"hero"`
}

func decodeFrontmatter(format string, front []byte) (*articleMeta, error) {
	meta := &articleMeta{}
	if len(bytes.TrimSpace(front)) == 0 {
		return meta, nil
	}
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(front, meta); err != nil {
			return nil, fmt.Errorf("failed to parse YAML frontmatter: %w", err)
		}
	case "toml":
		if _, err := toml.Decode(string(front), meta); err != nil {
			return nil, fmt.Errorf("failed to parse TOML frontmatter: %w", err)
		}
	}
	return meta, nil
}
