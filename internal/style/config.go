package style

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ConfigName is the style file discovered upward from a formatted file.
const ConfigName = "pyfmt.toml"

type fileConfig struct {
	Style styleConfig `toml:"style"`
}

type styleConfig struct {
	BasedOn                  string `toml:"based_on"`
	ColumnLimit              int    `toml:"column_limit"`
	IndentWidth              int    `toml:"indent_width"`
	ContinuationIndent       int    `toml:"continuation_indent"`
	SpacesBeforeComment      int    `toml:"spaces_before_comment"`
	BlankLinesAroundTopLevel int    `toml:"blank_lines_around_top_level"`
	MaxBlankLines            int    `toml:"max_blank_lines"`
}

// FindConfig walks from startDir toward the filesystem root looking for a
// pyfmt.toml. It returns ok=false when none exists.
func FindConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ConfigName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadConfig reads a style file, layers it over its base preset, and
// validates the result.
func LoadConfig(path string) (Options, error) {
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Options{}, fmt.Errorf("failed to parse %q: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Options{}, fmt.Errorf("%q: unknown option %q", path, undecoded[0].String())
	}

	o, err := ByName(cfg.Style.BasedOn)
	if err != nil {
		return Options{}, fmt.Errorf("%q: %w", path, err)
	}
	if cfg.Style.ColumnLimit != 0 {
		o.ColumnLimit = cfg.Style.ColumnLimit
	}
	if cfg.Style.IndentWidth != 0 {
		o.IndentWidth = cfg.Style.IndentWidth
	}
	if cfg.Style.ContinuationIndent != 0 {
		o.ContinuationIndent = cfg.Style.ContinuationIndent
	}
	if cfg.Style.SpacesBeforeComment != 0 {
		o.SpacesBeforeComment = cfg.Style.SpacesBeforeComment
	}
	if cfg.Style.BlankLinesAroundTopLevel != 0 {
		o.BlankLinesAroundTopLevel = cfg.Style.BlankLinesAroundTopLevel
	}
	if cfg.Style.MaxBlankLines != 0 {
		o.MaxBlankLines = cfg.Style.MaxBlankLines
	}

	if err := o.Validate(); err != nil {
		return Options{}, fmt.Errorf("%q: %w", path, err)
	}
	return o, nil
}

// ForFile resolves the style governing a source file: the nearest pyfmt.toml
// above it, or the PEP8 preset when none is found.
func ForFile(path string) (Options, error) {
	cfgPath, ok, err := FindConfig(filepath.Dir(path))
	if err != nil {
		return Options{}, err
	}
	if !ok {
		return PEP8(), nil
	}
	return LoadConfig(cfgPath)
}
