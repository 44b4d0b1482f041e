package configutil

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// ErrNotFound is returned when none of the configuration files exist.
var ErrNotFound = fs.ErrNotExist

// LocalPath returns the override file for a config file,
// "dir/config.json5" becomes "dir/config.local.json5".
func LocalPath(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + ".local" + ext
}

// decodeFile unmarshals `path` into out, found is false when the file does
// not exist or is empty.
func decodeFile(path string, out any) (found bool, err error) {
	contents, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(contents) == 0 {
		return false, nil
	}
	if err := json5.Unmarshal(contents, out); err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}

// ReadConfig reads the json5 file at `name` and merges the values of its
// ".local" sibling on top (non-zero fields win). ErrNotFound is returned only
// when neither file exists.
func ReadConfig[T any](name string) (T, error) {
	var base T
	hasBase, err := decodeFile(name, &base)
	if err != nil {
		return base, err
	}

	var local T
	localPath := LocalPath(name)
	hasLocal, err := decodeFile(localPath, &local)
	if err != nil {
		return base, err
	}

	switch {
	case hasLocal:
		if err := mergo.Merge(&base, local, mergo.WithOverride); err != nil {
			return base, fmt.Errorf("merge %s: %w", localPath, err)
		}
		slog.Debug("applied local config overrides", "path", localPath)
	case !hasBase:
		return base, ErrNotFound
	}
	return base, nil
}

// ReadFrom looks for `name` in `dir` and then in each parent directory,
// returning the first config that exists.
func ReadFrom[T any](dir, name string) (T, error) {
	for {
		cfg, err := ReadConfig[T](filepath.Join(dir, name))
		if !errors.Is(err, ErrNotFound) {
			return cfg, err
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			var zero T
			return zero, ErrNotFound
		}
		dir = parent
	}
}

// ReadRecursively is ReadFrom starting at the working directory.
func ReadRecursively[T any](name string) (T, error) {
	cwd, err := os.Getwd()
	if err != nil {
		var zero T
		return zero, err
	}
	return ReadFrom[T](cwd, name)
}
