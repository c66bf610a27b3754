package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/visionspec/visionspec/pkg/errors"
)

// EnvFile names the environment variable that overrides catalog resolution.
const EnvFile = "BASE_TVS_FILE"

// FileName is the catalog file name searched for in the fallback locations.
const FileName = "base_tvs.json"

// containerPath is the last fallback, used by the container image.
const containerPath = "/app/data/" + FileName

// tomlFile is the on-disk shape of a TOML catalog: an array of [[tv]] tables.
type tomlFile struct {
	TV []SizeEntry `toml:"tv"`
}

// Resolve returns the path of the catalog file.
//
// When BASE_TVS_FILE is set its value is returned as-is, even if the file does
// not exist, so that the subsequent load error names the configured path.
// Otherwise the first existing file among these wins:
//
//	./data/base_tvs.json
//	<executable dir>/data/base_tvs.json
//	<executable dir>/../data/base_tvs.json
//	/app/data/base_tvs.json
func Resolve() (string, error) {
	if p := os.Getenv(EnvFile); p != "" {
		return p, nil
	}
	candidates := searchPaths()
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", errors.New(errors.ErrCodeConfiguration,
		"catalog file not found (set %s or place %s in one of: %s)", EnvFile, FileName, strings.Join(candidates, ", "))
}

func searchPaths() []string {
	paths := []string{filepath.Join("data", FileName)}
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(dir, "data", FileName),
			filepath.Join(dir, "..", "data", FileName),
		)
	}
	return append(paths, containerPath)
}

// Load reads and validates the catalog at path. Files ending in .toml are
// parsed as an array of [[tv]] tables; everything else as a JSON array.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "read catalog %s", path)
	}

	entries, err := decode(path, data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "parse catalog %s", path)
	}

	cat, err := newCatalog(entries, path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "invalid catalog %s", path)
	}
	return cat, nil
}

func decode(path string, data []byte) ([]SizeEntry, error) {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		var f tomlFile
		if _, err := toml.Decode(string(data), &f); err != nil {
			return nil, err
		}
		return f.TV, nil
	}

	var entries []SizeEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// LoadDefault resolves the catalog location and loads it.
func LoadDefault() (*Catalog, error) {
	path, err := Resolve()
	if err != nil {
		return nil, err
	}
	return Load(path)
}
