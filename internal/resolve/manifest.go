package resolve

import (
	"encoding/json"
	"fmt"
	"path/filepath"
)

// Manifest is the subset of package.json the analyzer reads.
type Manifest struct {
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	Main             string            `json:"main"`
	Types            string            `json:"types"`
	Module           string            `json:"module"`
	Dependencies     map[string]string `json:"dependencies"`
	DevDependencies  map[string]string `json:"devDependencies"`
	PeerDependencies map[string]string `json:"peerDependencies"`
	Scripts          map[string]string `json:"scripts"`
}

// ReadManifest loads package.json from a directory.
func ReadManifest(fsys FS, dir string) (*Manifest, error) {
	if fsys == nil {
		fsys = OSFS{}
	}
	data, err := fsys.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return nil, fmt.Errorf("read manifest in %s: %w", dir, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest in %s: %w", dir, err)
	}
	return &m, nil
}

// AllDependencies merges runtime, dev and peer dependencies into one map.
// Runtime entries win on name collisions.
func (m *Manifest) AllDependencies() map[string]string {
	out := make(map[string]string)
	for k, v := range m.PeerDependencies {
		out[k] = v
	}
	for k, v := range m.DevDependencies {
		out[k] = v
	}
	for k, v := range m.Dependencies {
		out[k] = v
	}
	return out
}

// lockfiles maps lockfile names to their package manager, in probe order.
var lockfiles = []struct {
	file    string
	manager string
}{
	{"pnpm-lock.yaml", "pnpm"},
	{"yarn.lock", "yarn"},
	{"bun.lockb", "bun"},
	{"package-lock.json", "npm"},
}

// DetectPackageManager infers the package manager from lockfiles in the
// project root, defaulting to npm.
func DetectPackageManager(fsys FS, root string) string {
	if fsys == nil {
		fsys = OSFS{}
	}
	for _, lf := range lockfiles {
		if info, err := fsys.Stat(filepath.Join(root, lf.file)); err == nil && info.Mode().IsRegular() {
			return lf.manager
		}
	}
	return "npm"
}
