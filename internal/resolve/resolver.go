// Package resolve maps import specifiers to concrete files following
// Node.js-style resolution order, with per-session caching.
package resolve

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// FS is the filesystem surface the resolver probes. The seam exists so tests
// can count probes and run against in-memory layouts.
type FS interface {
	Stat(path string) (fs.FileInfo, error)
	ReadFile(path string) ([]byte, error)
	Realpath(path string) (string, error)
}

// OSFS is the operating-system backed FS.
type OSFS struct{}

func (OSFS) Stat(path string) (fs.FileInfo, error) { return os.Stat(path) }

func (OSFS) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

// Realpath canonicalizes through symlinks; paths that do not exist yet fall
// back to lexical absolutization.
func (OSFS) Realpath(path string) (string, error) {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved, nil
	}
	return filepath.Abs(path)
}

// DefaultExtensions is the probe order for extensionless relative imports.
var DefaultExtensions = []string{".js", ".jsx", ".ts", ".tsx"}

// Options configures a Resolver.
type Options struct {
	// Root is the project root; package imports are looked up under
	// Root/ModulesDir.
	Root string
	// Extensions is the ordered extension probe list. Empty means
	// DefaultExtensions.
	Extensions []string
	// ModulesDir defaults to "node_modules".
	ModulesDir string
}

type cacheKey struct {
	specifier string
	fromFile  string
}

type cacheEntry struct {
	path string
	ok   bool
}

// Resolver resolves import specifiers against the filesystem. Every result,
// including failures, is cached by (specifier, importing-file realpath) for
// the resolver's lifetime; a repeated resolution of the same pair never
// touches the filesystem again. Safe for concurrent use.
type Resolver struct {
	fs   FS
	opts Options
	log  *slog.Logger

	mu    sync.Mutex
	cache map[cacheKey]cacheEntry
	memo  map[string]*directRecord
}

// NewResolver returns a Resolver over the given filesystem. A nil fsys uses
// the OS filesystem; a nil logger uses the default.
func NewResolver(fsys FS, opts Options, log *slog.Logger) *Resolver {
	if fsys == nil {
		fsys = OSFS{}
	}
	if log == nil {
		log = slog.Default()
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = DefaultExtensions
	}
	if opts.ModulesDir == "" {
		opts.ModulesDir = "node_modules"
	}
	return &Resolver{
		fs:    fsys,
		opts:  opts,
		log:   log,
		cache: make(map[cacheKey]cacheEntry),
		memo:  make(map[string]*directRecord),
	}
}

// Reset drops the resolution cache and the per-file dependency memo, so
// later lookups see the filesystem's current state.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[cacheKey]cacheEntry)
	r.memo = make(map[string]*directRecord)
}

// Resolve maps an import specifier from the importing file to a concrete
// path. The boolean reports success; failed resolutions are cached too.
func (r *Resolver) Resolve(specifier, fromFile string) (string, bool) {
	realFrom, err := r.fs.Realpath(fromFile)
	if err != nil {
		realFrom = fromFile
	}
	key := cacheKey{specifier: specifier, fromFile: realFrom}

	r.mu.Lock()
	if entry, ok := r.cache[key]; ok {
		r.mu.Unlock()
		return entry.path, entry.ok
	}
	r.mu.Unlock()

	path, ok := r.resolveUncached(specifier, realFrom)

	r.mu.Lock()
	r.cache[key] = cacheEntry{path: path, ok: ok}
	r.mu.Unlock()

	if !ok {
		r.log.Debug("unresolved import", "specifier", specifier, "from", fromFile)
	}
	return path, ok
}

func (r *Resolver) resolveUncached(specifier, realFrom string) (string, bool) {
	if !isRelative(specifier) {
		return r.resolvePackage(specifier)
	}

	base := filepath.Join(filepath.Dir(realFrom), filepath.FromSlash(specifier))
	base = filepath.Clean(base)

	// Verbatim, then each extension, then index files.
	if r.isFile(base) {
		return base, true
	}
	for _, ext := range r.opts.Extensions {
		if candidate := base + ext; r.isFile(candidate) {
			return candidate, true
		}
	}
	for _, ext := range r.opts.Extensions {
		if candidate := filepath.Join(base, "index"+ext); r.isFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// resolvePackage handles bare specifiers: a package directory under the
// modules dir, following the manifest's entry point when one is declared.
func (r *Resolver) resolvePackage(specifier string) (string, bool) {
	pkgDir := filepath.Join(r.opts.Root, r.opts.ModulesDir, filepath.FromSlash(specifier))
	info, err := r.fs.Stat(pkgDir)
	if err != nil || !info.IsDir() {
		return "", false
	}

	manifest, err := ReadManifest(r.fs, pkgDir)
	if err == nil && manifest.Main != "" {
		entry := filepath.Join(pkgDir, filepath.FromSlash(manifest.Main))
		if r.isFile(entry) {
			return entry, true
		}
		for _, ext := range r.opts.Extensions {
			if candidate := entry + ext; r.isFile(candidate) {
				return candidate, true
			}
		}
	}
	return pkgDir, true
}

func (r *Resolver) isFile(path string) bool {
	info, err := r.fs.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isRelative(specifier string) bool {
	return len(specifier) > 0 && specifier[0] == '.'
}
