// Package symgraph analyzes multi-language source trees into a typed
// relationship graph and answers queries over it: symbol context, cross-file
// references, dependency graphs, circular dependencies and unused exports.
package symgraph

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/symgraph/symgraph/internal/contextmap"
	"github.com/symgraph/symgraph/internal/deps"
	"github.com/symgraph/symgraph/internal/export"
	"github.com/symgraph/symgraph/internal/graph"
	"github.com/symgraph/symgraph/internal/resolve"
	"github.com/symgraph/symgraph/internal/symbols"
	"github.com/symgraph/symgraph/internal/syntax"
)

// Config configures a Session.
type Config struct {
	// Root is the project root used for package import resolution.
	Root string
	// Extensions overrides the resolver's probe list.
	Extensions []string
	// Workers bounds parallel parsing in AnalyzeDirectory. Zero means
	// GOMAXPROCS.
	Workers int
	// FS overrides the filesystem, mainly for tests.
	FS resolve.FS
	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// AnalysisResult is the per-file outcome of analysis. File-level failures
// (unreadable file, unsupported language, parse errors) are captured here so
// batch analysis continues past them.
type AnalysisResult struct {
	File         string                  `json:"file"`
	Language     syntax.Language         `json:"language,omitempty"`
	HasErrors    bool                    `json:"hasErrors"`
	ErrorDetails []syntax.ParseError     `json:"errorDetails,omitempty"`
	Failed       bool                    `json:"failed,omitempty"`
	Symbols      []*symbols.Symbol       `json:"symbols,omitempty"`
	Redeclared   []symbols.Redeclaration `json:"redeclared,omitempty"`
}

// Session owns one analysis run: the parser registry, resolver caches,
// relationship graph and per-file results. Sessions are independent;
// analyzing two projects concurrently in one process needs two sessions.
// Parsing runs in parallel, graph mutation is serialized on one writer.
type Session struct {
	cfg      Config
	log      *slog.Logger
	fsys     resolve.FS
	registry *syntax.Registry
	resolver *resolve.Resolver
	extract  *symbols.Extractor
	graph    *graph.Graph
	builder  *graph.Builder
	mapper   *contextmap.Mapper
	analyzer *deps.Analyzer

	mu      sync.Mutex
	results map[string]*AnalysisResult
	order   []string
}

// NewSession builds a Session from the config.
func NewSession(cfg Config) *Session {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	fsys := cfg.FS
	if fsys == nil {
		fsys = resolve.OSFS{}
	}
	resolver := resolve.NewResolver(fsys, resolve.Options{
		Root:       cfg.Root,
		Extensions: cfg.Extensions,
	}, log)
	g := graph.New()

	s := &Session{
		cfg:      cfg,
		log:      log,
		fsys:     fsys,
		registry: syntax.NewRegistry(),
		resolver: resolver,
		extract:  symbols.NewExtractor(log),
		graph:    g,
		builder:  graph.NewBuilder(g, resolver.Resolve, log),
		mapper:   contextmap.NewMapper(g, resolver),
		analyzer: deps.NewAnalyzer(resolver, log),
		results:  make(map[string]*AnalysisResult),
	}
	return s
}

// AnalyzeFile analyzes one file. A nil content reads the file from disk.
// The returned result captures parse and I/O failures; the error return is
// reserved for context cancellation.
func (s *Session) AnalyzeFile(ctx context.Context, path string, content []byte) (*AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	outcome := s.analyzeOne(ctx, path, content)
	if err := s.ingest(outcome); err != nil {
		return nil, err
	}
	return outcome.result, nil
}

// fileOutcome carries one file's parse/extract output to the writer.
type fileOutcome struct {
	result *AnalysisResult
	table  *symbols.Table
	refs   *symbols.ReferenceList
	tree   *syntax.Tree
}

// analyzeOne parses and extracts without touching shared state, so it can
// run concurrently.
func (s *Session) analyzeOne(ctx context.Context, path string, content []byte) *fileOutcome {
	real, err := s.fsys.Realpath(path)
	if err != nil {
		real = path
	}
	result := &AnalysisResult{File: real}
	outcome := &fileOutcome{result: result}

	parser, err := s.registry.ForFile(real)
	if err != nil {
		s.log.Warn("unsupported file", "file", path, "error", err)
		result.Failed = true
		result.HasErrors = true
		result.ErrorDetails = append(result.ErrorDetails, syntax.ParseError{Message: err.Error()})
		return outcome
	}
	result.Language = parser.Language()

	if content == nil {
		content, err = s.fsys.ReadFile(real)
		if err != nil {
			s.log.Warn("unreadable file", "file", path, "error", err)
			result.Failed = true
			result.HasErrors = true
			result.ErrorDetails = append(result.ErrorDetails, syntax.ParseError{Message: err.Error()})
			return outcome
		}
	}

	tree, err := parser.Parse(ctx, content)
	if err != nil {
		result.Failed = true
		result.HasErrors = true
		result.ErrorDetails = append(result.ErrorDetails, syntax.ParseError{Message: err.Error()})
		return outcome
	}

	result.HasErrors = tree.HasErrors
	result.ErrorDetails = tree.ErrorDetails

	table, refs := s.extract.Extract(tree)
	result.Symbols = table.All()
	result.Redeclared = table.Redeclarations

	outcome.tree = tree
	outcome.table = table
	outcome.refs = refs
	return outcome
}

// ingest applies one outcome to the shared graph and caches. Serialized on
// the session mutex: the single-writer phase. A builder error here is a
// structural graph violation, not a per-file parse failure, so it aborts.
func (s *Session) ingest(o *fileOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.results[o.result.File]; !ok {
		s.order = append(s.order, o.result.File)
	}
	s.results[o.result.File] = o.result

	if o.table == nil {
		return nil
	}
	if _, err := s.builder.IngestFile(o.result.File, o.table, o.refs); err != nil {
		return fmt.Errorf("ingest %s: %w", o.result.File, err)
	}

	var features *syntax.FeatureSet
	if o.tree != nil {
		features = o.tree.Features
	}
	s.mapper.AddFile(&contextmap.FileAnalysis{
		File:     o.result.File,
		Language: o.result.Language,
		Table:    o.table,
		Refs:     o.refs,
		Features: features,
	})
	return nil
}

// skipDirs are directory names AnalyzeDirectory never descends into.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"build":        true,
	"vendor":       true,
	"__pycache__":  true,
}

// AnalyzeDirectory walks a directory tree and analyzes every supported
// file. Files parse in parallel; graph ingestion is drained by a single
// writer. One file's failure never aborts the batch.
func (s *Session) AnalyzeDirectory(ctx context.Context, dir string) ([]*AnalysisResult, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.log.Warn("walk error", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			if skipDirs[d.Name()] || (strings.HasPrefix(d.Name(), ".") && path != dir) {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := syntax.LanguageForFile(path); ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	outcomes := make(chan *fileOutcome, workers)
	writerDone := make(chan struct{})
	var results []*AnalysisResult
	var ingestErr error
	go func() {
		defer close(writerDone)
		for o := range outcomes {
			if err := s.ingest(o); err != nil {
				if ingestErr == nil {
					ingestErr = err
				}
				continue
			}
			results = append(results, o.result)
		}
	}()

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for _, file := range files {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			outcomes <- s.analyzeOne(egCtx, file, nil)
			return nil
		})
	}
	waitErr := eg.Wait()
	close(outcomes)
	<-writerDone
	if waitErr != nil {
		return nil, waitErr
	}
	if ingestErr != nil {
		return nil, ingestErr
	}

	sort.Slice(results, func(i, j int) bool { return results[i].File < results[j].File })
	return results, nil
}

// Results returns all per-file results in analysis order.
func (s *Session) Results() []*AnalysisResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*AnalysisResult, 0, len(s.order))
	for _, f := range s.order {
		out = append(out, s.results[f])
	}
	return out
}

// Result returns one file's result, or nil.
func (s *Session) Result(file string) *AnalysisResult {
	real, err := s.fsys.Realpath(file)
	if err != nil {
		real = file
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results[real]
}

// Graph exposes the relationship graph for export and inspection.
func (s *Session) Graph() *graph.Graph {
	return s.graph
}

// Relationships returns graph relationships touching a file, optionally
// filtered by symbol name.
func (s *Session) Relationships(file, symbol string) []contextmap.Relationship {
	return s.mapper.Relationships(s.canonical(file), symbol)
}

// SymbolContext returns one symbol's declaration context in a file.
func (s *Session) SymbolContext(file, symbol string) (*contextmap.Context, bool) {
	return s.mapper.SymbolContext(s.canonical(file), symbol)
}

// SymbolUsage classifies a symbol's use sites in a file.
func (s *Session) SymbolUsage(file, symbol string) []contextmap.Usage {
	return s.mapper.SymbolUsage(s.canonical(file), symbol)
}

// CrossFileReferences returns a file's outgoing imports and the imports of
// other analyzed files that resolve to it.
func (s *Session) CrossFileReferences(file string) *contextmap.CrossFileRefs {
	return s.mapper.CrossFileReferences(s.canonical(file))
}

// ModuleGraph assembles the file-level dependency view of all analyzed
// files.
func (s *Session) ModuleGraph() *contextmap.GraphView {
	return s.mapper.DependencyGraph()
}

// SymbolGraph assembles one file's declaration graph view.
func (s *Session) SymbolGraph(file string) *contextmap.GraphView {
	return s.mapper.SymbolGraph(s.canonical(file))
}

// DependencyGraph builds the resolver-backed file dependency graph from all
// analyzed files as entry points.
func (s *Session) DependencyGraph() *deps.Graph {
	return s.analyzer.BuildDependencyGraph(s.analyzedFiles())
}

// FindCircularDependencies reports import cycles among analyzed files.
func (s *Session) FindCircularDependencies() [][]string {
	g := s.DependencyGraph()
	return s.analyzer.FindCircularDependencies(g)
}

// FindUnusedExports reports exports no other analyzed file imports.
func (s *Session) FindUnusedExports() []deps.UnusedExport {
	files := make(map[string]*syntax.FeatureSet)
	for _, f := range s.analyzedFiles() {
		if fa := s.mapper.File(f); fa != nil {
			files[f] = fa.Features
		}
	}
	return deps.FindUnusedExports(files)
}

// ModuleStats summarizes one file's dependency posture.
func (s *Session) ModuleStats(file string) deps.ModuleStats {
	real := s.canonical(file)
	var features *syntax.FeatureSet
	if fa := s.mapper.File(real); fa != nil {
		features = fa.Features
	}
	return s.analyzer.Stats(real, features)
}

// AssessImpact computes which analyzed files are affected by changing the
// given ones.
func (s *Session) AssessImpact(changedFiles []string) *deps.ImpactResult {
	canonical := make([]string, len(changedFiles))
	for i, f := range changedFiles {
		canonical[i] = s.canonical(f)
	}
	return deps.AssessImpact(s.DependencyGraph(), canonical)
}

// Report assembles the exportable session summary.
func (s *Session) Report() *export.Report {
	report := export.NewReport(s.cfg.Root)
	if s.cfg.Root != "" {
		report.PackageManager = resolve.DetectPackageManager(s.fsys, s.cfg.Root)
	}
	for _, r := range s.Results() {
		report.Files = append(report.Files, export.FileReport{
			File:         r.File,
			Language:     r.Language,
			HasErrors:    r.HasErrors,
			ErrorDetails: r.ErrorDetails,
			SymbolCount:  len(r.Symbols),
		})
	}
	report.Graph = s.graph.Stats()
	depGraph := s.DependencyGraph()
	report.Cycles = s.analyzer.FindCircularDependencies(depGraph)
	report.Modules = deps.Overview(depGraph, report.Cycles)
	report.UnusedExports = s.FindUnusedExports()
	report.Unresolved = depGraph.Unresolved
	return report
}

// Clear drops all accumulated analysis state, keeping configuration.
func (s *Session) Clear() {
	s.mu.Lock()
	s.results = make(map[string]*AnalysisResult)
	s.order = nil
	s.mu.Unlock()
	s.graph.Clear()
	s.mapper.Clear()
	s.resolver.Reset()
}

func (s *Session) analyzedFiles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Session) canonical(path string) string {
	real, err := s.fsys.Realpath(path)
	if err != nil {
		return path
	}
	return real
}
