//go:build cgo

package graph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	kuzu "github.com/kuzudb/go-kuzu"
)

// KuzuExporter persists a relationship graph into KuzuDB so sessions can be
// queried with Cypher after the process exits. Requires CGO because the
// go-kuzu driver wraps KuzuDB's C library.
type KuzuExporter struct {
	db   *kuzu.Database
	conn *kuzu.Connection
}

// NewKuzuExporter opens an in-memory KuzuDB instance.
func NewKuzuExporter() (*KuzuExporter, error) {
	return openKuzu(":memory:")
}

// NewKuzuFileExporter opens a file-backed KuzuDB at the given directory
// path. KuzuDB creates the leaf directory itself for new databases.
func NewKuzuFileExporter(dbPath string) (*KuzuExporter, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("kuzu: create parent directory: %w", err)
	}
	return openKuzu(dbPath)
}

func openKuzu(path string) (*KuzuExporter, error) {
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuExporter{db: db, conn: conn}, nil
}

// Close releases the KuzuDB connection and database.
func (e *KuzuExporter) Close() error {
	if e.conn != nil {
		e.conn.Close()
	}
	if e.db != nil {
		e.db.Close()
	}
	return nil
}

// ddlStatements defines the Cypher DDL executed by InitSchema. The node
// table must precede relationship tables.
var ddlStatements = []string{
	`CREATE NODE TABLE IF NOT EXISTS Decl(
		id STRING,
		name STRING,
		type STRING,
		file_path STRING,
		start_line INT64,
		end_line INT64,
		PRIMARY KEY(id)
	)`,
	`CREATE REL TABLE IF NOT EXISTS IMPORTS(FROM Decl TO Decl)`,
	`CREATE REL TABLE IF NOT EXISTS CONTAINS(FROM Decl TO Decl)`,
	`CREATE REL TABLE IF NOT EXISTS CALLS(FROM Decl TO Decl)`,
	`CREATE REL TABLE IF NOT EXISTS INHERITS(FROM Decl TO Decl)`,
	`CREATE REL TABLE IF NOT EXISTS REFERENCES_SYM(FROM Decl TO Decl)`,
	`CREATE REL TABLE IF NOT EXISTS HAS_ATTRIBUTE(FROM Decl TO Decl)`,
}

// InitSchema creates the node and relationship tables if absent.
func (e *KuzuExporter) InitSchema(_ context.Context) error {
	for _, stmt := range ddlStatements {
		res, err := e.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("kuzu: init schema: %w", err)
		}
		res.Close()
	}
	return nil
}

// relTables maps edge types to their relationship table names. REFERENCES
// is a reserved word in Cypher, hence the suffixed table name.
var relTables = map[RelationType]string{
	RelImports:      "IMPORTS",
	RelContains:     "CONTAINS",
	RelCalls:        "CALLS",
	RelInherits:     "INHERITS",
	RelReferences:   "REFERENCES_SYM",
	RelHasAttribute: "HAS_ATTRIBUTE",
}

// Export writes every node and edge of g. The schema is initialized first,
// so Export works on a fresh database.
func (e *KuzuExporter) Export(ctx context.Context, g *Graph) error {
	if err := e.InitSchema(ctx); err != nil {
		return err
	}
	for _, n := range g.Nodes() {
		err := e.exec(
			`MERGE (d:Decl {id: $id})
			 SET d.name = $name, d.type = $type, d.file_path = $fp,
			     d.start_line = $sl, d.end_line = $el`,
			map[string]any{
				"id":   n.ID,
				"name": n.Name,
				"type": string(n.Type),
				"fp":   n.FilePath,
				"sl":   int64(n.Span.StartLine),
				"el":   int64(n.Span.EndLine),
			},
		)
		if err != nil {
			return fmt.Errorf("kuzu: export node %s: %w", n.ID, err)
		}
	}
	for _, edge := range g.Edges() {
		table, ok := relTables[edge.Type]
		if !ok {
			return fmt.Errorf("kuzu: no relationship table for edge type %q", edge.Type)
		}
		cypher := fmt.Sprintf(
			`MATCH (a:Decl {id: $src}), (b:Decl {id: $dst}) CREATE (a)-[:%s]->(b)`,
			table,
		)
		err := e.exec(cypher, map[string]any{"src": edge.SourceID, "dst": edge.TargetID})
		if err != nil {
			return fmt.Errorf("kuzu: export edge %s->%s: %w", edge.SourceID, edge.TargetID, err)
		}
	}
	return nil
}

// Count reads back the persisted node and edge totals, for verifying an
// export against the in-memory graph.
func (e *KuzuExporter) Count(_ context.Context) (nodes, edges int64, err error) {
	nodes, err = e.countQuery(`MATCH (n:Decl) RETURN count(n)`)
	if err != nil {
		return 0, 0, err
	}
	edges, err = e.countQuery(`MATCH (:Decl)-[r]->(:Decl) RETURN count(r)`)
	if err != nil {
		return 0, 0, err
	}
	return nodes, edges, nil
}

func (e *KuzuExporter) countQuery(cypher string) (int64, error) {
	res, err := e.conn.Query(cypher)
	if err != nil {
		return 0, fmt.Errorf("kuzu: count: %w", err)
	}
	defer res.Close()
	if !res.HasNext() {
		return 0, nil
	}
	tuple, err := res.Next()
	if err != nil {
		return 0, fmt.Errorf("kuzu: count row: %w", err)
	}
	defer tuple.Close()
	v, err := tuple.GetValue(0)
	if err != nil {
		return 0, fmt.Errorf("kuzu: count value: %w", err)
	}
	n, ok := v.(int64)
	if !ok {
		return 0, fmt.Errorf("kuzu: unexpected count type %T", v)
	}
	return n, nil
}

// exec runs one parameterized statement and discards the result.
func (e *KuzuExporter) exec(cypher string, params map[string]any) error {
	stmt, err := e.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()
	res, err := e.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("execute: %w", err)
	}
	res.Close()
	return nil
}
