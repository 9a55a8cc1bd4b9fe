package adapter

import (
	"bytes"
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"iter"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/graphwalk/internal/interpreter"
	"github.com/roach88/graphwalk/internal/ir"
	"github.com/roach88/graphwalk/internal/location"
)

//go:embed schema.sql
var schemaSQL string

// SQLite executes queries against a graph stored in a SQLite database.
//
// Tokens are *Vertex values with properties decoded from the stored JSON.
// All row sets are ordered by primary key with COLLATE BINARY, so a given
// database produces the same result order on every run.
//
// The Adapter interface has no error channel, so iteration failures
// terminate the affected sequence early and are retained for inspection via
// Err, in the manner of bufio.Scanner.
type SQLite struct {
	db       *sql.DB
	subtypes map[string]string
	err      error
}

var _ interpreter.Adapter = (*SQLite)(nil)

// OpenSQLite creates or opens a SQLite graph database at the given path.
// Applies required pragmas and the schema automatically; safe to call on an
// existing database.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.loadHierarchy(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Err returns the first error encountered while iterating any sequence this
// adapter produced, or nil. A sequence that hit an error stopped early.
func (s *SQLite) Err() error { return s.err }

func (s *SQLite) setErr(err error) {
	if s.err == nil {
		s.err = err
	}
}

// ImportGraph loads a fixture graph into the database in one transaction.
// The graph is validated first.
func (s *SQLite) ImportGraph(ctx context.Context, graph *Graph) error {
	if err := graph.Validate(); err != nil {
		return fmt.Errorf("invalid graph: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	for _, v := range graph.Vertices {
		props, err := json.Marshal(v.Properties)
		if err != nil {
			return fmt.Errorf("marshal properties of vertex %q: %w", v.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO vertices (id, type, properties) VALUES (?, ?, ?)`,
			v.ID, v.Type, string(props)); err != nil {
			return fmt.Errorf("insert vertex %q: %w", v.ID, err)
		}
	}
	for _, e := range graph.Edges {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO edges (name, source_id, target_id) VALUES (?, ?, ?)`,
			e.Name, e.Source, e.Target); err != nil {
			return fmt.Errorf("insert edge %q %s->%s: %w", e.Name, e.Source, e.Target, err)
		}
	}
	for sub, super := range graph.Subtypes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO type_hierarchy (subtype, supertype) VALUES (?, ?)`,
			sub, super); err != nil {
			return fmt.Errorf("insert hierarchy entry %q: %w", sub, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return s.loadHierarchy()
}

// loadHierarchy caches the type hierarchy in memory. It is small and read on
// every coercion check and root scan, so a per-call query would be wasteful.
func (s *SQLite) loadHierarchy() error {
	rows, err := s.db.Query(`SELECT subtype, supertype FROM type_hierarchy`)
	if err != nil {
		return fmt.Errorf("query type hierarchy: %w", err)
	}
	defer rows.Close()

	subtypes := make(map[string]string)
	for rows.Next() {
		var sub, super string
		if err := rows.Scan(&sub, &super); err != nil {
			return fmt.Errorf("scan hierarchy row: %w", err)
		}
		subtypes[sub] = super
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate hierarchy: %w", err)
	}
	s.subtypes = subtypes
	return nil
}

func (s *SQLite) isInstance(concrete, target string) bool {
	for typ := concrete; typ != ""; typ = s.subtypes[typ] {
		if typ == target {
			return true
		}
	}
	return false
}

func (s *SQLite) GetTokensOfType(typeName string, hints *interpreter.VertexHints) iter.Seq[any] {
	return func(yield func(any) bool) {
		hierarchy := &Graph{Subtypes: s.subtypes}
		types := hierarchy.typesAssignableTo(typeName)
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(types)), ", ")
		params := make([]any, 0, len(types))
		for _, t := range types {
			params = append(params, t)
		}

		var pushdown string
		if hints != nil {
			var pushParams []any
			pushdown, pushParams = compileFilterHints(hints.Filters, hints.RuntimeArguments)
			params = append(params, pushParams...)
		}

		query := fmt.Sprintf(`
			SELECT id, type, properties
			FROM vertices
			WHERE type IN (%s)%s
			ORDER BY id COLLATE BINARY ASC
		`, placeholders, pushdown)

		rows, err := s.db.Query(query, params...)
		if err != nil {
			s.setErr(fmt.Errorf("query vertices of type %s: %w", typeName, err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			v, err := scanVertex(rows)
			if err != nil {
				s.setErr(err)
				return
			}
			if !yield(v) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			s.setErr(fmt.Errorf("iterate vertices: %w", err))
		}
	}
}

func (s *SQLite) ProjectProperty(contexts iter.Seq[*interpreter.DataContext], typeName, fieldName string, hints *interpreter.VertexHints) iter.Seq2[*interpreter.DataContext, any] {
	return func(yield func(*interpreter.DataContext, any) bool) {
		for ctx := range contexts {
			var value any
			if token := ctx.CurrentToken(); token != nil {
				value = token.(*Vertex).Properties[fieldName]
			}
			if !yield(ctx, value) {
				return
			}
		}
	}
}

func (s *SQLite) ProjectNeighbors(contexts iter.Seq[*interpreter.DataContext], typeName string, edge ir.EdgeDescriptor, hints *interpreter.VertexHints) iter.Seq2[*interpreter.DataContext, iter.Seq[any]] {
	return func(yield func(*interpreter.DataContext, iter.Seq[any]) bool) {
		for ctx := range contexts {
			var neighbors []*Vertex
			if token := ctx.CurrentToken(); token != nil {
				var err error
				neighbors, err = s.queryNeighbors(token.(*Vertex), edge)
				if err != nil {
					s.setErr(err)
					return
				}
			}
			seq := func(yield func(any) bool) {
				for _, n := range neighbors {
					if !yield(n) {
						return
					}
				}
			}
			if !yield(ctx, seq) {
				return
			}
		}
	}
}

func (s *SQLite) CanCoerceToType(contexts iter.Seq[*interpreter.DataContext], typeName, coerceToType string, hints *interpreter.VertexHints) iter.Seq2[*interpreter.DataContext, bool] {
	return func(yield func(*interpreter.DataContext, bool) bool) {
		for ctx := range contexts {
			ok := false
			if token := ctx.CurrentToken(); token != nil {
				ok = s.isInstance(token.(*Vertex).Type, coerceToType)
			}
			if !yield(ctx, ok) {
				return
			}
		}
	}
}

func (s *SQLite) queryNeighbors(v *Vertex, edge ir.EdgeDescriptor) ([]*Vertex, error) {
	ownColumn, neighborColumn := "source_id", "target_id"
	if edge.Direction == location.EdgeDirectionIn {
		ownColumn, neighborColumn = "target_id", "source_id"
	}

	query := fmt.Sprintf(`
		SELECT v.id, v.type, v.properties
		FROM edges e
		JOIN vertices v ON v.id = e.%s
		WHERE e.name = ? AND e.%s = ?
		ORDER BY v.id COLLATE BINARY ASC
	`, neighborColumn, ownColumn)

	rows, err := s.db.Query(query, edge.Name, v.ID)
	if err != nil {
		return nil, fmt.Errorf("query %s neighbors of %q: %w", edge, v.ID, err)
	}
	defer rows.Close()

	var neighbors []*Vertex
	for rows.Next() {
		n, err := scanVertex(rows)
		if err != nil {
			return nil, err
		}
		neighbors = append(neighbors, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate neighbors of %q: %w", v.ID, err)
	}
	return neighbors, nil
}

func scanVertex(rows *sql.Rows) (*Vertex, error) {
	var id, typ, props string
	if err := rows.Scan(&id, &typ, &props); err != nil {
		return nil, fmt.Errorf("scan vertex row: %w", err)
	}
	properties, err := decodeProperties(props)
	if err != nil {
		return nil, fmt.Errorf("vertex %q: %w", id, err)
	}
	return &Vertex{ID: id, Type: typ, Properties: properties}, nil
}

// decodeProperties parses the stored JSON object, keeping integral numbers
// as int64 instead of letting them decay to float64.
func decodeProperties(data string) (map[string]any, error) {
	decoder := json.NewDecoder(bytes.NewReader([]byte(data)))
	decoder.UseNumber()

	var raw map[string]any
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode properties: %w", err)
	}
	return normalizeNumbers(raw), nil
}

func normalizeNumbers(m map[string]any) map[string]any {
	for k, v := range m {
		m[k] = normalizeValue(v)
	}
	return m
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		f, _ := val.Float64()
		return f
	case []any:
		for i, elem := range val {
			val[i] = normalizeValue(elem)
		}
		return val
	case map[string]any:
		return normalizeNumbers(val)
	default:
		return v
	}
}
