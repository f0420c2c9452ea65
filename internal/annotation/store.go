package annotation

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
)

// Store keeps gene-model rows in a DuckDB database so that large
// annotation tables can be queried by gene symbol without holding the
// whole table in memory.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func OpenStore(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS gene_models (
		name VARCHAR,
		gene_name VARCHAR,
		chrom VARCHAR,
		strand VARCHAR,
		tx_start BIGINT,
		tx_end BIGINT,
		cds_start BIGINT,
		cds_end BIGINT,
		exon_starts VARCHAR,
		exon_ends VARCHAR,
		PRIMARY KEY (name, chrom, tx_start)
	)`)
	return err
}

// InsertRows writes transcript rows into the store, replacing rows
// with the same primary key.
func (s *Store) InsertRows(rows []*Row) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO gene_models
		(name, gene_name, chrom, strand, tx_start, tx_end, cds_start, cds_end, exon_starts, exon_ends)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err := stmt.Exec(
			row.Name, row.GeneName, row.Chrom, row.Strand,
			row.TxStart, row.TxEnd, row.CDSStart, row.CDSEnd,
			joinIntList(row.ExonStarts), joinIntList(row.ExonEnds),
		)
		if err != nil {
			return fmt.Errorf("insert row %s: %w", row.Name, err)
		}
	}

	return tx.Commit()
}

// LookupGene returns all transcript rows for the given gene symbol.
func (s *Store) LookupGene(name string) ([]*Row, error) {
	rows, err := s.db.Query(`SELECT name, gene_name, chrom, strand,
		tx_start, tx_end, cds_start, cds_end, exon_starts, exon_ends
		FROM gene_models WHERE upper(gene_name) = upper(?)`, name)
	if err != nil {
		return nil, fmt.Errorf("query gene %s: %w", name, err)
	}
	defer rows.Close()

	var result []*Row
	for rows.Next() {
		var r Row
		var starts, ends string
		if err := rows.Scan(&r.Name, &r.GeneName, &r.Chrom, &r.Strand,
			&r.TxStart, &r.TxEnd, &r.CDSStart, &r.CDSEnd, &starts, &ends); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if r.ExonStarts, err = parseIntList(starts); err != nil {
			return nil, fmt.Errorf("parse exon starts for %s: %w", r.Name, err)
		}
		if r.ExonEnds, err = parseIntList(ends); err != nil {
			return nil, fmt.Errorf("parse exon ends for %s: %w", r.Name, err)
		}
		result = append(result, &r)
	}
	return result, rows.Err()
}

// RowCount returns the number of rows in the store.
func (s *Store) RowCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT count(*) FROM gene_models`).Scan(&count)
	return count, err
}

func joinIntList(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
