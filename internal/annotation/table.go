package annotation

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Table is an in-memory gene annotation table indexed by gene symbol.
type Table struct {
	rows   []*Row
	byGene map[string][]*Row
}

// NewTable creates an empty annotation table.
func NewTable() *Table {
	return &Table{byGene: make(map[string][]*Row)}
}

// AddRow adds a transcript row to the table.
func (t *Table) AddRow(row *Row) {
	t.rows = append(t.rows, row)
	key := strings.ToUpper(row.GeneName)
	t.byGene[key] = append(t.byGene[key], row)
}

// LookupGene returns all transcript rows for the given gene symbol.
// The lookup is case-insensitive. An unknown gene yields an empty
// slice, not an error.
func (t *Table) LookupGene(name string) ([]*Row, error) {
	return t.byGene[strings.ToUpper(name)], nil
}

// RowCount returns the number of rows in the table.
func (t *Table) RowCount() int {
	return len(t.rows)
}

// Rows returns all rows in load order.
func (t *Table) Rows() []*Row {
	return t.rows
}

// LoadTable reads a UCSC refGene/knownGene-style annotation table from
// path. Gzipped tables (.gz) are handled transparently.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open annotation table: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return ParseTable(reader)
}

// ParseTable parses annotation table content. Comment lines and lines
// that do not match the expected field set are skipped.
func ParseTable(r io.Reader) (*Table, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	table := NewTable()
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}
		row, err := parseRow(line)
		if err != nil {
			continue // skip malformed lines
		}
		table.AddRow(row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read annotation table: %w", err)
	}
	return table, nil
}

// parseRow parses one tab-separated annotation line. The expected
// columns follow the UCSC refGene layout, with or without the leading
// bin column:
//
//	[bin] name chrom strand txStart txEnd cdsStart cdsEnd
//	exonCount exonStarts exonEnds [score name2 ...]
func parseRow(line string) (*Row, error) {
	fields := strings.Split(line, "\t")

	// refGene carries a numeric bin column before the transcript name.
	offset := 0
	if len(fields) > 0 && isInteger(fields[0]) {
		offset = 1
	}
	if len(fields) < offset+10 {
		return nil, fmt.Errorf("expected at least %d columns, found %d", offset+10, len(fields))
	}

	strand := fields[offset+2]
	if strand != "+" && strand != "-" {
		return nil, fmt.Errorf("invalid strand %q", strand)
	}

	txStart, err := strconv.Atoi(fields[offset+3])
	if err != nil {
		return nil, fmt.Errorf("invalid txStart: %w", err)
	}
	txEnd, err := strconv.Atoi(fields[offset+4])
	if err != nil {
		return nil, fmt.Errorf("invalid txEnd: %w", err)
	}
	cdsStart, err := strconv.Atoi(fields[offset+5])
	if err != nil {
		return nil, fmt.Errorf("invalid cdsStart: %w", err)
	}
	cdsEnd, err := strconv.Atoi(fields[offset+6])
	if err != nil {
		return nil, fmt.Errorf("invalid cdsEnd: %w", err)
	}
	exonCount, err := strconv.Atoi(fields[offset+7])
	if err != nil {
		return nil, fmt.Errorf("invalid exonCount: %w", err)
	}
	exonStarts, err := parseIntList(fields[offset+8])
	if err != nil {
		return nil, fmt.Errorf("invalid exonStarts: %w", err)
	}
	exonEnds, err := parseIntList(fields[offset+9])
	if err != nil {
		return nil, fmt.Errorf("invalid exonEnds: %w", err)
	}
	if len(exonStarts) != exonCount || len(exonEnds) != exonCount {
		return nil, fmt.Errorf("exon list length does not match exonCount %d", exonCount)
	}

	name := fields[offset]
	geneName := name
	if len(fields) > offset+11 && fields[offset+11] != "" {
		geneName = fields[offset+11]
	}

	return &Row{
		Name:       name,
		GeneName:   geneName,
		Chrom:      fields[offset+1],
		Strand:     strand,
		TxStart:    txStart,
		TxEnd:      txEnd,
		CDSStart:   cdsStart,
		CDSEnd:     cdsEnd,
		ExonStarts: exonStarts,
		ExonEnds:   exonEnds,
	}, nil
}

// parseIntList parses a UCSC comma-separated integer list, which ends
// with a trailing comma.
func parseIntList(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func isInteger(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil && s != ""
}
