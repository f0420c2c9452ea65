package resolve

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bcgsc/probegen/internal/annotation"
	"github.com/bcgsc/probegen/internal/sequence"
	"github.com/bcgsc/probegen/internal/statement"
)

// singleExonRow returns a one-exon row covering (0, 100] on chr1.
func singleExonRow(strand string) *annotation.Row {
	return &annotation.Row{
		Name:       "NM_TEST",
		GeneName:   "ABC",
		Chrom:      "chr1",
		Strand:     strand,
		ExonStarts: []int{0},
		ExonEnds:   []int{100},
	}
}

func mustParse(t *testing.T, text string) *statement.Spec {
	t.Helper()
	spec, err := statement.Parse(text)
	require.NoError(t, err)
	return spec
}

func TestPositionalPlusStrand(t *testing.T) {
	r := NewResolver()
	row := singleExonRow("+")

	tests := []struct {
		name      string
		statement string
		start     int
		end       int
	}{
		{"start of exon", "ABC#exon[1] +20 / ABC#exon[1] +20", 1, 20},
		{"end of exon", "ABC#exon[1] -20 / ABC#exon[1] -20", 81, 100},
		{"globbed bases keep native bounds", "ABC#exon[1] +* / ABC#exon[1] +*", 0, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := r.Resolve(mustParse(t, tt.statement), row, row)
			require.NoError(t, err)
			assert.Equal(t, tt.start, rec.Start1)
			assert.Equal(t, tt.end, rec.End1)
			assert.Equal(t, "1", rec.Chromosome1, "chr prefix is stripped")
		})
	}
}

func TestGlobbedBasesMarkHalfOpen(t *testing.T) {
	r := NewResolver()
	row := singleExonRow("+")

	rec, err := r.Resolve(mustParse(t, "ABC#exon[1] +* / ABC#exon[1] +20"), row, row)
	require.NoError(t, err)
	assert.True(t, rec.HalfOpen1, "globbed bases carry native half-open bounds")
	assert.False(t, rec.HalfOpen2, "concrete bases produce a closed range")
}

func TestPositionalMinusStrandFlipsEdges(t *testing.T) {
	r := NewResolver()
	row := singleExonRow("-")

	// "start" on the minus strand is the chromosomally-rightmost edge.
	rec, err := r.Resolve(mustParse(t, "ABC#exon[1] +20 / ABC#exon[1] -20"), row, row)
	require.NoError(t, err)
	assert.Equal(t, 81, rec.Start1)
	assert.Equal(t, 100, rec.End1)
	assert.Equal(t, 1, rec.Start2)
	assert.Equal(t, 20, rec.End2)
}

func TestPositionalIntron(t *testing.T) {
	r := NewResolver()
	row := &annotation.Row{
		Name:       "NM_TWOEXON",
		GeneName:   "ABC",
		Chrom:      "chr2",
		Strand:     "+",
		ExonStarts: []int{0, 200},
		ExonEnds:   []int{100, 300},
	}

	// Intron 1 covers (100, 200].
	rec, err := r.Resolve(mustParse(t, "ABC#intron[1] +10 / ABC#intron[1] -10"), row, row)
	require.NoError(t, err)
	assert.Equal(t, 101, rec.Start1)
	assert.Equal(t, 110, rec.End1)
	assert.Equal(t, 191, rec.Start2)
	assert.Equal(t, 200, rec.End2)
}

func TestGlobbedKindResolvesAsExon(t *testing.T) {
	r := NewResolver()
	row := singleExonRow("+")

	rec, err := r.Resolve(mustParse(t, "ABC#*[1] +20 / ABC#*[1] +20"), row, row)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Start1)
	assert.Equal(t, 20, rec.End1)
}

func TestNoFeatureError(t *testing.T) {
	r := NewResolver()
	row := &annotation.Row{
		Name:       "NM_TWOEXON",
		GeneName:   "ABC",
		Chrom:      "chr1",
		Strand:     "+",
		ExonStarts: []int{0, 200},
		ExonEnds:   []int{100, 300},
	}

	_, err := r.Resolve(mustParse(t, "ABC#exon[3] +20 / ABC#exon[1] +20"), row, row)
	var nfe *NoFeatureError
	require.ErrorAs(t, err, &nfe)
	assert.Equal(t, 3, nfe.Number)
	assert.Equal(t, 2, nfe.Length)
	assert.Contains(t, err.Error(), "'exon'[3]")
	assert.Contains(t, err.Error(), "only 2")
}

func TestRevCompFlagTable(t *testing.T) {
	r := NewResolver()

	// Side 1 is flagged for (start,+) and (end,-); side 2 for
	// (start,-) and (end,+).
	tests := []struct {
		sign1, sign2     string
		strand1, strand2 string
		rc1, rc2         bool
	}{
		{"+", "+", "+", "+", true, false},
		{"+", "+", "-", "-", false, true},
		{"-", "-", "+", "+", false, true},
		{"-", "-", "-", "-", true, false},
	}
	for _, tt := range tests {
		name := fmt.Sprintf("sign1=%s strand1=%s sign2=%s strand2=%s", tt.sign1, tt.strand1, tt.sign2, tt.strand2)
		t.Run(name, func(t *testing.T) {
			text := fmt.Sprintf("ABC#exon[1] %s20 / DEF#exon[1] %s20", tt.sign1, tt.sign2)
			rec, err := r.Resolve(mustParse(t, text), singleExonRow(tt.strand1), singleExonRow(tt.strand2))
			require.NoError(t, err)
			assert.Equal(t, tt.rc1, rec.RCSide1, "side 1 flag")
			assert.Equal(t, tt.rc2, rec.RCSide2, "side 2 flag")
		})
	}
}

func TestReadThroughPlusStrandMatchesPositional(t *testing.T) {
	r := NewResolver()
	row1 := singleExonRow("+")
	row2 := &annotation.Row{
		Name:       "NM_OTHER",
		GeneName:   "DEF",
		Chrom:      "chr5",
		Strand:     "+",
		ExonStarts: []int{500},
		ExonEnds:   []int{600},
	}

	readThrough, err := r.Resolve(mustParse(t, "ABC#exon[1] -20 -> DEF#exon[1] +20"), row1, row2)
	require.NoError(t, err)
	positional, err := r.Resolve(mustParse(t, "ABC#exon[1] -20 / DEF#exon[1] +20"), row1, row2)
	require.NoError(t, err)
	assert.Equal(t, positional, readThrough)
}

func TestReadThroughMinusStrandFlips(t *testing.T) {
	r := NewResolver()
	row1 := singleExonRow("-")
	row2 := &annotation.Row{
		Name:       "NM_OTHER",
		GeneName:   "DEF",
		Chrom:      "chr5",
		Strand:     "+",
		ExonStarts: []int{500},
		ExonEnds:   []int{600},
	}

	readThrough, err := r.Resolve(mustParse(t, "ABC#exon[1] -20 -> DEF#exon[1] +20"), row1, row2)
	require.NoError(t, err)

	// Equivalent to positional resolution of the flipped specification
	// against swapped rows.
	flipped := mustParse(t, "ABC#exon[1] -20 / DEF#exon[1] +20").Flipped()
	want, err := r.Resolve(flipped, row2, row1)
	require.NoError(t, err)
	assert.Equal(t, want, readThrough)
}

func TestReadThroughWarnsOnNonsensicalSides(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	r := NewResolver()
	r.SetLogger(zap.New(core))

	row := singleExonRow("+")

	// (start, end) is backwards for a read-through: warn but resolve.
	rec, err := r.Resolve(mustParse(t, "ABC#exon[1] +20 -> ABC#exon[1] -20"), row, row)
	require.NoError(t, err)
	assert.NotNil(t, rec)
	assert.Equal(t, 1, logs.Len(), "expected one warning")

	// The canonical (end, start) orientation stays quiet.
	logs.TakeAll()
	_, err = r.Resolve(mustParse(t, "ABC#exon[1] -20 -> ABC#exon[1] +20"), row, row)
	require.NoError(t, err)
	assert.Equal(t, 0, logs.Len())
}

func TestUnrecognizedSeparator(t *testing.T) {
	r := NewResolver()
	spec := mustParse(t, "ABC#exon[1] -20 / DEF#exon[1] +20")
	spec.Separator = statement.Separator("||")

	_, err := r.Resolve(spec, singleExonRow("+"), singleExonRow("+"))
	var ifErr *InterfaceError
	assert.ErrorAs(t, err, &ifErr)
}

func TestReadThroughUnrecognizedStrand(t *testing.T) {
	r := NewResolver()
	row := singleExonRow(".")

	_, err := r.Resolve(mustParse(t, "ABC#exon[1] -20 -> DEF#exon[1] +20"), row, singleExonRow("+"))
	var ifErr *InterfaceError
	assert.ErrorAs(t, err, &ifErr)
}

func TestGlobbedFieldsAreRejected(t *testing.T) {
	r := NewResolver()
	row := singleExonRow("+")

	var ifErr *InterfaceError
	_, err := r.Resolve(mustParse(t, "ABC#exon[*] +20 / DEF#exon[1] +20"), row, row)
	assert.ErrorAs(t, err, &ifErr, "globbed index")

	_, err = r.Resolve(mustParse(t, "ABC#exon[1] *20 / DEF#exon[1] +20"), row, row)
	assert.ErrorAs(t, err, &ifErr, "globbed side")
}

func TestRecordRanges(t *testing.T) {
	// Closed sides covering consecutive bases merge into one
	// half-open-left range.
	rec := &Record{
		Chromosome1: "1", Start1: 1, End1: 50,
		Chromosome2: "1", Start2: 51, End2: 100,
	}
	assert.Equal(t, []sequence.Range{sequence.NewRange("1", 0, 100)}, rec.Ranges())

	rec.Chromosome2 = "2"
	assert.Equal(t, []sequence.Range{
		sequence.NewRange("1", 0, 50),
		sequence.NewRange("2", 50, 100),
	}, rec.Ranges())
}

func TestRecordRangesHalfOpenSide(t *testing.T) {
	// A half-open side keeps its native bounds unshifted.
	rec := &Record{
		Chromosome1: "1", Start1: 0, End1: 8, HalfOpen1: true,
		Chromosome2: "1", Start2: 11, End2: 14,
	}
	assert.Equal(t, []sequence.Range{
		sequence.NewRange("1", 0, 8),
		sequence.NewRange("1", 10, 14),
	}, rec.Ranges())

	// A half-open side abutting the closed side merges with it.
	rec.Start2, rec.End2 = 9, 12
	assert.Equal(t, []sequence.Range{sequence.NewRange("1", 0, 12)}, rec.Ranges())
}
