package probe

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcgsc/probegen/internal/resolve"
	"github.com/bcgsc/probegen/internal/statement"
)

func TestFastaWriter(t *testing.T) {
	var buf bytes.Buffer
	fw := NewFastaWriter(&buf)

	require.NoError(t, fw.Write("probe_1", "ACGT"))
	require.NoError(t, fw.Flush())

	assert.Equal(t, ">probe_1\nACGT\n", buf.String())
}

func TestFastaWriterWrapsLongSequences(t *testing.T) {
	var buf bytes.Buffer
	fw := NewFastaWriter(&buf)

	seq := strings.Repeat("A", 130)
	require.NoError(t, fw.Write("probe_long", seq))
	require.NoError(t, fw.Flush())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, strings.Repeat("A", 60), lines[1])
	assert.Equal(t, strings.Repeat("A", 60), lines[2])
	assert.Equal(t, strings.Repeat("A", 10), lines[3])
}

func TestBedWriter(t *testing.T) {
	var buf bytes.Buffer
	bw := NewBedWriter(&buf)

	record := &resolve.Record{
		Chromosome1: "1", Start1: 81, End1: 100,
		Chromosome2: "5", Start2: 501, End2: 520,
	}
	require.NoError(t, bw.Write("probe_1", record))
	require.NoError(t, bw.Flush())

	assert.Equal(t, "1\t80\t100\tprobe_1\n5\t500\t520\tprobe_1\n", buf.String())
}

func TestBedWriterMergesAbuttingRanges(t *testing.T) {
	var buf bytes.Buffer
	bw := NewBedWriter(&buf)

	// Closed ranges 1-50 and 51-100 cover consecutive bases and merge
	// into one BED interval.
	record := &resolve.Record{
		Chromosome1: "1", Start1: 1, End1: 50,
		Chromosome2: "1", Start2: 51, End2: 100,
	}
	require.NoError(t, bw.Write("probe_1", record))
	require.NoError(t, bw.Flush())

	assert.Equal(t, "1\t0\t100\tprobe_1\n", buf.String())
}

func TestBedWriterGlobbedBasesKeepNativeBounds(t *testing.T) {
	var buf bytes.Buffer
	bw := NewBedWriter(&buf)

	lookup := fusionLookup()
	abc := lookup["ABC"][0]
	def := lookup["DEF"][0]

	// Side 1 has globbed bases, so its range is the exon's native
	// half-open bounds and must not be shifted again.
	spec, err := statement.Parse("ABC#exon[1] +* / DEF#exon[1] +4")
	require.NoError(t, err)
	record, err := resolve.NewResolver().Resolve(spec, abc, def)
	require.NoError(t, err)
	require.True(t, record.HalfOpen1)

	require.NoError(t, bw.Write("probe_1", record))
	require.NoError(t, bw.Flush())

	assert.Equal(t, "1\t0\t8\tprobe_1\n1\t10\t14\tprobe_1\n", buf.String())
}
