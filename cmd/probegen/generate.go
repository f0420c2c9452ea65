package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mendelics/twobit"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/bcgsc/probegen/internal/annotation"
	"github.com/bcgsc/probegen/internal/probe"
	"github.com/bcgsc/probegen/internal/resolve"
)

func newGenerateCmd(verbose *bool) *cobra.Command {
	var (
		annotationPath string
		genomePath     string
		storePath      string
		outputPath     string
		format         string
	)

	cmd := &cobra.Command{
		Use:   "generate <statements-file>",
		Short: "Resolve probe statements and emit probe sequences or coordinates",
		Example: `  probegen generate --annotation refGene.txt --genome hg38.2bit probes.txt
  probegen generate --annotation refGene.txt.gz --format bed probes.txt
  probegen generate --annotation refGene.txt --store models.duckdb --genome hg38.2bit probes.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(args[0], annotationPath, genomePath, storePath, outputPath, format, *verbose)
		},
	}

	cmd.Flags().StringVarP(&annotationPath, "annotation", "a", viper.GetString("annotation"), "UCSC-style gene annotation table (.txt or .txt.gz)")
	cmd.Flags().StringVarP(&genomePath, "genome", "g", viper.GetString("genome"), "Reference genome in .2bit format (required for FASTA output)")
	cmd.Flags().StringVar(&storePath, "store", viper.GetString("store"), "DuckDB gene-model store; built from the annotation table if both are given")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "fasta", "Output format: fasta, bed")

	return cmd
}

func runGenerate(statementsPath, annotationPath, genomePath, storePath, outputPath, format string, verbose bool) error {
	logger, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	lookup, cleanup, err := openLookup(annotationPath, storePath, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	statements, err := readStatements(statementsPath)
	if err != nil {
		return err
	}
	if len(statements) == 0 {
		logger.Info("no probe statements found", zap.String("file", statementsPath))
	}

	resolver := resolve.NewResolver()
	resolver.SetLogger(logger)

	var out io.Writer = os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "fasta":
		if genomePath == "" {
			return fmt.Errorf("FASTA output requires a reference genome (--genome)")
		}
		extractor, err := twobit.NewDataService(genomePath)
		if err != nil {
			return fmt.Errorf("open genome: %w", err)
		}
		return writeFasta(statements, lookup, resolver, extractor, out, logger)
	case "bed":
		return writeBed(statements, lookup, resolver, out, logger)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// openLookup builds the gene lookup: the in-memory table by default, or
// the DuckDB store when one is requested. With both paths given the
// store is (re)built from the table first.
func openLookup(annotationPath, storePath string, logger *zap.Logger) (probe.GeneLookup, func(), error) {
	noop := func() {}

	if storePath == "" {
		if annotationPath == "" {
			return nil, noop, fmt.Errorf("an annotation table (--annotation) or store (--store) is required")
		}
		table, err := annotation.LoadTable(annotationPath)
		if err != nil {
			return nil, noop, err
		}
		logger.Debug("loaded annotation table",
			zap.String("path", annotationPath),
			zap.Int("rows", table.RowCount()))
		return table, noop, nil
	}

	store, err := annotation.OpenStore(storePath)
	if err != nil {
		return nil, noop, err
	}
	cleanup := func() { store.Close() }

	if annotationPath != "" {
		table, err := annotation.LoadTable(annotationPath)
		if err != nil {
			cleanup()
			return nil, noop, err
		}
		if err := store.InsertRows(table.Rows()); err != nil {
			cleanup()
			return nil, noop, fmt.Errorf("populate store: %w", err)
		}
		logger.Debug("populated gene-model store",
			zap.String("path", storePath),
			zap.Int("rows", table.RowCount()))
	}

	return store, cleanup, nil
}

func writeFasta(statements []string, lookup probe.GeneLookup, resolver *resolve.Resolver, extractor probe.Extractor, out io.Writer, logger *zap.Logger) error {
	writer := probe.NewFastaWriter(out)
	for _, stmt := range statements {
		if isSnpStatement(stmt) {
			probes, err := probe.ExplodeSnpProbe(stmt, lookup, logger)
			if err != nil {
				return err
			}
			for _, p := range probes {
				seq, err := p.Sequence(extractor)
				if err != nil {
					return err
				}
				if err := writer.Write(p.Name(), seq); err != nil {
					return err
				}
			}
			continue
		}
		probes, err := probe.ExplodeExonProbe(stmt, lookup, resolver, logger)
		if err != nil {
			return err
		}
		for _, p := range probes {
			seq, err := p.Sequence(extractor)
			if err != nil {
				return err
			}
			if err := writer.Write(p.Name(), seq); err != nil {
				return err
			}
		}
	}
	return writer.Flush()
}

func writeBed(statements []string, lookup probe.GeneLookup, resolver *resolve.Resolver, out io.Writer, logger *zap.Logger) error {
	writer := probe.NewBedWriter(out)
	for _, stmt := range statements {
		if isSnpStatement(stmt) {
			return fmt.Errorf("BED output is not supported for SNP statements: %q", stmt)
		}
		probes, err := probe.ExplodeExonProbe(stmt, lookup, resolver, logger)
		if err != nil {
			return err
		}
		for _, p := range probes {
			if err := writer.Write(p.Name(), p.Record); err != nil {
				return err
			}
		}
	}
	return writer.Flush()
}

// isSnpStatement distinguishes the two statement languages: fusion
// statements always contain a '#' feature marker, SNP statements a
// "c." coding-sequence reference.
func isSnpStatement(stmt string) bool {
	return !strings.Contains(stmt, "#")
}

// readStatements reads probe statements from path ('-' for stdin), one
// per line. Blank lines and comment-only lines are skipped.
func readStatements(path string) ([]string, error) {
	var reader io.Reader
	if path == "-" {
		reader = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open statements file: %w", err)
		}
		defer f.Close()
		reader = f
	}

	var statements []string
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		statements = append(statements, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read statements: %w", err)
	}
	return statements, nil
}
