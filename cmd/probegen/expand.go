package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bcgsc/probegen/internal/annotation"
	"github.com/bcgsc/probegen/internal/statement"
)

func newExpandCmd(verbose *bool) *cobra.Command {
	var (
		annotationPath string
		featureCount1  int
		featureCount2  int
	)

	cmd := &cobra.Command{
		Use:   "expand <statements-file>",
		Short: "Print the concrete statements a globbed statement denotes",
		Long: `Expand glob fields ('*') in probe statements into every concrete
statement they denote. Globbed feature indices need a feature count,
taken from the annotation table when one is given, or from the
--feature-count flags otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExpand(args[0], annotationPath, featureCount1, featureCount2, *verbose)
		},
	}

	cmd.Flags().StringVarP(&annotationPath, "annotation", "a", viper.GetString("annotation"), "UCSC-style gene annotation table")
	cmd.Flags().IntVar(&featureCount1, "feature-count-1", 0, "Feature count for side 1 when no annotation table is given")
	cmd.Flags().IntVar(&featureCount2, "feature-count-2", 0, "Feature count for side 2 when no annotation table is given")

	return cmd
}

func runExpand(statementsPath, annotationPath string, featureCount1, featureCount2 int, verbose bool) error {
	logger, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	var table *annotation.Table
	if annotationPath != "" {
		table, err = annotation.LoadTable(annotationPath)
		if err != nil {
			return err
		}
	}

	statements, err := readStatements(statementsPath)
	if err != nil {
		return err
	}

	for _, stmt := range statements {
		spec, err := statement.Parse(stmt)
		if err != nil {
			return err
		}

		count1, count2 := featureCount1, featureCount2
		if table != nil {
			if n, err := tableFeatureCount(table, spec.Side1); err == nil && n > 0 {
				count1 = n
			}
			if n, err := tableFeatureCount(table, spec.Side2); err == nil && n > 0 {
				count2 = n
			}
		}

		expansion, err := statement.Expand(spec, count1, count2)
		if err != nil {
			return err
		}
		for concrete := expansion.Next(); concrete != nil; concrete = expansion.Next() {
			fmt.Println(concrete)
		}
	}
	return nil
}

// tableFeatureCount returns the largest feature count of the half's
// kind over the gene's transcripts, so expansion covers the longest
// isoform.
func tableFeatureCount(table *annotation.Table, h statement.Half) (int, error) {
	rows, err := table.LookupGene(h.Gene)
	if err != nil {
		return 0, err
	}
	max := 0
	wantIntrons := false
	if kind, ok := h.Feature.Kind.Get(); ok && kind == statement.KindIntron {
		wantIntrons = true
	}
	for _, row := range rows {
		n := row.ExonCount()
		if wantIntrons {
			n = row.IntronCount()
		}
		if n > max {
			max = n
		}
	}
	return max, nil
}
