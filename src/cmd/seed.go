package cmd

import (
	"fmt"
	"io"
	"os"

	"docinspect/src/directors"
	"docinspect/src/settings"

	"github.com/spf13/cobra"
)

func newSeedCommand(args *settings.Arguments, stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var file string
	seedCmd := &cobra.Command{
		Use:   "seed <database>",
		Short: "Write sample or fixture documents into a database.",
		Long: `seed creates the database when missing and writes documents into it.

Without --file the sample documents are written. A fixture file is a
YAML list of {id, expires_in, fields}; "-" reads it from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, argv []string) error {
			fixtures := directors.DefaultFixtures()
			if file != "" {
				r := stdin
				if file != "-" {
					f, err := os.Open(file)
					if err != nil {
						return fmt.Errorf("failed to open fixtures: %w", err)
					}
					defer f.Close()
					r = f
				}
				var err error
				if fixtures, err = directors.LoadFixtures(r); err != nil {
					return err
				}
			}

			sm, logger, err := newServiceManager(args, stderr)
			if err != nil {
				return err
			}
			defer logger.Sync() // nolint: errcheck

			n, err := sm.DatabaseService.SeedDatabase(argv[0], fixtures)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Seeded %s: %d documents\n", argv[0], n)
			return nil
		},
	}
	seedCmd.Flags().StringVarP(&file, "file", "f", "", "YAML fixture file, or - for stdin.")
	return seedCmd
}
