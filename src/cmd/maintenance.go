package cmd

import (
	"fmt"
	"io"
	"time"

	"docinspect/src/settings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newDropCommand(args *settings.Arguments, stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "drop <database>",
		Short: "Delete a database file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, argv []string) error {
			sm, logger, err := newServiceManager(args, stderr)
			if err != nil {
				return err
			}
			defer logger.Sync() // nolint: errcheck

			if err := sm.DatabaseService.DeleteDatabase(argv[0]); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Dropped %s\n", argv[0])
			return nil
		},
	}
}

func newExpireCommand(args *settings.Arguments, stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "expire <database> <id> <duration>",
		Short: "Set when a document expires.",
		Long: `expire sets the expiration of a stored document to now plus duration.
A duration of 0 clears it. Identifiers are listed by ascending expiration,
so this changes where the document appears in the index.`,
		Example: `  docinspect expire orders id:1 48h`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, argv []string) error {
			in, err := time.ParseDuration(argv[2])
			if err != nil {
				return fmt.Errorf("invalid duration %q: %w", argv[2], err)
			}

			sm, logger, err := newServiceManager(args, stderr)
			if err != nil {
				return err
			}
			defer logger.Sync() // nolint: errcheck

			at, err := sm.DatabaseService.ExpireDocument(argv[0], argv[1], in)
			if err != nil {
				return err
			}
			if at.IsZero() {
				fmt.Fprintf(stdout, "%s no longer expires\n", argv[1])
				return nil
			}
			fmt.Fprintf(stdout, "%s expires %s\n", argv[1], humanize.Time(at))
			return nil
		},
	}
}
