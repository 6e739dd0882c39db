package cmd

import (
	"context"
	"fmt"
	"io"

	"docinspect/src/settings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/table"
	"github.com/spf13/cobra"
)

func newDatabasesCommand(args *settings.Arguments, stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "databases",
		Short: "List the databases in the data directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sm, logger, err := newServiceManager(args, stderr)
			if err != nil {
				return err
			}
			defer logger.Sync() // nolint: errcheck

			files, err := sm.DatabaseService.ListDatabaseFiles(commandContext(cmd))
			if err != nil {
				return err
			}

			t := newTable(stdout)
			t.AppendHeader(table.Row{"Name", "Size", "Modified"})
			for _, f := range files {
				t.AppendRow(table.Row{f.Name, humanize.Bytes(uint64(f.Size)), humanize.Time(f.ModTime)})
			}
			t.Render()
			return nil
		},
	}
}

func newIDsCommand(args *settings.Arguments, stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "ids <database>",
		Short: "List the display identifiers of every document in a database.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, argv []string) error {
			sm, logger, err := newServiceManager(args, stderr)
			if err != nil {
				return err
			}
			defer logger.Sync() // nolint: errcheck

			ids := sm.DatabaseService.TableNames(commandContext(cmd), argv[0])
			t := newTable(stdout)
			t.AppendHeader(table.Row{"ID"})
			for _, id := range ids {
				t.AppendRow(table.Row{id})
			}
			t.Render()
			return nil
		},
	}
}

func newQueryCommand(args *settings.Arguments, stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:     "query <database> <query>",
		Short:   "Show the document named by the first quoted identifier of a query.",
		Example: `  docinspect query orders 'SELECT * FROM "<User>::id:1"'`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, argv []string) error {
			sm, logger, err := newServiceManager(args, stderr)
			if err != nil {
				return err
			}
			defer logger.Sync() // nolint: errcheck

			result, err := sm.DatabaseService.ExecuteSQL(commandContext(cmd), argv[0], argv[1])
			if err != nil {
				return err
			}
			if result.Empty() {
				fmt.Fprintln(stdout, "(no results)")
				return nil
			}

			t := newTable(stdout)
			header := make(table.Row, len(result.ColumnNames))
			for i, c := range result.ColumnNames {
				header[i] = c
			}
			t.AppendHeader(header)
			for _, f := range result.Rows() {
				t.AppendRow(table.Row{f.Key, f.Value})
			}
			t.Render()
			return nil
		},
	}
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
