package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/lossbench/lossbench/compressor"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available compressors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := newTable(cmd)
			t.AppendHeader(table.Row{"Name", "Description", "Version"})
			for _, name := range compressor.Names() {
				c, err := compressor.New(name)
				if err != nil {
					return err
				}
				t.AppendRow(table.Row{c.Name(), c.Description(), c.Version()})
			}
			t.Render()

			return nil
		},
	}
}

func newUsageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "usage <compressor>",
		Short: "Show the options a compressor accepts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := compressor.New(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n%s\n", c.Name(), c.Description(), c.Usage())

			return nil
		},
	}
}

func newTable(cmd *cobra.Command) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleRounded)
	t.Style().Options.SeparateRows = false

	return t
}
