package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	dbm "itinera/internal/models/db_models"
	"itinera/internal/services"
)

func newPreviewCSVCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preview-csv <file>",
		Short: "Show the day schedule a CSV upload would produce",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			days, err := services.NewCsvExtractor(zap.NewNop()).Extract(f)
			if err != nil {
				return err
			}
			renderSchedule(cmd.OutOrStdout(), days)
			return nil
		},
	}
}

func renderSchedule(out io.Writer, days []dbm.DayEntry) {
	if len(days) == 0 {
		fmt.Fprintln(out, "No rows.")
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Day", "Date", "Time", "Title", "Location", "Description"})
	for _, d := range days {
		tw.AppendRow(table.Row{strconv.Itoa(d.Day), d.Date, d.Time, d.Title, d.Location, d.Description})
	}
	tw.Render()
}
