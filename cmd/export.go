package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spedops/pullout/pkg/export"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the active weekly schedule as CSV or JSON",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "output format: csv or json")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer closeService(svc)

	sessions, err := svc.Scheduler.ActiveSessions()
	if err != nil {
		return err
	}
	switch exportFormat {
	case "csv":
		return export.WriteCSV(cmd.OutOrStdout(), sessions)
	case "json":
		return export.WriteJSON(cmd.OutOrStdout(), sessions)
	default:
		return fmt.Errorf("unknown export format %q", exportFormat)
	}
}
