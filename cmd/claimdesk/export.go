package main

import (
	"github.com/spf13/cobra"

	"github.com/garyjia/lic-claimdesk/internal/container"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every list to an .xlsx workbook in the export directory",
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *container.Container) error {
			path, err := app.Services().Export.Export(cmd.Context(), name)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd, map[string]string{"path": path})
			}
			printf(cmd, "Exported to %s\n", path)
			return nil
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "File name (default claimdesk-<timestamp>.xlsx)")
	return cmd
}
