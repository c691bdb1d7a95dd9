package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/garyjia/lic-claimdesk/internal/application/service"
	"github.com/garyjia/lic-claimdesk/internal/container"
	"github.com/garyjia/lic-claimdesk/internal/domain/entity"
)

func newFollowUpCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "followup",
		Aliases: []string{"fu"},
		Short:   "Manage the claims follow-up list",
	}
	cmd.AddCommand(
		newFollowUpImportCmd(opts),
		newFollowUpListCmd(opts),
		newFollowUpUpdateCmd(opts),
		newFollowUpRemoveCmd(opts),
		newFollowUpClearCmd(opts),
	)
	return cmd
}

func newFollowUpImportCmd(opts *rootOptions) *cobra.Command {
	var file, sheet string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import pasted rows from stdin, or a .xlsx/.csv/.txt/.html file",
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *container.Container) error {
			svc := app.Services().FollowUp
			var (
				res *service.ImportResult
				err error
			)
			if file != "" {
				res, err = svc.ImportFile(cmd.Context(), file, sheet)
			} else {
				data, readErr := io.ReadAll(cmd.InOrStdin())
				if readErr != nil {
					return fmt.Errorf("failed to read stdin: %w", readErr)
				}
				res, err = svc.Import(cmd.Context(), string(data))
			}
			if res != nil && !opts.json {
				for _, s := range res.Parse.Skipped {
					printf(cmd, "Skipped line %d: %s\n", s.Line, s.Reason)
				}
			}
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd, res)
			}
			printf(cmd, "Imported %s rows (%s headers): %d added, %d updated, %d skipped.\n",
				res.Parse.Format, res.Parse.HeaderDecision, res.Stats.Added, res.Stats.Updated, res.Stats.Skipped)
			return nil
		}),
	}
	cmd.Flags().StringVar(&file, "file", "", "File to import instead of stdin")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Worksheet name for .xlsx files (default first sheet)")
	return cmd
}

func newFollowUpListCmd(opts *rootOptions) *cobra.Command {
	var status, search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List follow-ups",
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *container.Container) error {
			svc := app.Services().FollowUp
			records, err := svc.List(cmd.Context(), entity.FollowUpStatus(status), search)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd, records)
			}
			headers := svc.Headers(cmd.Context())
			t := newTable(cmd.OutOrStdout(), append(append([]string{"STATUS"}, headers...), "AGENT", "MOBILE", "REMARKS")...)
			for _, r := range records {
				row := []string{string(r.Status)}
				for _, h := range headers {
					row = append(row, r.Columns[h])
				}
				t.row(append(row, r.Agent, r.AgentMobile, r.Remarks)...)
			}
			return t.flush()
		}),
	}
	cmd.Flags().StringVar(&status, "status", "", "Only this status: grey, red, yellow, blue or green")
	cmd.Flags().StringVar(&search, "search", "", "Filter by text in any column")
	return cmd
}

func newFollowUpUpdateCmd(opts *rootOptions) *cobra.Command {
	var status, agent, mobile, customerNo, customerOP, remarks string
	cmd := &cobra.Command{
		Use:   "update <policy>",
		Short: "Edit the local fields of a follow-up",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *container.Container) error {
			var patch service.FollowUpPatch
			f := cmd.Flags()
			if f.Changed("status") {
				s := entity.FollowUpStatus(status)
				patch.Status = &s
			}
			if f.Changed("agent") {
				patch.Agent = &agent
			}
			if f.Changed("mobile") {
				patch.AgentMobile = &mobile
			}
			if f.Changed("customer-no") {
				patch.CustomerNo = &customerNo
			}
			if f.Changed("customer-op") {
				patch.CustomerOP = &customerOP
			}
			if f.Changed("remarks") {
				patch.Remarks = &remarks
			}

			rec, err := app.Services().FollowUp.Update(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd, rec)
			}
			printf(cmd, "Follow-up %s updated (%s).\n", rec.PolicyNo, rec.Status)
			return nil
		}),
	}
	f := cmd.Flags()
	f.StringVar(&status, "status", "", "Status: grey, red, yellow, blue or green")
	f.StringVar(&agent, "agent", "", "Agent name")
	f.StringVar(&mobile, "mobile", "", "Agent mobile number")
	f.StringVar(&customerNo, "customer-no", "", "Customer number")
	f.StringVar(&customerOP, "customer-op", "", "Customer OP")
	f.StringVar(&remarks, "remarks", "", "Remarks")
	return cmd
}

func newFollowUpRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <policy>",
		Short: "Delete a follow-up",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *container.Container) error {
			if err := app.Services().FollowUp.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			printf(cmd, "Follow-up %s removed.\n", args[0])
			return nil
		}),
	}
}

func newFollowUpClearCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every follow-up",
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *container.Container) error {
			n, err := app.Services().FollowUp.Clear(cmd.Context())
			if err != nil {
				return err
			}
			printf(cmd, "%d follow-ups cleared.\n", n)
			return nil
		}),
	}
}
