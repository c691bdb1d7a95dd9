package main

import (
	"github.com/spf13/cobra"

	"github.com/garyjia/lic-claimdesk/internal/container"
	"github.com/garyjia/lic-claimdesk/internal/domain/claimdate"
	"github.com/garyjia/lic-claimdesk/internal/domain/entity"
)

func newSpecialCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "special",
		Short: "Track special cases",
	}
	cmd.AddCommand(
		newSpecialSaveCmd(opts),
		newSpecialResolveCmd(opts),
		newSpecialOpenCmd(opts),
		newSpecialListCmd(opts),
		newSpecialRemoveCmd(opts),
		newSpecialCompletedCmd(opts),
		newSpecialRemoveCompletedCmd(opts),
	)
	return cmd
}

func newSpecialSaveCmd(opts *rootOptions) *cobra.Command {
	var sc entity.SpecialCase
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Create or update a special case",
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *container.Container) error {
			res, err := app.Services().SpecialCase.Save(cmd.Context(), sc)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd, res)
			}
			if res.Completed != nil {
				printf(cmd, "Special case %s resolved.\n", res.Completed.PolicyNo)
				return nil
			}
			printf(cmd, "Special case saved successfully!\n")
			return nil
		}),
	}
	f := cmd.Flags()
	f.StringVar(&sc.PolicyNo, "policy", "", "Policy number")
	f.StringVar(&sc.Name, "name", "", "Name")
	f.StringVar(&sc.Type, "type", "", "Case type")
	f.StringVar(&sc.Issue, "issue", "", "Issue description")
	f.BoolVar(&sc.Resolved, "resolved", false, "Mark the case resolved")
	return cmd
}

func newSpecialResolveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <policy>",
		Short: "Move a special case to the resolved list",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *container.Container) error {
			done, err := app.Services().SpecialCase.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd, done)
			}
			printf(cmd, "Special case %s resolved.\n", done.PolicyNo)
			return nil
		}),
	}
}

func newSpecialOpenCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "open <policy>",
		Short: "Show a special case",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *container.Container) error {
			sc, err := app.Services().SpecialCase.Open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd, sc)
			}
			printf(cmd, "Policy: %s\nName:   %s\nType:   %s\nIssue:  %s\n", sc.PolicyNo, sc.Name, sc.Type, sc.Issue)
			return nil
		}),
	}
}

func newSpecialListCmd(opts *rootOptions) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active special cases",
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *container.Container) error {
			cases, err := app.Services().SpecialCase.ListActive(cmd.Context(), search)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd, cases)
			}
			t := newTable(cmd.OutOrStdout(), "POLICY", "NAME", "TYPE", "ISSUE")
			for _, sc := range cases {
				t.row(sc.PolicyNo, sc.Name, sc.Type, sc.Issue)
			}
			return t.flush()
		}),
	}
	cmd.Flags().StringVar(&search, "search", "", "Filter by text in any column")
	return cmd
}

func newSpecialRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <policy>",
		Short: "Delete an active special case",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *container.Container) error {
			if err := app.Services().SpecialCase.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			printf(cmd, "Special case %s removed.\n", args[0])
			return nil
		}),
	}
}

func newSpecialCompletedCmd(opts *rootOptions) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "completed",
		Short: "List resolved special cases",
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *container.Container) error {
			done, err := app.Services().SpecialCase.ListCompleted(cmd.Context(), search)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd, done)
			}
			t := newTable(cmd.OutOrStdout(), "ID", "POLICY", "NAME", "TYPE", "ISSUE", "RESOLVED")
			for _, c := range done {
				t.row(c.ID, c.PolicyNo, c.Name, c.Type, c.Issue, c.ResolvedAt.Format(claimdate.Layout))
			}
			return t.flush()
		}),
	}
	cmd.Flags().StringVar(&search, "search", "", "Filter by text in any column")
	return cmd
}

func newSpecialRemoveCompletedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-completed <id>",
		Short: "Delete a resolved special case entry",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *container.Container) error {
			if err := app.Services().SpecialCase.RemoveCompleted(cmd.Context(), args[0]); err != nil {
				return err
			}
			printf(cmd, "Resolved case %s removed.\n", args[0])
			return nil
		}),
	}
}
