package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/garyjia/lic-claimdesk/internal/application/service"
	"github.com/garyjia/lic-claimdesk/internal/container"
	"github.com/garyjia/lic-claimdesk/internal/domain/claimdate"
	"github.com/garyjia/lic-claimdesk/internal/domain/entity"
	"github.com/garyjia/lic-claimdesk/internal/domain/workflow"
)

func newClaimCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim",
		Short: "Work on death claims",
	}
	cmd.AddCommand(
		newClaimSaveCmd(opts),
		newClaimOpenCmd(opts),
		newClaimListCmd(opts),
		newClaimRemoveCmd(opts),
		newClaimPayCmd(opts),
		newClaimCompletedCmd(opts),
		newClaimRemoveCompletedCmd(opts),
		newClaimAssessCmd(opts),
	)
	return cmd
}

func newClaimSaveCmd(opts *rootOptions) *cobra.Command {
	var (
		in   service.ClaimInput
		sets []string
	)
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Create or update a claim and its workflow fields",
		Example: `  claimdesk claim save --policy 123456789 --name "Asha Rao" --type early
  claimdesk claim save --policy 123456789 --name "Asha Rao" --type early --set nomineeAvailable=true --set deathClaimFormDocs=true`,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *container.Container) error {
			fields, err := parseSets(sets)
			if err != nil {
				return err
			}
			in.Fields = fields

			res, err := app.Services().Claim.SaveProgress(cmd.Context(), in)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd, res)
			}
			if res.Completed != nil {
				printf(cmd, "Payment done. Claim %s moved to completed claims.\n", res.Completed.PolicyNo)
				return nil
			}
			printf(cmd, "Claim progress saved successfully!\n")
			for _, s := range res.Unlocked {
				printf(cmd, "Unlocked: %s\n", s.Title())
			}
			return printProgress(cmd, res.View)
		}),
	}
	f := cmd.Flags()
	f.StringVar(&in.PolicyNo, "policy", "", "Policy number")
	f.StringVar(&in.ClaimantName, "name", "", "Claimant name")
	f.StringVar(&in.ClaimType, "type", "", "Claim type: early, mid (Non-Early 4-5 Yrs) or non-early")
	f.StringVar(&in.CommencementDate, "commencement", "", "Date of commencement (DD/MM/YYYY)")
	f.StringVar(&in.DeathDate, "death", "", "Date of death (DD/MM/YYYY)")
	f.StringVar(&in.Query, "query", "", "Query raised on the claim")
	f.StringArrayVar(&sets, "set", nil, "Workflow field as id=value (repeatable)")
	return cmd
}

func newClaimOpenCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "open <policy>",
		Short: "Show a claim's workflow sections",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *container.Container) error {
			view, err := app.Services().Claim.Open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd, view)
			}
			c := view.Claim
			printf(cmd, "Policy:     %s\nClaimant:   %s\nClaim type: %s\nStage:      %s\n", c.PolicyNo, c.ClaimantName, c.ClaimType, view.Stage)
			if c.Query != "" {
				printf(cmd, "Query:      %s\n", c.Query)
			}
			if a, err := app.Services().Claim.Assess(c.CommencementDate, c.DeathDate); err == nil {
				printAssessment(cmd, a)
			}
			printElapsed(cmd, c.Workflow)
			return printProgress(cmd, view)
		}),
	}
}

func newClaimListCmd(opts *rootOptions) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active claims",
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *container.Container) error {
			views, err := app.Services().Claim.ListActive(cmd.Context(), search)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd, views)
			}
			t := newTable(cmd.OutOrStdout(), "POLICY", "CLAIMANT", "TYPE", "STAGE")
			for _, v := range views {
				t.row(v.Claim.PolicyNo, v.Claim.ClaimantName, v.Claim.ClaimType.String(), v.Stage.String())
			}
			return t.flush()
		}),
	}
	cmd.Flags().StringVar(&search, "search", "", "Filter by text in any column")
	return cmd
}

func newClaimRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <policy>",
		Short: "Delete an active claim",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *container.Container) error {
			if err := app.Services().Claim.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			printf(cmd, "Claim %s removed.\n", args[0])
			return nil
		}),
	}
}

func newClaimPayCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pay <policy>",
		Short: "Mark payment done and move the claim to completed",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *container.Container) error {
			done, err := app.Services().Claim.MarkPaymentDone(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd, done)
			}
			printf(cmd, "Payment done. Claim %s moved to completed claims.\n", done.PolicyNo)
			return nil
		}),
	}
}

func newClaimCompletedCmd(opts *rootOptions) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "completed",
		Short: "List completed claims",
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *container.Container) error {
			done, err := app.Services().Claim.ListCompleted(cmd.Context(), search)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd, done)
			}
			t := newTable(cmd.OutOrStdout(), "ID", "POLICY", "CLAIMANT", "TYPE", "COMPLETED")
			for _, c := range done {
				t.row(c.ID, c.PolicyNo, c.ClaimantName, c.ClaimType.String(), c.CompletedAt.Format(claimdate.Layout))
			}
			return t.flush()
		}),
	}
	cmd.Flags().StringVar(&search, "search", "", "Filter by text in any column")
	return cmd
}

func newClaimRemoveCompletedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-completed <id>",
		Short: "Delete a completed claim entry",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *container.Container) error {
			if err := app.Services().Claim.RemoveCompleted(cmd.Context(), args[0]); err != nil {
				return err
			}
			printf(cmd, "Completed claim %s removed.\n", args[0])
			return nil
		}),
	}
}

func newClaimAssessCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "assess <commencement> <death>",
		Short: "Suggest a claim type and check the intimation time bar",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *container.Container) error {
			a, err := app.Services().Claim.Assess(claimdate.FormatInput(args[0]), claimdate.FormatInput(args[1]))
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd, a)
			}
			printAssessment(cmd, a)
			return nil
		}),
	}
}

func printAssessment(cmd *cobra.Command, a *claimdate.Assessment) {
	printf(cmd, "Duration:   %.2f years\nSuggested:  %s\n", a.Years, a.Suggested)
	if a.TimeBarred {
		printf(cmd, "Warning:    %s\n", a.Warning)
	}
}

func printElapsed(cmd *cobra.Command, fields entity.WorkflowState) {
	now := time.Now()
	if d := fields.String(entity.FieldInvestigationDate); d != "" && !fields.Bool(entity.FieldInvestigationReceived) {
		if t, err := claimdate.Parse(d); err == nil {
			printf(cmd, "Investigation allotted %d days ago\n", claimdate.DaysSince(t, now))
		}
	}
	if d := fields.String(entity.FieldDOSentDate); d != "" && !fields.Bool(entity.FieldDODecisionReceived) {
		if t, err := claimdate.Parse(d); err == nil {
			printf(cmd, "Sent to D.O. %d days ago\n", claimdate.DaysSince(t, now))
		}
	}
}

func printProgress(cmd *cobra.Command, view *service.ClaimView) error {
	if view.Progress == nil {
		printf(cmd, "Claim type %q has no workflow; save the claim with --type to continue.\n", view.Claim.ClaimType)
		return nil
	}
	path, err := workflow.Path(view.Claim.ClaimType)
	if err != nil {
		return err
	}
	completed := make(map[workflow.Section]bool, len(view.Progress.Completed))
	for _, s := range view.Progress.Completed {
		completed[s] = true
	}

	t := newTable(cmd.OutOrStdout(), "SECTION", "STATUS")
	for _, s := range path {
		status := "locked"
		switch {
		case completed[s]:
			status = "done"
		case view.Progress.IsUnlocked(s):
			status = "open"
		}
		t.row(s.Title(), status)
	}
	if err := t.flush(); err != nil {
		return err
	}
	if workflow.LETFormsRequired(view.Claim.Workflow) {
		printf(cmd, "LET forms are required (no nominee).\n")
	}
	return nil
}

// parseSets turns id=value pairs into workflow fields. true/false become
// checkbox values; anything else is kept as text.
func parseSets(sets []string) (entity.WorkflowState, error) {
	fields := entity.WorkflowState{}
	for _, s := range sets {
		k, v, ok := strings.Cut(s, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --set %q, want id=value", s)
		}
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			fields[k] = b
			continue
		}
		fields[k] = strings.TrimSpace(v)
	}
	return fields, nil
}
