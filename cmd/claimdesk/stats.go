package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/garyjia/lic-claimdesk/internal/container"
	"github.com/garyjia/lic-claimdesk/internal/domain/entity"
)

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard counters",
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *container.Container) error {
			c := app.Services().Counters.Current()
			if opts.json {
				return printJSON(cmd, c)
			}
			t := newTable(cmd.OutOrStdout(), "metric", "value")
			t.row("active_claims", strconv.Itoa(c.ActiveClaims))
			t.row("completed_claims", strconv.Itoa(c.CompletedClaims))
			t.row("active_special_cases", strconv.Itoa(c.ActiveSpecialCases))
			t.row("resolved_special_cases", strconv.Itoa(c.CompletedSpecialCases))
			t.row("follow_ups", strconv.Itoa(c.FollowUps))
			for _, s := range entity.FollowUpStatuses {
				t.row("follow_ups_"+string(s), strconv.Itoa(c.FollowUpsByStatus[s]))
			}
			return t.flush()
		}),
	}
}
