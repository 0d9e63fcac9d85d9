package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/p-blackswan/spatialflow/internal/orchestrator"
	"github.com/p-blackswan/spatialflow/internal/render"
)

// oneShot runs fn against a freshly loaded session and waits for background work
// before returning, so a layout's schedule parse is not cut off by process exit.
func (a *app) oneShot(cmd *cobra.Command, fn func(*cobra.Command, *orchestrator.Orchestrator) error) error {
	s, err := a.newSession(nil)
	if err != nil {
		return err
	}
	defer s.orch.Close()

	if err := a.loadInputs(s); err != nil {
		return err
	}
	return fn(cmd, s.orch)
}

func (a *app) layoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Generate temporary zone recommendations for a week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.oneShot(cmd, func(cmd *cobra.Command, o *orchestrator.Orchestrator) error {
				res, err := o.GenerateLayout(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), render.Layout(res.View))
				return nil
			})
		},
	}
}

func (a *app) queryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "query <question>",
		Short: "Ask a question about the site for a week",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.oneShot(cmd, func(cmd *cobra.Command, o *orchestrator.Orchestrator) error {
				res, err := o.Query(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), render.Answer(*res))
				return nil
			})
		},
	}
}

func (a *app) replanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replan <disruption>",
		Short: "Revise the schedule around a disruption",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.oneShot(cmd, func(cmd *cobra.Command, o *orchestrator.Orchestrator) error {
				var d orchestrator.DelayType
				if a.opts.delayType != "" {
					var err error
					if d, err = orchestrator.ParseDelayType(a.opts.delayType); err != nil {
						return err
					}
				}
				res, err := o.ReplanAs(cmd.Context(), strings.Join(args, " "), d)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), render.Replan(res.View))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&a.opts.delayType, "delay-type", "",
		"disruption category: material, weather, labor, equipment, design, other")
	return cmd
}

func (a *app) weekCommand() *cobra.Command {
	var noParse bool
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the schedule detail for a week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.oneShot(cmd, func(cmd *cobra.Command, o *orchestrator.Orchestrator) error {
				if !noParse && o.State().HasSchedule {
					if _, err := o.ParseSchedule(cmd.Context()); err != nil {
						a.logger.Warn().Err(err).Msg("schedule parse failed, showing raw schedule")
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), render.Panel(o.Panel()))
				fmt.Fprintf(cmd.OutOrStdout(), "activity: %s\n", o.WeekContext().Activity)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&noParse, "no-parse", false, "skip the backend and use the raw schedule text")
	return cmd
}
