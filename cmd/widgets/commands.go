package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/widget-dashboard/internal/dto"
	"github.com/GregMSThompson/widget-dashboard/internal/errs"
)

func newListCmd(g *globals) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List widgets in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer env.Close()
			return printJSON(cmd.OutOrStdout(), env.svc.GetDashboard(env.ctx, query))
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Case-insensitive name filter")
	return cmd
}

func newShowCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a widget with its derived chart options",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			env, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			card, err := env.svc.GetWidgetCard(env.ctx, id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), card)
		},
	}
}

// formFlags mirrors the create/edit dialog fields.
type formFlags struct {
	name      string
	project   string
	kind      string
	completed float64
	total     float64
	start     string
	end       string
}

func (f *formFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.name, "name", "", "Widget name")
	fs.StringVar(&f.project, "project", "", "Project name")
	fs.StringVar(&f.kind, "type", "", "Widget type: progress, statistics or timeline")
	fs.Float64Var(&f.completed, "completed", 0, "Tasks completed")
	fs.Float64Var(&f.total, "total", 0, "Tasks total")
	fs.StringVar(&f.start, "start", "", "Start date (YYYY-MM-DD)")
	fs.StringVar(&f.end, "end", "", "End date (YYYY-MM-DD)")
}

// apply copies every flag the user set onto req.
func (f *formFlags) apply(cmd *cobra.Command, req *dto.WidgetFormRequest) {
	fs := cmd.Flags()
	if fs.Changed("name") {
		req.Name = f.name
	}
	if fs.Changed("project") {
		req.ProjectName = f.project
	}
	if fs.Changed("type") {
		req.Type = f.kind
	}
	if fs.Changed("completed") {
		req.TasksCompleted = &f.completed
	}
	if fs.Changed("total") {
		req.TasksTotal = &f.total
	}
	if fs.Changed("start") {
		req.StartDate = &f.start
	}
	if fs.Changed("end") {
		req.EndDate = &f.end
	}
}

func newAddCmd(g *globals) *cobra.Command {
	f := &formFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a widget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			var req dto.WidgetFormRequest
			f.apply(cmd, &req)
			w, err := env.svc.CreateWidget(env.ctx, req)
			if err != nil {
				return describe(err)
			}
			return printJSON(cmd.OutOrStdout(), w)
		},
	}
	f.bind(cmd)
	return cmd
}

func newEditCmd(g *globals) *cobra.Command {
	f := &formFlags{}
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a widget; unset flags keep their current values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			env, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			current, err := env.svc.EditForm(env.ctx, id)
			if err != nil {
				return err
			}
			req := dto.WidgetFormRequest{
				Name:           current.Name,
				ProjectName:    current.ProjectName,
				Type:           current.Type,
				TasksCompleted: &current.TasksCompleted,
				TasksTotal:     &current.TasksTotal,
				StartDate:      current.StartDate,
				EndDate:        current.EndDate,
			}
			f.apply(cmd, &req)

			w, err := env.svc.EditWidget(env.ctx, id, req)
			if err != nil {
				return describe(err)
			}
			return printJSON(cmd.OutOrStdout(), w)
		},
	}
	f.bind(cmd)
	return cmd
}

func newRemoveCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a widget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			env, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			env.svc.DeleteWidget(env.ctx, id)
			fmt.Fprintf(cmd.OutOrStdout(), "Removed widget %d\n", id)
			return nil
		},
	}
}

func newMoveCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "move <from> <to>",
		Short: "Move the widget at display position from to position to",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid position %q", args[0])
			}
			to, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid position %q", args[1])
			}
			env, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			if err := env.svc.ReorderWidgets(env.ctx, dto.ReorderWidgetsRequest{From: from, To: to}); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), env.svc.GetDashboard(env.ctx, ""))
		},
	}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid widget id %q", s)
	}
	return id, nil
}

// describe appends field errors so a rejected form says what to fix.
func describe(err error) error {
	v, ok := err.(*errs.ValidationError)
	if !ok || len(v.Fields) == 0 {
		return err
	}
	return fmt.Errorf("%s: %v", v.Message, v.Fields)
}
