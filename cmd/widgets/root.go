package main

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/widget-dashboard/internal/bootstrap"
	"github.com/GregMSThompson/widget-dashboard/internal/config"
	"github.com/GregMSThompson/widget-dashboard/internal/dto"
	"github.com/GregMSThompson/widget-dashboard/internal/models"
	"github.com/GregMSThompson/widget-dashboard/internal/services"
	"github.com/GregMSThompson/widget-dashboard/internal/state"
	"github.com/GregMSThompson/widget-dashboard/internal/store"
	"github.com/GregMSThompson/widget-dashboard/pkg/logger"
)

// globals carries the root flags; empty values fall back to config.
type globals struct {
	store      string
	sqlitePath string
	key        string
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:           "widgets",
		Short:         "Inspect and edit the stored dashboard widgets",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.store, "store", "", "Storage backend: memory, sqlite or firestore (default from STOREBACKEND)")
	pf.StringVar(&g.sqlitePath, "sqlite-path", "", "SQLite database file (default from SQLITEPATH)")
	pf.StringVar(&g.key, "key", "", "Storage key holding the collection (default from STORAGEKEY)")

	root.AddCommand(
		newListCmd(g),
		newShowCmd(g),
		newAddCmd(g),
		newEditCmd(g),
		newRemoveCmd(g),
		newMoveCmd(g),
	)
	return root
}

type dashboardEnv struct {
	ctx context.Context
	svc dashboardService

	closers []func()
}

type dashboardService interface {
	GetDashboard(ctx context.Context, q string) []models.Widget
	GetWidgetCard(ctx context.Context, id int) (dto.WidgetCardResponse, error)
	CreateWidget(ctx context.Context, req dto.WidgetFormRequest) (models.Widget, error)
	EditWidget(ctx context.Context, id int, req dto.WidgetFormRequest) (models.Widget, error)
	EditForm(ctx context.Context, id int) (dto.FormStateResponse, error)
	DeleteWidget(ctx context.Context, id int)
	ReorderWidgets(ctx context.Context, req dto.ReorderWidgetsRequest) error
}

// open loads the collection from the configured backend. Logs go to
// stderr so stdout stays machine readable.
func (g *globals) open(cmd *cobra.Command) (*dashboardEnv, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	if g.store != "" {
		cfg.StoreBackend = g.store
	}
	if g.sqlitePath != "" {
		cfg.SQLitePath = g.sqlitePath
	}
	if g.key != "" {
		cfg.StorageKey = g.key
	}

	bs, err := bootstrap.Run(cfg, logger.CloudRunHandlerTo(cmd.ErrOrStderr()))
	if err != nil {
		bs.Close()
		return nil, err
	}
	ctx := logger.ToContext(cmd.Context(), bs.Log)

	manager := state.NewManager(ctx, store.NewWidgetStore(bs.Slot, cfg.StorageKey))
	session := services.NewSession(ctx, manager, services.SessionOptions{
		HighlightInterval: time.Hour,
		InitialLatency:    func() time.Duration { return 0 },
	})

	return &dashboardEnv{
		ctx: ctx,
		svc: services.NewDashboardService(manager, session),
		closers: []func(){
			session.Close,
			func() { _ = bs.Close() },
		},
	}, nil
}

func (e *dashboardEnv) Close() {
	for _, c := range e.closers {
		c()
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
