package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/five82/rewake/internal/config"
	"github.com/five82/rewake/internal/focus"
	"github.com/five82/rewake/internal/logging"
	"github.com/five82/rewake/internal/netwatch"
	"github.com/five82/rewake/internal/spindle"
	"github.com/five82/rewake/internal/state"
	"github.com/five82/rewake/internal/trigger"
	"github.com/five82/rewake/internal/ui"
)

// Options configure the application.
type Options struct {
	ConfigPath string
	PollEvery  int // seconds; zero uses the config value
}

// Run boots rewake until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = time.Duration(opts.PollEvery) * time.Second
	}

	log, closeLog, err := logging.New(logging.Options{File: cfg.Log.File, Level: cfg.Log.Level})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closeLog()

	client, err := spindle.NewClient(cfg.APIBind)
	if err != nil {
		return fmt.Errorf("init spindle client: %w", err)
	}

	rt, err := newRuntime(ctx, cfg, client, log)
	if err != nil {
		return err
	}
	defer rt.close()

	log.Info("starting", zap.String("api", cfg.APIBind), zap.Duration("poll", cfg.PollInterval),
		zap.Bool("handle_app_state", cfg.Trigger.HandleAppState),
		zap.Duration("resume_delay", cfg.Trigger.ResumeDelay))

	return rt.run(ctx, func(ctx context.Context) error {
		return ui.Run(ctx, ui.Options{
			Store:      rt.store,
			Focus:      rt.focus,
			Trigger:    rt.trigger,
			Refresh:    rt.poller.Kick,
			APIBind:    cfg.APIBind,
			RenderTick: time.Second,
		})
	})
}

// runtime holds the wired components between the config and the UI.
type runtime struct {
	store   *state.Store
	poller  *Poller
	focus   *focus.Source
	watcher *netwatch.Watcher
	trigger *trigger.Controller
	log     *zap.Logger
}

func newRuntime(ctx context.Context, cfg config.Config, client spindle.Fetcher, log *zap.Logger) (*runtime, error) {
	if log == nil {
		log = zap.NewNop()
	}
	addr := cfg.APIBind
	if c, ok := client.(*spindle.Client); ok {
		addr = c.Addr()
	}
	watcher, err := netwatch.New(addr, netwatch.Options{
		ProbeTimeout: cfg.Network.ProbeTimeout,
		Interval:     cfg.Network.WatchInterval,
		Logger:       log,
	})
	if err != nil {
		return nil, fmt.Errorf("init network watcher: %w", err)
	}

	store := &state.Store{}
	poller := NewPoller(store, client, cfg.PollInterval, log)
	source := focus.New()
	ctrl := trigger.New(cfg.TriggerConfig(poller.Fetch), source, watcher,
		trigger.WithLogger(log),
		trigger.WithContext(ctx),
	)
	poller.OnFailure(ctrl.RequestNetworkWatch)

	return &runtime{
		store:   store,
		poller:  poller,
		focus:   source,
		watcher: watcher,
		trigger: ctrl,
		log:     log,
	}, nil
}

// run mounts the trigger, starts the poller, and blocks on front until it
// returns; the poller is then stopped.
func (r *runtime) run(ctx context.Context, front func(context.Context) error) error {
	r.trigger.Mount()
	defer r.trigger.Unmount()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.poller.Run(gctx)
	})
	g.Go(func() error {
		defer cancel()
		return front(gctx)
	})
	return g.Wait()
}

func (r *runtime) close() {
	r.trigger.Unmount()
	r.watcher.Close()
	_ = r.log.Sync()
}
