package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sysmonbar/internal/auth"
	"sysmonbar/internal/conf"
	"sysmonbar/internal/icon"
	"sysmonbar/internal/logx"
	"sysmonbar/internal/pipeline"
	"sysmonbar/internal/system"
	"sysmonbar/internal/tray"
	"sysmonbar/internal/web"
)

const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(start())
}

// start returns the exit code; deferred log syncing runs before os.Exit.
func start() int {
	configPath := flag.String("config", "config.toml", "path to the TOML or YAML config file")
	addUser := flag.String("add-user", "", "create a dashboard user and exit; the password is read from SYSMONBAR_PASSWORD")
	flag.Parse()

	if err := conf.LoadConfig(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger, err := logx.NewLogger(conf.GetLog())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer logger.Sync()

	if *addUser != "" {
		if err := createUser(*addUser); err != nil {
			logger.Error("failed to add user", zap.Error(err))
			return 1
		}
		logger.Info("user added", zap.String("user", *addUser), zap.String("config", conf.Path))
		return 0
	}

	if err := run(logger); err != nil {
		logger.Error("sysmonbar stopped", zap.Error(err))
		return 1
	}
	return 0
}

func createUser(name string) error {
	password, ok := os.LookupEnv(conf.EnvPrefix + "PASSWORD")
	if !ok || password == "" {
		return errors.New("SYSMONBAR_PASSWORD is not set")
	}
	return auth.NewUser(name, password)
}

func run(logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := system.NewHostSource(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialise metrics source: %w", err)
	}

	sampling := conf.GetSampling()
	opts := []system.SamplerOption{
		system.WithSettleDelay(sampling.SettleDelay),
		system.WithMinDiskSize(sampling.MinDiskSizeBytes()),
		system.WithLogger(logger.Named("sampler")),
	}
	if sampling.CPUPrime {
		opts = append(opts, system.WithCPUPrime())
	}
	sampler := system.NewSampler(src, opts...)

	iconCfg := conf.GetIcon()
	renderer, err := icon.NewRenderer(iconCfg.Format, iconCfg.Dir)
	if err != nil {
		return err
	}

	menu := tray.NewMenu(func(labels map[tray.Item]string, iconPath string) {
		logger.Debug("tray menu updated", zap.String("icon", iconPath), zap.Any("labels", labels))
	})
	presenters := []pipeline.Presenter{menu}

	var srv *http.Server
	if dashCfg := conf.GetDashboard(); dashCfg.Enabled {
		dash := web.NewDashboard(logger.Named("dashboard"))
		presenters = append(presenters, dash)
		srv = web.NewServer(dashCfg, dash)
	}

	tx, rx := pipeline.NewHandoff()
	loopDone := pipeline.NewLoop(sampler, sampling.Period, logger.Named("loop")).Start(tx)
	consumer := pipeline.NewConsumer(rx, icon.NewCache(renderer), presenters,
		pipeline.WithPollInterval(conf.GetUI().PollInterval),
		pipeline.WithConsumerLogger(logger.Named("ui")),
	)

	logger.Info("sysmonbar started",
		zap.Duration("period", sampling.Period),
		zap.String("icon_format", iconCfg.Format),
		zap.String("icon_dir", iconCfg.Dir),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumer.Run(gctx)
	})
	if srv != nil {
		g.Go(func() error {
			logger.Info("dashboard listening", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("dashboard server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	// The consumer closed the hand-off; the loop exits within one period.
	<-loopDone
	logger.Info("sysmonbar stopped")
	return err
}
