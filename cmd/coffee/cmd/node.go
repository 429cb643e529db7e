package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/MinterTeam/minter-coffee/api"
	"github.com/MinterTeam/minter-coffee/core/metrics"
	"github.com/MinterTeam/minter-coffee/core/node"
	"github.com/MinterTeam/minter-coffee/core/types"
	"github.com/MinterTeam/minter-coffee/genesis"
	"github.com/MinterTeam/minter-coffee/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	tmLog "github.com/tendermint/tendermint/libs/log"
	tmOS "github.com/tendermint/tendermint/libs/os"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
)

// RunNode is the command that allows the CLI to start a node.
var RunNode = &cobra.Command{
	Use:   "node",
	Short: "Run the coffee node",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runNode(cmd)
	},
}

func runNode(cmd *cobra.Command) error {
	logger, err := log.NewLogger(cfg)
	if err != nil {
		return err
	}

	// check open files limits
	if err := checkRlimits(); err != nil {
		return err
	}

	// ensure /config and /data dirs
	if err := ensureDirs(); err != nil {
		return err
	}

	m := metrics.NopMetrics()
	if cfg.Instrumentation.Prometheus {
		m = metrics.PrometheusMetrics(cfg.Instrumentation.Namespace)
	}

	db, err := node.OpenDB(cfg)
	if err != nil {
		return err
	}

	app, err := node.NewNode(cfg, db, logger, m)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("Failed to close state db", "err", err)
		}
	}()

	if app.Height() == 0 {
		isTestnet, _ := cmd.Flags().GetBool("testnet")
		appState, err := loadGenesis(isTestnet, logger)
		if err != nil {
			return err
		}
		if _, err := app.InitChain(appState); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return api.NewServer(app, m, logger.With("module", "api")).Run(ctx, cfg.APIListenAddress)
	})
	if cfg.Instrumentation.Prometheus {
		g.Go(func() error {
			return runPrometheus(ctx, logger.With("module", "metrics"))
		})
	}

	logger.Info("Node started", "height", app.Height(), "chain_id", types.CurrentChainID)

	return g.Wait()
}

func runPrometheus(ctx context.Context, logger tmLog.Logger) error {
	srv := &http.Server{
		Addr:              cfg.Instrumentation.PrometheusListenAddr,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return api.Serve(ctx, srv, logger)
}

// loadGenesis reads the configured genesis file. On the test network a missing file is
// created from the built-in test network genesis.
func loadGenesis(isTestnet bool, logger tmLog.Logger) (types.AppState, error) {
	path := cfg.GenesisFile()
	if tmOS.FileExists(path) {
		return genesis.Load(path)
	}

	if !isTestnet {
		return types.AppState{}, fmt.Errorf("genesis file %s not found", path)
	}

	appState := genesis.GetTestnetGenesis()
	if err := genesis.Save(path, appState); err != nil {
		return types.AppState{}, err
	}
	logger.Info("Wrote test network genesis", "path", path)

	return appState, nil
}

func ensureDirs() error {
	if err := tmOS.EnsureDir(filepath.Join(cfg.RootDir, "config"), 0777); err != nil {
		return err
	}

	if err := tmOS.EnsureDir(cfg.DBDir(), 0777); err != nil {
		return err
	}

	return nil
}

func checkRlimits() error {
	const RequiredOpenFilesLimit = 10000

	var rLimit unix.Rlimit
	err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		return err
	}

	required := RequiredOpenFilesLimit + uint64(cfg.StateMemAvailable)
	if rLimit.Cur < required {
		rLimit.Cur = required
		err = unix.Setrlimit(unix.RLIMIT_NOFILE, &rLimit)
		if err != nil {
			return fmt.Errorf("cannot set RLIMIT_NOFILE to %d", rLimit.Cur)
		}
	}

	return nil
}
