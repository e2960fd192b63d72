// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// ledgerd replays a declarative scenario against a fresh ledger deployment:
// it builds the genesis state, applies the scenario's operations, records
// every operation in the event db and optionally serves metrics.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/openfi/ledger/contracts"
	"github.com/openfi/ledger/eventdb"
	ledgerlog "github.com/openfi/ledger/log"
	"github.com/openfi/ledger/metrics"
)

var (
	version   string
	gitCommit string
	release   = "dev"
	log       = ledgerlog.WithContext("pkg", "ledgerd")
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-commit%s", release, version, gitCommit)
	app.Name = "ledgerd"
	app.Usage = "taxed-token and staking ledger scenario runner"
	app.Copyright = "2026 The OpenFi Ledger developers"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "scenario",
			Usage: "path of the scenario yaml file",
		},
		cli.StringFlag{
			Name:  "eventdb",
			Usage: "path of the operation record db (empty runs in ram)",
		},
		cli.IntFlag{
			Name:  "verbosity",
			Value: 2,
			Usage: "log verbosity (0=error, 1=warn, 2=info, 3=debug)",
		},
		cli.BoolFlag{
			Name:  "enable-metrics",
			Usage: "export prometheus metrics",
		},
		cli.StringFlag{
			Name:  "metrics-addr",
			Value: "localhost:2112",
			Usage: "metrics service listening address, kept alive after the replay",
		},
	}
	app.Action = run
	return app
}

func run(ctx *cli.Context) error {
	initLogger(ctx.Int("verbosity"))

	path := ctx.String("scenario")
	if path == "" {
		return errors.New("--scenario is required")
	}
	scenario, err := LoadScenario(path)
	if err != nil {
		return err
	}

	if ctx.Bool("enable-metrics") {
		metrics.InitializePrometheusMetrics()
	}

	db, err := openEventDB(ctx.String("eventdb"))
	if err != nil {
		return errors.Wrap(err, "open event db")
	}
	defer db.Close()

	ledger, err := scenario.build(db)
	if err != nil {
		return errors.Wrap(err, "build genesis")
	}
	if err := scenario.run(ledger); err != nil {
		return err
	}

	reverted, err := db.Filter(context.Background(), &eventdb.Filter{OnlyReverted: true})
	if err != nil {
		return errors.Wrap(err, "query reverted operations")
	}
	log.Info("scenario finished", "steps", len(scenario.Steps), "reverted", len(reverted))

	if ctx.Bool("enable-metrics") {
		return serveMetrics(ctx.String("metrics-addr"))
	}
	return nil
}

func openEventDB(path string) (*eventdb.EventDB, error) {
	if path == "" {
		return eventdb.NewMem()
	}
	return eventdb.New(path)
}

func serveMetrics(addr string) error {
	srv := &http.Server{Addr: addr, Handler: metrics.HTTPHandler()}
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		_ = srv.Shutdown(context.Background())
	}()

	log.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func verbosityToLevel(v int) slog.Level {
	switch {
	case v <= 0:
		return slog.LevelError
	case v == 1:
		return slog.LevelWarn
	case v == 2:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

func initLogger(verbosity int) {
	logLevel := verbosityToLevel(verbosity)
	useColor := isatty.IsTerminal(os.Stderr.Fd())
	ledgerlog.SetDefault(ledgerlog.NewTerminalLoggerWithLevel(logLevel, useColor))
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var _ contracts.Emitter = (*eventdb.EventDB)(nil)
