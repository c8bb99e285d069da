package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/gw/kalshi-tradestats/internal/config"
	"github.com/gw/kalshi-tradestats/internal/history"
	"github.com/gw/kalshi-tradestats/internal/logger"
	"github.com/gw/kalshi-tradestats/internal/scheduler"
	"github.com/gw/kalshi-tradestats/internal/stats"
	"github.com/gw/kalshi-tradestats/internal/tradelog"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load(config.Path())
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	app := &cli{cfg: cfg, log: log, out: os.Stdout}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "report":
		err = app.runReport(args)
	case "snapshot":
		err = app.runSnapshot()
	case "history":
		limit := 20
		if len(args) > 0 {
			if n, convErr := strconv.Atoi(args[0]); convErr == nil && n > 0 {
				limit = n
			}
		}
		err = app.runHistory(limit)
	case "daily":
		err = app.runDaily()
	case "compact":
		err = app.runCompact(args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}

	if err != nil {
		log.Error(cmd+" failed", zap.Error(err))
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: tradestats <command>

Commands:
  report [-format table|json|yaml] [-log path]   Compute stats from the trade log
  snapshot                                       Record one snapshot in the history db
  history [N]                                    Show last N snapshots (default 20)
  daily                                          Show the latest snapshot of each day
  compact -out path | -in-place                  Write the log deduplicated by order_id`)
}

func (a *cli) service() *stats.Service {
	return &stats.Service{
		LogPath: a.cfg.TradeLog.Path,
		Dedupe:  a.cfg.TradeLog.Dedupe,
		Logger:  a.log,
	}
}

func (a *cli) openStore() (*history.Store, error) {
	if !a.cfg.History.Enabled {
		return nil, errors.New("history is disabled (history.enabled=false)")
	}
	return history.Open(a.cfg.History.Path)
}

func (a *cli) runReport(args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	format := fs.String("format", "table", "output format: table, json or yaml")
	logPath := fs.String("log", "", "trade log path (overrides tradelog.path)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *logPath != "" {
		a.cfg.TradeLog.Path = *logPath
	}

	summary, err := a.service().Stats(context.Background())
	if err != nil {
		return err
	}
	return a.printSummary(summary, *format)
}

func (a *cli) runSnapshot() error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	snap, err := scheduler.TakeSnapshot(context.Background(), a.service(), store, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Recorded snapshot %s (%d trades, PnL %s)\n", snap.ID, snap.TotalTrades, cents(snap.TotalPnlCents))
	return nil
}

func (a *cli) runHistory(limit int) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	snaps, err := store.Recent(context.Background(), limit)
	if err != nil {
		return err
	}
	a.printHistory(snaps)
	return nil
}

func (a *cli) runDaily() error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	rows, err := store.Daily(context.Background())
	if err != nil {
		return err
	}
	a.printDaily(rows)
	return nil
}

func (a *cli) runCompact(args []string) error {
	fs := flag.NewFlagSet("compact", flag.ContinueOnError)
	out := fs.String("out", "", "write the compacted log here")
	inPlace := fs.Bool("in-place", false, "rewrite the live log, keeping a .bak (stop the trader first)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*out == "") == !*inPlace {
		return errors.New("compact needs exactly one of -out or -in-place")
	}

	path := a.cfg.TradeLog.Path
	res, err := tradelog.Load(context.Background(), path)
	if err != nil {
		return err
	}
	records := tradelog.Dedupe(res.Records)

	if *inPlace {
		if err := tradelog.Rewrite(path, records); err != nil {
			return err
		}
		*out = path
	} else {
		if _, err := os.Stat(*out); err == nil {
			return fmt.Errorf("refusing to overwrite %s", *out)
		}
		w, err := tradelog.NewWriter(*out)
		if err != nil {
			return err
		}
		for _, rec := range records {
			if err := w.Write(rec); err != nil {
				w.Close()
				return err
			}
		}
		if err := w.Close(); err != nil {
			return err
		}
	}

	fmt.Fprintf(a.out, "Compacted %d records to %d (%d malformed lines dropped) -> %s\n",
		len(res.Records), len(records), res.Skipped, *out)
	return nil
}
