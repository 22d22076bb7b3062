// Command spadesd boots the Spades table-server core: the registry, its
// turn-clock scheduler, and the seek and challenge matchmaking brokers.
// It exposes no transport of its own (spec.md §1 "out of scope: the
// HTTP/WebSocket/SSE transport layer") — a transport process embeds
// pkg/registry, pkg/matchmaking/seek, and pkg/matchmaking/challenge
// directly. This binary exists so the core can be booted, smoke-tested,
// and profiled standalone, mirroring the teacher's cmd/pokersrv shape
// minus the gRPC listener.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/benbjohnson/clock"

	"github.com/spadesd/spadesd/internal/logging"
	"github.com/spadesd/spadesd/pkg/matchmaking/challenge"
	"github.com/spadesd/spadesd/pkg/matchmaking/seek"
	"github.com/spadesd/spadesd/pkg/registry"
	"github.com/spadesd/spadesd/pkg/scheduler"
	"github.com/spadesd/spadesd/pkg/store"
	"github.com/spadesd/spadesd/pkg/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "spadesd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		datadir    string
		dbPath     string
		debugLevel string
	)
	flag.StringVar(&datadir, "datadir", defaultDataDir(), "Directory for database and logs")
	flag.StringVar(&dbPath, "db", "", "Path to SQLite database file (defaults to <datadir>/spadesd.db)")
	flag.StringVar(&debugLevel, "debuglevel", "info", "Logging level: trace, debug, info, warn, error, critical, off")
	flag.Parse()

	if err := utils.EnsureDataDirExists(datadir); err != nil {
		return err
	}
	if dbPath == "" {
		dbPath = filepath.Join(datadir, "spadesd.db")
	}

	logBackend, err := logging.NewBackend(logging.LogConfig{DebugLevel: debugLevel})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	log := logBackend.Logger("SPADESD")

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	// Registry and Scheduler are mutually referential at construction
	// (the scheduler needs the registry as its Host, the registry needs
	// the scheduler to drive ApplyMove): build the registry with no
	// scheduler yet, build the scheduler against it, then wire it back.
	reg := registry.New(st, nil, logBackend.Logger("REGISTRY"))
	sched := scheduler.New(clock.New(), reg, logBackend.Logger("SCHEDULER"))
	reg.SetScheduler(sched)

	if err := reg.Boot(); err != nil {
		return fmt.Errorf("boot registry: %w", err)
	}

	// Built but not driven by anything in this binary; an embedding
	// transport process constructs its RPC surface around these same
	// three collaborators (reg, seekBroker, challengeBroker).
	seekBroker := seek.New(reg, logBackend.Logger("SEEK"))
	challengeBroker := challenge.New(reg, clock.New(), logBackend.Logger("CHALLENGE"))

	log.Infof("spadesd core ready: datadir=%s db=%s tables=%d seeks=%d open_challenges=%d",
		datadir, dbPath, len(reg.ListTables()), len(seekBroker.ListSeeks()), challengeBroker.CountOpen())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	log.Infof("shutting down")
	return nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".spadesd"
	}
	return filepath.Join(home, ".spadesd")
}
