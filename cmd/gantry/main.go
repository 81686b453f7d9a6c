// Package main is the entry point for the gantry field-robot runner.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/farmm/gantry-engine/internal/config"
	"github.com/farmm/gantry-engine/internal/sim"
	"github.com/farmm/gantry-engine/internal/taskstore"
	"github.com/farmm/gantry-engine/internal/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to configuration TOML file")
	headless := flag.Bool("headless", false, "run without the TUI and print the final task ledger")
	ticks := flag.Int("ticks", 2000, "number of simulation ticks to run in headless mode")
	flag.Parse()

	if *showVersion {
		fmt.Printf("gantry %s (commit=%s, built=%s)\n", version, commit, date)
		os.Exit(0)
	}

	// Resolve config: --config flag > GANTRY_CONFIG env > config.toml in cwd
	// > built-in defaults.
	path := *configPath
	if path == "" {
		path = os.Getenv("GANTRY_CONFIG")
	}
	if path == "" {
		if _, err := os.Stat("config.toml"); err == nil {
			path = "config.toml"
		}
	}

	var cfg *config.Config
	if path == "" {
		cfg = config.Default()
	} else {
		loaded, err := config.Load(path)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}

	db, err := taskstore.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("open task database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := taskstore.Seed(ctx, db); err != nil {
		log.Fatalf("seed task database: %v", err)
	}

	repo := &taskstore.Repo{}
	pending, err := repo.LoadPending(ctx, db)
	if err != nil {
		log.Fatalf("load pending tasks: %v", err)
	}

	rt := sim.New(cfg.RobotState(), cfg.Params())
	if len(pending) > 0 {
		if err := rt.Submit(pending); err != nil {
			log.Fatalf("submit tasks: %v", err)
		}
		ids := make([]int64, len(pending))
		for i, t := range pending {
			ids[i] = t.ID
		}
		if err := repo.MarkSubmitted(ctx, db, ids); err != nil {
			log.Fatalf("mark tasks submitted: %v", err)
		}
		log.Printf("loaded %d task(s) from %s", len(pending), cfg.DBPath)
	}

	if *headless {
		runHeadless(rt, *ticks)
		return
	}

	m := tui.New(rt, time.Duration(cfg.TickIntervalMS)*time.Millisecond)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("viewer error: %v", err)
	}
}

// runHeadless steps the simulation up to the tick budget, stopping early
// once all queued work has drained, then prints the final ledger.
func runHeadless(rt *sim.Runtime, ticks int) {
	ran := 0
	for ; ran < ticks; ran++ {
		if err := rt.Step(); err != nil {
			log.Fatalf("step %d: %v", ran, err)
		}
		if rt.Idle() {
			ran++
			break
		}
	}

	snap := rt.Snapshot()
	fmt.Printf("ran %d tick(s); vehicle status: %s\n", ran, snap.StatusText)
	fmt.Printf("frame (%.3f, %.3f)  tool (%.3f, %.3f, %.3f)  pending commands: %d\n",
		snap.FramePosition.X, snap.FramePosition.Y,
		snap.ToolOffset.X, snap.ToolOffset.Y, snap.ToolOffset.Z,
		snap.PendingCommands)
	if len(snap.Tasks) == 0 {
		fmt.Println("all tasks complete")
		return
	}
	for _, t := range snap.Tasks {
		line := fmt.Sprintf("task %d (%s): %s", t.ID, t.Operation, t.Status)
		if t.SliceError != "" {
			line += " (" + t.SliceError + ")"
		}
		fmt.Println(line)
	}
}
