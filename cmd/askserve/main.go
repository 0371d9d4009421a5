// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the askserve FAQ matching server and its interactive CLI.

askserve answers free-text questions from a small knowledge base of
question, answer and subject rows. Queries are normalized, broadened with a
synonym and category lexicon, scored with exact, partial and fuzzy token
signals, and the best answer is returned with up to two alternatives. User
feedback is learned per word and boosts answers that helped before.

# Usage

Start the IPC server on a CSV knowledge base:

	askserve -kb faq.csv

Run the interactive CLI with scoring reasons:

	askserve -c -kb faq.csv -explain

Reload the knowledge base whenever the file changes:

	askserve -kb faq.yaml -watch

# Configuration

Runtime configuration lives in a TOML file, created with defaults when missing:

	[scoring]
	acceptance_threshold = 0.3
	suggestion_ratio = 0.7
	max_suggestions = 2

	[learner]
	require_helpful = false

	[store]
	backend = "file"   # file, badger or none

	[knowledge]
	path = "faq.csv"
	lexicon = "lexicon.toml"
	watch = false

Damaged config files are recovered section by section; whatever cannot be read
falls back to built-in defaults.

# IPC Protocol

The server reads msgpack maps from stdin and writes one msgpack map per request
to stdout. See package server for the message shapes.

	{"id": "1", "action": "query", "q": "how to export activities"}
	{"id": "2", "action": "feedback", "q": "how to export activities", "a": "AC101.rpt", "h": true}

Learned state is saved after every feedback and on exit through the configured store.

# Command Line Flags

	-version  Show current version
	-d        Enable debug logging
	-c        Run the interactive CLI instead of the IPC server
	-config   Path to a config file
	-kb       Knowledge base file (.csv, .yaml, .json)
	-lexicon  Lexicon file (.toml) replacing the built-in vocabulary
	-explain  Print scoring reasons in the CLI
	-watch    Reload the knowledge base when it changes
	-store    Override the learned state backend (file, badger, none)
	-reset-config  Rewrite the default config file and exit
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/bastiangx/askserve/internal/cli"
	"github.com/bastiangx/askserve/internal/logger"
	"github.com/bastiangx/askserve/internal/utils"
	"github.com/bastiangx/askserve/pkg/config"
	"github.com/bastiangx/askserve/pkg/knowledge"
	"github.com/bastiangx/askserve/pkg/learn"
	"github.com/bastiangx/askserve/pkg/lexicon"
	"github.com/bastiangx/askserve/pkg/server"
	"github.com/bastiangx/askserve/pkg/store"
	"github.com/bastiangx/askserve/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0-beta"
	AppName = utils.AppName
	gh      = "https://github.com/bastiangx/askserve"
)

// sigHandler runs cleanup once on SIGINT/SIGTERM and exits normally.
func sigHandler(cleanup func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		cleanup()
		os.Exit(0)
	}()
}

func showVersion() {
	banner := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ askserve ] Answers questions from your FAQ")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// main wires config, data, persistence and the chosen front end.
// It does not implement logic for them and only manages the flow.
func main() {
	showVer := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	configFile := flag.String("config", "", "Path to config file")
	kbFile := flag.String("kb", "", "Knowledge base file (.csv, .yaml, .json)")
	lexiconFile := flag.String("lexicon", "", "Lexicon TOML file replacing the built-in vocabulary")
	explain := flag.Bool("explain", false, "Print scoring reasons in CLI mode")
	watch := flag.Bool("watch", false, "Reload the knowledge base when the file changes")
	storeBackend := flag.String("store", "", "Learned state backend override: file, badger or none")
	resetConfig := flag.Bool("reset-config", false, "Rewrite the default config file and exit")

	flag.Parse()

	if *showVer {
		showVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	if *resetConfig {
		if err := config.RebuildConfigFile(); err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		log.Print("Config rewritten", "path", config.GetActiveConfigPath(""))
		return
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}

	appConfig, configPath, err := config.LoadConfigWithPriority(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(configPath))
	if *storeBackend != "" {
		appConfig.Store.Backend = *storeBackend
	}
	if *explain {
		appConfig.CLI.Explain = true
	}

	lexPath := firstSet(*lexiconFile, appConfig.Knowledge.Lexicon)
	lex := lexicon.LoadOrDefault(pathResolver.ResolveDataFile(lexPath))

	engine := suggest.New(lex, learn.New(appConfig.LearnerOptions()), appConfig.EngineOptions())

	kbPath := pathResolver.ResolveDataFile(firstSet(*kbFile, appConfig.Knowledge.Path))
	reload := func() (int, error) {
		if kbPath == "" {
			return 0, errors.New("no knowledge base configured")
		}
		entries, err := knowledge.Load(kbPath)
		if err != nil {
			return 0, err
		}
		engine.SwapKnowledgeBase(entries)
		return len(entries), nil
	}

	if kbPath != "" {
		entries, err := knowledge.Load(kbPath)
		if err != nil {
			log.Fatalf("Failed to load knowledge base: %v", err)
		}
		engine.Initialize(entries)
	} else {
		log.Warn("No knowledge base specified, running with an empty one...")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var dataDir string
	if configPath != "" {
		dataDir = filepath.Dir(configPath)
	} else {
		dataDir = pathResolver.WritableDataDir()
	}
	st, err := store.Open(appConfig.StoreOptions(dataDir))
	if err != nil {
		log.Warnf("Learned state will not be persisted: %v", err)
		st = nil
	}
	restoreLearnedState(ctx, engine, st)

	var persistMu sync.Mutex
	persist := func() {
		if st == nil {
			return
		}
		persistMu.Lock()
		defer persistMu.Unlock()
		data, err := learn.Encode(engine.ExportLearnedState())
		if err == nil {
			err = st.Save(ctx, data)
		}
		if err != nil {
			log.Warnf("Failed to save learned state: %v", err)
		}
	}

	var watcher *knowledge.Watcher
	if (*watch || appConfig.Knowledge.Watch) && kbPath != "" {
		debounce := time.Duration(appConfig.Knowledge.DebounceMs) * time.Millisecond
		watcher, err = knowledge.NewWatcher(kbPath, engine.SwapKnowledgeBase, debounce)
		if err == nil {
			err = watcher.Start(ctx)
		}
		if err != nil {
			log.Warnf("Knowledge base watching disabled: %v", err)
			if watcher != nil {
				watcher.Stop()
			}
			watcher = nil
		}
	}

	var closeOnce sync.Once
	shutdown := func() {
		closeOnce.Do(func() {
			if watcher != nil {
				watcher.Stop()
			}
			persist()
			if st != nil {
				if err := st.Close(); err != nil {
					log.Warnf("Closing store: %v", err)
				}
			}
		})
	}
	sigHandler(shutdown)
	defer shutdown()

	// CLI is mainly for testing and dbg purposes.
	if *cliMode {
		log.SetReportTimestamp(false)
		inputHandler := cli.NewInputHandler(engine, appConfig.CLI.Explain)
		inputHandler.SetFeedbackHook(persist)
		if err := inputHandler.Start(); err != nil {
			log.Errorf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(engine, appConfig.Server, st)
	srv.SetReloader(reload)

	showStartupInfo(kbPath, engine.Stats())

	if err := srv.Start(ctx); err != nil {
		log.Errorf("Server stopped: %v", err)
	}
}

// restoreLearnedState imports persisted feedback. A corrupt snapshot is dropped.
func restoreLearnedState(ctx context.Context, engine *suggest.Engine, st store.Store) {
	if st == nil {
		return
	}
	data, err := st.Load(ctx)
	if errors.Is(err, store.ErrNotFound) {
		log.Debug("No learned state stored yet")
		return
	}
	if err != nil {
		log.Warnf("Failed to load learned state: %v", err)
		return
	}
	if err := engine.RestoreLearnedState(data); err != nil {
		log.Warnf("Starting with empty learned state: %v", err)
		return
	}
	log.Debug("Learned state restored", "tokens", engine.Stats()["learnedTokens"])
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(kbPath string, stats map[string]int) {
	l := logger.New("")
	l.SetLevel(log.InfoLevel)

	println("==========")
	println(" askserve ")
	println("==========")
	l.Infof("Version: %s", Version)
	l.Infof("Process ID: [ %d ]", os.Getpid())
	l.Infof("knowledge base: ( %s ) %d entries", kbPath, stats["entries"])
	l.Infof("learned tokens: %d", stats["learnedTokens"])
	l.Info("status: ready")
	println("==========")
	println("Press Ctrl+C to exit")
}
