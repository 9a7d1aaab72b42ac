// Copyright 2025 The WordTrie Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the word completion server and CLI [DBG] application.

WordTrie keeps its dictionary in a ternary search trie with frequency
scores. Besides prefix completion it answers single character wildcard
matches and longest prefix lookups. It runs as a MessagePack IPC server
for text editors, or as an interactive CLI for testing and debugging.

# Usage

Start the server with default settings:

	wordtrie

Use a custom data directory and enable debug mode:

	wordtrie -data /path/to/chunks -d

Run the CLI over a plain word list:

	wordtrie -c -text words.txt -limit 10

In the CLI, "?h.llo" lists wildcard matches and ">helloworld" shows the
longest stored word prefixing the query.

The data directory holds chunked binary files named dict_0001.bin,
dict_0002.bin and so on, loaded in the background up to -words words.

# Configuration

Runtime configuration lives in a TOML file, created with defaults when
missing:

	[server]
	max_limit = 64
	min_prefix = 1
	max_prefix = 60
	enable_filter = true
	reload_every = 500

	[dict]
	max_words = 50000
	chunk_size = 10000
	min_frequency_threshold = 20
	min_frequency_short_prefix = 24
	hot_cache_words = 20000

	[trie]
	wildcard = "."
	max_pattern_len = 60

The server reloads it every reload_every requests. See the server package
for the IPC protocol.

# Command Line Flags

	-data string
	    Directory containing binary chunk files (default "data/")
	-text string
	    Plain word list to load instead of chunk files
	-config string
	    Path to a config file
	-reset-config
	    Rewrite the default config file and exit
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of suggestions to return in the CLI
	-prmin int
	    Minimum prefix length for suggestions
	-prmax int
	    Maximum prefix length for suggestions
	-no-filter
	    Disable input filtering for debugging
	-words int
	    Maximum words to load (0 for all)
	-chunk int
	    Words per chunk for lazy loading
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/wordtrie/internal/cli"
	"github.com/bastiangx/wordtrie/internal/logger"
	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/dictionary"
	"github.com/bastiangx/wordtrie/pkg/server"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0-beta"
	AppName = "wordtrie"
	gh      = "https://github.com/bastiangx/wordtrie"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler(stop func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		stop()
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main only manages the flow between config, completer, server and CLI.
func main() {
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	binaryDir := flag.String("data", "data/", "Directory containing the binary files")
	textFile := flag.String("text", "", "Plain word list (word [frequency] per line) to load instead of binary files")
	configFile := flag.String("config", "", "Path to a custom config file")
	resetConfig := flag.Bool("reset-config", false, "Rewrite the default config file with builtin defaults and exit")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", defaultConfig.CLI.DefaultLimit, "Number of suggestions to return")
	minPrefix := flag.Int("prmin", defaultConfig.CLI.DefaultMinLen, "Minimum prefix length for suggestions (1 < n <= prmax)")
	maxPrefix := flag.Int("prmax", defaultConfig.CLI.DefaultMaxLen, "Maximum prefix length for suggestions")
	noFilter := flag.Bool("no-filter", defaultConfig.CLI.DefaultNoFilter, "Disable input filtering (DBG only) - shows all raw dictionary entries (numbers, symbols, etc)")
	wordLimit := flag.Int("words", defaultConfig.Dict.MaxWords, "Maximum number of words to load (use 0 for all words)")
	chunkSize := flag.Int("chunk", defaultConfig.Dict.ChunkSize, "Number of words per chunk for lazy loading")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.Setup(*debugMode)

	if *resetConfig {
		if err := config.RebuildConfigFile(); err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		log.Print("Config rebuilt", "path", config.GetActiveConfigPath(""))
		os.Exit(0)
	}

	appConfig, configPath, err := config.LoadConfigWithPriority(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(configPath))

	// config values apply unless the flag was given
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["limit"] {
		*limit = appConfig.CLI.DefaultLimit
	}
	if !set["prmin"] {
		*minPrefix = appConfig.CLI.DefaultMinLen
	}
	if !set["prmax"] {
		*maxPrefix = appConfig.CLI.DefaultMaxLen
	}
	if !set["no-filter"] {
		*noFilter = appConfig.CLI.DefaultNoFilter
	}
	if !set["words"] {
		*wordLimit = appConfig.Dict.MaxWords
	}
	if !set["chunk"] {
		*chunkSize = appConfig.Dict.ChunkSize
	}

	opts := []suggest.Option{
		suggest.WithThresholds(appConfig.Dict.MinFreqThreshold, appConfig.Dict.MinFreqShortPrefix),
		suggest.WithHotCache(appConfig.Dict.HotCacheWords),
		suggest.WithWildcard(appConfig.Trie.WildcardRune()),
	}

	var completer *suggest.Completer
	var source string
	if *textFile != "" {
		completer, err = newTextCompleter(*textFile, opts)
		if err != nil {
			log.Fatalf("Failed to load word list: %v", err)
		}
		source = *textFile
	} else {
		pathResolver, err := utils.NewPathResolver()
		if err != nil {
			log.Print("Either env is not set or system is not supported")
			log.Fatalf("Failed to initialize path resolver: %v", err)
		}

		resolvedDataDir, err := pathResolver.GetDataDir(*binaryDir)
		if err != nil {
			log.Fatalf("Failed to resolve data dir:(%v)", err)
		}

		log.Debugf("Using data dir at: %s", resolvedDataDir)
		log.Debugf("Init completer: maxWords=[%d], chunkSize=[%d]", *wordLimit, *chunkSize)

		completer = suggest.NewLazyCompleter(resolvedDataDir, *chunkSize, *wordLimit, opts...)
		source = resolvedDataDir
	}

	if err := completer.Initialize(); err != nil {
		log.Fatalf("Failed to init completer: %v", err)
	}
	log.Debug("Completer init done")
	sigHandler(completer.Stop)
	defer completer.Stop()

	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"minPrefix", *minPrefix,
			"maxPrefix", *maxPrefix,
			"limit", *limit,
			"noFilter", *noFilter)

		inputHandler := cli.NewInputHandler(completer, *minPrefix, *maxPrefix, *limit, *noFilter,
			cli.WithWildcard(completer.Wildcard()))
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(completer, appConfig, configPath)

	showStartupInfo(source)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// newTextCompleter builds an in-memory completer from a plain word list.
func newTextCompleter(path string, opts []suggest.Option) (*suggest.Completer, error) {
	format, err := dictionary.DetectFileFormat(path)
	if err != nil {
		return nil, err
	}
	if format != dictionary.FormatText {
		return nil, fmt.Errorf("%s is a %s, use -data for chunk directories", path, format)
	}

	completer := suggest.NewCompleter(opts...)
	count, err := completer.LoadTextFile(path)
	if err != nil {
		return nil, err
	}
	log.Debugf("Loaded %s words from %s", utils.FormatWithCommas(count), path)
	return completer, nil
}

func printVersion() {
	l := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ WordTrie ] prefix, pattern and longest prefix lookups over a ternary search trie")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(source string) {
	l := logger.New(AppName)
	l.SetLevel(log.InfoLevel)

	fmt.Fprintln(logger.Output, "==========")
	fmt.Fprintln(logger.Output, " WordTrie ")
	fmt.Fprintln(logger.Output, "==========")
	l.Infof("Version: %s", Version)
	l.Infof("Process ID: [ %d ]", os.Getpid())
	l.Info("init: OK")
	l.Infof("dictionary: ( %s )", source)
	l.Info("status: ready")
	fmt.Fprintln(logger.Output, "==========")
	fmt.Fprintln(logger.Output, "Press Ctrl+C to exit")
}
