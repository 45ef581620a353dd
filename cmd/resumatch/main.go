// Package main is the resumatch CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/resumatch/internal/cli"
	"github.com/hyperjump/resumatch/internal/config"
	"github.com/hyperjump/resumatch/internal/corpus"
	"github.com/hyperjump/resumatch/internal/extract"
	"github.com/hyperjump/resumatch/internal/matcher"
	"github.com/hyperjump/resumatch/internal/models"
	"github.com/hyperjump/resumatch/internal/search"
	"github.com/hyperjump/resumatch/internal/seed"
	"github.com/hyperjump/resumatch/internal/server"
	"github.com/hyperjump/resumatch/internal/storage"
	"github.com/hyperjump/resumatch/internal/summary"
	"github.com/hyperjump/resumatch/internal/watcher"
	"github.com/hyperjump/resumatch/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const (
	defaultConfigPath = "/usr/local/etc/resumatch/config.yaml"
	defaultServerURL  = "http://localhost:8080"
)

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used.
// A missing default config is not an error: built-in defaults apply.
// Returns the config and the path that was actually loaded (empty when none was).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			var cfg config.Config
			config.ApplyDefaults(&cfg)
			return &cfg, "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "import":
		runImport()
	case "summary":
		runSummary()
	case "status":
		runStatus()
	case "watch":
		runWatch()
	case "reset":
		runReset()
	case "version", "--version", "-v":
		fmt.Printf("resumatch version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (searches, inbox events, imports)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	watchSvc := newInboxWatcher(cfg, cfg.Watch.Directories, components, logger)
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if err := watchSvc.Start(watchCtx); err != nil {
		logger.Fatal("Failed to start inbox watcher", zap.Error(err))
	}
	go watchSvc.SyncExistingFiles()

	srv := server.NewServer(
		components.Engine,
		components.Importer,
		components.Storage,
		components.Extractor,
		&cfg.Server,
		logger,
		watchSvc,
		resolvedConfigPath,
		cfg,
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	waitForSignal()

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func waitForSignal() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
}

// newInboxWatcher builds a watcher that imports new CVs and drops removed ones.
func newInboxWatcher(cfg *config.Config, dirs []string, c *Components, logger *zap.Logger) *watcher.Watcher {
	role := cfg.Import.DefaultRole
	return watcher.New(dirs,
		watcher.WithLogger(logger),
		watcher.WithExtensions(cfg.Watch.Extensions),
		watcher.WithRecursive(cfg.Watch.RecursiveOrDefault()),
		watcher.OnImport(func(ctx context.Context, path string) error {
			_, _, err := c.Importer.ImportFile(ctx, path, role)
			return err
		}),
		watcher.OnRemove(c.Importer.RemoveFile),
	)
}

// printSearchUsage prints search subcommand usage.
func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: resumatch search [flags] <keywords>\n\n")
	fmt.Fprintf(fs.Output(), "Keywords are comma-separated; remaining arguments are joined by spaces first.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Every CV is scanned with one exact algorithm. When a keyword has no exact hit in a CV,
that CV is rescanned with edit-distance matching for all keywords.
  • Use --algorithm bm or --algorithm aho-corasick to change the exact matcher.
  • Use --fuzzy=false to report exact counts only.
  • Use --matched-only to hide CVs without any hit.

Examples:
  resumatch search Python, React, SQL
  resumatch search --algorithm aho-corasick "machine learning, Go"
  resumatch search --threshold 0.7 --snippets Pythn
`)
}

// buildSearchQuery joins all positional args with spaces so keyword lists work the
// same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchConfigPathFromArgs returns the value of -config/--config from args if present, else defaultPath.
func searchConfigPathFromArgs(args []string, defaultPath string) string {
	for i, a := range args {
		if (a == "-config" || a == "--config") && i+1 < len(args) {
			return args[i+1]
		}
	}
	return defaultPath
}

// searchDefaultsFromConfig loads config at path and returns the default algorithm and limit.
// On load failure the built-in defaults apply.
func searchDefaultsFromConfig(path string) (algorithm string, limit int) {
	algorithm, limit = string(matcher.KMP), 10
	cfg, _, err := loadConfig(path)
	if err != nil || cfg == nil {
		return algorithm, limit
	}
	return cfg.Search.DefaultAlgorithm, cfg.Search.DefaultLimit
}

// searchArgsReorder moves any flags (and their values) that appear after the keywords
// to the front of the slice so that flag.Parse() sees them.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runSearch() {
	searchArgs := searchArgsReorder(os.Args[2:])
	configPath := searchConfigPathFromArgs(searchArgs, defaultConfigPath)
	defaultAlg, defaultLimit := searchDefaultsFromConfig(configPath)

	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPathFlag := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "", "server URL (empty = search the database directly)")
	algorithm := fs.String("algorithm", defaultAlg, "exact algorithm: kmp, bm, or aho-corasick")
	limit := fs.Int("limit", defaultLimit, "number of results")
	fuzzy := fs.Bool("fuzzy", true, "rescan CVs with missing keywords using edit-distance matching")
	threshold := fs.Float64("threshold", 0, "fuzzy similarity threshold in (0, 1] (0 = config default)")
	matchedOnly := fs.Bool("matched-only", false, "hide CVs without any keyword hit")
	snippets := fs.Bool("snippets", false, "show the context of each keyword's first occurrence")
	outputFormat := fs.String("output", "text", "output format: text (human-readable), compact (one result per line), or json (parseable)")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(searchArgs)

	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" {
		printSearchUsage(fs)
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	searchQuery := &models.SearchQuery{
		Query:          queryStr,
		Algorithm:      *algorithm,
		Limit:          *limit,
		FuzzyEnabled:   fuzzy,
		FuzzyThreshold: *threshold,
		MatchedOnly:    *matchedOnly,
		Snippets:       *snippets,
	}

	var response *models.SearchResponse
	if *serverURL != "" {
		response, err = searchViaHTTP(*serverURL, searchQuery)
	} else {
		response, err = searchDirect(*configPathFlag, searchQuery)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func searchDirect(configPath string, query *models.SearchQuery) (*models.SearchResponse, error) {
	components, logger, err := openComponents(configPath)
	if err != nil {
		return nil, err
	}
	defer logger.Sync()
	defer components.Close()
	return components.Engine.Search(context.Background(), query)
}

func searchViaHTTP(serverURL string, query *models.SearchQuery) (*models.SearchResponse, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func runImport() {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	role := fs.String("role", "", "application role recorded for every imported CV (default from config)")
	profiles := fs.Int("profiles", 0, "also seed this many generated applicants without a CV")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])
	if fs.NArg() < 1 && *profiles <= 0 {
		fmt.Println("Usage: resumatch import [flags] <cv-folder>")
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	components, logger, err := openComponents(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	defer components.Close()
	ctx := context.Background()

	if *profiles > 0 {
		ids, err := components.Importer.SeedProfiles(ctx, *profiles)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Seeding failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Seeded %d applicant profile(s)\n", len(ids))
	}
	if fs.NArg() < 1 {
		return
	}
	dir := fs.Arg(0)
	result, err := components.Importer.ImportFolder(ctx, dir, *role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Import failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteImportResult(os.Stdout, dir, result, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// parseApplicantID parses a positive applicant id argument.
func parseApplicantID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid applicant id %q", s)
	}
	return id, nil
}

func runSummary() {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(os.Args[2:])
	if fs.NArg() < 1 {
		fmt.Println("Usage: resumatch summary [flags] <applicant-id>")
		os.Exit(1)
	}
	id, err := parseApplicantID(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	components, logger, err := openComponents(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	defer components.Close()

	s, err := buildSummary(context.Background(), components, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Summary failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSummary(os.Stdout, s, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// buildSummary loads an applicant and parses the sections of their first CV.
func buildSummary(ctx context.Context, c *Components, id int64) (*models.Summary, error) {
	applicant, err := c.Storage.GetApplicant(ctx, id)
	if err != nil {
		return nil, err
	}
	path, err := c.Storage.GetCVPath(ctx, id)
	if err != nil {
		return nil, err
	}
	app, err := c.Storage.ApplicationByPath(ctx, path)
	if err != nil {
		return nil, err
	}
	text := app.CVText
	if text == "" {
		if text, err = c.Extractor.Extract(path); err != nil {
			return nil, fmt.Errorf("failed to read cv: %w", err)
		}
		_ = c.Storage.UpdateCVText(ctx, app.ID, text)
	}
	return summary.Build(applicant, text), nil
}

// statusConfigResponse holds configuration info returned by status.
type statusConfigResponse struct {
	DatabasePath     string  `json:"database_path,omitempty"`
	DefaultAlgorithm string  `json:"default_algorithm,omitempty"`
	DefaultLimit     int     `json:"default_limit,omitempty"`
	FuzzyThreshold   float64 `json:"fuzzy_threshold,omitempty"`
	FuzzyEnabled     bool    `json:"fuzzy_enabled"`
}

// statusResponse is the shape of GET /api/v1/status response.
type statusResponse struct {
	Applicants     int64                 `json:"applicants"`
	Applications   int64                 `json:"applications"`
	Inbox          []string              `json:"inbox,omitempty"`
	DiskUsageBytes *int64                `json:"disk_usage_bytes,omitempty"`
	Config         *statusConfigResponse `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "", "server URL (empty = read the database directly)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status *statusResponse
	var err error
	if *serverURL != "" {
		status, err = statusViaHTTP(*serverURL)
	} else {
		status, err = statusDirect(*configPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}
	if err := writeStatus(os.Stdout, status, *outputFormat); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func statusDirect(configPath string) (*statusResponse, error) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := utils.NewCLILogger(cfg.Debug)
	if err != nil {
		return nil, err
	}
	defer logger.Sync()
	components, err := initializeComponents(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer components.Close()
	return collectStatus(context.Background(), cfg, components.Storage)
}

func collectStatus(ctx context.Context, cfg *config.Config, store storage.Storage) (*statusResponse, error) {
	applicants, err := store.CountApplicants(ctx)
	if err != nil {
		return nil, fmt.Errorf("count applicants: %w", err)
	}
	applications, err := store.CountApplications(ctx)
	if err != nil {
		return nil, fmt.Errorf("count applications: %w", err)
	}
	status := &statusResponse{
		Applicants:   applicants,
		Applications: applications,
		Inbox:        cfg.Watch.Directories,
		Config: &statusConfigResponse{
			DatabasePath:     cfg.Storage.DatabasePath,
			DefaultAlgorithm: cfg.Search.DefaultAlgorithm,
			DefaultLimit:     cfg.Search.DefaultLimit,
			FuzzyThreshold:   cfg.Search.FuzzyThreshold,
			FuzzyEnabled:     !cfg.Search.DisableFuzzy,
		},
	}
	if diskBytes, err := storage.DiskUsageBytes(storage.DatabaseFiles(cfg.Storage.DatabasePath)...); err == nil {
		status.DiskUsageBytes = &diskBytes
	}
	return status, nil
}

func writeStatus(w io.Writer, status *statusResponse, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	case "text":
		fmt.Fprintf(w, "applicants:         %d   # stored applicant profiles\n", status.Applicants)
		fmt.Fprintf(w, "applications:       %d   # CVs in the search corpus\n", status.Applications)
		if status.DiskUsageBytes != nil {
			fmt.Fprintf(w, "disk_usage_bytes:   %d   # database on disk\n", *status.DiskUsageBytes)
		}
		for _, dir := range status.Inbox {
			fmt.Fprintf(w, "inbox:              %s\n", dir)
		}
		if status.Config != nil {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "# configuration")
			fmt.Fprintf(w, "default_algorithm:  %s\n", status.Config.DefaultAlgorithm)
			fmt.Fprintf(w, "default_limit:      %d\n", status.Config.DefaultLimit)
			fmt.Fprintf(w, "fuzzy_enabled:      %t\n", status.Config.FuzzyEnabled)
			fmt.Fprintf(w, "fuzzy_threshold:    %.2f\n", status.Config.FuzzyThreshold)
			if status.Config.DatabasePath != "" {
				fmt.Fprintf(w, "database_path:      %s\n", status.Config.DatabasePath)
			}
		}
		return nil
	}
	return fmt.Errorf("unknown output format %q; use text or json", format)
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

func runWatch() {
	if len(os.Args) < 3 {
		printWatchUsage()
		os.Exit(1)
	}
	sub := os.Args[2]
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	configPath := fs.String("config", defaultConfigPath, "config file path (run only)")
	debug := fs.Bool("debug", false, "enable debug logging (run only)")
	_ = fs.Parse(os.Args[3:])

	switch sub {
	case "run":
		runWatchForeground(*configPath, *debug, fs.Args())
	case "add":
		if fs.NArg() < 1 {
			fmt.Println("Usage: resumatch watch add <path>")
			os.Exit(1)
		}
		path, _ := filepath.Abs(fs.Arg(0))
		body, _ := json.Marshal(map[string]interface{}{"path": path, "sync": true})
		resp, err := http.Post(*serverURL+"/api/v1/inbox", "application/json", bytes.NewReader(body))
		exitOnInboxError(resp, err, http.StatusCreated)
		fmt.Printf("Watching %s\n", path)
	case "remove":
		if fs.NArg() < 1 {
			fmt.Println("Usage: resumatch watch remove <path>")
			os.Exit(1)
		}
		path, _ := filepath.Abs(fs.Arg(0))
		req, _ := http.NewRequest(http.MethodDelete, *serverURL+"/api/v1/inbox?path="+url.QueryEscape(path), nil)
		resp, err := http.DefaultClient.Do(req)
		exitOnInboxError(resp, err, http.StatusOK)
		fmt.Printf("Stopped watching %s\n", path)
	case "list":
		resp, err := http.Get(*serverURL + "/api/v1/inbox")
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("Server returned %d: %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		var out struct {
			Directories []string `json:"directories"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			fmt.Printf("Decode failed: %v\n", err)
			os.Exit(1)
		}
		if len(out.Directories) == 0 {
			fmt.Println("No inbox directories")
			return
		}
		for _, d := range out.Directories {
			fmt.Println(d)
		}
	default:
		printWatchUsage()
		os.Exit(1)
	}
}

func printWatchUsage() {
	fmt.Println("Usage: resumatch watch <run|add|remove|list> [path...]")
	fmt.Println("  resumatch watch run [dir...]     Watch inbox directories without the server")
	fmt.Println("  resumatch watch add <path>       Add an inbox directory to the running server")
	fmt.Println("  resumatch watch remove <path>    Remove an inbox directory from the running server")
	fmt.Println("  resumatch watch list             List the server's inbox directories")
}

func exitOnInboxError(resp *http.Response, err error, want int) {
	if err != nil {
		fmt.Printf("Request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != want {
		b, _ := io.ReadAll(resp.Body)
		fmt.Printf("Server returned %d: %s\n", resp.StatusCode, string(b))
		os.Exit(1)
	}
}

// runWatchForeground imports CVs dropped into dirs (or the configured inbox) until interrupted.
func runWatchForeground(configPath string, debug bool, dirs []string) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug || debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	if len(dirs) == 0 {
		dirs = cfg.Watch.Directories
	}
	if len(dirs) == 0 {
		fmt.Println("No inbox directories: pass them as arguments or set watch.directories")
		os.Exit(1)
	}
	for i, d := range dirs {
		dirs[i], _ = filepath.Abs(d)
	}

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := newInboxWatcher(cfg, dirs, components, logger)
	if err := w.Start(ctx); err != nil {
		logger.Fatal("Failed to start inbox watcher", zap.Error(err))
	}
	w.SyncExistingFiles()
	logger.Info("watching inbox", zap.Strings("directories", dirs))
	waitForSignal()
	w.Stop()
}

func runReset() {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	force := fs.Bool("force", false, "confirm deleting every applicant and application")
	_ = fs.Parse(os.Args[2:])
	if !*force {
		fmt.Println("Refusing to reset without --force")
		os.Exit(1)
	}
	components, logger, err := openComponents(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	defer components.Close()
	if err := components.Storage.Reset(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Reset failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("All applicants and applications deleted")
}

// Components holds initialized services.
type Components struct {
	Storage   storage.Storage
	Extractor *extract.Extractor
	Corpus    *corpus.Provider
	Engine    *search.Engine
	Importer  *seed.Importer
}

func (c *Components) Close() {
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
}

// openComponents loads config and initializes components for a one-shot command,
// logging to stderr.
func openComponents(configPath string) (*Components, *zap.Logger, error) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := utils.NewCLILogger(cfg.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	components, err := initializeComponents(cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}
	return components, logger, nil
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	if logger != nil {
		logger.Debug("storage opened", zap.String("path", cfg.Storage.DatabasePath))
	} else {
		logger = zap.NewNop()
	}

	ext := extract.NewExtractor()
	provider := corpus.NewProvider(store, ext, corpus.WithLogger(logger))
	engine := search.NewEngine(provider, &cfg.Search, search.WithLogger(logger))
	importer := seed.NewImporter(store, ext, &cfg.Import, seed.WithLogger(logger))

	return &Components{
		Storage:   store,
		Extractor: ext,
		Corpus:    provider,
		Engine:    engine,
		Importer:  importer,
	}, nil
}

func printUsage() {
	fmt.Println(`resumatch - Keyword search over applicant CVs

Usage:
  resumatch server [flags]               Start the HTTP server (and the CV inbox watcher)
  resumatch search [flags] <keywords>    Count comma-separated keywords in every CV
  resumatch import [flags] <folder>      Import a folder of CVs with generated applicant profiles
  resumatch summary [flags] <id>         Show an applicant's CV summary
  resumatch status [flags]               Show database status
  resumatch watch <run|add|remove|list>  Manage CV inbox directories
  resumatch reset --force                Delete every applicant and application
  resumatch version                      Show version
  resumatch help                         Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/resumatch/config.yaml)
  --debug            Enable debug logging

Search Flags:
  --config string      Config file path (also used for default algorithm and limit)
  --server string      Server URL; empty (default) searches the database directly
  --algorithm string   kmp, bm, or aho-corasick (default from config, or kmp)
  --limit int          Number of results (default from config, or 10)
  --fuzzy              Edit-distance fallback for missing keywords (default: true)
  --threshold float    Fuzzy similarity threshold (default from config, or 0.8)
  --matched-only       Hide CVs without any hit
  --snippets           Show where each keyword first occurs
  --output string      text, compact, or json (default: text)

Import Flags:
  --config string    Config file path
  --role string      Application role for imported CVs
  --profiles int     Also seed generated applicants without a CV
  --output string    text or json

Status Flags:
  --config string    Config file path (for direct mode)
  --server string    Server URL; empty (default) reads the database directly
  --output string    text or json (default: text)

Watch Flags:
  --server string    Server URL (default: http://localhost:8080)

Examples:
  resumatch import --role "Backend Engineer" ./cvs
  resumatch search Python, React, SQL
  resumatch search --algorithm bm --output json "Go, Kubernetes"
  resumatch summary 12
  resumatch watch add ./inbox`)
}
