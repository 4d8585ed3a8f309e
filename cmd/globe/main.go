package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/mmcdole/globe/internal/adapter"
	"github.com/mmcdole/globe/internal/countries"
	"github.com/mmcdole/globe/internal/domain"
	"github.com/mmcdole/globe/internal/pipeline"
	"github.com/mmcdole/globe/internal/restcountries"
	"github.com/mmcdole/globe/internal/router"
	"github.com/mmcdole/globe/internal/store"
	"github.com/mmcdole/globe/internal/tui"
	"github.com/mmcdole/globe/internal/tui/components"
	"github.com/mmcdole/globe/internal/tui/styles"
)

// Version is set at build time via -ldflags
var Version = "dev"

// printTimeout bounds the single fetch of print mode
const printTimeout = 30 * time.Second

type flags struct {
	version    bool
	print      bool
	clearCache bool
	query      string
	region     string
	pageSize   int
}

func main() {
	var f flags
	flag.BoolVar(&f.version, "v", false, "print version")
	flag.BoolVar(&f.version, "version", false, "print version")
	flag.BoolVar(&f.print, "print", false, "print the matching countries as a table and exit")
	flag.BoolVar(&f.clearCache, "clear-cache", false, "delete the cached API responses and exit")
	flag.StringVar(&f.query, "query", "", "initial search term")
	flag.StringVar(&f.region, "region", "", "initial region filter")
	flag.IntVar(&f.pageSize, "page-size", 0, "countries revealed per page (overrides config)")
	flag.Parse()

	if f.version {
		fmt.Printf("globe %s\n", Version)
		return
	}

	if err := run(f); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(f flags) error {
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if f.pageSize > 0 {
		cfg.UI.PageSize = f.pageSize
	}

	logger, closer, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger, closer = adapter.NullLogger(), io.NopCloser(nil)
	}
	defer closer.Close()
	slog.SetDefault(logger)

	logger.Info("starting globe", "version", Version)

	cacheDir, err := adapter.ExpandHome(cfg.Cache.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve cache dir: %w", err)
	}

	if f.clearCache {
		if err := adapter.ClearCache(cacheDir); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Println("Cache cleared.")
		return nil
	}

	st, err := store.Open(cacheDir, cfg.Cache.Throttle, logger)
	if err != nil {
		// A broken cache must not keep the browser from starting
		logger.Warn("cache unavailable, continuing in memory", "dir", cacheDir, "error", err)
		st, err = store.Open("", cfg.Cache.Throttle, logger)
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("failed to close cache", "error", err)
		}
	}()

	client := restcountries.NewClient(cfg.Source.BaseURL, cfg.Source.Timeout, logger)
	svc := countries.NewService(client, st, countries.Options{
		StaleTime: cfg.Cache.StaleTime,
		MaxAge:    cfg.Cache.MaxAge,
		Logger:    logger,
	})

	if f.print || !term.IsTerminal(int(os.Stdout.Fd())) {
		return printCountries(svc, f.query, f.region, os.Stdout)
	}
	return runTUI(cfg, svc, f, logger)
}

func runTUI(cfg *adapter.Config, svc *countries.Service, f flags, logger *slog.Logger) error {
	styles.Apply(styles.ByName(cfg.UI.Theme))

	margin, err := pipeline.ParseMargin(cfg.UI.LoadMoreMargin)
	if err != nil {
		logger.Warn("invalid load_more_margin, using default", "value", cfg.UI.LoadMoreMargin, "error", err)
		margin = pipeline.DefaultMargin
	}

	initial := router.Location{Path: router.HomePath, Query: pipeline.FilterParams(f.query, f.region)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := tui.NewLoopScheduler()
	dataset := countries.NewListQuery(ctx, svc, nil, sched)

	model := tui.NewModel(ctx, tui.Options{
		Service:        svc,
		Dataset:        dataset,
		History:        router.New(initial.String()),
		Scheduler:      sched,
		Opener:         adapter.NewOpener(cfg.UI.Opener, logger),
		SaveTheme:      adapter.SaveTheme,
		PageSize:       cfg.UI.PageSize,
		Debounce:       cfg.Debounce(),
		ReplaceHistory: cfg.UI.ReplaceHistory,
		Margin:         margin,
		Logger:         logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	sched.Attach(p.Send)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// printCountries fetches the list once and writes the filtered rows as a
// table.
func printCountries(svc *countries.Service, query, region string, w io.Writer) error {
	ctx, cancel := context.WithTimeout(context.Background(), printTimeout)
	defer cancel()

	all, err := svc.FetchAll(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to fetch countries: %w", err)
	}

	query, region = pipeline.NormalizeFilters(query, region)
	matched := pipeline.Filter(all, query, region)
	if len(matched) == 0 {
		fmt.Fprintln(w, "No countries match.")
		return nil
	}

	fmt.Fprintln(w, renderTable(matched))
	return nil
}

func renderTable(list []*domain.Country) string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	number := cell.Align(lipgloss.Right)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Code", "Name", "Capital", "Region", "Population").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case col == 4:
				return number
			default:
				return cell
			}
		})

	for _, c := range list {
		t.Row(c.ID, c.Name, c.Capital, c.Region, components.FormatPopulation(c.Population))
	}
	return t.Render()
}
