package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/forkify/internal/api"
	"github.com/nikbrunner/forkify/internal/controller"
	"github.com/nikbrunner/forkify/internal/culler"
	"github.com/nikbrunner/forkify/internal/exporter"
	"github.com/nikbrunner/forkify/internal/importer"
	"github.com/nikbrunner/forkify/internal/logging"
	"github.com/nikbrunner/forkify/internal/model"
	"github.com/nikbrunner/forkify/internal/picker"
	"github.com/nikbrunner/forkify/internal/search"
	"github.com/nikbrunner/forkify/internal/state"
	"github.com/nikbrunner/forkify/internal/storage"
	"github.com/nikbrunner/forkify/internal/tui"
	"github.com/sirupsen/logrus"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "help", "--help", "-h":
			printHelp()
			return
		case "search":
			if len(os.Args) < 3 {
				fmt.Fprintf(os.Stderr, "Usage: forkify search <query>\n")
				os.Exit(1)
			}
			runSearch(strings.Join(os.Args[2:], " "))
			return
		case "open":
			if len(os.Args) < 3 {
				fmt.Fprintf(os.Stderr, "Usage: forkify open <query>\n")
				os.Exit(1)
			}
			runOpen(strings.Join(os.Args[2:], " "))
			return
		case "export":
			// Export with optional path
			var outputPath string
			if len(os.Args) >= 3 {
				outputPath = os.Args[2]
			}
			runExport(outputPath)
			return
		case "import":
			if len(os.Args) < 3 {
				fmt.Fprintf(os.Stderr, "Usage: forkify import <file.html>\n")
				os.Exit(1)
			}
			runImport(os.Args[2])
			return
		case "check":
			runCheck()
			return
		case "clear":
			runClear(len(os.Args) >= 3 && (os.Args[2] == "-y" || os.Args[2] == "--yes"))
			return
		case "recipe":
			if len(os.Args) < 3 {
				fmt.Fprintf(os.Stderr, "Usage: forkify recipe <id>\n")
				os.Exit(1)
			}
			runTUI(strings.TrimPrefix(os.Args[2], "#"))
			return
		default:
			fmt.Fprintf(os.Stderr, "Unknown command %q. Run 'forkify help'.\n", os.Args[1])
			os.Exit(1)
		}
	}

	// No args - run full TUI
	runTUI("")
}

func printHelp() {
	help := `forkify - search, scale and bookmark recipes

Usage:
  forkify                 Open interactive TUI
  forkify recipe <id>     Open the TUI at a recipe
  forkify search <query>  Print the first page of results
  forkify open <query>    Fuzzy search bookmarks → select → open
  forkify export [path]   Export bookmarks to HTML
  forkify import <file>   Restore bookmarks from an export
  forkify check           Find bookmarks whose source page is gone
  forkify clear [-y]      Remove every bookmark
  forkify help            Show this help

TUI Keybindings:
  Navigation:
    j/k         Move down/up
    Tab         Next pane
    l/Enter     Open recipe
    h           Previous recipe
    n/p         Next/previous results page

  Actions:
    /           Search recipes
    +/-         More/fewer servings
    b           Toggle bookmark
    d           Remove bookmark (bookmarks pane)
    u           Add your own recipe
    Y           Copy recipe URL to clipboard

  Other:
    q           Quit

Configuration:
  ~/.config/forkify/config.json
  FORKIFY_API_KEY, FORKIFY_API_URL, FORKIFY_STORAGE, FORKIFY_LOG_LEVEL
  (also read from ./.env)
`
	fmt.Print(help)
}

// app bundles everything a command needs.
type app struct {
	config *storage.Config
	log    *logrus.Logger
	store  *state.Store
	close  func()
}

// setup loads config, opens the log and the bookmark storage, and creates
// the store. It exits on failure.
func setup() app {
	configPath, err := storage.DefaultConfigFilePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting config path: %v\n", err)
		os.Exit(1)
	}
	config, err := storage.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	config.ApplyEnv(".env")

	dataDir, err := storage.DefaultDataDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting data directory: %v\n", err)
		os.Exit(1)
	}

	log, closeLog, err := logging.New(logging.Params{
		Path:  logging.DefaultPath(dataDir),
		Level: os.Getenv(logging.EnvLevel),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		os.Exit(1)
	}

	bookmarks, closeStorage, err := storage.Open(config.Backend, dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening bookmarks: %v\n", err)
		os.Exit(1)
	}

	var gateway state.Gateway = api.NewClient(api.ClientParams{
		BaseURL:   config.APIURL,
		APIKey:    config.APIKey,
		Timeout:   config.Timeout(),
		RateLimit: config.RequestsPerSecond,
		RateBurst: config.RequestBurst,
		Logger:    log,
	})
	if ttl := config.CacheTTL(); ttl > 0 {
		gateway = api.NewCachedGateway(gateway, api.CacheParams{TTL: ttl, Logger: log})
	}
	store, err := state.New(state.StoreParams{
		Gateway:        gateway,
		Storage:        bookmarks,
		ResultsPerPage: config.ResultsPerPage,
		Logger:         log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading bookmarks: %v\n", err)
		os.Exit(1)
	}

	log.WithField("storage", config.Backend).Info("forkify started")
	return app{
		config: config,
		log:    log,
		store:  store,
		close: func() {
			if err := closeStorage(); err != nil {
				log.WithError(err).Error("close storage failed")
			}
			_ = closeLog()
		},
	}
}

// runTUI runs the full interactive TUI, starting at the recipe id if given.
func runTUI(id string) {
	a := setup()
	defer a.close()

	regions := controller.NewRegions()
	history := controller.NewMemoryHistory(id)
	ctrl := controller.New(controller.Params{
		Store:           a.store,
		Regions:         regions,
		History:         history,
		ModalCloseDelay: a.config.ModalCloseDelay(),
		Logger:          a.log,
	})

	m := tui.NewApp(tui.AppParams{
		Controller: ctrl,
		Regions:    regions,
		History:    history,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		a.log.WithError(err).Error("tui failed")
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}

// runSearch prints the first page of search results.
func runSearch(query string) {
	a := setup()
	defer a.close()

	ctx, cancel := context.WithTimeout(context.Background(), a.config.Timeout())
	defer cancel()

	if err := a.store.LoadSearchResults(ctx, query); err != nil {
		fmt.Fprintf(os.Stderr, "Error searching: %v\n", err)
		return
	}

	searchState := a.store.Search()
	if len(searchState.Results) == 0 {
		fmt.Printf("No recipes found for '%s'\n", query)
		return
	}
	for _, r := range a.store.SearchResultsPage(1) {
		fmt.Printf("%s  %s (%s)\n", r.ID, r.Title, r.Publisher)
	}
	if pages := searchState.NumPages(); pages > 1 {
		fmt.Printf("\nPage 1 of %d, %d recipes\n", pages, len(searchState.Results))
	}
}

// runOpen fuzzy searches the bookmarks and opens the selected recipe's
// source in the browser.
func runOpen(query string) {
	a := setup()
	defer a.close()

	results := search.FuzzySearchRecipes(a.store.Bookmarks(), query)
	if len(results) == 0 {
		fmt.Printf("No bookmarks found for '%s'\n", query)
		return
	}

	var selected *model.Recipe
	if len(results) == 1 {
		// Single result - select it directly
		selected = results[0].Recipe
		fmt.Printf("Opening: %s\n", selected.Title)
	} else {
		// Multiple results - show picker
		program := tea.NewProgram(picker.New(results, query))
		finalModel, err := program.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running picker: %v\n", err)
			os.Exit(1)
		}

		finalPicker := finalModel.(picker.Picker)
		if finalPicker.Cancelled() {
			return
		}
		selected = finalPicker.SelectedRecipe()
	}

	if selected == nil || selected.SourceURL == "" {
		return
	}
	a.log.WithField("recipe", selected.ID).Info("opening recipe source")
	openURL(selected.SourceURL)
}

// openURL opens a URL in the default browser.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	}
	if cmd != nil {
		_ = cmd.Start()
	}
}

// runExport handles the export subcommand.
func runExport(outputPath string) {
	// Determine output path
	if outputPath == "" {
		var err error
		outputPath, err = exporter.DefaultExportPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting default export path: %v\n", err)
			os.Exit(1)
		}
	}

	a := setup()
	defer a.close()

	bookmarks := a.store.Bookmarks()
	html := exporter.ExportHTML(bookmarks, time.Now())

	if err := os.WriteFile(outputPath, []byte(html), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Exported %d bookmarks to %s\n", len(bookmarks), outputPath)
}

// runImport restores bookmarks from a file written by the export command.
func runImport(filePath string) {
	file, err := os.Open(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	entries, err := importer.ParseHTMLBookmarks(file, exporter.RecipeIDAttr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing HTML: %v\n", err)
		os.Exit(1)
	}
	ids := importer.RecipeIDs(entries)

	a := setup()
	defer a.close()

	ctx, cancel := context.WithTimeout(context.Background(), a.config.Timeout()*time.Duration(len(ids)+1))
	defer cancel()

	result, err := a.store.ImportBookmarks(ctx, ids)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error saving bookmarks: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Imported %d bookmarks", result.Added)
	if result.Skipped > 0 {
		fmt.Printf(" (%d already bookmarked)", result.Skipped)
	}
	if foreign := len(entries) - len(ids); foreign > 0 {
		fmt.Printf(" (%d links without a recipe id ignored)", foreign)
	}
	fmt.Println()
	for id, err := range result.Failed {
		fmt.Fprintf(os.Stderr, "  %s: %v\n", id, err)
	}
}

// runCheck reports bookmarked recipes whose source page is dead or
// unreachable.
func runCheck() {
	a := setup()
	defer a.close()

	bookmarks := a.store.Bookmarks()
	if len(bookmarks) == 0 {
		fmt.Println("No bookmarks to check")
		return
	}

	checker := culler.New(culler.Params{
		Timeout: a.config.Timeout(),
		Logger:  a.log,
	})
	results, err := checker.Check(context.Background(), bookmarks, func(completed, total int) {
		fmt.Fprintf(os.Stderr, "\rChecking %d/%d", completed, total)
	})
	fmt.Fprintln(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error checking bookmarks: %v\n", err)
		a.close()
		os.Exit(1)
	}

	bad := culler.Failing(results)
	for _, r := range bad {
		detail := r.Error
		if detail == "" {
			detail = fmt.Sprintf("HTTP %d", r.StatusCode)
		}
		fmt.Printf("%-12s %s  %s (%s)\n", r.Status, r.Recipe.ID, r.Recipe.Title, detail)
	}
	a.log.WithField("checked", len(results)).WithField("bad", len(bad)).Info("bookmark check done")

	if len(bad) == 0 {
		fmt.Printf("All %d bookmarks are reachable\n", len(results))
	}
}

// runClear removes every bookmark after confirmation.
func runClear(confirmed bool) {
	a := setup()
	defer a.close()

	n := len(a.store.Bookmarks())
	if n == 0 {
		fmt.Println("No bookmarks to clear")
		return
	}
	if !confirmed {
		fmt.Printf("Remove all %d bookmarks? [y/N] ", n)
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if reply := strings.ToLower(strings.TrimSpace(answer)); reply != "y" && reply != "yes" {
			fmt.Println("Aborted")
			return
		}
	}

	if err := a.store.ClearBookmarks(); err != nil {
		fmt.Fprintf(os.Stderr, "Error clearing bookmarks: %v\n", err)
		a.close()
		os.Exit(1)
	}
	fmt.Printf("Removed %d bookmarks\n", n)
}
