package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cyberxai/cyberxai/pkg/browser"
	appconfig "github.com/cyberxai/cyberxai/pkg/config"
	"github.com/cyberxai/cyberxai/pkg/executor/tui"
	"github.com/cyberxai/cyberxai/pkg/host"
	"github.com/cyberxai/cyberxai/pkg/logging"
	"github.com/cyberxai/cyberxai/pkg/page"
	"github.com/cyberxai/cyberxai/pkg/provision"
	"github.com/cyberxai/cyberxai/pkg/trigger"
	"github.com/cyberxai/cyberxai/pkg/types"
)

// target is a browser whose tabs the triggers act on.
type target interface {
	provision.Target
	trigger.TabResolver
}

func run(ctx context.Context, cli *CLIConfig, stdout io.Writer) error {
	if cli.LogDir != "" {
		logging.SetLogDirectory(cli.LogDir)
	}
	logger := logging.MustLogger("cyberxai")
	defer logger.Close()

	if err := loadConfig(cli); err != nil {
		return err
	}

	if cli.InitConfig {
		if err := appconfig.Global().SaveAll(); err != nil {
			return fmt.Errorf("failed to write configuration: %w", err)
		}
		fmt.Fprintf(stdout, "Configuration written to %s\n", appconfig.Global().Store().(*appconfig.FileStore).Path())
		return nil
	}

	var mode types.Mode
	switch cli.Command {
	case "menu":
		var err error
		if mode, err = actionMode(cli.Action); err != nil {
			return err
		}
	case "popup":
	case "":
		return errors.New("missing command: menu or popup")
	default:
		return fmt.Errorf("unknown command %q", cli.Command)
	}

	tgt, source, cleanup, err := openTarget(ctx, cli, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	deps := buildDeps(tgt, logger)
	display := appconfig.GetDisplay().Snapshot()

	if cli.Command == "popup" {
		popup := trigger.NewPopup(deps, display, trigger.NewOutput(nil))
		return tui.NewExecutor(popup, source, logger.With("popup")).Run(ctx)
	}

	menu := trigger.NewMenu(deps, display)
	out := menu.Run(ctx, mode)
	return printOutcome(stdout, out)
}

func loadConfig(cli *CLIConfig) error {
	if err := appconfig.Initialize(cli.ConfigFile); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	if cli.OverrideFile != "" {
		overrides, err := appconfig.LoadOverrides(cli.OverrideFile)
		if err != nil {
			return err
		}
		if err := appconfig.Global().Apply(overrides); err != nil {
			return fmt.Errorf("invalid configuration override: %w", err)
		}
	}

	if cli.Manifest != "" {
		appconfig.GetHost().SetManifestPath(cli.Manifest)
	}
	return nil
}

func actionMode(action string) (types.Mode, error) {
	switch action {
	case "selection":
		return types.ModeSelection, nil
	case "scan":
		return types.ModePageScan, nil
	default:
		return "", fmt.Errorf("unknown action %q (want selection or scan)", action)
	}
}

// openTarget opens the page to check, either as an in-memory tab or in
// Chromium, and applies the requested selection.
func openTarget(ctx context.Context, cli *CLIConfig, logger *logging.Logger) (target, string, func(), error) {
	provisionCfg := appconfig.GetProvision()
	guard, err := page.NewURLGuard(provisionCfg.Patterns())
	if err != nil {
		return nil, "", nil, err
	}
	maxText := appconfig.GetDisplay().Snapshot().MaxPageText

	switch {
	case cli.File != "" && cli.URL != "":
		return nil, "", nil, errors.New("use either -file or -url, not both")

	case cli.File != "":
		raw, err := os.ReadFile(cli.File)
		if err != nil {
			return nil, "", nil, fmt.Errorf("failed to read page: %w", err)
		}
		abs, err := filepath.Abs(cli.File)
		if err != nil {
			abs = cli.File
		}
		url := "file://" + filepath.ToSlash(abs)

		tabs := page.NewTabs(guard, maxText)
		id, err := tabs.Open(url, string(raw))
		if err != nil {
			tabs.CloseAll()
			return nil, "", nil, err
		}
		if cli.Selection != "" {
			c, err := tabs.Get(id)
			if err == nil {
				err = c.Select(ctx, cli.Selection)
			}
			if err != nil {
				tabs.CloseAll()
				return nil, "", nil, err
			}
		}
		return tabs, cli.File, tabs.CloseAll, nil

	case cli.URL != "":
		rt := browser.NewRuntime(browser.Options{
			Headless: cli.Headless,
			Guard:    guard,
			MaxText:  maxText,
		}, logger.With("browser"))
		if err := rt.Start(); err != nil {
			return nil, "", nil, err
		}
		cleanup := func() {
			if err := rt.Shutdown(); err != nil {
				logger.Warnf("browser shutdown: %v", err)
			}
		}
		id, err := rt.Open(cli.URL)
		if err != nil {
			cleanup()
			return nil, "", nil, err
		}
		if cli.Selection != "" {
			if err := rt.Select(ctx, id, cli.Selection); err != nil {
				cleanup()
				return nil, "", nil, err
			}
		}
		return rt, cli.URL, cleanup, nil

	default:
		return nil, "", nil, errors.New("nothing to check: pass -file or -url")
	}
}

func buildDeps(tgt target, logger *logging.Logger) trigger.Deps {
	ping, settle := appconfig.GetProvision().Timing()
	pages := provision.New(tgt, provision.Options{
		PingTimeout:    ping,
		SettleInterval: settle,
		CallTimeout:    appconfig.GetProvision().Call(),
	}, logger.With("provision"))

	timeout, grace := appconfig.GetHost().Timeouts()
	hostLogger := logger.With("host")
	bridge := host.NewBridge(manifestDialer(grace, hostLogger), timeout, hostLogger)

	return trigger.Deps{
		Tabs:   tgt,
		Pages:  pages,
		Bridge: bridge,
		Logger: logger,
		Emit: func(e *types.CheckEvent) {
			logger.Debugf("event %s request=%s tab=%s", e.Type, e.RequestID, e.TabID)
		},
	}
}

// manifestDialer resolves the host from the configured manifest on every
// dial, so a missing or broken manifest surfaces as an unavailable host.
func manifestDialer(grace time.Duration, logger *logging.Logger) host.Dialer {
	return host.DialFunc(func(ctx context.Context) (host.Channel, error) {
		name, manifest := appconfig.GetHost().Manifest()
		if manifest == "" {
			return nil, fmt.Errorf("no manifest configured for native host %s", name)
		}
		dialer, err := host.NewProcessDialer(manifest, grace, logger)
		if err != nil {
			return nil, err
		}
		return dialer.Dial(ctx)
	})
}

func printOutcome(w io.Writer, out trigger.Outcome) error {
	switch {
	case out.Skipped:
		fmt.Fprintln(w, "No active tab.")
	case out.Abandoned:
		fmt.Fprintln(w, "Cancelled.")
	default:
		fmt.Fprintln(w, out.Message.Title)
		fmt.Fprintln(w, out.Message.Body)
	}
	return nil
}
