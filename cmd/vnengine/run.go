package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"scenario-vn-core/internal/config"
	"scenario-vn-core/internal/debugsvc"
	"scenario-vn-core/internal/engine"
	"scenario-vn-core/internal/errs/sentryreporter"
	"scenario-vn-core/internal/ports/sdlvideo"
	"scenario-vn-core/internal/save"
)

type runFlags struct {
	root           string
	saveDir        string
	gameScript     string
	gameID         string
	ramLimit       int
	showFPS        bool
	forceFPS       int
	debug          bool
	strict         bool
	automodeTime   int
	voiceDelayTime int
	voiceWaitTime  int
	crashReportDSN string
}

func newRunCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a scenario script in a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGame(f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.root, "root", ".", "game root directory (holds the scenario script and ons.cfg)")
	flags.StringVar(&f.saveDir, "save", "", "save directory (default: <root>/save)")
	flags.StringVar(&f.gameScript, "game-script", "0.txt", "scenario script filename, relative to --root")
	flags.StringVar(&f.gameID, "gameid", "", "game id override (for save-slot namespacing)")
	flags.IntVar(&f.ramLimit, "ramlimit", 0, "informational working-set hint (no-op on the Go runtime)")
	flags.BoolVar(&f.showFPS, "show-fps", false, "log that a frame-rate counter was requested (no on-screen overlay is drawn)")
	flags.IntVar(&f.forceFPS, "force-fps", 0, "pin the tick rate to N frames/sec (0: 60 frames/sec)")
	flags.BoolVar(&f.debug, "debug", false, "enable verbose structured logging across every component")
	flags.BoolVar(&f.strict, "strict", false, "promote I/O and protocol warnings to fatal errors")
	flags.IntVar(&f.automodeTime, "automode-time", 0, "automode per-character delay override, in milliseconds")
	flags.IntVar(&f.voiceDelayTime, "voicedelay-time", 0, "voice-start delay override, in milliseconds")
	flags.IntVar(&f.voiceWaitTime, "voicewait-time", 0, "voice-wait override, in milliseconds")
	flags.StringVar(&f.crashReportDSN, "crash-report-dsn", "", "Sentry DSN for fatal-error reporting (empty: disabled)")

	return cmd
}

func runGame(f runFlags) error {
	src, err := os.ReadFile(filepath.Join(f.root, f.gameScript))
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	saveDir := f.saveDir
	if saveDir == "" {
		saveDir = filepath.Join(f.root, "save")
	}
	backend, err := save.NewFileBackend(saveDir)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	video, err := sdlvideo.New("vnengine", 800, 600)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	opts := engine.Options{
		Strict:      f.strict,
		SaveBackend: backend,
		Video:       video,
	}
	if f.crashReportDSN != "" {
		reporter, err := sentryreporter.New(f.crashReportDSN, "", "")
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}
		opts.Reporter = reporter
	}

	e, err := engine.New(src, opts)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	if f.ramLimit > 0 {
		e.LoadConfig(&config.Cfg{Pairs: map[string]string{"ramlimit": fmt.Sprintf("%d", f.ramLimit)}})
	}
	if f.gameID != "" {
		e.Logger.Logf(debugsvc.ComponentEngine, debugsvc.LogLevelInfo, "gameid=%s", f.gameID)
	}
	if f.debug {
		for _, c := range []debugsvc.Component{
			debugsvc.ComponentScript, debugsvc.ComponentVars, debugsvc.ComponentCallstack,
			debugsvc.ComponentTween, debugsvc.ComponentSprite, debugsvc.ComponentEffect,
			debugsvc.ComponentInput, debugsvc.ComponentScheduler,
		} {
			e.Logger.SetComponentEnabled(c, true)
		}
		e.Logger.SetMinLevel(debugsvc.LogLevelDebug)
	}
	if f.showFPS {
		e.Logger.Logf(debugsvc.ComponentEngine, debugsvc.LogLevelInfo, "show-fps requested (no on-screen overlay in this front end yet)")
	}
	if f.automodeTime > 0 || f.voiceDelayTime > 0 || f.voiceWaitTime > 0 {
		e.Logger.Logf(debugsvc.ComponentEngine, debugsvc.LogLevelInfo,
			"timing overrides accepted: automode-time=%d voicedelay-time=%d voicewait-time=%d",
			f.automodeTime, f.voiceDelayTime, f.voiceWaitTime)
	}

	if cfgData, err := os.ReadFile(filepath.Join(f.root, "ons.cfg")); err == nil {
		cfg, err := config.ParseCfg(bytes.NewReader(cfgData))
		if err != nil {
			return fmt.Errorf("run: ons.cfg: %w", err)
		}
		e.LoadConfig(cfg)
	}

	frameInterval := time.Second / 60
	if f.forceFPS > 0 {
		frameInterval = time.Second / time.Duration(f.forceFPS)
	}

	go func() {
		if err := e.RunScript(0); err != nil {
			fmt.Fprintf(os.Stderr, "run: script error: %v\n", err)
		}
	}()

	go func() {
		ticker := time.NewTicker(frameInterval)
		defer ticker.Stop()
		for range ticker.C {
			e.Tick(frameInterval)
		}
	}()

	video.ShowAndRun()
	return video.Close()
}
