package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/codefield-dev/codefield/internal/config"
	"github.com/codefield-dev/codefield/internal/host"
	"github.com/codefield-dev/codefield/internal/lang"
	game_log "github.com/codefield-dev/codefield/internal/log"
	"github.com/codefield-dev/codefield/internal/ui"
)

var (
	flagConfig   string
	flagLogLevel string
	flagHostURL  string
	flagOpen     []string
	flagWidth    int
	flagHeight   int
)

var rootCmd = &cobra.Command{
	Use:   "codefield",
	Short: "Spatial code canvas: file editors as nodes on an infinite plane",
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "config file (default $XDG_CONFIG_HOME/codefield/config.toml)")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "DEBUG, INFO, ERROR or NONE (overrides config)")
	rootCmd.Flags().StringVar(&flagHostURL, "host", "", "editor host websocket URL (overrides config)")
	rootCmd.Flags().StringSliceVarP(&flagOpen, "open", "o", nil, "files to open at startup")
	rootCmd.Flags().IntVar(&flagWidth, "width", 1280, "window width")
	rootCmd.Flags().IntVar(&flagHeight, "height", 800, "window height")
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.Load(flagConfig)
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagHostURL != "" {
		cfg.Host.URL = flagHostURL
	}

	logger := game_log.New(os.Stderr, game_log.LevelFromString(cfg.Log.Level))

	var (
		files  ui.FileBackend = ui.LocalFiles{}
		events <-chan host.Event
		bridge *lang.Bridge
	)
	if cfg.Host.URL != "" {
		wire, err := host.Dial(cfg.Host.URL)
		if err != nil {
			return err
		}
		client := host.NewClient(wire, logger)
		defer client.Close()
		files = host.NewFileService(client, cfg.Host.DebounceDuration())
		events = client.Events()
		bridge = lang.NewBridge(client)
		logger.Infof("[MAIN] connected to host %s", cfg.Host.URL)
	} else {
		logger.Infof("[MAIN] no host configured, using local files")
	}

	canvas := ui.NewCanvas(cfg, files, events, bridge, logger)
	for _, p := range append(flagOpen, args...) {
		canvas.OpenFile(p)
	}

	ebiten.SetWindowSize(flagWidth, flagHeight)
	ebiten.SetWindowTitle("codefield")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(canvas)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("codefield: %v", err)
		os.Exit(1)
	}
}
