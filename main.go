package main

import (
	"fmt"
	"os"
	"time"

	"ble-gatt-radar.klederson.com/internal/app"
	"ble-gatt-radar.klederson.com/internal/bluetooth"
	"ble-gatt-radar.klederson.com/internal/config"
	"ble-gatt-radar.klederson.com/internal/eventlog"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	flagConfig   string
	flagDemo     bool
	flagAdapter  string
	flagLogFile  string
	flagLogLevel string
	flagFPS      int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gatt-radar",
		Short: "GATT Radar - BLE radar with GATT read/write in the terminal",
		Long: `GATT Radar scans for Bluetooth Low Energy advertisers and shows them on a
radar. Click a blip (or use the arrow keys) to select a device, connect to it
and read or write a GATT characteristic.

Requires sudo or CAP_NET_ADMIN capability for real Bluetooth scanning.
Use --demo for simulated devices without Bluetooth hardware.`,
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.Flags().StringVar(&flagConfig, "config", "gatt-radar.yaml", "Path to the YAML config file")
	rootCmd.Flags().BoolVar(&flagDemo, "demo", false, "Run with simulated devices (no Bluetooth required)")
	rootCmd.Flags().StringVar(&flagAdapter, "adapter", "", "Adapter label shown in the menu bar (scanning always uses the system default adapter)")
	rootCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Diagnostic log file")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "Diagnostic log level (debug, info, warn, error)")
	rootCmd.Flags().IntVar(&flagFPS, "fps", 0, "Radar frames per second")
	return rootCmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	timeout, _ := cfg.OperationTimeout()

	logger, closer, err := eventlog.NewFileLogger(cfg.Logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	var central bluetooth.Central
	if cfg.Demo {
		central = bluetooth.NewMockScanner(time.Now().UnixNano())
	} else {
		central = bluetooth.NewBLEScanner()
	}
	logger.Info("starting", "demo", cfg.Demo, "adapter", cfg.Adapter, "fps", cfg.FPS)

	model := app.New(app.Options{
		Demo:          cfg.Demo,
		Adapter:       cfg.Adapter,
		Central:       central,
		Log:           eventlog.New(config.LogCapacity, eventlog.WithLogger(logger)),
		Timeout:       timeout,
		FrameInterval: cfg.FrameInterval(),
		GATT:          cfg.GATT,
		ResolveNames:  !cfg.Demo,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithFPS(cfg.FPS),
	)
	model.Attach(p)

	_, err = p.Run()
	return err
}

// applyFlags lets explicitly set flags override the config file.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("demo") {
		cfg.Demo = flagDemo
	}
	if flags.Changed("adapter") {
		cfg.Adapter = flagAdapter
	}
	if flags.Changed("log-file") {
		cfg.Logger.File = flagLogFile
	}
	if flags.Changed("log-level") {
		cfg.Logger.Level = flagLogLevel
	}
	if flags.Changed("fps") {
		cfg.FPS = flagFPS
	}
}
