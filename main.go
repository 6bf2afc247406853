package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/soocke/frame-labeler/app"
	"github.com/soocke/frame-labeler/config"
)

func main() {
	defPath, err := config.DefaultPath()
	if err != nil {
		defPath = "config.json"
	}
	cfgPath := flag.String("config", defPath, "path to the JSON config file")
	framesDir := flag.String("frames", "", "directory of extracted frames (overrides config)")
	projectFile := flag.String("project", "", "project file name inside the output dir (overrides config)")
	detections := flag.String("detections", "", "precomputed detections JSON (overrides config)")
	debugFlag := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	// Base config from file, falling back to defaults
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		cfg = config.DefaultConfig()
	}
	if *framesDir != "" {
		cfg.FramesDir = *framesDir
	}
	if *projectFile != "" {
		cfg.ProjectFile = *projectFile
	}
	if *detections != "" {
		cfg.DetectionsFile = *detections
	}
	cfg.Debug = cfg.Debug || *debugFlag

	// Set up logger
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(level)
	if err != nil {
		logger.Warn("config not loaded, using defaults", "path", *cfgPath, "error", err)
	}

	application, err := app.NewApp("Frame Labeler", cfg, *cfgPath, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	application.Start()
}
