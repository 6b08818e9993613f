// Package main is the entry point for the Solar scene viewer.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/solar/internal/assets"
	"github.com/Faultbox/solar/internal/config"
	"github.com/Faultbox/solar/internal/engine"
	"github.com/Faultbox/solar/internal/engine/camera"
	"github.com/Faultbox/solar/internal/engine/renderer"
	"github.com/Faultbox/solar/internal/engine/window"
	"github.com/Faultbox/solar/internal/game"
	"github.com/Faultbox/solar/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Solar ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("viewer error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("viewer closed normally")
}

// pickScene asks for a scene file when none was given on the command line.
func pickScene() (string, error) {
	path, err := dialog.File().
		Filter("glTF Scenes", "gltf", "glb").
		Filter("All Files", "*").
		Title("Open Scene").
		Load()
	if errors.Is(err, dialog.ErrCancelled) {
		return "", errors.New("no scene selected")
	}
	return path, err
}

func run(cfg *config.Config) error {
	path := cfg.Scene.Path
	if path == "" {
		var err error
		if path, err = pickScene(); err != nil {
			return err
		}
	}

	manager := assets.NewManager()
	defer manager.Close()
	if err := manager.AddRoot(filepath.Dir(path)); err != nil {
		return err
	}

	win, err := window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer win.Close()

	// The GL context must exist before the device loads its entry points.
	dev, err := renderer.New()
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	defer dev.Close()

	eng := engine.New(engine.Options{
		Device:    dev,
		Scheduler: win,
		Viewport:  win,
		Element:   win.Element,
		Document:  win.Document,
		Lens: camera.Lens{
			FovYDegrees: cfg.Render.FieldOfView,
			Near:        cfg.Render.Near,
			Far:         cfg.Render.Far,
		},
		ClearColor: cfg.Render.ClearColor,
	})
	defer eng.Destroy()

	ctx := context.Background()
	if err := eng.LoadScene(ctx, cfg.Scene.Name, manager.Source(filepath.Base(path))); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	var title game.Titler
	if cfg.Render.ShowFPS {
		title = win
	}
	demo := game.Setup(eng, path, title)

	if err := eng.Start(); err != nil {
		return err
	}

	for !demo.Quit() {
		if win.PollEvents() {
			break
		}
		win.RunFrame()
	}
	return nil
}
