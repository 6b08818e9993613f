// Package config handles renderer configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all renderer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Render  RenderConfig  `yaml:"render"`
	Scene   SceneConfig   `yaml:"scene"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display surface settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// RenderConfig holds projection and clear settings for the render loop.
type RenderConfig struct {
	FieldOfView float32    `yaml:"field_of_view"` // vertical, degrees
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
	ClearColor  [4]float32 `yaml:"clear_color"`
	ShowFPS     bool       `yaml:"show_fps"`
}

// SceneConfig selects the scene file and the named scene inside it.
type SceneConfig struct {
	Path string `yaml:"path"`
	Name string `yaml:"name"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "Solar",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Render: RenderConfig{
			FieldOfView: 45,
			Near:        0.1,
			Far:         100,
			ClearColor:  [4]float32{0, 0, 0, 1},
			ShowFPS:     true,
		},
		Scene: SceneConfig{
			Path: "",
			Name: "Scene",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings the renderer cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Render.FieldOfView <= 0 || c.Render.FieldOfView >= 180 {
		errs = append(errs, fmt.Errorf("field of view %.1f must be in (0, 180)", c.Render.FieldOfView))
	}
	if c.Render.Near <= 0 || c.Render.Far <= c.Render.Near {
		errs = append(errs, fmt.Errorf("clip planes near=%g far=%g must satisfy 0 < near < far", c.Render.Near, c.Render.Far))
	}
	if c.Scene.Name == "" {
		errs = append(errs, errors.New("scene name must not be empty"))
	}
	return errors.Join(errs...)
}
