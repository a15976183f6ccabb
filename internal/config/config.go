// seehuhn.de/go/facemesh - face mesh overlay rendering
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package config reads the overlay configuration from a YAML file, with
// overrides from the environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"seehuhn.de/go/facemesh"
	"seehuhn.de/go/facemesh/internal/log"
	"seehuhn.de/go/facemesh/overlay"
)

// Config is the complete configuration of the overlay commands.
type Config struct {
	Viewport Viewport    `yaml:"viewport"`
	Camera   Camera      `yaml:"camera"`
	Marker   Marker      `yaml:"marker"`
	Replay   Replay      `yaml:"replay"`
	Server   Server      `yaml:"server"`
	Log      log.Options `yaml:"log"`
}

// Viewport is the size of the display surface, in pixels.
type Viewport struct {
	Width  int `yaml:"width" validate:"gt=0,lte=16384"`
	Height int `yaml:"height" validate:"gt=0,lte=16384"`
}

// Camera describes the projection used when events carry no camera
// matrices.
type Camera struct {
	FovY float64 `yaml:"fov_y" validate:"gt=0,lt=180"` // degrees
	Near float64 `yaml:"near" validate:"gt=0"`
	Far  float64 `yaml:"far" validate:"gtfield=Near"`
}

// Marker is the marker style. Colours are CSS colour names, #rrggbb,
// #rrggbbaa or "transparent".
type Marker struct {
	Fill        string  `yaml:"fill" validate:"color"`
	Stroke      string  `yaml:"stroke" validate:"color"`
	Radius      float64 `yaml:"radius" validate:"gt=0"`
	StrokeWidth float64 `yaml:"stroke_width" validate:"gte=0"`
}

// Replay controls playback of recorded sessions.
type Replay struct {
	// FPS is the playback rate. Zero replays as fast as possible.
	FPS float64 `yaml:"fps" validate:"gte=0"`

	// Every writes a snapshot for every n-th frame.
	Every int `yaml:"every" validate:"gte=1"`
}

// Server configures the websocket endpoint of the viewer.
type Server struct {
	Listen      string   `yaml:"listen" validate:"required"`
	Path        string   `yaml:"path" validate:"startswith=/"`
	ReadTimeout Duration `yaml:"read_timeout"`
}

// Duration wraps time.Duration for YAML unmarshaling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Default returns the built-in configuration: a portrait phone screen
// with green markers.
func Default() Config {
	return Config{
		Viewport: Viewport{Width: 360, Height: 640},
		Camera:   Camera{FovY: 60, Near: 0.01, Far: 10},
		Marker: Marker{
			Fill:        "lime",
			Stroke:      "black",
			Radius:      3,
			StrokeWidth: 1,
		},
		Replay: Replay{FPS: 30, Every: 1},
		Server: Server{
			Listen:      "localhost:8080",
			Path:        "/track",
			ReadTimeout: Duration(10 * time.Second),
		},
		Log: log.DefaultOptions(),
	}
}

// Load reads the configuration. Settings missing from the file keep their
// default values. An empty fileName uses the defaults only.
//
// Afterwards, variables from a .env file in the working directory (if
// any) and from the environment override individual settings.
func Load(fileName string) (*Config, error) {
	cfg := Default()

	if fileName != "" {
		data, err := os.ReadFile(fileName)
		if err != nil {
			return nil, err
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: %w", fileName, err)
		}
	}

	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf(".env: %w", err)
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envPrefix is the prefix of all environment overrides.
const envPrefix = "FACEMESH_"

// applyEnv overrides settings from environment variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok {
			*dst = v
		}
	}
	num := func(name string, dst *float64) error {
		v, ok := lookup(envPrefix + name)
		if !ok {
			return nil
		}
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, name, err)
		}
		*dst = x
		return nil
	}
	integer := func(name string, dst *int) error {
		v, ok := lookup(envPrefix + name)
		if !ok {
			return nil
		}
		x, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, name, err)
		}
		*dst = x
		return nil
	}

	str("LISTEN", &c.Server.Listen)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FILE", &c.Log.File)
	str("MARKER_FILL", &c.Marker.Fill)
	str("MARKER_STROKE", &c.Marker.Stroke)
	return errors.Join(
		integer("WIDTH", &c.Viewport.Width),
		integer("HEIGHT", &c.Viewport.Height),
		num("MARKER_RADIUS", &c.Marker.Radius),
		num("FPS", &c.Replay.FPS),
	)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("color", func(fl validator.FieldLevel) bool {
		_, err := overlay.ParseColor(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks all settings.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Style returns the configured marker style.
func (c *Config) Style() (overlay.MarkerStyle, error) {
	fill, err := overlay.ParseColor(c.Marker.Fill)
	if err != nil {
		return overlay.MarkerStyle{}, err
	}
	stroke, err := overlay.ParseColor(c.Marker.Stroke)
	if err != nil {
		return overlay.MarkerStyle{}, err
	}
	style := overlay.MarkerStyle{
		Fill:        fill,
		Stroke:      stroke,
		Radius:      c.Marker.Radius,
		StrokeWidth: c.Marker.StrokeWidth,
	}
	return style, style.Validate()
}

// NewCamera returns the configured default camera.
func (c *Config) NewCamera() *facemesh.Camera {
	return facemesh.NewCamera(c.Viewport.Width, c.Viewport.Height,
		mgl64.DegToRad(c.Camera.FovY), c.Camera.Near, c.Camera.Far)
}
