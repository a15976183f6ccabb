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

package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "overlay.yaml")
	if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return name
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	style, err := cfg.Style()
	if err != nil {
		t.Fatal(err)
	}
	if style.Fill != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("fill %v, want lime", style.Fill)
	}
}

func TestLoad(t *testing.T) {
	name := writeFile(t, `
viewport:
  width: 720
  height: 1280
marker:
  fill: "#ff000080"
  radius: 4.5
server:
  read_timeout: 250ms
log:
  level: debug
`)
	cfg, err := Load(name)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Viewport.Width != 720 || cfg.Viewport.Height != 1280 {
		t.Errorf("viewport %+v", cfg.Viewport)
	}
	if cfg.Marker.Radius != 4.5 || cfg.Marker.Stroke != "black" {
		t.Errorf("marker %+v", cfg.Marker)
	}
	if got := cfg.Server.ReadTimeout.Duration(); got != 250*time.Millisecond {
		t.Errorf("read timeout %s", got)
	}
	if cfg.Server.Listen != Default().Server.Listen {
		t.Errorf("listen %q, want the default", cfg.Server.Listen)
	}
	style, err := cfg.Style()
	if err != nil {
		t.Fatal(err)
	}
	if style.Fill != (color.RGBA{128, 0, 0, 128}) {
		t.Errorf("fill %v", style.Fill)
	}
	w, h := cfg.NewCamera().Size()
	if w != 720 || h != 1280 {
		t.Errorf("camera %dx%d", w, h)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeFile(t, ""))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Viewport != Default().Viewport {
		t.Errorf("viewport %+v", cfg.Viewport)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]string{
		"unknown field":   "viewport:\n  depth: 3\n",
		"bad duration":    "server:\n  read_timeout: soon\n",
		"bad colour":      "marker:\n  fill: blurple\n",
		"zero width":      "viewport:\n  width: 0\n",
		"far before near": "camera:\n  near: 2\n  far: 1\n",
		"bad level":       "log:\n  level: chatty\n",
		"bad path":        "server:\n  path: track\n",
	}
	for name, content := range cases {
		if _, err := Load(writeFile(t, content)); err == nil {
			t.Errorf("%s: no error", name)
		}
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Error("missing file: no error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FACEMESH_LISTEN", ":9000")
	t.Setenv("FACEMESH_WIDTH", "100")
	t.Setenv("FACEMESH_MARKER_RADIUS", "2.5")
	t.Setenv("FACEMESH_MARKER_FILL", "red")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Listen != ":9000" || cfg.Viewport.Width != 100 ||
		cfg.Marker.Radius != 2.5 || cfg.Marker.Fill != "red" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestEnvBadNumber(t *testing.T) {
	cfg := Default()
	env := map[string]string{"FACEMESH_FPS": "fast", "FACEMESH_HEIGHT": "tall"}
	err := cfg.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	if err == nil {
		t.Fatal("no error")
	}
	for _, name := range []string{"FACEMESH_FPS", "FACEMESH_HEIGHT"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not mention %s", err, name)
		}
	}
}
