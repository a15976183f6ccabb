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

// Command facemesh-replay renders a recorded face tracking session
// without a display. Every frame is composited over an optional
// background and written as a PNG file; with -pdf, a vector snapshot of
// the markers is written as well.
//
// Usage:
//
//	facemesh-replay -config overlay.yaml -input session.jsonl -out frames/
//	facemesh-replay -synthetic motion_yaw_sweep -out frames/ -pdf
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	_ "image/jpeg"
	_ "image/png"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/facemesh"
	"seehuhn.de/go/facemesh/internal/config"
	"seehuhn.de/go/facemesh/internal/log"
	"seehuhn.de/go/facemesh/overlay"
	"seehuhn.de/go/facemesh/testcases"
	"seehuhn.de/go/facemesh/tracking"
)

type replay struct {
	cfg    *config.Config
	log    *logrus.Logger
	outDir string
	pdf    bool

	style      overlay.MarkerStyle
	background image.Image
	camera     *facemesh.Camera
	thread     *overlay.Thread
	layers     *overlay.Layers
	session    *tracking.Session

	frame   int
	skipped int
	writers *errgroup.Group
}

func (r *replay) run() error {
	configFile := flag.String("config", "", "configuration file (YAML)")
	input := flag.String("input", "", "recorded session, one JSON event per line")
	synthetic := flag.String("synthetic", "", "replay a built-in sequence instead of -input")
	outDir := flag.String("out", "frames", "output directory")
	background := flag.String("background", "", "background image (PNG or JPEG)")
	writePDF := flag.Bool("pdf", false, "also write PDF snapshots")
	flag.Parse()

	if (*input == "") == (*synthetic == "") {
		return errors.New("exactly one of -input and -synthetic is required")
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		return err
	}
	r.cfg = cfg
	r.log, err = log.New(cfg.Log)
	if err != nil {
		return err
	}
	r.outDir = *outDir
	r.pdf = *writePDF

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var src tracking.Source
	var bar *progressbar.ProgressBar
	if *synthetic != "" {
		seq, ok := testcases.Lookup(*synthetic)
		if !ok {
			return fmt.Errorf("unknown sequence %q", *synthetic)
		}
		cfg.Viewport = config.Viewport{Width: seq.Width, Height: seq.Height}
		r.camera = seq.Camera()
		src = testcases.NewSource(seq)
		bar = progressbar.Default(int64(len(seq.Events())), seq.Name)
	} else {
		f, err := os.Open(*input)
		if err != nil {
			return err
		}
		defer f.Close()
		size := int64(-1)
		if fi, err := f.Stat(); err == nil {
			size = fi.Size()
		}
		r.camera = cfg.NewCamera()
		bar = progressbar.DefaultBytes(size, filepath.Base(*input))
		src = tracking.NewReplay(io.TeeReader(f, bar))
	}
	defer bar.Close()

	if *background != "" {
		r.background, err = loadImage(*background)
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(r.outDir, 0o755); err != nil {
		return err
	}

	r.style, err = cfg.Style()
	if err != nil {
		return err
	}
	r.thread = overlay.NewThread()
	r.layers = overlay.NewLayers(cfg.Viewport.Width, cfg.Viewport.Height)
	r.session, err = tracking.NewSession(tracking.Config{
		Camera:     r.camera,
		Thread:     r.thread,
		NewSurface: r.layers.NewSurface,
		Style:      r.style,
		Log:        r.log,
	})
	if err != nil {
		return err
	}

	r.writers = &errgroup.Group{}
	r.writers.SetLimit(runtime.GOMAXPROCS(0))

	var limiter *rate.Limiter
	if cfg.Replay.FPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Replay.FPS), 1)
	}

	handle := func(ev tracking.Event) error {
		if limiter != nil && ev.Kind != tracking.Removed {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
		}
		if err := r.session.Handle(ev); err != nil {
			return err
		}
		if *synthetic != "" {
			bar.Add(1)
		}

		// This goroutine doubles as the render thread.
		r.thread.Drain()
		if ev.Kind != tracking.Removed {
			r.snapshot()
		}
		return nil
	}
	skip := func(err error) {
		r.skipped++
		r.log.WithError(err).Warn("skipping event")
	}

	err = tracking.Pump(ctx, src, handle, skip)
	r.session.Close()
	r.thread.Drain()
	if werr := r.writers.Wait(); err == nil {
		err = werr
	}
	bar.Finish()

	r.log.WithFields(log.Fields{
		"frames":  r.frame,
		"skipped": r.skipped,
		"out":     r.outDir,
	}).Info("replay finished")
	return err
}

// snapshot writes the current frame. Encoding runs in the background on a
// copy of the composited image.
func (r *replay) snapshot() {
	n := r.frame
	r.frame++
	if n%r.cfg.Replay.Every != 0 {
		return
	}

	img := image.NewRGBA(image.Rect(0, 0, r.cfg.Viewport.Width, r.cfg.Viewport.Height))
	r.layers.Composite(img, r.background)
	base := filepath.Join(r.outDir, fmt.Sprintf("frame-%05d", n))

	var points []vec.Vec2
	if r.pdf {
		points = r.layers.Markers(nil)
	}
	style := r.style
	w, h := r.cfg.Viewport.Width, r.cfg.Viewport.Height

	r.writers.Go(func() error {
		if err := writePNG(base+".png", img); err != nil {
			return err
		}
		if r.pdf {
			return overlay.WritePDF(base+".pdf", w, h, points, style)
		}
		return nil
	})
}

func writePNG(fileName string, img image.Image) error {
	f, err := os.Create(fileName)
	if err != nil {
		return err
	}
	if err := overlay.WritePNG(f, img); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", fileName, err)
	}
	return f.Close()
}

func loadImage(fileName string) (image.Image, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	return img, nil
}

func main() {
	r := &replay{}
	if err := r.run(); err != nil {
		fmt.Fprintf(os.Stderr, "facemesh-replay: %v\n", err)
		os.Exit(1)
	}
}
