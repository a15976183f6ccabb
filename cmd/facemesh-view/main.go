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

// Command facemesh-view shows the face mesh overlay in a window.
//
// Tracking events either arrive over a websocket, with one JSON encoded
// event per message, or are read from a recorded session:
//
//	facemesh-view -config overlay.yaml -listen localhost:8080
//	facemesh-view -config overlay.yaml -input session.jsonl
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"seehuhn.de/go/facemesh/internal/config"
	"seehuhn.de/go/facemesh/internal/log"
	"seehuhn.de/go/facemesh/overlay"
	"seehuhn.de/go/facemesh/tracking"
)

// viewer implements ebiten.Game. Ebiten's game loop is the render thread:
// Update drains the jobs posted by the tracking session.
type viewer struct {
	ctx    context.Context
	thread *overlay.Thread
	layers *overlay.Layers

	frame *image.RGBA
	img   *ebiten.Image
	dirty bool
}

func newViewer(ctx context.Context, thread *overlay.Thread, layers *overlay.Layers, width, height int) *viewer {
	return &viewer{
		ctx:    ctx,
		thread: thread,
		layers: layers,
		frame:  image.NewRGBA(image.Rect(0, 0, width, height)),
		dirty:  true,
	}
}

func (v *viewer) Update() error {
	if v.ctx.Err() != nil {
		return ebiten.Termination
	}
	if v.thread.Drain() > 0 {
		v.dirty = true
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	b := v.frame.Bounds()
	if v.img == nil {
		v.img = ebiten.NewImage(b.Dx(), b.Dy())
	}
	if v.dirty {
		v.layers.Composite(v.frame, nil)
		v.img.WritePixels(v.frame.Pix)
		v.dirty = false
	}
	screen.DrawImage(v.img, nil)
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	b := v.frame.Bounds()
	return b.Dx(), b.Dy()
}

func run() error {
	configFile := flag.String("config", "", "configuration file (YAML)")
	listen := flag.String("listen", "", "accept tracking clients on this address")
	input := flag.String("input", "", "recorded session, one JSON event per line")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		return err
	}
	logger, err := log.New(cfg.Log)
	if err != nil {
		return err
	}
	if *listen != "" {
		cfg.Server.Listen = *listen
	}
	style, err := cfg.Style()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	width, height := cfg.Viewport.Width, cfg.Viewport.Height
	thread := overlay.NewThread()
	layers := overlay.NewLayers(width, height)
	session, err := tracking.NewSession(tracking.Config{
		Camera:     cfg.NewCamera(),
		Thread:     thread,
		NewSurface: layers.NewSurface,
		Style:      style,
		Log:        logger,
	})
	if err != nil {
		return err
	}

	if *input != "" {
		g.Go(func() error {
			return replayFile(gctx, *input, cfg.Replay.FPS, session, logger)
		})
	} else {
		serve(gctx, g, cfg, session, logger)
	}

	ebiten.SetWindowTitle("facemesh")
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	gameErr := ebiten.RunGame(newViewer(gctx, thread, layers, width, height))
	stop()

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	// The game loop has stopped, so this goroutine is the render thread now.
	session.Close()
	thread.Drain()
	logger.WithField("layers", layers.Len()).Debug("overlays released")

	return errors.Join(gameErr, err)
}

// serve runs the websocket endpoint until ctx is done.
func serve(ctx context.Context, g *errgroup.Group, cfg *config.Config, session *tracking.Session, logger *logrus.Logger) {
	ws := &tracking.Server{
		Handle:      session.Handle,
		ReadTimeout: cfg.Server.ReadTimeout.Duration(),
		Log:         logger,
	}
	mux := http.NewServeMux()
	mux.Handle(cfg.Server.Path, ws)

	srv := &http.Server{
		Addr:    cfg.Server.Listen,
		Handler: mux,
		// client connections end with the server
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	g.Go(func() error {
		logger.WithField("addr", "ws://"+cfg.Server.Listen+cfg.Server.Path).Info("waiting for tracking clients")
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

// replayFile feeds a recorded session to the viewer at the given frame
// rate.
func replayFile(ctx context.Context, fileName string, fps float64, session *tracking.Session, logger *logrus.Logger) error {
	f, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer f.Close()

	limiter := rate.NewLimiter(rate.Inf, 1)
	if fps > 0 {
		limiter.SetLimit(rate.Limit(fps))
	}
	handle := func(ev tracking.Event) error {
		if ev.Kind != tracking.Removed {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
		}
		return session.Handle(ev)
	}
	skip := func(err error) {
		logger.WithError(err).Warn("skipping event")
	}

	err = tracking.Pump(ctx, tracking.NewReplay(f), handle, skip)
	if err != nil {
		return fmt.Errorf("%s: %w", fileName, err)
	}
	logger.WithField("frames", session.Frames()).Info("replay finished")
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "facemesh-view: %v\n", err)
		os.Exit(1)
	}
}
