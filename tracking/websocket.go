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

package tracking

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Websocket reads events from a websocket connection, one JSON encoded
// event per text message.
type Websocket struct {
	conn *websocket.Conn

	// ReadTimeout, if positive, bounds the wait for the next message.
	ReadTimeout time.Duration
}

// NewWebsocket returns a Source reading from conn.
func NewWebsocket(conn *websocket.Conn) *Websocket {
	return &Websocket{conn: conn}
}

// Next implements [Source]. A normal close of the connection is reported
// as io.EOF. Cancelling ctx closes the connection.
func (w *Websocket) Next(ctx context.Context) (Event, error) {
	stop := context.AfterFunc(ctx, func() { w.conn.Close() })
	defer stop()

	for {
		if w.ReadTimeout > 0 {
			w.conn.SetReadDeadline(time.Now().Add(w.ReadTimeout))
		}
		kind, data, err := w.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return Event{}, ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return Event{}, io.EOF
			}
			return Event{}, err
		}
		if kind != websocket.TextMessage {
			continue
		}
		return DecodeEvent(data)
	}
}

// Server accepts websocket connections from tracking clients and passes
// their events to Handle. When a client disconnects, Removed events are
// generated for all anchors the client had reported.
type Server struct {
	Handle   func(Event) error
	Upgrader websocket.Upgrader

	// ReadTimeout is applied to every client connection.
	ReadTimeout time.Duration

	// Log receives diagnostics. If nil, the standard logrus logger is used.
	Log logrus.FieldLogger

	mu      sync.Mutex
	clients int
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clients
}

func (s *Server) logger() logrus.FieldLogger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	log := s.logger().WithField("remote", req.RemoteAddr)

	conn, err := s.Upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	s.mu.Lock()
	s.clients++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.clients--
		s.mu.Unlock()
	}()

	log.Info("tracking client connected")

	src := NewWebsocket(conn)
	src.ReadTimeout = s.ReadTimeout

	seen := make(map[uuid.UUID]bool)
	handle := func(ev Event) error {
		switch ev.Kind {
		case Removed:
			delete(seen, ev.Anchor.ID)
		default:
			seen[ev.Anchor.ID] = true
		}
		return s.Handle(ev)
	}
	skip := func(err error) {
		log.WithError(err).Debug("skipping event")
	}

	err = Pump(req.Context(), src, handle, skip)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Warn("tracking client failed")
	}

	for id := range seen {
		if err := s.Handle(Event{Kind: Removed, Anchor: Anchor{ID: id}}); err != nil {
			log.WithError(err).Warn("removing anchor")
		}
	}
	log.WithField("anchors", len(seen)).Info("tracking client disconnected")
}
