// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"mime"
	"net/http"
	"net/textproto"
	"strconv"

	"github.com/rs/zerolog/log"
)

type client struct {
	refresh   chan struct{}
	terminate chan struct{}
}

// requestFormat returns the format named by the "format" URL parameter, or
// fallback if there is none.
func requestFormat(r *http.Request, fallback Format) (Format, error) {
	if value := r.URL.Query().Get("format"); value != "" {
		return ParseFormat(value)
	}
	return fallback, nil
}

// ServePNG answers with one image of the current frame. The "format"
// parameter can request JPEG instead.
func (s *Sink) ServePNG(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}

	format, err := requestFormat(r, PNG)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := s.encoded(format)
	if err != nil {
		log.Error().Err(err).Str("format", string(format)).Msg("encoding preview failed")
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", format.mimeType())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-store")
	if r.Method == http.MethodGet {
		if _, err := w.Write(data); err != nil {
			log.Debug().Err(err).Msg("writing preview failed")
		}
	}
}

// ServeHTTP sends a stream of images, starting with the current frame and
// followed by one image per Draw call. Clients can request PNG or JPEG
// images using the "format" parameter ("?format=png", "?format=jpeg").
func (s *Sink) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}

	format, err := requestFormat(r, s.defaultFormat)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	pw := newPartWriter(w)

	w.Header().Set("Content-Type",
		mime.FormatMediaType("multipart/x-mixed-replace", map[string]string{
			"boundary": pw.boundary,
		}))
	w.Header().Set("Cache-Control", "no-store")

	c := &client{
		refresh:   make(chan struct{}, 1),
		terminate: make(chan struct{}, 1),
	}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, c)
		s.mu.Unlock()
	}()

	logger := log.With().Str("remote", r.RemoteAddr).Str("format", string(format)).Logger()
	logger.Debug().Msg("preview stream started")
	defer logger.Debug().Msg("preview stream ended")

	partHeader := make(textproto.MIMEHeader)
	partHeader.Set("Content-Type", format.mimeType())
	partHeader.Set("Content-Transfer-Encoding", "binary")

	for {
		data, err := s.encoded(format)
		if err != nil {
			logger.Error().Err(err).Msg("encoding preview failed")
			return
		}

		// There is no way to report errors within an image stream; the
		// request just ends.
		if err := pw.writeFrame(partHeader, data); err != nil {
			return
		}

		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}

		select {
		case <-c.refresh:
		case <-c.terminate:
			return
		case <-r.Context().Done():
			return
		}
	}
}
