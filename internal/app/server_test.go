// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package app

import (
	"encoding/json"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/display"

	"github.com/GermanBionicSystems/epcal/preview"
)

func newTestServer(sinks ...display.Drawer) (*Server, *Runner, *preview.Sink) {
	sink := preview.New(&preview.Options{Width: 250, Height: 122})
	r := newTestRunner(Options{Sinks: append([]display.Drawer{sink}, sinks...)})
	return NewServer(sink, r), r, sink
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, http.NoBody))
	return rec
}

func TestServerIndex(t *testing.T) {
	srv, _, _ := newTestServer()

	rec := get(t, srv, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `<img src="/stream"`)
}

func TestServerHealth(t *testing.T) {
	srv, r, _ := newTestServer()

	rec := get(t, srv, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var before map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &before))
	assert.Equal(t, map[string]any{"frames": 0.0, "updates": 0.0}, before)

	require.NoError(t, r.Update(time.Date(2024, time.February, 29, 23, 59, 0, 0, time.UTC)))

	rec = get(t, srv, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var after map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &after))
	assert.InDelta(t, 1, after["frames"], 0)
	assert.InDelta(t, 1, after["updates"], 0)
	assert.Equal(t, "2024-02-29 23:59 (first weekday 4)", after["page"])
	assert.Equal(t, "full", after["mode"])
	assert.Contains(t, after, "updated")
	assert.NotContains(t, after, "last_error")
}

func TestServerHealthFailing(t *testing.T) {
	srv, r, _ := newTestServer(&fakePanel{drawErr: errors.New("busy timeout")})

	require.Error(t, r.Update(time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)))

	rec := get(t, srv, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var h map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &h))
	assert.Equal(t, "fake: busy timeout", h["last_error"])
}

func TestServerPage(t *testing.T) {
	srv, r, _ := newTestServer()
	require.NoError(t, r.Update(time.Date(2024, time.February, 29, 12, 0, 0, 0, time.UTC)))

	rec := get(t, srv, "/page.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 250, img.Bounds().Dx())
	assert.Equal(t, 122, img.Bounds().Dy())
}

func TestServerMethods(t *testing.T) {
	srv, _, _ := newTestServer()

	for _, tc := range []struct {
		method, target string
		want           int
	}{
		{method: http.MethodHead, target: "/page.png", want: http.StatusOK},
		{method: http.MethodPost, target: "/page.png", want: http.StatusMethodNotAllowed},
		{method: http.MethodPost, target: "/healthz", want: http.StatusMethodNotAllowed},
		{method: http.MethodGet, target: "/missing", want: http.StatusNotFound},
	} {
		t.Run(tc.method+" "+tc.target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.target, http.NoBody))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
