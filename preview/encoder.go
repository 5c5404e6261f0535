// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"sync"
)

// Format names an image encoding, as accepted by the "format" URL parameter.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
)

type pngBufferPool sync.Pool

func (p *pngBufferPool) Get() *png.EncoderBuffer {
	buf, _ := (*sync.Pool)(p).Get().(*png.EncoderBuffer)
	return buf
}

func (p *pngBufferPool) Put(buf *png.EncoderBuffer) {
	(*sync.Pool)(p).Put(buf)
}

var pngEncoder = png.Encoder{
	CompressionLevel: png.BestSpeed,
	BufferPool:       &pngBufferPool{},
}

var jpegOptions = jpeg.Options{Quality: 90}

type encoder struct {
	mimeType string
	encode   func(io.Writer, image.Image) error
}

var encoders = map[Format]encoder{
	PNG: {
		mimeType: "image/png",
		encode:   pngEncoder.Encode,
	},
	JPEG: {
		mimeType: "image/jpeg",
		encode: func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, img, &jpegOptions)
		},
	},
}

// ParseFormat returns the Format named by value, ignoring case. "jpg" is an
// alias of JPEG.
func ParseFormat(value string) (Format, error) {
	f := Format(strings.ToLower(value))
	if f == "jpg" {
		f = JPEG
	}
	if _, ok := encoders[f]; !ok {
		return "", fmt.Errorf("preview: unrecognized image format %q", value)
	}
	return f, nil
}

func (f Format) mimeType() string {
	if e, ok := encoders[f]; ok {
		return e.mimeType
	}
	return "application/octet-stream"
}

func encode(img image.Image, f Format) ([]byte, error) {
	e, ok := encoders[f]
	if !ok {
		return nil, fmt.Errorf("preview: unhandled image format %q", string(f))
	}

	var buf bytes.Buffer
	if err := e.encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
