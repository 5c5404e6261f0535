// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"io"
	"net/textproto"
	"strconv"
)

// randomBoundary generates a MIME multipart boundary compatible with RFC 2046
// (section 5.1.1).
func randomBoundary() string {
	var buf [34]byte
	if _, err := io.ReadFull(rand.Reader, buf[:]); err != nil {
		panic(err)
	}
	return fmt.Sprintf("%x", buf[:])
}

// partWriter writes an endless multipart stream. mime/multipart.Writer can
// not be used as every part must be followed by its closing boundary line
// before the next frame is known.
type partWriter struct {
	w        io.Writer
	boundary string
	started  bool
}

func newPartWriter(w io.Writer) *partWriter {
	return &partWriter{
		w:        w,
		boundary: randomBoundary(),
	}
}

// writeFrame sends one part. header is modified to carry Content-Length.
func (pw *partWriter) writeFrame(header textproto.MIMEHeader, body []byte) error {
	header.Set("Content-Length", strconv.Itoa(len(body)))

	var buf bytes.Buffer

	if !pw.started {
		fmt.Fprintf(&buf, "--%s\r\n", pw.boundary)
		pw.started = true
	}

	for name, values := range header {
		for _, value := range values {
			fmt.Fprintf(&buf, "%s: %s\r\n", name, value)
		}
	}

	buf.WriteString("\r\n")
	buf.Write(body)
	fmt.Fprintf(&buf, "\r\n--%s\r\n", pw.boundary)

	_, err := buf.WriteTo(pw.w)
	return err
}
