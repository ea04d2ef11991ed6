/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package multipart

import (
	"bufio"
	"io"
)

// NewByteSource returns a ByteSource reading from r with a window of
// blockSize bytes.
func NewByteSource(r io.Reader) *ByteSource {
	return &ByteSource{br: bufio.NewReaderSize(&stickyErrorReader{r: r}, blockSize)}
}

func (r *stickyErrorReader) Read(p []byte) (n int, _ error) {
	if r.err != nil {
		return 0, r.err
	}
	n, r.err = r.r.Read(p)
	return n, r.err
}

// Read consumes and returns up to n bytes, fewer only once the stream
// has ended. With nothing left to consume it returns io.EOF, or the
// underlying error if one occurred.
func (s *ByteSource) Read(n int) ([]byte, error) {
	buf := make([]byte, n)
	m, err := io.ReadFull(s.br, buf)
	if m > 0 {
		return buf[:m], nil
	}
	return nil, err
}

// Peek returns up to n bytes without advancing the cursor, pulling from
// the underlying stream as needed and caching the bytes for the next
// Read. n is capped at the window size. The error, if any, is what a
// read past the returned bytes would fail with.
func (s *ByteSource) Peek(n int) ([]byte, error) {
	if n > s.br.Size() {
		n = s.br.Size()
	}
	return s.br.Peek(n)
}

// ReadLine returns bytes up to and including the next '\n', or the
// remaining bytes at end of stream. io.EOF is only returned with no
// bytes at all.
func (s *ByteSource) ReadLine() ([]byte, error) {
	line, err := s.br.ReadBytes('\n')
	if len(line) > 0 {
		return line, nil
	}
	return nil, err
}
