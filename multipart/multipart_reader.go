/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package multipart

import (
	"bytes"
	"fmt"
	"io"
)

// NewReader creates a new multipart Reader reading from r using the
// given MIME boundary.
//
// The boundary is usually obtained from the "boundary" parameter of
// the message's "Content-Type" header. Use mime.ParseMediaType to
// parse such headers.
func NewReader(r io.Reader, boundary string) *Reader {
	b := []byte("\r\n--" + boundary + "--")
	return &Reader{
		src: NewByteSource(r),
		tokens: boundaryTokens{
			newline:        b[:2],
			nlDelimiter:    b[:len(b)-2],
			delimiter:      b[2 : len(b)-2],
			finalDelimiter: b[2:],
		},
	}
}

// NextPart returns the next part in the multipart or an error.
// When there are no more parts, the error io.EOF is returned; calling
// NextPart again keeps returning io.EOF without reading further.
//
// A part that is still open is drained first, so the byte source
// cursor always sits on a line boundary here.
func (r *Reader) NextPart() (*Part, error) {
	if r.done {
		return nil, io.EOF
	}
	if r.currentPart != nil {
		if err := r.currentPart.Close(); err != nil {
			return nil, err
		}
		r.currentPart = nil
	}

	expectNewPart := false
	for {
		line, err := r.src.ReadLine()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, fmt.Errorf("multipart: NextPart: %w", err)
		}

		if r.isBoundaryDelimiterLine(line) {
			r.partsRead++
			bp, err := newPart(r)
			if err != nil {
				return nil, err
			}
			r.currentPart = bp
			return bp, nil
		}

		if r.isFinalBoundary(line) {
			r.done = true
			return nil, io.EOF
		}

		if expectNewPart {
			return nil, fmt.Errorf("%w: expecting a new part, got line %q", ErrMalformedStream, line)
		}

		// Tolerate preamble text before the first boundary.
		if r.partsRead == 0 {
			continue
		}

		// Consume the "\n" or "\r\n" separator between the body of the
		// previous part and the boundary line we now expect will follow.
		// (either a new part or the end boundary)
		if bytes.Equal(line, r.tokens.newline) {
			expectNewPart = true
			continue
		}

		return nil, fmt.Errorf("%w: unexpected line %q", ErrMalformedStream, line)
	}
}

// isFinalBoundary reports whether line is the final boundary line
// indicating that all parts are over.
// It matches `^--boundary--[ \t]*(\r\n)?$`
func (r *Reader) isFinalBoundary(line []byte) bool {
	t := &r.tokens
	if !hasPrefix(line, t.finalDelimiter) {
		return false
	}
	rest := skipLWSPChar(line[len(t.finalDelimiter):])
	return len(rest) == 0 || bytes.Equal(rest, t.newline)
}

func (r *Reader) isBoundaryDelimiterLine(line []byte) bool {
	// http://tools.ietf.org/html/rfc2046#section-5.1
	//   The boundary delimiter line is then defined as a line
	//   consisting entirely of two hyphen characters ("-",
	//   decimal value 45) followed by the boundary parameter
	//   value from the Content-Type header field, optional linear
	//   whitespace, and a terminating CRLF.
	t := &r.tokens
	if !hasPrefix(line, t.delimiter) {
		return false
	}
	rest := skipLWSPChar(line[len(t.delimiter):])

	// On the first delimiter, see whether our lines are ending in \n
	// instead of \r\n and switch into that mode if so. This is a
	// violation of the spec, but occurs in practice.
	if !t.adapted && len(rest) == 1 && rest[0] == '\n' {
		t.shrinkNewline()
	}
	ok := bytes.Equal(rest, t.newline)
	if ok {
		t.adapted = true
	}
	return ok
}

// shrinkNewline drops the leading '\r' from the newline convention.
// It runs at most once, before the first delimiter line has matched.
func (t *boundaryTokens) shrinkNewline() {
	if t.adapted {
		return
	}
	t.newline = t.newline[1:]
	t.nlDelimiter = t.nlDelimiter[1:]
	t.adapted = true
}
