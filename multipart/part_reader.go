/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package multipart

import (
	"bytes"
	"io"
)

// Read pulls up to len(d) confirmed body bytes into d. Short reads are
// normal; io.EOF is returned only with no bytes, once the closing
// boundary has been reached. The residual buffer only ever holds bytes
// already known not to belong to a boundary.
func (pr partReader) Read(d []byte) (int, error) {
	p := pr.p
	if p.buf.Len() == 0 && p.err == nil {
		pr.fill()
	}
	if p.buf.Len() == 0 {
		return 0, p.err
	}
	n, _ := p.buf.Read(d)
	p.total += int64(n)
	return n, nil
}

// fill moves the next run of confirmed body bytes from the byte source
// into the residual buffer, or records the body-terminating error.
// Each iteration either buffers bytes, grows the peek window, or stops,
// so progress is guaranteed without unbounded lookahead.
func (pr partReader) fill() {
	p := pr.p
	t := &p.mr.tokens
	for p.buf.Len() == 0 && p.err == nil {
		peek, readErr := p.mr.src.Peek(blockSize)
		if readErr == io.EOF {
			// The body must end at a boundary, not at end of stream.
			readErr = io.ErrUnexpectedEOF
		}
		if len(peek) == 0 {
			if readErr == nil {
				readErr = io.ErrUnexpectedEOF
			}
			p.err = readErr
			return
		}

		n, err := scanBody(peek, t.delimiter, t.nlDelimiter, p.total, readErr)
		if n > 0 {
			// The bytes are already buffered by the peek, so this
			// cannot block.
			chunk, rerr := p.mr.src.Read(n)
			p.buf.Write(chunk)
			if rerr != nil {
				p.err = rerr
				return
			}
		}
		if err != nil {
			p.err = err
			return
		}
		if n == 0 {
			// No verdict in a window at most one delimiter long: this
			// only happens near the end of the stream. Ask the source
			// for one byte past what it holds; if the window cannot
			// grow, the stream is truncated mid-boundary.
			grown, _ := p.mr.src.Peek(len(peek) + 1)
			if len(grown) <= len(peek) {
				p.err = io.ErrUnexpectedEOF
				return
			}
		}
	}
}

// scanBody reports how many leading bytes of peek are confirmed body
// content, and the error (if any) that terminates the body once those
// bytes are consumed.
//
// delimiter is "--boundary". nlDelimiter is "\r\n--boundary" or
// "\n--boundary", depending on the newline convention in force. total
// is the number of body bytes returned so far; at offset zero of the
// body a bare delimiter is recognized without a preceding newline, so
// an immediate boundary yields an empty part. readErr is the error, if
// any, that followed the peeked bytes.
func scanBody(peek, delimiter, nlDelimiter []byte, total int64, readErr error) (int, error) {
	if total == 0 {
		// At beginning of body, allow a bare delimiter.
		if hasPrefix(peek, delimiter) {
			switch matchAfterPrefix(peek, delimiter, readErr) {
			case -1:
				return len(delimiter), nil
			case 0:
				return 0, nil
			case +1:
				return 0, io.EOF
			}
		}
		if hasPrefix(delimiter, peek) {
			return 0, readErr
		}
	}

	// Search for "\n--boundary".
	if i := bytes.Index(peek, nlDelimiter); i >= 0 {
		switch matchAfterPrefix(peek[i:], nlDelimiter, readErr) {
		case -1:
			// Not a boundary after all ("--foobar" vs "--foo"); the
			// whole candidate is body.
			return i + len(nlDelimiter), nil
		case 0:
			return i, nil
		case +1:
			return i, io.EOF
		}
	}
	if hasPrefix(nlDelimiter, peek) {
		return 0, readErr
	}

	// No delimiter in the window. Hold back one delimiter length so a
	// marker straddling the window edge is never consumed as body.
	if safe := len(peek) - len(nlDelimiter); safe > 0 {
		return safe, nil
	}
	return 0, readErr
}

// matchAfterPrefix checks whether peek should be considered to match
// the boundary. The prefix is "--boundary" or "\r\n--boundary" or
// "\n--boundary", and the caller has verified already that peek begins
// with prefix.
//
// matchAfterPrefix returns +1 if peek does match the boundary, meaning
// the prefix is followed by a dash, space, tab, cr, nl, or end of
// input. It returns -1 if peek definitely does NOT match the boundary,
// meaning the prefix is followed by some other character. It returns 0
// if more input needs to be read to make the decision, meaning that
// len(peek) == len(prefix) and readErr == nil.
func matchAfterPrefix(peek, prefix []byte, readErr error) int {
	if len(peek) == len(prefix) {
		if readErr != nil {
			return +1
		}
		return 0
	}
	c := peek[len(prefix)]
	if c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '-' {
		return +1
	}
	return -1
}
