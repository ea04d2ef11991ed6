/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package multipart

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/MaomaoMAo-17/hikvision-thermal-parser/hdr"
)

type (
	// ByteSource is a pull-based buffered wrapper over a blocking byte
	// stream. Every operation may block on the underlying reader; a
	// failed underlying read is fatal for that call and sticks for all
	// later ones.
	ByteSource struct {
		br *bufio.Reader
	}

	// stickyErrorReader is an io.Reader which never calls Read on its
	// underlying Reader once an error has been seen. (the io.Reader
	// interface's contract promises nothing about the return values of
	// Read calls after an error, yet this package does do multiple Reads
	// after error)
	stickyErrorReader struct {
		r   io.Reader
		err error
	}

	// boundaryTokens holds the markers derived from the caller-supplied
	// boundary string. The newline convention starts as CRLF and may
	// shrink to LF exactly once, when the first delimiter line is seen
	// with a single preceding newline byte; adapted guards that
	// transition and is set as soon as any delimiter line matches.
	boundaryTokens struct {
		newline        []byte // "\r\n" or "\n"
		nlDelimiter    []byte // newline + "--boundary"
		delimiter      []byte // "--boundary"
		finalDelimiter []byte // "--boundary--"
		adapted        bool
	}

	// partReader implements io.Reader over a part's body, pulling raw
	// bytes from the byte source without ever returning boundary bytes.
	partReader struct {
		p *Part
	}

	// A Part represents a single part in a multipart body. It is a
	// transient view over the Reader's byte source: it stays valid only
	// until the next NextPart call, which drains and closes it.
	Part struct {
		// The headers of the part, with the keys canonicalized in the
		// same fashion that HTTP request headers are. For example,
		// "foo-bar" changes case to "Foo-Bar".
		Header hdr.Header

		mr                *Reader
		r                 partReader
		buf               bytes.Buffer // residual bytes, confirmed non-boundary, pending return
		total             int64        // body bytes returned to the caller so far
		err               error        // body-terminating error, once known
		disposition       string
		dispositionParams map[string]string
		closed            bool
	}

	// Reader is an iterator over parts in a multipart body. Reader's
	// underlying parser consumes its input as needed. Seeking isn't
	// supported.
	Reader struct {
		src         *ByteSource
		tokens      boundaryTokens
		currentPart *Part
		partsRead   int
		done        bool // final boundary seen; terminal
	}

	// A Writer generates multipart messages.
	Writer struct {
		w        io.Writer
		boundary string
		lastpart *partWriter
	}

	partWriter struct {
		writer *Writer
		closed bool
		wErr   error // last error that occurred writing
	}
)

var (
	// ErrMalformedStream is returned by NextPart when a line is
	// encountered where only a delimiter or continuation line is valid.
	// The reader cannot recover; the whole decode must be restarted
	// upstream.
	ErrMalformedStream = errors.New("multipart: malformed stream")

	// ErrPartClosed is returned on reads from a part that was closed or
	// superseded by a later NextPart call.
	ErrPartClosed = errors.New("multipart: part already closed")

	quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

	emptyParams = make(map[string]string)
)

const (
	// blockSize is the peek window used when scanning for a boundary.
	// This constant needs to be at least 76 for this package to work correctly.
	// This is because \r\n--separator_of_len_70- would fill the window and it wouldn't be safe to consume a single byte from it.
	blockSize = 4096
)
