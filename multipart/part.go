/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package multipart

import (
	"io"
	"mime"

	"github.com/MaomaoMAo-17/hikvision-thermal-parser/hdr"
)

func newPart(mr *Reader) (*Part, error) {
	bp := &Part{mr: mr}
	header, err := hdr.ReadBlock(mr.src)
	if err != nil {
		return nil, err
	}
	bp.Header = header
	bp.r = partReader{bp}
	return bp, nil
}

// FormName returns the name parameter if the part has a
// Content-Disposition of type "form-data". Otherwise it returns the
// empty string.
func (p *Part) FormName() string {
	// See http://tools.ietf.org/html/rfc2183 section 2 for EBNF
	// of Content-Disposition value format.
	if p.dispositionParams == nil {
		p.parseContentDisposition()
	}
	if p.disposition != "form-data" {
		return ""
	}
	return p.dispositionParams["name"]
}

// FileName returns the filename parameter of the part's
// Content-Disposition header.
func (p *Part) FileName() string {
	if p.dispositionParams == nil {
		p.parseContentDisposition()
	}
	return p.dispositionParams["filename"]
}

func (p *Part) parseContentDisposition() {
	v := p.Header.Get(hdr.ContentDisposition)
	var err error
	p.disposition, p.dispositionParams, err = mime.ParseMediaType(v)
	if err != nil {
		p.dispositionParams = emptyParams
	}
}

// Read reads the body of the part, after its headers and before the
// next part (if any) begins. A short read is not an error; io.EOF is
// returned once the part's body is exhausted.
func (p *Part) Read(d []byte) (int, error) {
	if p.closed {
		return 0, ErrPartClosed
	}
	return p.r.Read(d)
}

// ReadAll drains the rest of the part's body and returns it.
func (p *Part) ReadAll() ([]byte, error) {
	if p.closed {
		return nil, ErrPartClosed
	}
	return io.ReadAll(p.r)
}

// Close discards the remainder of the body, so the byte source cursor
// lands exactly on the next delimiter line. It is idempotent; reading
// from a closed part fails with ErrPartClosed.
func (p *Part) Close() error {
	if p.closed {
		return nil
	}
	_, err := io.Copy(io.Discard, p.r)
	p.closed = true
	return err
}
