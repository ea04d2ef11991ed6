/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package hdr

import (
	"bytes"
	"io"
	"strings"
)

// Set sets the header entry associated with key to value. It replaces
// any existing value associated with key.
func (h Header) Set(key, value string) {
	h[CanonicalHeaderKey(key)] = value
}

// Get gets the value associated with the given key.
// It is case insensitive; CanonicalHeaderKey is used
// to canonicalize the provided key.
// If there is no value associated with the key, Get returns "".
func (h Header) Get(key string) string {
	if h == nil {
		return ""
	}
	return h[CanonicalHeaderKey(key)]
}

// Del deletes the value associated with key.
func (h Header) Del(key string) {
	delete(h, CanonicalHeaderKey(key))
}

// Unified method to obtain a clone of the Header
func (h Header) Clone() Header {
	h2 := make(Header, len(h))
	for k, v := range h {
		h2[k] = v
	}
	return h2
}

// ReadBlock reads header lines from lr until a blank line or end of
// input, one "Name: value" pair per line. A repeated name overwrites
// the earlier value. Lines without a colon and bytes that do not form
// valid UTF-8 are dropped rather than rejected.
func ReadBlock(lr LineReader) (Header, error) {
	h := make(Header)
	for {
		line, err := lr.ReadLine()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return h, err
		}
		line = bytes.TrimRight(line, "\r\n")
		if len(line) == 0 {
			return h, nil
		}
		i := bytes.IndexByte(line, ':')
		if i < 0 {
			continue
		}
		key := string(trim(line[:i]))
		if key == "" {
			continue
		}
		value := strings.ToValidUTF8(string(trim(line[i+1:])), "")
		h.Set(strings.ToValidUTF8(key, ""), value)
	}
}

// CanonicalHeaderKey returns the canonical format of the
// MIME header key s. The canonicalization converts the first
// letter and any letter following a hyphen to upper case;
// the rest are converted to lowercase. For example, the
// canonical key for "accept-encoding" is "Accept-Encoding".
// MIME header keys are assumed to be ASCII only.
// If s contains a space or invalid header field bytes, it is
// returned without modifications.
func CanonicalHeaderKey(s string) string {
	// Quick check for canonical encoding.
	upper := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !validHeaderFieldByte(c) {
			return s
		}
		if upper && 'a' <= c && c <= 'z' {
			return canonicalMIMEHeaderKey([]byte(s))
		}
		if !upper && 'A' <= c && c <= 'Z' {
			return canonicalMIMEHeaderKey([]byte(s))
		}
		upper = c == '-'
	}
	return s
}
