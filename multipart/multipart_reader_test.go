/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package multipart_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"

	"github.com/MaomaoMAo-17/hikvision-thermal-parser/hdr"
	"github.com/MaomaoMAo-17/hikvision-thermal-parser/multipart"
)

const scenarioStream = "--XYZ\r\n" +
	"Content-Disposition: form-data; name=\"a\"\r\n" +
	"\r\n" +
	"hello\r\n" +
	"--XYZ\r\n" +
	"Content-Disposition: form-data; name=\"b\"; filename=\"f.bin\"\r\n" +
	"\r\n" +
	"\x00\x01\x02\r\n" +
	"--XYZ--\r\n"

func TestScenario(t *testing.T) {
	r := multipart.NewReader(strings.NewReader(scenarioStream), "XYZ")

	p, err := r.NextPart()
	require.NoError(t, err)
	require.Equal(t, "a", p.FormName())
	body, err := p.ReadAll()
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), body)

	p, err = r.NextPart()
	require.NoError(t, err)
	require.Equal(t, "b", p.FormName())
	require.Equal(t, "f.bin", p.FileName())
	buf := make([]byte, 3)
	_, err = io.ReadFull(p, buf)
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x01, 0x02}, buf)

	_, err = r.NextPart()
	require.Equal(t, io.EOF, err)
}

func TestScenarioOneByteAtATime(t *testing.T) {
	// Boundaries split across arbitrarily small underlying reads must
	// still be found.
	r := multipart.NewReader(iotest.OneByteReader(strings.NewReader(scenarioStream)), "XYZ")

	p, err := r.NextPart()
	require.NoError(t, err)
	body, err := p.ReadAll()
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), body)

	p, err = r.NextPart()
	require.NoError(t, err)
	body, err = p.ReadAll()
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x01, 0x02}, body)

	_, err = r.NextPart()
	require.Equal(t, io.EOF, err)
}

func TestRoundTrip(t *testing.T) {
	const boundary = "B"
	payloads := [][]byte{
		[]byte("hello"),
		[]byte("foo--Bbar--B"),                           // delimiter text outside any delimiter context
		[]byte("line1\r\n--Bline2\r\n\r\nline3"),         // newline + delimiter text, wrong terminator
		[]byte(""),                                       // empty body
		bytes.Repeat([]byte{0x00, '\r', '\n', '-'}, 997), // binary body larger than one peek window
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.SetBoundary(boundary))
	for i, payload := range payloads {
		pw, err := w.CreateFormField(fmt.Sprintf("f%d", i))
		require.NoError(t, err)
		_, err = pw.Write(payload)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	r := multipart.NewReader(&buf, boundary)
	for i, payload := range payloads {
		p, err := r.NextPart()
		require.NoError(t, err, "part %d", i)
		require.Equal(t, fmt.Sprintf("f%d", i), p.FormName())
		body, err := p.ReadAll()
		require.NoError(t, err, "part %d", i)
		require.Equal(t, payload, body, "part %d", i)
	}
	_, err := r.NextPart()
	require.Equal(t, io.EOF, err)
}

func TestChunkSizeIndependence(t *testing.T) {
	bulk := decodeBody(t, scenarioStream, "XYZ", 0)
	single := decodeBody(t, scenarioStream, "XYZ", 1)
	require.Equal(t, bulk, single)
}

// decodeBody concatenates every part body, read in chunks of chunkSize
// bytes (0 means drain each part in one call).
func decodeBody(t *testing.T, stream, boundary string, chunkSize int) []byte {
	t.Helper()
	r := multipart.NewReader(strings.NewReader(stream), boundary)
	var all []byte
	for {
		p, err := r.NextPart()
		if err == io.EOF {
			return all
		}
		require.NoError(t, err)
		if chunkSize == 0 {
			body, err := p.ReadAll()
			require.NoError(t, err)
			all = append(all, body...)
			continue
		}
		buf := make([]byte, chunkSize)
		for {
			n, err := p.Read(buf)
			all = append(all, buf[:n]...)
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
		}
	}
}

func TestAutoDrain(t *testing.T) {
	// Skipping a part's body entirely must not corrupt the stream
	// position for the next part.
	r := multipart.NewReader(strings.NewReader(scenarioStream), "XYZ")

	p, err := r.NextPart()
	require.NoError(t, err)
	require.Equal(t, "a", p.FormName())

	p, err = r.NextPart()
	require.NoError(t, err)
	require.Equal(t, "b", p.FormName())
	body, err := p.ReadAll()
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x01, 0x02}, body)
}

func TestTerminalIsSticky(t *testing.T) {
	r := multipart.NewReader(strings.NewReader(scenarioStream), "XYZ")
	for {
		p, err := r.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		require.NoError(t, p.Close())
	}
	for i := 0; i < 3; i++ {
		_, err := r.NextPart()
		require.Equal(t, io.EOF, err)
	}
}

func TestEmptyBodyImmediateDelimiter(t *testing.T) {
	stream := "--b\r\n" +
		"Content-Disposition: form-data; name=\"x\"\r\n" +
		"\r\n" +
		"--b--\r\n"
	r := multipart.NewReader(strings.NewReader(stream), "b")

	p, err := r.NextPart()
	require.NoError(t, err)
	require.Equal(t, "x", p.FormName())
	body, err := p.ReadAll()
	require.NoError(t, err)
	require.Empty(t, body)

	_, err = r.NextPart()
	require.Equal(t, io.EOF, err)
}

func TestPreambleSkipped(t *testing.T) {
	stream := "This is the preamble, per framing convention.\r\n" +
		"\r\n" +
		scenarioStream
	r := multipart.NewReader(strings.NewReader(stream), "XYZ")

	p, err := r.NextPart()
	require.NoError(t, err)
	require.Equal(t, "a", p.FormName())
}

func TestNewlineShrinksToLF(t *testing.T) {
	stream := "--b\n" +
		"Content-Disposition: form-data; name=\"x\"\n" +
		"\n" +
		"hi there\n" +
		"--b\n" +
		"Content-Disposition: form-data; name=\"y\"\n" +
		"\n" +
		"bye\n" +
		"--b--\n"
	r := multipart.NewReader(strings.NewReader(stream), "b")

	p, err := r.NextPart()
	require.NoError(t, err)
	body, err := p.ReadAll()
	require.NoError(t, err)
	require.Equal(t, []byte("hi there"), body)

	p, err = r.NextPart()
	require.NoError(t, err)
	require.Equal(t, "y", p.FormName())
	body, err = p.ReadAll()
	require.NoError(t, err)
	require.Equal(t, []byte("bye"), body)

	_, err = r.NextPart()
	require.Equal(t, io.EOF, err)
}

func TestMalformedStream(t *testing.T) {
	stream := "--b\r\n" +
		"A: 1\r\n" +
		"\r\n" +
		"hello\r\n" +
		"--b junk junk\r\n"
	r := multipart.NewReader(strings.NewReader(stream), "b")

	p, err := r.NextPart()
	require.NoError(t, err)
	body, err := p.ReadAll()
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), body)

	_, err = r.NextPart()
	require.ErrorIs(t, err, multipart.ErrMalformedStream)
}

func TestTruncatedBody(t *testing.T) {
	stream := "--b\r\n" +
		"A: 1\r\n" +
		"\r\n" +
		"this body is cut off before any bounda"
	r := multipart.NewReader(strings.NewReader(stream), "b")

	p, err := r.NextPart()
	require.NoError(t, err)
	_, err = p.ReadAll()
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestReadAfterClose(t *testing.T) {
	r := multipart.NewReader(strings.NewReader(scenarioStream), "XYZ")

	p1, err := r.NextPart()
	require.NoError(t, err)
	require.NoError(t, p1.Close())
	require.NoError(t, p1.Close()) // idempotent

	_, err = p1.ReadAll()
	require.ErrorIs(t, err, multipart.ErrPartClosed)
	_, err = p1.Read(make([]byte, 1))
	require.ErrorIs(t, err, multipart.ErrPartClosed)
}

func TestStalePartAfterNextPart(t *testing.T) {
	r := multipart.NewReader(strings.NewReader(scenarioStream), "XYZ")

	p1, err := r.NextPart()
	require.NoError(t, err)

	// Advancing supersedes p1; reading it afterwards is a usage error,
	// not a read of the new part.
	p2, err := r.NextPart()
	require.NoError(t, err)
	_, err = p1.Read(make([]byte, 1))
	require.ErrorIs(t, err, multipart.ErrPartClosed)

	body, err := p2.ReadAll()
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x01, 0x02}, body)
}

func TestRepeatedHeaderKeepsLastValue(t *testing.T) {
	stream := "--b\r\n" +
		"X-Count: first\r\n" +
		"X-Count: second\r\n" +
		"\r\n" +
		"body\r\n" +
		"--b--\r\n"
	r := multipart.NewReader(strings.NewReader(stream), "b")

	p, err := r.NextPart()
	require.NoError(t, err)
	require.Equal(t, "second", p.Header.Get("X-Count"))
}

func TestUnderlyingErrorPropagates(t *testing.T) {
	errBroken := errors.New("link reset")
	body := "--b\r\nA: 1\r\n\r\nsome bytes then a failure"
	r := multipart.NewReader(io.MultiReader(
		strings.NewReader(body),
		iotest.ErrReader(errBroken),
	), "b")

	p, err := r.NextPart()
	require.NoError(t, err)
	_, err = p.ReadAll()
	require.ErrorIs(t, err, errBroken)
}

func TestFinalBoundaryWithoutTrailingNewline(t *testing.T) {
	stream := "--b\r\nA: 1\r\n\r\nhello\r\n--b--"
	r := multipart.NewReader(strings.NewReader(stream), "b")

	p, err := r.NextPart()
	require.NoError(t, err)
	body, err := p.ReadAll()
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), body)

	_, err = r.NextPart()
	require.Equal(t, io.EOF, err)
}

func TestHeadersExposed(t *testing.T) {
	stream := "--b\r\n" +
		"Content-Type: application/json\r\n" +
		"content-length: 2\r\n" +
		"\r\n" +
		"{}\r\n" +
		"--b--\r\n"
	r := multipart.NewReader(strings.NewReader(stream), "b")

	p, err := r.NextPart()
	require.NoError(t, err)
	require.Equal(t, "application/json", p.Header.Get(hdr.ContentType))
	require.Equal(t, "2", p.Header.Get(hdr.ContentLength))
}
