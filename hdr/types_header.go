/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package hdr

const (
	toLower = 'a' - 'A'

	//Headers
	ContentDisposition      = "Content-Disposition"
	ContentEncoding         = "Content-Encoding"
	ContentLength           = "Content-Length"
	ContentTransferEncoding = "Content-Transfer-Encoding"
	ContentType             = "Content-Type"
)

var (
	// commonHeader interns common header strings.
	commonHeader = make(map[string]string)

	// isTokenTable is a copy of net/http/lex.go's isTokenTable.
	// See https://httpwg.github.io/specs/rfc7230.html#rule.token.separators
	isTokenTable = [127]bool{
		'0': true, '1': true, '2': true, '3': true, '4': true, '5': true, '6': true, '7': true,
		'8': true, '9': true,

		'a': true, 'b': true, 'c': true, 'd': true, 'e': true, 'f': true, 'g': true, 'h': true,
		'i': true, 'j': true, 'k': true, 'l': true, 'm': true, 'n': true, 'o': true, 'p': true,
		'q': true, 'r': true, 's': true, 't': true, 'u': true, 'v': true, 'w': true, 'x': true,
		'y': true, 'z': true,

		'A': true, 'B': true, 'C': true, 'D': true, 'E': true, 'F': true, 'G': true, 'H': true,
		'I': true, 'J': true, 'K': true, 'L': true, 'M': true, 'N': true, 'O': true, 'P': true,
		'Q': true, 'R': true, 'S': true, 'T': true, 'U': true, 'V': true, 'W': true, 'X': true,
		'Y': true, 'Z': true,

		'!':  true,
		'#':  true,
		'$':  true,
		'%':  true,
		'&':  true,
		'\'': true,
		'*':  true,
		'+':  true,
		'-':  true,
		'.':  true,
		'^':  true,
		'_':  true,
		'`':  true,
		'|':  true,
		'~':  true,
	}
)

type (
	// A Header represents the key-value pairs of a header block, with the
	// keys canonicalized in the same fashion as HTTP request headers.
	// For example, "foo-bar" changes case to "Foo-Bar".
	//
	// A repeated key keeps the value seen last.
	Header map[string]string

	// A LineReader produces one line per call, up to and including the
	// next '\n', or the remaining bytes at end of input.
	LineReader interface {
		ReadLine() ([]byte, error)
	}
)

func init() {
	for _, v := range []string{
		ContentDisposition,
		ContentEncoding,
		ContentLength,
		ContentTransferEncoding,
		ContentType,
	} {
		commonHeader[v] = v
	}
}
