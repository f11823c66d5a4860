/*
Copyright © 2024 Jeff Berkowitz (pdxjjb@gmail.com)

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package token

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// pushbackReader is a one-byte pushback reader over an io.ByteReader, the
// same shape as the teacher's PushbackByteReader (see
// OBSOLETE/yapl-0/pbr.go), adapted to this package's lexer.
type pushbackReader struct {
	br io.ByteReader
	pb byte
	ok bool
}

func newFilePushbackReader(path string) (*pushbackReader, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return &pushbackReader{br: bufio.NewReader(f)}, f.Close, nil
}

func newStringPushbackReader(body string) *pushbackReader {
	return &pushbackReader{br: strings.NewReader(body)}
}

func (p *pushbackReader) ReadByte() (byte, error) {
	if p.ok {
		b := p.pb
		p.ok = false
		return b, nil
	}
	return p.br.ReadByte()
}

func (p *pushbackReader) UnreadByte(b byte) {
	if p.ok {
		panic("pushbackReader: too many pushbacks")
	}
	p.pb = b
	p.ok = true
}
