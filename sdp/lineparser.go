/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package sdp

import (
	"strconv"
	"strings"
)

// lineParser consumes an SDP field value left to right, token by token. It
// mirrors the cursor-based parsers the codec's field types are built on:
// every read advances the cursor and reports whether it found what it was
// looking for, rather than panicking or returning partial garbage.
type lineParser struct {
	s   string
	pos int
}

func newLineParser(s string) *lineParser {
	return &lineParser{s: s}
}

func (p *lineParser) exhausted() bool {
	return p.pos >= len(p.s)
}

func (p *lineParser) rest() string {
	return p.s[p.pos:]
}

// skipPrefix consumes prefix if the remaining input starts with it.
func (p *lineParser) skipPrefix(prefix string) bool {
	if strings.HasPrefix(p.rest(), prefix) {
		p.pos += len(prefix)
		return true
	}
	return false
}

// skipByte consumes a single byte if it matches b.
func (p *lineParser) skipByte(b byte) bool {
	if !p.exhausted() && p.s[p.pos] == b {
		p.pos++
		return true
	}
	return false
}

// split returns everything up to (not including) the next occurrence of
// sep, consuming the separator too. If sep does not occur, it returns the
// remainder of the input and advances to the end.
func (p *lineParser) split(sep byte) (string, bool) {
	if p.exhausted() {
		return "", false
	}
	rest := p.rest()
	if idx := strings.IndexByte(rest, sep); idx >= 0 {
		p.pos += idx + 1
		return rest[:idx], true
	}
	p.pos = len(p.s)
	return rest, true
}

// readUntilEnd returns everything remaining, or false if already exhausted.
func (p *lineParser) readUntilEnd() (string, bool) {
	if p.exhausted() {
		return "", false
	}
	rest := p.rest()
	p.pos = len(p.s)
	return rest, true
}

// readInt parses a base-10 integer starting at the cursor, stopping at the
// first non-digit byte (or '-' leading sign).
func (p *lineParser) readInt() (int64, bool) {
	rest := p.rest()
	end := 0
	if end < len(rest) && (rest[end] == '-' || rest[end] == '+') {
		end++
	}
	start := end
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	v, err := strconv.ParseInt(rest[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	p.pos += end
	return v, true
}
