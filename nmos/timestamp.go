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

// Package nmos implements the data model for the NMOS IS-04 Node API
// surfaces this toolkit produces: resource timestamps/versions, the Self
// record and API error payloads, plus a thin chi router contract for
// exposing them.
package nmos

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/soundondigital/ravennakit/ptp/protocol"
)

// Timestamp is a TAI seconds-and-nanoseconds pair, used both as an NMOS
// resource Version and as the wire form of any other NMOS timestamp field.
// Its string form is "<seconds>:<nanoseconds>".
type Timestamp struct {
	Seconds     uint64
	Nanoseconds uint32
}

// Version is an NMOS resource version. It is represented identically to
// Timestamp: a TAI timestamp of the last attribute change.
type Version = Timestamp

// FromPTP converts a PTP timestamp into its NMOS representation.
func FromPTP(ts protocol.Timestamp) Timestamp {
	return Timestamp{Seconds: ts.Seconds.Seconds(), Nanoseconds: ts.Nanoseconds}
}

// Less reports whether t sorts strictly before other.
func (t Timestamp) Less(other Timestamp) bool {
	return t.Seconds < other.Seconds || (t.Seconds == other.Seconds && t.Nanoseconds < other.Nanoseconds)
}

// IsValid reports whether the timestamp carries any non-zero component.
func (t Timestamp) IsValid() bool {
	return t.Seconds != 0 || t.Nanoseconds != 0
}

// Inc advances the timestamp by exactly one nanosecond, carrying into
// seconds when nanoseconds would reach one billion.
func (t *Timestamp) Inc() {
	if t.Nanoseconds < 999999999 {
		t.Nanoseconds++
		return
	}
	t.Nanoseconds = 0
	t.Seconds++
}

// Update sets the timestamp to ts if ts is strictly newer, otherwise
// advances it by one nanosecond -- the NMOS convention for guaranteeing a
// resource's version always increases even when the underlying clock
// hasn't moved since the last update.
func (t *Timestamp) Update(ts protocol.Timestamp) {
	candidate := FromPTP(ts)
	if t.Less(candidate) {
		*t = candidate
		return
	}
	t.Inc()
}

// String renders the "<seconds>:<nanoseconds>" wire form.
func (t Timestamp) String() string {
	return fmt.Sprintf("%d:%d", t.Seconds, t.Nanoseconds)
}

// ParseTimestamp parses the "<seconds>:<nanoseconds>" wire form produced by
// String.
func ParseTimestamp(s string) (Timestamp, error) {
	secPart, nsPart, ok := strings.Cut(s, ":")
	if !ok {
		return Timestamp{}, fmt.Errorf("nmos: invalid timestamp %q", s)
	}
	seconds, err := strconv.ParseUint(secPart, 10, 64)
	if err != nil {
		return Timestamp{}, fmt.Errorf("nmos: invalid timestamp seconds %q: %w", secPart, err)
	}
	nanoseconds, err := strconv.ParseUint(nsPart, 10, 32)
	if err != nil {
		return Timestamp{}, fmt.Errorf("nmos: invalid timestamp nanoseconds %q: %w", nsPart, err)
	}
	return Timestamp{Seconds: seconds, Nanoseconds: uint32(nanoseconds)}, nil
}

// MarshalJSON renders the timestamp as its wire string, matching the
// boost::json tag_invoke overload in the original model.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON parses the timestamp from its wire string.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
