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

import "fmt"

// TimeActiveField is the SDP "t=" line (RFC 8866 §5.9): the session's
// active time span as NTP-epoch seconds. Zero/zero means the session is
// permanent.
type TimeActiveField struct {
	StartTime int64
	StopTime  int64
}

func (t TimeActiveField) String() string {
	return fmt.Sprintf("t=%d %d", t.StartTime, t.StopTime)
}

func parseTimeActive(line string) (TimeActiveField, error) {
	p := newLineParser(line)
	if !p.skipPrefix("t=") {
		return TimeActiveField{}, fmt.Errorf("sdp: timing: expecting 't='")
	}

	var t TimeActiveField

	start, ok := p.readInt()
	if !ok {
		return TimeActiveField{}, fmt.Errorf("sdp: timing: failed to parse start time")
	}
	t.StartTime = start

	if !p.skipByte(' ') {
		return TimeActiveField{}, fmt.Errorf("sdp: timing: expecting space after start time")
	}

	stop, ok := p.readInt()
	if !ok {
		return TimeActiveField{}, fmt.Errorf("sdp: timing: failed to parse stop time")
	}
	t.StopTime = stop

	return t, nil
}
