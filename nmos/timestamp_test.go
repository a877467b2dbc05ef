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

package nmos

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/soundondigital/ravennakit/ptp/protocol"
)

func TestTimestampStringRoundTrip(t *testing.T) {
	ts := Timestamp{Seconds: 13, Nanoseconds: 900}
	require.Equal(t, "13:900", ts.String())

	parsed, err := ParseTimestamp("13:900")
	require.NoError(t, err)
	require.Equal(t, ts, parsed)
}

func TestParseTimestampRejectsMalformed(t *testing.T) {
	_, err := ParseTimestamp("not-a-timestamp")
	require.Error(t, err)
}

func TestTimestampIncCarries(t *testing.T) {
	ts := Timestamp{Seconds: 1, Nanoseconds: 999999999}
	ts.Inc()
	require.Equal(t, Timestamp{Seconds: 2, Nanoseconds: 0}, ts)
}

func TestTimestampLess(t *testing.T) {
	require.True(t, Timestamp{Seconds: 1, Nanoseconds: 0}.Less(Timestamp{Seconds: 1, Nanoseconds: 1}))
	require.False(t, Timestamp{Seconds: 2, Nanoseconds: 0}.Less(Timestamp{Seconds: 1, Nanoseconds: 999999999}))
}

func TestTimestampUpdateAdvancesOrIncrements(t *testing.T) {
	ts := Timestamp{Seconds: 10, Nanoseconds: 0}

	newer := protocol.NewTimestamp(time.Unix(20, 0))
	ts.Update(newer)
	require.Equal(t, uint64(20), ts.Seconds)

	before := ts
	ts.Update(protocol.Timestamp{})
	require.True(t, before.Less(ts))
}

func TestTimestampJSONRoundTrip(t *testing.T) {
	ts := Timestamp{Seconds: 42, Nanoseconds: 7}
	data, err := json.Marshal(ts)
	require.NoError(t, err)
	require.Equal(t, `"42:7"`, string(data))

	var decoded Timestamp
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, ts, decoded)
}
