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

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewSelfInitializesEmptySlicesNotNil(t *testing.T) {
	self := NewSelf(uuid.New(), "node1", "a ravenna node")
	data, err := json.Marshal(self)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	require.Equal(t, []any{}, decoded["services"])
	require.Equal(t, []any{}, decoded["clocks"])
	require.Equal(t, []any{}, decoded["interfaces"])
	require.Equal(t, map[string]any{}, decoded["caps"])
}

func TestSelfJSONFieldSet(t *testing.T) {
	self := NewSelf(uuid.New(), "node1", "desc")
	self.Href = "http://10.0.0.1:8080/"
	self.Clocks = []Clock{NewClockInternal("clk0"), NewClockPtp("clk1", "IEEE1588-2008", "00-11-22-33-44-55", true, true)}

	data, err := json.Marshal(self)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	for _, field := range []string{"id", "version", "label", "description", "tags", "href", "caps", "api", "services", "clocks", "interfaces"} {
		_, ok := decoded[field]
		require.Truef(t, ok, "expected field %q in serialized Self", field)
	}

	clocks := decoded["clocks"].([]any)
	require.Len(t, clocks, 2)
	require.Equal(t, "internal", clocks[0].(map[string]any)["ref_type"])
	require.Equal(t, "ptp", clocks[1].(map[string]any)["ref_type"])
}
