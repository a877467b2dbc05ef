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

	"github.com/stretchr/testify/require"
)

func TestNewAPIErrorDefaultsDebugMessage(t *testing.T) {
	err := NewAPIError(404, "not found")
	require.Equal(t, "error: not found", err.Debug)
}

func TestNewAPIErrorKeepsExplicitDebugMessage(t *testing.T) {
	err := NewAPIError(500, "internal error", "stack trace here")
	require.Equal(t, "stack trace here", err.Debug)
}

func TestAPIErrorJSONShape(t *testing.T) {
	err := NewAPIError(400, "bad request")
	data, marshalErr := json.Marshal(err)
	require.NoError(t, marshalErr)
	require.JSONEq(t, `{"code":400,"error":"bad request","debug":"error: bad request"}`, string(data))
}
