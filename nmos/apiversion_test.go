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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAPIVersionString(t *testing.T) {
	require.Equal(t, "v1.3", V1_3.String())
	require.Equal(t, "v1.2", V1_2.String())
}

func TestParseAPIVersionRoundTrip(t *testing.T) {
	v, err := ParseAPIVersion("v1.3")
	require.NoError(t, err)
	require.Equal(t, V1_3, v)
	require.True(t, v.IsValid())
}

func TestParseAPIVersionRejectsMalformed(t *testing.T) {
	for _, s := range []string{"1.3", "v1", "v1.3 ", " v1.3", "vA.B"} {
		_, err := ParseAPIVersion(s)
		require.Errorf(t, err, "expected error for %q", s)
	}
}

func TestAPIVersionIsValidRejectsZeroMajor(t *testing.T) {
	require.False(t, APIVersion{Major: 0, Minor: 0}.IsValid())
}
