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
	"fmt"
	"strconv"
	"strings"
)

// APIVersion is the NMOS Node API version, not to be confused with a
// resource's Version timestamp. Its wire form is "v<major>.<minor>" with
// no surrounding whitespace.
type APIVersion struct {
	Major int16
	Minor int16
}

// V1_2 and V1_3 are the two Node API versions this toolkit's contract
// surface supports.
var (
	V1_2 = APIVersion{Major: 1, Minor: 2}
	V1_3 = APIVersion{Major: 1, Minor: 3}
)

// IsValid reports whether the version has a positive major component.
func (v APIVersion) IsValid() bool {
	return v.Major > 0 && v.Minor >= 0
}

// String renders the "v<major>.<minor>" wire form.
func (v APIVersion) String() string {
	return fmt.Sprintf("v%d.%d", v.Major, v.Minor)
}

// ParseAPIVersion parses the "v<major>.<minor>" wire form. Leading or
// trailing whitespace, or any trailing characters past the minor version,
// is rejected.
func ParseAPIVersion(s string) (APIVersion, error) {
	rest, ok := strings.CutPrefix(s, "v")
	if !ok {
		return APIVersion{}, fmt.Errorf("nmos: api version %q missing 'v' prefix", s)
	}
	majorStr, minorStr, ok := strings.Cut(rest, ".")
	if !ok {
		return APIVersion{}, fmt.Errorf("nmos: api version %q missing '.'", s)
	}
	major, err := strconv.ParseInt(majorStr, 10, 16)
	if err != nil {
		return APIVersion{}, fmt.Errorf("nmos: invalid api version major %q: %w", majorStr, err)
	}
	minor, err := strconv.ParseInt(minorStr, 10, 16)
	if err != nil {
		return APIVersion{}, fmt.Errorf("nmos: invalid api version minor %q: %w", minorStr, err)
	}
	return APIVersion{Major: int16(major), Minor: int16(minor)}, nil
}
