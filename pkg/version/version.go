// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package version parses Kubernetes release strings. Managed services
// report git versions with build suffixes (e.g. "v1.28.0-eks-3025e55",
// "1.28.0-gke.1337000") and non-numeric major/minor fields like "28+";
// ParseVersion recovers the numeric components from the git version.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Parse failures, distinguishable with errors.Is.
var (
	ErrEmptyVersion      = errors.New("version string is empty")
	ErrTooManyComponents = errors.New("version has more than 3 components")
	ErrNonNumeric        = errors.New("version component is not numeric")
	ErrNegativeComponent = errors.New("version component cannot be negative")
)

// Version is a parsed release number. Precision records how many
// components the input carried (1 for "1", 2 for "1.28", 3 for
// "1.28.0") so String can reproduce the original precision. Extras
// keeps any build suffix ("-eks-3025e55", "+k0s") verbatim.
type Version struct {
	Major int `json:"major,omitempty" yaml:"major,omitempty"`
	Minor int `json:"minor,omitempty" yaml:"minor,omitempty"`
	Patch int `json:"patch,omitempty" yaml:"patch,omitempty"`

	// Precision is the significant component count, 1 to 3.
	Precision int `json:"precision,omitempty" yaml:"precision,omitempty"`

	// Extras is the build suffix with its leading '-' or '+'.
	Extras string `json:"extras,omitempty" yaml:"extras,omitempty"`
}

// String renders the numeric components at the parsed precision.
// Extras are not included.
func (v Version) String() string {
	switch v.Precision {
	case 1:
		return strconv.Itoa(v.Major)
	case 2:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	default:
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
}

// splitExtras separates the numeric release from a build suffix. The
// suffix starts at the first '-' or '+' that follows a digit, so a
// leading sign stays attached to the number it negates and suffixes
// containing dots ("-gke.1337000") are not split further.
func splitExtras(s string) (release, extras string) {
	for i := 1; i < len(s); i++ {
		if s[i] != '-' && s[i] != '+' {
			continue
		}
		if s[i-1] >= '0' && s[i-1] <= '9' {
			return s[:i], s[i:]
		}
	}
	return s, ""
}

// ParseVersion parses a release string into a Version. An optional
// leading "v" is stripped; one to three dot-separated numeric
// components are accepted ("1", "1.28", "v1.28.0"); anything from a
// build suffix onward lands in Extras. Empty strings, non-numeric or
// negative components, and more than three components are errors.
func ParseVersion(s string) (Version, error) {
	if s == "" {
		return Version{}, ErrEmptyVersion
	}

	release, extras := splitExtras(strings.TrimPrefix(s, "v"))

	parts := strings.Split(release, ".")
	if len(parts) > 3 {
		return Version{}, ErrTooManyComponents
	}

	v := Version{Extras: extras, Precision: len(parts)}
	components := []*int{&v.Major, &v.Minor, &v.Patch}
	for i, part := range parts {
		if part == "" {
			return Version{}, fmt.Errorf("%w: empty component", ErrNonNumeric)
		}
		num, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, part)
		}
		if num < 0 {
			return Version{}, fmt.Errorf("%w: %d", ErrNegativeComponent, num)
		}
		*components[i] = num
	}
	return v, nil
}

// MustParseVersion parses a release string and panics on failure. Only
// for hardcoded strings and test fixtures; runtime input goes through
// ParseVersion.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(fmt.Sprintf("MustParseVersion: %v", err))
	}
	return v
}
