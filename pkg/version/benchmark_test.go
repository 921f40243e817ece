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

package version

import (
	"testing"
)

func BenchmarkParseVersion(b *testing.B) {
	shapes := []struct {
		name  string
		input string
	}{
		{"major only", "1"},
		{"major minor", "1.28"},
		{"full", "v1.28.0"},
		{"eks suffix", "v1.28.0-eks-3025e55"},
		{"gke suffix", "1.28.0-gke.1337000"},
		{"build metadata", "v1.31.2+k0s"},
		{"malformed", "a.b.c"},
	}

	for _, shape := range shapes {
		b.Run(shape.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, _ = ParseVersion(shape.input)
			}
		})
	}
}

func BenchmarkVersionString(b *testing.B) {
	versions := []struct {
		name string
		v    Version
	}{
		{"precision 1", Version{Major: 1, Precision: 1}},
		{"precision 2", Version{Major: 1, Minor: 28, Precision: 2}},
		{"precision 3", Version{Major: 1, Minor: 28, Patch: 0, Precision: 3}},
	}

	for _, tt := range versions {
		b.Run(tt.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = tt.v.String()
			}
		})
	}
}
