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

package quantity

import (
	"strconv"
	"strings"

	"github.com/NVIDIA/kube-telemetry/pkg/errors"
)

// binarySuffixes maps two-character binary suffixes to their multipliers.
// Checked before the decimal suffixes so that "Ki" is never read as "i"
// trailing a decimal "K".
var binarySuffixes = []struct {
	suffix string
	factor float64
}{
	{"Ki", 1 << 10},
	{"Mi", 1 << 20},
	{"Gi", 1 << 30},
	{"Ti", 1 << 40},
	{"Pi", 1 << 50},
	{"Ei", 1 << 60},
}

var decimalSuffixes = []struct {
	suffix string
	factor float64
}{
	{"K", 1e3},
	{"k", 1e3},
	{"M", 1e6},
	{"G", 1e9},
	{"T", 1e12},
	{"P", 1e15},
	{"E", 1e18},
}

// ParseFraction parses a CPU quantity string into a core count.
// A trailing "m" denotes millicores: "500m" is 0.5 cores. Any other
// value is parsed as a plain float: "2" is 2.0 cores.
//
// Missing quantities are the caller's concern: callers substitute an
// explicit default string (for example "0.0" or "inf") before calling.
// ParseFraction itself never substitutes defaults; an unparseable
// numeric portion is reported as ErrCodeMalformedQuantity.
func ParseFraction(value string) (float64, error) {
	if strings.HasSuffix(value, "m") {
		f, err := parseFloat(value, strings.TrimSuffix(value, "m"))
		if err != nil {
			return 0, err
		}
		return 0.001 * f, nil
	}
	return parseFloat(value, value)
}

// ParseMemory parses a memory quantity string into a byte count.
// Binary suffixes Ki through Ei multiply by powers of 1024, decimal
// suffixes K/k through E multiply by powers of 1000. A value without
// a recognized suffix is parsed as a plain float in bytes.
func ParseMemory(value string) (float64, error) {
	for _, s := range binarySuffixes {
		if strings.HasSuffix(value, s.suffix) {
			f, err := parseFloat(value, strings.TrimSuffix(value, s.suffix))
			if err != nil {
				return 0, err
			}
			return s.factor * f, nil
		}
	}
	for _, s := range decimalSuffixes {
		if strings.HasSuffix(value, s.suffix) {
			f, err := parseFloat(value, strings.TrimSuffix(value, s.suffix))
			if err != nil {
				return 0, err
			}
			return s.factor * f, nil
		}
	}
	return parseFloat(value, value)
}

// ParseCount parses an unsuffixed integer quantity, such as a pod count.
func ParseCount(value string) (int64, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, errors.WrapWithContext(errors.ErrCodeMalformedQuantity,
			"quantity is not an integer", err,
			map[string]any{"value": value})
	}
	return n, nil
}

// parseFloat parses the numeric portion of a quantity, reporting the
// original value in the error context when parsing fails.
func parseFloat(original, numeric string) (float64, error) {
	f, err := strconv.ParseFloat(numeric, 64)
	if err != nil {
		return 0, errors.WrapWithContext(errors.ErrCodeMalformedQuantity,
			"quantity does not parse as a number", err,
			map[string]any{"value": original})
	}
	return f, nil
}
