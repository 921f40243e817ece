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

// Package aggregate provides schema-preserving folds for the resource
// and stats maps assembled into cluster reports. The left operand
// defines the schema: keys present only in the incoming map are
// dropped, keys absent from the incoming map pass through unchanged.
package aggregate

import (
	"github.com/NVIDIA/kube-telemetry/pkg/errors"
)

// Fold combines two flat maps leafwise. Every key of initial appears in
// the result: combined with op when incoming has the key, copied
// through otherwise. A nil incoming map yields a copy of initial.
func Fold[M ~map[string]V, V any](initial, incoming M, op func(V, V) V) M {
	out := make(M, len(initial))
	for key, left := range initial {
		if right, ok := incoming[key]; ok {
			out[key] = op(left, right)
		} else {
			out[key] = left
		}
	}
	return out
}

// FoldGrid combines two-level maps, applying Fold to each inner map
// named by the initial schema.
func FoldGrid[M ~map[string]map[string]V, V any](initial, incoming M, op func(V, V) V) M {
	out := make(M, len(initial))
	for key, left := range initial {
		out[key] = Fold(left, incoming[key], op)
	}
	return out
}

// Reduce folds items left to right with combine. Reducing zero items
// has no meaningful result and reports ErrCodeEmptyAggregation.
func Reduce[T any](items []T, combine func(T, T) T) (T, error) {
	if len(items) == 0 {
		var zero T
		return zero, errors.New(errors.ErrCodeEmptyAggregation,
			"cannot reduce zero items without a seed")
	}
	acc := items[0]
	for _, item := range items[1:] {
		acc = combine(acc, item)
	}
	return acc, nil
}

// ReduceSeeded folds items left to right starting from seed. Zero
// items yield the seed itself.
func ReduceSeeded[T any](seed T, items []T, combine func(T, T) T) T {
	acc := seed
	for _, item := range items {
		acc = combine(acc, item)
	}
	return acc
}
