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

// Package defaults is the single home for the agent's tuning
// constants: the per-request collector deadlines, the diagnostic
// listener's HTTP timeouts and report rate limit, the kubelet stats
// fan-out budget, and the client-go throttle settings.
//
// Code takes them straight from the package:
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.CollectorListTimeout)
//	defer cancel()
//
// Anything a deployment is expected to tune (cycle interval, probe
// groups, stats rate) is surfaced through flags or the config file
// instead; the constants here are the fallbacks behind those.
package defaults
