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

// Package serializer delivers rendered reports to their destinations.
//
// pkg/report produces the text; this package decides where the bytes
// go. The normal destination is stdout, which the monitoring server's
// runner reads directly. A file path writes the report to disk, and a
// cm://namespace/name target publishes it into a Kubernetes ConfigMap
// through server-side apply, for in-cluster deployments where the
// monitoring site reads the map instead of the agent's stdout.
//
// # Choosing a destination
//
// NewFileWriterOrStdout maps an output value onto the right
// implementation:
//
//	w := serializer.NewFileWriterOrStdout(outputPath)
//	defer w.(serializer.Closer).Close()
//
//	if err := w.Serialize(ctx, report); err != nil {
//	    return err
//	}
//
// An empty value means stdout. Setup failures, an unwritable file or a
// malformed cm:// target, degrade to stdout with a logged error; a
// collection cycle's report is never silently dropped.
//
// # Contracts
//
// Reports implement Renderer and may be rendered more than once.
// Destinations implement Serializer; those that hold a file handle
// also implement Closer, and Close is always safe to call twice.
// Serialize returns an error when rendering fails, the destination
// cannot be written, or the API server rejects the ConfigMap apply.
//
// The package also carries the RespondJSON and RespondText helpers the
// diagnostic listener uses for its HTTP responses.
package serializer
