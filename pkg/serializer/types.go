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

package serializer

import "context"

// Renderer is a report that can render itself to the agent text
// format. Rendering is deterministic, so a destination may call it
// more than once.
type Renderer interface {
	Render() (string, error)
}

// Serializer writes a rendered report to one output destination. The
// context bounds destinations that do remote I/O, such as the
// ConfigMap writer.
type Serializer interface {
	Serialize(ctx context.Context, report Renderer) error
}

// Closer is implemented by serializers holding resources that outlive
// one Serialize call, such as an open file.
type Closer interface {
	Close() error
}
