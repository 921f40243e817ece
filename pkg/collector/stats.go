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

package collector

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	v1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/client-go/kubernetes"

	"github.com/NVIDIA/kube-telemetry/pkg/defaults"
	"github.com/NVIDIA/kube-telemetry/pkg/entity"
	"github.com/NVIDIA/kube-telemetry/pkg/errors"
)

// StatsFetchFunc fetches the raw kubelet stats body for one node.
type StatsFetchFunc func(ctx context.Context, nodeName string) ([]byte, error)

// StatsCollector fetches kubelet machine stats for every node through
// the API server proxy and pairs each response with its node object.
type StatsCollector struct {
	// Fetch performs one stats request. Production collectors use the
	// proxy fetch; tests inject canned responses.
	Fetch StatsFetchFunc

	// Limiter throttles stats requests so large clusters do not hammer
	// the API server proxy. Nil disables throttling.
	Limiter *rate.Limiter

	// Timeout bounds one stats fetch. Zero falls back to the package
	// default.
	Timeout time.Duration
}

// Collect fetches stats for the given nodes in parallel and returns
// them wrapped as report entities, in the same order as the input.
// The report sums stats across nodes, so a node whose kubelet cannot
// be reached fails the whole collection rather than skewing the sum.
func (c *StatsCollector) Collect(ctx context.Context, nodes []v1.Node) (entity.NodeList, error) {
	// Check if context is canceled
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaults.CollectorStatsTimeout
	}

	list := make(entity.NodeList, len(nodes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(defaults.StatsFetchConcurrency)
	for i, node := range nodes {
		g.Go(func() error {
			if c.Limiter != nil {
				if err := c.Limiter.Wait(gctx); err != nil {
					return err
				}
			}

			fetchCtx, cancel := context.WithTimeout(gctx, timeout)
			defer cancel()

			blob, err := c.Fetch(fetchCtx, node.Name)
			if err != nil {
				return classifyFetchError(node.Name, err)
			}

			wrapped, err := entity.NewNode(node, blob)
			if err != nil {
				return err
			}

			// Each goroutine fills its own slot so API list order
			// survives the fan-out.
			list[i] = wrapped
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Debug("collected kubelet stats", slog.Int("nodes", len(list)))
	return list, nil
}

// classifyFetchError wraps a failed stats fetch with a structured code
// when the failure mode is recognizable. A deadline means the kubelet
// answered too slowly; a 503 from the proxy means it could not be
// reached at all.
func classifyFetchError(nodeName string, err error) error {
	msg := fmt.Sprintf("fetching kubelet stats for node %q", nodeName)
	switch {
	case stderrors.Is(err, context.DeadlineExceeded) || apierrors.IsTimeout(err):
		return errors.Wrap(errors.ErrCodeTimeout, msg, err)
	case apierrors.IsServiceUnavailable(err):
		return errors.Wrap(errors.ErrCodeUnavailable, msg, err)
	default:
		return fmt.Errorf("failed to fetch kubelet stats for node %q: %w", nodeName, err)
	}
}

// proxyStatsFetch requests /api/v1/nodes/<name>/proxy/stats, the
// kubelet stats series forwarded by the API server.
func proxyStatsFetch(clientset kubernetes.Interface) StatsFetchFunc {
	return func(ctx context.Context, nodeName string) ([]byte, error) {
		return clientset.CoreV1().RESTClient().
			Get().
			Resource("nodes").
			Name(nodeName).
			SubResource("proxy").
			Suffix("stats").
			DoRaw(ctx)
	}
}
