package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/kube-telemetry/pkg/piggyback"
)

func TestReportRender(t *testing.T) {
	cluster := piggyback.NewElement()
	require.NoError(t, cluster.Get("k8s_nodes").Insert(map[string]any{
		"nodes": []string{"node1"},
	}))

	nodes := piggyback.NewGroup()
	require.NoError(t, nodes.Join("k8s_stats", []piggyback.TargetData{
		{Target: "node1", Data: map[string]any{"memory_usage": 2048.0}},
	}))

	metrics := piggyback.NewElement()
	require.NoError(t, metrics.Get("k8s_pods_memory").Insert(map[string]any{}))

	rpt := &Report{RunID: "test", cluster: cluster, nodes: nodes, metrics: metrics}

	text, err := rpt.Render()
	require.NoError(t, err)

	// Three blocks, every line newline terminated: cluster sections,
	// piggybacked node sections, then custom metrics sections.
	want := "<<<k8s_nodes:sep(0)>>>\n" +
		`{"nodes": ["node1"]}` + "\n" +
		"<<<<node1>>>>\n" +
		"<<<k8s_stats:sep(0)>>>\n" +
		`{"memory_usage": 2048}` + "\n" +
		"<<<<>>>>\n" +
		"<<<k8s_pods_memory:sep(0)>>>\n" +
		"{}\n"
	assert.Equal(t, want, text)
}

func TestReportRenderUnsupportedPayload(t *testing.T) {
	cluster := piggyback.NewElement()
	require.NoError(t, cluster.Get("k8s_nodes").Insert(map[string]any{
		"nodes": struct{}{},
	}))

	rpt := &Report{
		cluster: cluster,
		nodes:   piggyback.NewGroup(),
		metrics: piggyback.NewElement(),
	}

	_, err := rpt.Render()
	assert.Error(t, err)
}
