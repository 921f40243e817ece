package collector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apiversion "k8s.io/apimachinery/pkg/version"
	fakediscovery "k8s.io/client-go/discovery/fake"
	"k8s.io/client-go/kubernetes/fake"
)

func fakeVersionClientset(info *apiversion.Info) *fake.Clientset {
	clientset := fake.NewClientset()
	fakeDiscovery := clientset.Discovery().(*fakediscovery.FakeDiscovery)
	fakeDiscovery.FakedServerVersion = info
	return clientset
}

func TestVersionCollector_Collect(t *testing.T) {
	c := &VersionCollector{Clientset: fakeVersionClientset(&apiversion.Info{
		GitVersion: "v1.28.0",
		Major:      "1",
		Minor:      "28",
		Platform:   "linux/amd64",
	})}

	payload, err := c.Collect(context.TODO())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"git_version": "v1.28.0",
		"major":       "1",
		"minor":       "28",
		"platform":    "linux/amd64",
	}, payload)
}

func TestVersionCollector_CollectManagedService(t *testing.T) {
	// EKS-style version info with a suffixed minor field
	c := &VersionCollector{Clientset: fakeVersionClientset(&apiversion.Info{
		GitVersion: "v1.28.5-eks-5e0fdde",
		Major:      "1",
		Minor:      "28+",
		Platform:   "linux/amd64",
	})}

	payload, err := c.Collect(context.TODO())
	require.NoError(t, err)
	assert.Equal(t, "1", payload["major"])
	assert.Equal(t, "28", payload["minor"])
	assert.Equal(t, "v1.28.5-eks-5e0fdde", payload["git_version"])
}

func TestVersionCollector_CollectWithCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.TODO())
	cancel() // Cancel immediately

	c := &VersionCollector{Clientset: fakeVersionClientset(&apiversion.Info{GitVersion: "v1.28.0"})}
	payload, err := c.Collect(ctx)

	assert.Error(t, err)
	assert.Nil(t, payload)
	assert.Equal(t, context.Canceled, err)
}

func TestNormalizeRelease(t *testing.T) {
	tests := []struct {
		name  string
		info  apiversion.Info
		major string
		minor string
	}{
		{
			name:  "numeric fields pass through",
			info:  apiversion.Info{Major: "1", Minor: "28", GitVersion: "v1.28.0"},
			major: "1",
			minor: "28",
		},
		{
			name:  "suffixed minor normalized from git version",
			info:  apiversion.Info{Major: "1", Minor: "28+", GitVersion: "v1.28.5-gke.1337000"},
			major: "1",
			minor: "28",
		},
		{
			name:  "unparseable git version falls back to raw fields",
			info:  apiversion.Info{Major: "1", Minor: "28+", GitVersion: "weird"},
			major: "1",
			minor: "28+",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			major, minor := normalizeRelease(&tt.info)
			assert.Equal(t, tt.major, major)
			assert.Equal(t, tt.minor, minor)
		})
	}
}
