package collector

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	apiversion "k8s.io/apimachinery/pkg/version"
	"k8s.io/client-go/kubernetes"

	"github.com/NVIDIA/kube-telemetry/pkg/version"
)

// VersionCollector reads the API server's reported version.
type VersionCollector struct {
	Clientset kubernetes.Interface
}

// Collect retrieves the cluster version from the API server and
// renders the cluster version payload.
func (c *VersionCollector) Collect(ctx context.Context) (map[string]any, error) {
	// Check if context is canceled
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	serverVersion, err := c.Clientset.Discovery().ServerVersion()
	if err != nil {
		return nil, fmt.Errorf("failed to get kubernetes version: %w", err)
	}

	major, minor := normalizeRelease(serverVersion)

	slog.Debug("collected kubernetes version", slog.String("version", serverVersion.GitVersion))

	return map[string]any{
		"git_version": serverVersion.GitVersion,
		"major":       major,
		"minor":       minor,
		"platform":    serverVersion.Platform,
	}, nil
}

// normalizeRelease prefers the reported major/minor fields, falling
// back to the git version when a managed service reports non-numeric
// values like "28+".
func normalizeRelease(info *apiversion.Info) (major, minor string) {
	_, majorErr := strconv.Atoi(info.Major)
	_, minorErr := strconv.Atoi(info.Minor)
	if majorErr == nil && minorErr == nil {
		return info.Major, info.Minor
	}

	parsed, err := version.ParseVersion(info.GitVersion)
	if err != nil {
		return info.Major, info.Minor
	}
	return strconv.Itoa(parsed.Major), strconv.Itoa(parsed.Minor)
}
