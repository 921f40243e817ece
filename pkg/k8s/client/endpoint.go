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

package client

import (
	"fmt"
	"strings"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"

	"github.com/NVIDIA/kube-telemetry/pkg/errors"
)

// Endpoint addresses a cluster API server explicitly, the way a
// monitoring site configures a target: host, port and bearer token
// rather than a kubeconfig context.
type Endpoint struct {
	// Host is the API server host name or address.
	Host string
	// Port is the API server port.
	Port int
	// URLPrefix, when set, replaces the https://Host part of the
	// server URL. Useful for reverse proxies and non-TLS test setups.
	URLPrefix string
	// PathPrefix is an optional path below the server root, already
	// normalized with NormalizePathPrefix.
	PathPrefix string
	// Token is the bearer token presented on every request.
	Token string
	// NoCertCheck disables TLS certificate verification.
	NoCertCheck bool
	// CAFile is a CA bundle used to verify the server certificate
	// when NoCertCheck is unset.
	CAFile string
}

// NormalizePathPrefix reduces a user-supplied path prefix to a single
// leading slash form: "a/b/", "/a/b" and "a/b" all become "/a/b", and
// the empty prefix stays empty.
func NormalizePathPrefix(prefix string) string {
	if prefix == "" {
		return ""
	}
	return "/" + strings.Trim(prefix, "/")
}

// BaseURL builds the server URL the client connects to.
func (e Endpoint) BaseURL() string {
	if e.URLPrefix != "" {
		return fmt.Sprintf("%s:%d%s", e.URLPrefix, e.Port, e.PathPrefix)
	}
	return fmt.Sprintf("https://%s:%d%s", e.Host, e.Port, e.PathPrefix)
}

// RESTConfig translates the endpoint into a client-go rest config.
func (e Endpoint) RESTConfig() (*rest.Config, error) {
	if e.Host == "" && e.URLPrefix == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest,
			"endpoint needs a host or a url prefix")
	}
	if e.Token == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest,
			"endpoint needs a bearer token")
	}

	config := &rest.Config{
		Host:        e.BaseURL(),
		BearerToken: e.Token,
	}
	if e.NoCertCheck {
		config.TLSClientConfig.Insecure = true
	} else if e.CAFile != "" {
		config.TLSClientConfig.CAFile = e.CAFile
	}
	tuneConfig(config)
	return config, nil
}

// NewForEndpoint creates a Kubernetes client for an explicitly
// addressed cluster.
func NewForEndpoint(endpoint Endpoint) (Interface, *rest.Config, error) {
	config, err := endpoint.RESTConfig()
	if err != nil {
		return nil, nil, err
	}
	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInternal,
			"creating kubernetes client", err)
	}
	return clientset, config, nil
}
