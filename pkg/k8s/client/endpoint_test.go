package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/kube-telemetry/pkg/errors"
)

func TestNormalizePathPrefix(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "bare", input: "k8s", expected: "/k8s"},
		{name: "leading slash", input: "/k8s", expected: "/k8s"},
		{name: "trailing slash", input: "k8s/", expected: "/k8s"},
		{name: "surrounded", input: "/k8s/api/", expected: "/k8s/api"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePathPrefix(tt.input))
		})
	}
}

func TestEndpointBaseURL(t *testing.T) {
	e := Endpoint{Host: "cluster.example.com", Port: 443}
	assert.Equal(t, "https://cluster.example.com:443", e.BaseURL())

	e.PathPrefix = NormalizePathPrefix("k8s/")
	assert.Equal(t, "https://cluster.example.com:443/k8s", e.BaseURL())

	// a url prefix replaces scheme and host entirely
	e.URLPrefix = "http://localhost"
	e.Port = 8080
	assert.Equal(t, "http://localhost:8080/k8s", e.BaseURL())
}

func TestEndpointRESTConfig(t *testing.T) {
	config, err := Endpoint{
		Host:  "cluster.example.com",
		Port:  443,
		Token: "secret",
	}.RESTConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://cluster.example.com:443", config.Host)
	assert.Equal(t, "secret", config.BearerToken)
	assert.False(t, config.TLSClientConfig.Insecure)
	assert.Empty(t, config.TLSClientConfig.CAFile)
}

func TestEndpointRESTConfigTLS(t *testing.T) {
	insecure, err := Endpoint{
		Host:        "cluster.example.com",
		Port:        443,
		Token:       "secret",
		NoCertCheck: true,
		CAFile:      "/etc/ssl/ca.pem",
	}.RESTConfig()
	require.NoError(t, err)
	assert.True(t, insecure.TLSClientConfig.Insecure)
	// disabling verification wins over a configured bundle
	assert.Empty(t, insecure.TLSClientConfig.CAFile)

	verified, err := Endpoint{
		Host:   "cluster.example.com",
		Port:   443,
		Token:  "secret",
		CAFile: "/etc/ssl/ca.pem",
	}.RESTConfig()
	require.NoError(t, err)
	assert.False(t, verified.TLSClientConfig.Insecure)
	assert.Equal(t, "/etc/ssl/ca.pem", verified.TLSClientConfig.CAFile)
}

func TestEndpointRESTConfigValidation(t *testing.T) {
	_, err := Endpoint{Port: 443, Token: "secret"}.RESTConfig()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))

	_, err = Endpoint{Host: "cluster.example.com", Port: 443}.RESTConfig()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))
}

func TestNewForEndpoint(t *testing.T) {
	clientset, config, err := NewForEndpoint(Endpoint{
		Host:  "cluster.example.com",
		Port:  443,
		Token: "secret",
	})
	require.NoError(t, err)
	assert.NotNil(t, clientset)
	assert.Equal(t, "https://cluster.example.com:443", config.Host)
}

func TestNewForEndpointInvalid(t *testing.T) {
	_, _, err := NewForEndpoint(Endpoint{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))
}
