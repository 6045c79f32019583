package config

import (
	"net/url"
	"os"
	"sync"
)

var (
	isDockerOnce   sync.Once
	isDockerResult bool
)

// IsRunningInDocker returns true if the application is running inside a Docker
// container. Detection is based on the presence of /.dockerenv, which exists
// in all Docker containers. The result is cached after the first call.
func IsRunningInDocker() bool {
	isDockerOnce.Do(func() {
		_, err := os.Stat("/.dockerenv")
		isDockerResult = err == nil
	})
	return isDockerResult
}

// ResolveEndpointForDocker rewrites a localhost endpoint URL to
// host.docker.internal when running inside Docker, so a local inference
// server on the host machine stays reachable. Non-localhost endpoints and
// unparseable values are returned unchanged.
func ResolveEndpointForDocker(endpoint string) string {
	if !IsRunningInDocker() || endpoint == "" {
		return endpoint
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint
	}

	if u.Hostname() == "localhost" || u.Hostname() == "127.0.0.1" {
		host := "host.docker.internal"
		if port := u.Port(); port != "" {
			host += ":" + port
		}
		u.Host = host
		return u.String()
	}

	return endpoint
}
