// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package provenance

import (
	"os"
	"runtime"

	"github.com/bureau-foundation/detpipe/lib/version"
)

// Environment describes the process that produced a record. Audit only.
type Environment struct {
	ToolVersion string `json:"tool_version"`
	GoVersion   string `json:"go_version"`
	OS          string `json:"os"`
	Arch        string `json:"arch"`
	Hostname    string `json:"hostname,omitempty"`
	CPUs        int    `json:"cpus"`
}

// CurrentEnvironment describes the running process. A hostname lookup
// failure leaves Hostname empty.
func CurrentEnvironment() Environment {
	hostname, _ := os.Hostname()
	return Environment{
		ToolVersion: version.Info(),
		GoVersion:   runtime.Version(),
		OS:          runtime.GOOS,
		Arch:        runtime.GOARCH,
		Hostname:    hostname,
		CPUs:        runtime.NumCPU(),
	}
}
