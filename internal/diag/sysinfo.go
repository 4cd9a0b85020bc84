// Package diag implements the C11 diagnostics surface: system info,
// resource stats, log tail, and a zip log export (spec §4.11), grounded
// on the teacher's internal/doctor preflight-check shape generalized
// from a one-shot CLI report into HTTP-exposed, continuously queryable
// endpoints.
package diag

import (
	"context"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// probeTimeout bounds external subprocess probes so a missing or hung
// binary can never block a diagnostics request (spec §4.11: "must NOT
// crash on missing native libs — probe in a subprocess with a 3-second
// timeout").
const probeTimeout = 3 * time.Second

// SystemInfo is the static/slow-changing half of spec §4.11's "system
// info" response.
type SystemInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	GoVersion     string `json:"go_version"`
	PythonVersion string `json:"python_version,omitempty"`
	PythonError   string `json:"python_error,omitempty"`
	Device        string `json:"device,omitempty"`
	DeviceError   string `json:"device_error,omitempty"`
}

// VersionFunc returns a version/identity string or an error if the
// probed component is unavailable — the same injectable-probe shape as
// the teacher's doctor.VersionFunc, reused here for HTTP-facing probes.
type VersionFunc func(ctx context.Context) (string, error)

// CollectSystemInfo runs the python and device probes (each under
// probeTimeout) and reports results or errors without ever panicking —
// a missing interpreter or device-query tool is a normal, reportable
// outcome, not a fatal one.
func CollectSystemInfo(pythonProbe, deviceProbe VersionFunc) SystemInfo {
	info := SystemInfo{
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		GoVersion: runtime.Version(),
	}

	if pythonProbe != nil {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		ver, err := pythonProbe(ctx)
		cancel()
		if err != nil {
			info.PythonError = err.Error()
		} else {
			info.PythonVersion = ver
		}
	}

	if deviceProbe != nil {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		dev, err := deviceProbe(ctx)
		cancel()
		if err != nil {
			info.DeviceError = err.Error()
		} else {
			info.Device = dev
		}
	}

	return info
}

// ProbePythonVersion runs `python3 --version` under ctx's deadline.
func ProbePythonVersion(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "python3", "--version").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
