// Package device describes the host the SDK runs on for the platform headers
// sent with every request.
package device

import (
	"context"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
)

const unknown = "unknown"

// Info is the host description attached to requests.
type Info struct {
	Platform      string
	SystemVersion string
	AppVersion    string
	BundleID      string
}

// Detect inspects the host. Lookup failures degrade to "unknown" fields.
func Detect(ctx context.Context, appVersion, bundleID string) Info {
	stat, err := host.InfoWithContext(ctx)
	if err != nil {
		return fromHost(runtime.GOOS, nil, appVersion, bundleID)
	}
	return fromHost(runtime.GOOS, stat, appVersion, bundleID)
}

func fromHost(goos string, stat *host.InfoStat, appVersion, bundleID string) Info {
	info := Info{
		Platform:      platformName(goos),
		SystemVersion: unknown,
		AppVersion:    orUnknown(appVersion),
		BundleID:      orUnknown(bundleID),
	}
	if stat == nil {
		return info
	}
	version := strings.TrimSpace(stat.PlatformVersion)
	if version == "" {
		version = strings.TrimSpace(stat.KernelVersion)
	}
	if version != "" {
		info.SystemVersion = info.Platform + " " + version
	}
	return info
}

func platformName(goos string) string {
	switch goos {
	case "darwin":
		return "macOS"
	case "ios":
		return "iOS"
	case "linux":
		return "Linux"
	case "windows":
		return "Windows"
	case "android":
		return "Android"
	case "":
		return unknown
	default:
		return goos
	}
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return unknown
	}
	return s
}
