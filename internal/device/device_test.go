package device

import (
	"context"
	"testing"

	"github.com/shirou/gopsutil/v3/host"
)

func TestFromHost(t *testing.T) {
	info := fromHost("darwin", &host.InfoStat{PlatformVersion: "14.5"}, "1.2.0", "com.bear.app")
	if info.Platform != "macOS" {
		t.Fatalf("Platform = %q, want macOS", info.Platform)
	}
	if info.SystemVersion != "macOS 14.5" {
		t.Fatalf("SystemVersion = %q, want %q", info.SystemVersion, "macOS 14.5")
	}
	if info.AppVersion != "1.2.0" || info.BundleID != "com.bear.app" {
		t.Fatalf("AppVersion/BundleID = %q/%q", info.AppVersion, info.BundleID)
	}
}

func TestFromHost_Fallbacks(t *testing.T) {
	info := fromHost("linux", &host.InfoStat{KernelVersion: "6.8.0"}, "", " ")
	if info.SystemVersion != "Linux 6.8.0" {
		t.Fatalf("SystemVersion = %q, want kernel fallback", info.SystemVersion)
	}
	if info.AppVersion != "unknown" || info.BundleID != "unknown" {
		t.Fatalf("AppVersion/BundleID = %q/%q, want unknown", info.AppVersion, info.BundleID)
	}

	info = fromHost("plan9", nil, "1", "b")
	if info.Platform != "plan9" || info.SystemVersion != "unknown" {
		t.Fatalf("info = %#v, want raw GOOS and unknown version", info)
	}
}

func TestDetect_NeverEmpty(t *testing.T) {
	info := Detect(context.Background(), "", "")
	if info.Platform == "" || info.SystemVersion == "" {
		t.Fatalf("Detect = %#v, want non-empty fields", info)
	}
}
