package config

import (
	"os"
	"path/filepath"
	"sync"
)

const envHome = "UIA2_BRIDGE_HOME"

var (
	homeOnce sync.Once
	homeDir  string
)

// GetHome returns the uia2-bridge home directory: $UIA2_BRIDGE_HOME, else the
// parent of the binary's bin/ directory, else the working directory.
func GetHome() string {
	homeOnce.Do(func() {
		homeDir = resolveHome()
	})
	return homeDir
}

// GetAPKDir returns <home>/drivers/android, where bundled server APKs live.
func GetAPKDir() string {
	return filepath.Join(GetHome(), "drivers", "android")
}

// ResolveAPKDir returns the configured APK directory, else the bundled one when it exists.
func (c *Config) ResolveAPKDir() string {
	if c.APKDir != "" {
		return c.APKDir
	}
	if info, err := os.Stat(GetAPKDir()); err == nil && info.IsDir() {
		return GetAPKDir()
	}
	return ""
}

func resolveHome() string {
	for _, candidate := range []func() string{homeFromEnv, homeFromBinary, workingDir} {
		if dir := candidate(); dir != "" {
			return dir
		}
	}
	return "."
}

func homeFromEnv() string {
	return os.Getenv(envHome)
}

// homeFromBinary recognises an installed layout: <home>/bin/uia2-bridge.
func homeFromBinary() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	bin := filepath.Dir(exe)
	if filepath.Base(bin) != "bin" {
		return ""
	}
	return filepath.Dir(bin)
}

func workingDir() string {
	dir, _ := os.Getwd()
	return dir
}

// ResetHome resets the cached home directory (for testing).
func ResetHome() {
	homeOnce = sync.Once{}
	homeDir = ""
}
