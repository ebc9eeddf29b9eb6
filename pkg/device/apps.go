package device

import (
	"fmt"
	"regexp"
	"strings"
)

// AppInfo holds what `dumpsys package` reports about an installed package.
type AppInfo struct {
	PackageName string
	Label       string
	VersionName string
	VersionCode string
}

// UserPackages lists third-party packages.
func (d *AndroidDevice) UserPackages() ([]string, error) {
	out, err := d.Shell("pm list packages -3")
	if err != nil {
		return nil, err
	}
	return parsePackageList(out), nil
}

// AppInfo returns package details.
func (d *AndroidDevice) AppInfo(pkg string) (*AppInfo, error) {
	out, err := d.Shell("dumpsys package " + shellQuote(pkg))
	if err != nil {
		return nil, err
	}
	return parseAppInfo(pkg, out)
}

// CurrentApp returns the package and activity holding window focus.
func (d *AndroidDevice) CurrentApp() (string, string, error) {
	out, err := d.Shell("dumpsys window")
	if err != nil {
		return "", "", err
	}
	pkg, activity, ok := parseFocusedApp(out)
	if !ok {
		return "", "", fmt.Errorf("no focused app found")
	}
	return pkg, activity, nil
}

// StartApp launches pkg. With an activity it is started explicitly; otherwise the
// launcher activity is resolved, falling back to monkey when that fails or useMonkey is set.
func (d *AndroidDevice) StartApp(pkg, activity string, stop, useMonkey bool) error {
	if stop {
		if err := d.StopApp(pkg); err != nil {
			return err
		}
	}

	if activity == "" && !useMonkey {
		out, err := d.Shell("cmd package resolve-activity --brief -c android.intent.category.LAUNCHER " + shellQuote(pkg))
		if err == nil {
			activity = parseResolvedActivity(pkg, out)
		}
	}

	if activity == "" {
		out, err := d.Shell(fmt.Sprintf("monkey -p %s -c android.intent.category.LAUNCHER 1", shellQuote(pkg)))
		if err != nil {
			return err
		}
		if strings.Contains(out, "No activities found") {
			return fmt.Errorf("no launchable activity for %s", pkg)
		}
		return nil
	}

	component := activity
	if !strings.Contains(component, "/") {
		component = pkg + "/" + activity
	}
	out, err := d.Shell("am start -a android.intent.action.MAIN -c android.intent.category.LAUNCHER -n " + shellQuote(component))
	if err != nil {
		return err
	}
	if idx := strings.Index(out, "Error:"); idx != -1 {
		return fmt.Errorf("am start %s: %s", component, strings.TrimSpace(out[idx:]))
	}
	return nil
}

// StopApp force-stops pkg.
func (d *AndroidDevice) StopApp(pkg string) error {
	_, err := d.Shell("am force-stop " + shellQuote(pkg))
	return err
}

// parsePackageList parses `pm list packages` output.
func parsePackageList(out string) []string {
	var pkgs []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if name, ok := strings.CutPrefix(line, "package:"); ok && name != "" {
			pkgs = append(pkgs, name)
		}
	}
	return pkgs
}

var (
	versionNameRe = regexp.MustCompile(`versionName=(\S+)`)
	versionCodeRe = regexp.MustCompile(`versionCode=(\d+)`)
)

// parseAppInfo parses `dumpsys package <pkg>` output. A missing label is an error
// so callers can decide on a fallback name.
func parseAppInfo(pkg, out string) (*AppInfo, error) {
	if strings.Contains(out, "Unable to find package") || !strings.Contains(out, pkg) {
		return nil, fmt.Errorf("package not found: %s", pkg)
	}

	info := &AppInfo{PackageName: pkg}
	if m := versionNameRe.FindStringSubmatch(out); m != nil {
		info.VersionName = m[1]
	}
	if m := versionCodeRe.FindStringSubmatch(out); m != nil {
		info.VersionCode = m[1]
	}
	info.Label = parseLabel(out)
	if info.Label == "" {
		return info, fmt.Errorf("no label reported for %s", pkg)
	}
	return info, nil
}

// parseLabel finds a nonLocalizedLabel entry; values run until the next " icon=" field.
func parseLabel(out string) string {
	const key = "nonLocalizedLabel="
	for _, line := range strings.Split(out, "\n") {
		idx := strings.Index(line, key)
		if idx == -1 {
			continue
		}
		label := line[idx+len(key):]
		if end := strings.Index(label, " icon="); end != -1 {
			label = label[:end]
		}
		label = strings.TrimSpace(label)
		if label != "" && label != "null" {
			return label
		}
	}
	return ""
}

var focusRe = regexp.MustCompile(`([A-Za-z0-9_.]+)/([A-Za-z0-9_.$]+)`)

// parseFocusedApp extracts package/activity from `dumpsys window` output.
func parseFocusedApp(out string) (string, string, bool) {
	for _, key := range []string{"mCurrentFocus", "mFocusedApp"} {
		for _, line := range strings.Split(out, "\n") {
			if !strings.Contains(line, key) {
				continue
			}
			if m := focusRe.FindStringSubmatch(line); m != nil {
				return m[1], m[2], true
			}
		}
	}
	return "", "", false
}

// parseResolvedActivity returns the component from `cmd package resolve-activity --brief`,
// or "" when the package has no launcher activity.
func parseResolvedActivity(pkg, out string) string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	if strings.HasPrefix(last, pkg+"/") {
		return last
	}
	return ""
}
