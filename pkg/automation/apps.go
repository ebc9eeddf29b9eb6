package automation

// AppStart launches pkg. See device.AndroidDevice.StartApp for how the activity is chosen.
func (d *Device) AppStart(pkg, activity string, stop, useMonkey bool) error {
	return d.adb.StartApp(pkg, activity, stop, useMonkey)
}

// AppStop force-stops pkg.
func (d *Device) AppStop(pkg string) error {
	return d.adb.StopApp(pkg)
}

// UserApps lists third-party packages.
func (d *Device) UserApps() ([]string, error) {
	return d.adb.UserPackages()
}

// AppName returns the label the launcher shows for pkg.
func (d *Device) AppName(pkg string) (string, error) {
	info, err := d.adb.AppInfo(pkg)
	if err != nil {
		return "", err
	}
	return info.Label, nil
}
