package automation

import (
	"fmt"
	"strconv"
)

// Info is the device summary reported by get_device_info.
type Info struct {
	DisplayWidth       int     `json:"displayWidth"`
	DisplayHeight      int     `json:"displayHeight"`
	CurrentPackageName string  `json:"currentPackageName"`
	ProductName        string  `json:"productName"`
	Brand              string  `json:"brand"`
	Model              string  `json:"model"`
	SdkInt             int     `json:"sdkInt"`
	ScreenOn           bool    `json:"screenOn"`
	Serial             string  `json:"serial"`
	Version            string  `json:"version"`
	WlanIP             *string `json:"wlanIp"` // null when the device has no Wi-Fi address
}

// App identifies the foreground application.
type App struct {
	Package  string `json:"package"`
	Activity string `json:"activity"`
}

// Info collects display, build and network details. Only the UIAutomator2 calls are
// fatal; the ADB-sourced fields fall back to zero values.
func (d *Device) Info() (*Info, error) {
	width, height, err := d.WindowSize()
	if err != nil {
		return nil, err
	}
	devInfo, err := d.client.GetDeviceInfo()
	if err != nil {
		return nil, fmt.Errorf("device info: %w", err)
	}

	info := &Info{
		DisplayWidth:  width,
		DisplayHeight: height,
		Brand:         devInfo.Brand,
		Model:         devInfo.Model,
		Serial:        d.adb.Serial(),
		Version:       devInfo.PlatformVersion,
		ScreenOn:      true,
	}

	if pkg, _, err := d.adb.CurrentApp(); err == nil {
		info.CurrentPackageName = pkg
	}
	if name, err := d.adb.Prop("ro.product.name"); err == nil {
		info.ProductName = name
	}

	sdk := devInfo.APIVersion
	if sdk == "" {
		sdk, _ = d.adb.Prop("ro.build.version.sdk")
	}
	info.SdkInt, _ = strconv.Atoi(sdk)

	if info.Version == "" {
		info.Version, _ = d.adb.Prop("ro.build.version.release")
	}
	if on, err := d.adb.IsScreenOn(); err == nil {
		info.ScreenOn = on
	}
	if ip, err := d.adb.WlanIP(); err == nil {
		info.WlanIP = &ip
	}

	return info, nil
}

// WindowSize returns the display size in pixels.
func (d *Device) WindowSize() (int, int, error) {
	return d.displaySize()
}

// CurrentApp returns the focused package and activity.
func (d *Device) CurrentApp() (*App, error) {
	pkg, activity, err := d.adb.CurrentApp()
	if err != nil {
		return nil, err
	}
	return &App{Package: pkg, Activity: activity}, nil
}

// DumpHierarchy returns the UI hierarchy XML.
func (d *Device) DumpHierarchy() (string, error) {
	return d.client.Source()
}
