package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/uia2-bridge/pkg/device"
)

var devicesCommand = &cli.Command{
	Name:  "devices",
	Usage: "List devices visible to adb",
	Description: `Print one line per attached device: serial, a tab, then the adb state.
Any serial in the "device" state can be passed as deviceSerial.

Examples:
  uia2-bridge devices
  uia2-bridge --config bridge.yaml devices`,
	Action: runDevices,
}

func runDevices(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	devices, err := device.ListDevices(cfg.ADBPath)
	if err != nil {
		return err
	}
	for _, d := range devices {
		fmt.Fprintf(c.App.Writer, "%s\t%s\n", d.Serial, d.State)
	}
	return nil
}
