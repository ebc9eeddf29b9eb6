package automation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/devicelab-dev/uia2-bridge/pkg/uiautomator2"
)

// Press sends a key by name ("home", "volume_up") or by numeric Android keycode.
func (d *Device) Press(key string) error {
	code := mapKeyCode(key)
	if code == 0 {
		n, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || n <= 0 {
			return fmt.Errorf("unknown key: %s", key)
		}
		code = n
	}
	return d.client.PressKeyCode(code)
}

// keyNames maps press_key names, lower case, to Android keycodes.
var keyNames = map[string]int{
	"home":        uiautomator2.KeyCodeHome,
	"back":        uiautomator2.KeyCodeBack,
	"call":        uiautomator2.KeyCodeCall,
	"endcall":     uiautomator2.KeyCodeEndCall,
	"left":        uiautomator2.KeyCodeDpadLeft,
	"dpad_left":   uiautomator2.KeyCodeDpadLeft,
	"right":       uiautomator2.KeyCodeDpadRight,
	"dpad_right":  uiautomator2.KeyCodeDpadRight,
	"up":          uiautomator2.KeyCodeDpadUp,
	"dpad_up":     uiautomator2.KeyCodeDpadUp,
	"down":        uiautomator2.KeyCodeDpadDown,
	"dpad_down":   uiautomator2.KeyCodeDpadDown,
	"center":      uiautomator2.KeyCodeDpadCenter,
	"dpad_center": uiautomator2.KeyCodeDpadCenter,
	"volume_up":   uiautomator2.KeyCodeVolumeUp,
	"volume_down": uiautomator2.KeyCodeVolumeDown,
	"volume_mute": uiautomator2.KeyCodeVolumeMute,
	"power":       uiautomator2.KeyCodePower,
	"camera":      uiautomator2.KeyCodeCamera,
	"tab":         uiautomator2.KeyCodeTab,
	"space":       uiautomator2.KeyCodeSpace,
	"enter":       uiautomator2.KeyCodeEnter,
	"delete":      uiautomator2.KeyCodeDelete,
	"del":         uiautomator2.KeyCodeDelete,
	"backspace":   uiautomator2.KeyCodeDelete,
	"forward_del": uiautomator2.KeyCodeForwardDel,
	"menu":        uiautomator2.KeyCodeMenu,
	"search":      uiautomator2.KeyCodeSearch,
	"recent":      uiautomator2.KeyCodeAppSwitch,
	"app_switch":  uiautomator2.KeyCodeAppSwitch,
	"sleep":       uiautomator2.KeyCodeSleep,
	"wakeup":      uiautomator2.KeyCodeWakeup,
}

// mapKeyCode returns 0 for names it does not know.
func mapKeyCode(key string) int {
	return keyNames[strings.ToLower(strings.TrimSpace(key))]
}
