package session

import (
	"encoding/base64"
)

// DeviceInfo reports display, build and network details.
func (s *Session) DeviceInfo() Result {
	return s.call(func() Result {
		info, err := s.backend.Info()
		if err != nil {
			return fail(err)
		}
		return Data(info)
	})
}

// WindowSize reports the display size in pixels.
func (s *Session) WindowSize() Result {
	return s.call(func() Result {
		w, h, err := s.backend.WindowSize()
		if err != nil {
			return fail(err)
		}
		return Data(map[string]interface{}{"width": w, "height": h})
	})
}

// CurrentApp reports the foreground package and activity.
func (s *Session) CurrentApp() Result {
	return s.call(func() Result {
		app, err := s.backend.CurrentApp()
		if err != nil {
			return fail(err)
		}
		return Data(app)
	})
}

// ScreenDump returns the hierarchy XML with display metadata.
func (s *Session) ScreenDump() Result {
	return s.call(func() Result {
		xml, err := s.backend.DumpHierarchy()
		if err != nil {
			return fail(err)
		}
		w, h, err := s.backend.WindowSize()
		if err != nil {
			return fail(err)
		}
		pkg := ""
		if app, err := s.backend.CurrentApp(); err == nil {
			pkg = app.Package
		}
		return Data(map[string]interface{}{
			"xml":                xml,
			"displayWidth":       w,
			"displayHeight":      h,
			"currentPackageName": pkg,
		})
	})
}

// Screenshot formats.
const (
	FormatRaw    = "raw"    // returned as JPEG
	FormatPillow = "pillow" // returned as PNG
)

// TakeScreenshot saves to filename when one is given; otherwise the image is
// returned base64-encoded.
func (s *Session) TakeScreenshot(filename, format string) Result {
	return s.call(func() Result {
		if filename != "" {
			if err := s.backend.SaveScreenshot(filename); err != nil {
				return fail(err)
			}
			return Message("Screenshot saved to " + filename)
		}

		var (
			data  []byte
			err   error
			label string
		)
		switch format {
		case FormatRaw:
			data, err = s.backend.ScreenshotJPEG()
			label = "jpeg"
		case FormatPillow:
			data, err = s.backend.Screenshot()
			label = "png"
		default:
			return Failure("Unsupported format: " + format)
		}
		if err != nil {
			return fail(err)
		}
		return Data(map[string]interface{}{
			"format": label,
			"image":  base64.StdEncoding.EncodeToString(data),
		})
	})
}

// ScreenOn wakes the display.
func (s *Session) ScreenOn() Result {
	return s.call(func() Result {
		if err := s.backend.ScreenOn(); err != nil {
			return fail(err)
		}
		return Message("Screen turned on")
	})
}

// ScreenOff turns the display off.
func (s *Session) ScreenOff() Result {
	return s.call(func() Result {
		if err := s.backend.ScreenOff(); err != nil {
			return fail(err)
		}
		return Message("Screen turned off")
	})
}

// Unlock wakes the device and dismisses the keyguard.
func (s *Session) Unlock() Result {
	return s.call(func() Result {
		if err := s.backend.Unlock(); err != nil {
			return fail(err)
		}
		return Message("Device unlocked")
	})
}
