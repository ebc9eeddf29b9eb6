package session

// OpenApp launches pkg, optionally stopping it first.
func (s *Session) OpenApp(pkg string, stop, useMonkey bool, activity string) Result {
	return s.call(func() Result {
		if err := s.backend.AppStart(pkg, activity, stop, useMonkey); err != nil {
			return fail(err)
		}
		return Message("Opened app: " + pkg)
	})
}

// StopApp force-stops pkg.
func (s *Session) StopApp(pkg string) Result {
	return s.call(func() Result {
		if err := s.backend.AppStop(pkg); err != nil {
			return fail(err)
		}
		return Message("Stopped app: " + pkg)
	})
}

// AppEntry is one row of InstalledApps.
type AppEntry struct {
	PackageName string `json:"packageName"`
	AppName     string `json:"appName"`
}

// InstalledApps lists third-party apps. A failed name lookup affects only its
// own entry, which falls back to the package name.
func (s *Session) InstalledApps() Result {
	return s.call(func() Result {
		pkgs, err := s.backend.UserApps()
		if err != nil {
			return fail(err)
		}

		apps := make([]AppEntry, 0, len(pkgs))
		for _, pkg := range pkgs {
			apps = append(apps, AppEntry{PackageName: pkg, AppName: s.appName(pkg)})
		}
		return Data(map[string]interface{}{"apps": apps})
	})
}

func (s *Session) appName(pkg string) (name string) {
	defer func() {
		if recover() != nil {
			name = pkg
		}
	}()
	name, err := s.backend.AppName(pkg)
	if err != nil || name == "" {
		return pkg
	}
	return name
}
