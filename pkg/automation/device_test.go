package automation

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/devicelab-dev/uia2-bridge/pkg/config"
	"github.com/devicelab-dev/uia2-bridge/pkg/device"
	"github.com/devicelab-dev/uia2-bridge/pkg/uiautomator2"
)

// fakeServer mimics the UIAutomator2 HTTP API. Handlers are keyed by
// "METHOD /path" with the /session/<id> prefix stripped.
type fakeServer struct {
	handlers map[string]http.HandlerFunc
	attrs    map[string]string // element attributes served for any element

	mu     sync.Mutex
	calls  []string
	bodies map[string][]byte
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if strings.HasPrefix(path, "/session/") {
		parts := strings.SplitN(path[len("/session/"):], "/", 2)
		path = "/"
		if len(parts) > 1 {
			path += parts[1]
		}
	}
	key := r.Method + " " + path
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.calls = append(f.calls, key)
	f.bodies[key] = body
	f.mu.Unlock()

	if h, ok := f.handlers[key]; ok {
		h(w, r)
		return
	}
	if idx := strings.Index(path, "/attribute/"); idx != -1 && r.Method == "GET" {
		name := path[idx+len("/attribute/"):]
		if v, ok := f.attrs[name]; ok {
			writeValue(w, v)
			return
		}
		writeValue(w, nil)
		return
	}
	writeValue(w, nil)
}

func (f *fakeServer) called(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == key {
			n++
		}
	}
	return n
}

func (f *fakeServer) body(t *testing.T, key string, out interface{}) {
	t.Helper()
	f.mu.Lock()
	data, ok := f.bodies[key]
	f.mu.Unlock()
	if !ok {
		t.Fatalf("no request for %s", key)
	}
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("decode %s body: %v", key, err)
	}
}

func writeValue(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"value": v})
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"value": map[string]string{"error": code, "message": msg},
	})
}

// fakeADB records shell-level calls.
type fakeADB struct {
	serial   string
	props    map[string]string
	pkg      string
	activity string
	screenOn bool
	wlanIP   string
	packages []string
	labels   map[string]string

	swipes   [][5]int
	started  []string
	stopped  []string
	screenOp []string
}

func (a *fakeADB) Serial() string { return a.serial }

func (a *fakeADB) Prop(name string) (string, error) {
	if v, ok := a.props[name]; ok {
		return v, nil
	}
	return "", errors.New("no such prop")
}

func (a *fakeADB) CurrentApp() (string, string, error) {
	if a.pkg == "" {
		return "", "", errors.New("no focused app found")
	}
	return a.pkg, a.activity, nil
}

func (a *fakeADB) StartApp(pkg, activity string, stop, useMonkey bool) error {
	a.started = append(a.started, pkg)
	return nil
}

func (a *fakeADB) StopApp(pkg string) error {
	a.stopped = append(a.stopped, pkg)
	return nil
}

func (a *fakeADB) UserPackages() ([]string, error) { return a.packages, nil }

func (a *fakeADB) AppInfo(pkg string) (*device.AppInfo, error) {
	label, ok := a.labels[pkg]
	if !ok {
		return nil, errors.New("package not found: " + pkg)
	}
	return &device.AppInfo{PackageName: pkg, Label: label}, nil
}

func (a *fakeADB) ScreenOn() error {
	a.screenOp = append(a.screenOp, "on")
	return nil
}

func (a *fakeADB) ScreenOff() error {
	a.screenOp = append(a.screenOp, "off")
	return nil
}

func (a *fakeADB) IsScreenOn() (bool, error) { return a.screenOn, nil }

func (a *fakeADB) Swipe(x1, y1, x2, y2, durationMs int) error {
	a.swipes = append(a.swipes, [5]int{x1, y1, x2, y2, durationMs})
	return nil
}

func (a *fakeADB) WlanIP() (string, error) {
	if a.wlanIP == "" {
		return "", errors.New("no wlan address")
	}
	return a.wlanIP, nil
}

func newTestDevice(t *testing.T) (*Device, *fakeServer, *fakeADB) {
	t.Helper()
	fake := &fakeServer{
		handlers: map[string]http.HandlerFunc{},
		attrs:    map[string]string{},
		bodies:   map[string][]byte{},
	}
	fake.handlers["GET /window/current/size"] = func(w http.ResponseWriter, r *http.Request) {
		writeValue(w, map[string]int{"width": 1000, "height": 2000})
	}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	adb := &fakeADB{serial: "emulator-5554", props: map[string]string{}, labels: map[string]string{}}
	d := New(uiautomator2.NewTestClient(server.URL, server.Client()), adb)
	d.pollInterval = time.Millisecond
	return d, fake, adb
}

func TestClickRelative(t *testing.T) {
	d, fake, _ := newTestDevice(t)

	if err := d.Click(0.5, 100); err != nil {
		t.Fatalf("Click failed: %v", err)
	}

	var req uiautomator2.ClickRequest
	fake.body(t, "POST /appium/gestures/click", &req)
	if req.Offset == nil || req.Offset.X != 500 || req.Offset.Y != 100 {
		t.Errorf("unexpected offset: %+v", req.Offset)
	}
}

func TestClickAbsoluteSkipsWindowSize(t *testing.T) {
	d, fake, _ := newTestDevice(t)

	if err := d.Click(10, 20); err != nil {
		t.Fatalf("Click failed: %v", err)
	}
	if fake.called("GET /window/current/size") != 0 {
		t.Error("window size fetched for absolute coordinates")
	}
}

func TestClickError(t *testing.T) {
	d, fake, _ := newTestDevice(t)
	fake.handlers["POST /appium/gestures/click"] = func(w http.ResponseWriter, r *http.Request) {
		writeError(w, 500, "unknown error", "injection failed")
	}

	err := d.Click(10, 20)
	if err == nil || err.Error() != "unknown error: injection failed" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDoubleClick(t *testing.T) {
	d, fake, _ := newTestDevice(t)

	if err := d.DoubleClick(10, 20, time.Millisecond); err != nil {
		t.Fatalf("DoubleClick failed: %v", err)
	}
	if n := fake.called("POST /appium/gestures/click"); n != 2 {
		t.Errorf("expected 2 clicks, got %d", n)
	}

	if err := d.DoubleClick(10, 20, 0); err != nil {
		t.Fatalf("DoubleClick failed: %v", err)
	}
	if n := fake.called("POST /appium/gestures/double_click"); n != 1 {
		t.Errorf("expected server double click, got %d", n)
	}
}

func TestLongClick(t *testing.T) {
	d, fake, _ := newTestDevice(t)

	if err := d.LongClick(10, 0.25, 500*time.Millisecond); err != nil {
		t.Fatalf("LongClick failed: %v", err)
	}

	var req uiautomator2.LongClickRequest
	fake.body(t, "POST /appium/gestures/long_click", &req)
	if req.Offset == nil || req.Offset.X != 10 || req.Offset.Y != 500 || req.Duration != 500 {
		t.Errorf("unexpected request: %+v offset=%+v", req, req.Offset)
	}
}

func TestSwipeUsesADB(t *testing.T) {
	d, _, adb := newTestDevice(t)

	if err := d.Swipe(0.5, 0.75, 500, 0.25, 500*time.Millisecond); err != nil {
		t.Fatalf("Swipe failed: %v", err)
	}
	if len(adb.swipes) != 1 || adb.swipes[0] != [5]int{500, 1500, 500, 500, 500} {
		t.Errorf("unexpected swipes: %v", adb.swipes)
	}
}

func TestSwipeExt(t *testing.T) {
	d, fake, _ := newTestDevice(t)

	if err := d.SwipeExt("Up", 0.9, nil); err != nil {
		t.Fatalf("SwipeExt failed: %v", err)
	}
	var req uiautomator2.SwipeRequest
	fake.body(t, "POST /appium/gestures/swipe", &req)
	if req.Direction != "up" || req.Percent != 0.9 {
		t.Errorf("unexpected request: %+v", req)
	}
	if req.Area == nil || *req.Area != uiautomator2.NewRect(0, 0, 1000, 2000) {
		t.Errorf("unexpected area: %+v", req.Area)
	}

	if err := d.SwipeExt("left", 0.5, []float64{100, 200, 600, 0.5}); err != nil {
		t.Fatalf("SwipeExt with box failed: %v", err)
	}
	fake.body(t, "POST /appium/gestures/swipe", &req)
	if *req.Area != uiautomator2.NewRect(100, 200, 500, 800) {
		t.Errorf("unexpected box area: %+v", req.Area)
	}
}

func TestSwipeExtInvalid(t *testing.T) {
	d, fake, _ := newTestDevice(t)

	tests := []struct {
		name      string
		direction string
		scale     float64
		box       []float64
	}{
		{"direction", "sideways", 0.9, nil},
		{"scale", "up", 1.5, nil},
		{"box length", "up", 0.9, []float64{1, 2, 3}},
		{"empty box", "up", 0.9, []float64{500, 500, 100, 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := d.SwipeExt(tt.direction, tt.scale, tt.box); err == nil {
				t.Error("expected error")
			}
		})
	}
	if fake.called("POST /appium/gestures/swipe") != 0 {
		t.Error("swipe sent for invalid input")
	}
}

func TestDrag(t *testing.T) {
	d, fake, _ := newTestDevice(t)

	if err := d.Drag(0, 0, 300, 400, 500*time.Millisecond); err != nil {
		t.Fatalf("Drag failed: %v", err)
	}
	var req uiautomator2.DragRequest
	fake.body(t, "POST /appium/gestures/drag", &req)
	if req.EndX != 300 || req.EndY != 400 || req.Speed != 1000 {
		t.Errorf("unexpected request: %+v", req)
	}
}

func TestDragSpeed(t *testing.T) {
	if s := dragSpeed(0, 0, 10, 0, 0); s != 0 {
		t.Errorf("expected 0 for no duration, got %d", s)
	}
	if s := dragSpeed(5, 5, 5, 5, time.Second); s != 1 {
		t.Errorf("expected minimum speed 1, got %d", s)
	}
}

func serveElements(fake *fakeServer, ids ...string) {
	fake.handlers["POST /elements"] = func(w http.ResponseWriter, r *http.Request) {
		refs := make([]map[string]string, len(ids))
		for i, id := range ids {
			refs[i] = map[string]string{"ELEMENT": id}
		}
		writeValue(w, refs)
	}
}

func TestFind(t *testing.T) {
	d, fake, _ := newTestDevice(t)
	serveElements(fake, "e1", "e2")
	fake.attrs["text"] = "OK"
	fake.attrs["content-desc"] = "confirm"
	fake.attrs["resource-id"] = "android:id/button1"
	fake.attrs["class"] = "android.widget.Button"
	fake.attrs["package"] = "com.android.settings"
	fake.attrs["clickable"] = "true"
	fake.attrs["enabled"] = "true"
	fake.handlers["GET /element/e1/rect"] = func(w http.ResponseWriter, r *http.Request) {
		writeValue(w, map[string]int{"x": 10, "y": 20, "width": 30, "height": 40})
	}

	info, found, err := d.Find(`new UiSelector().text("OK")`)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if !found {
		t.Fatal("expected element to be found")
	}

	var req uiautomator2.FindElementRequest
	fake.body(t, "POST /elements", &req)
	if req.Strategy != uiautomator2.StrategyUiAutomator || req.Selector != `new UiSelector().text("OK")` {
		t.Errorf("unexpected find request: %+v", req)
	}

	if info["text"] != "OK" || info["contentDescription"] != "confirm" || info["resourceName"] != "android:id/button1" {
		t.Errorf("unexpected string attributes: %v", info)
	}
	if info["clickable"] != true || info["checked"] != false {
		t.Errorf("unexpected bool attributes: %v", info)
	}
	bounds, ok := info["bounds"].(map[string]interface{})
	if !ok || bounds["left"] != 10 || bounds["top"] != 20 || bounds["right"] != 40 || bounds["bottom"] != 60 {
		t.Errorf("unexpected bounds: %v", info["bounds"])
	}
	if fake.called("GET /element/e2/rect") != 0 {
		t.Error("only the first match should be inspected")
	}
}

func TestFindMiss(t *testing.T) {
	d, fake, _ := newTestDevice(t)
	serveElements(fake)

	info, found, err := d.Find(`new UiSelector().text("nope")`)
	if err != nil || found || info != nil {
		t.Errorf("expected clean miss, got (%v, %v, %v)", info, found, err)
	}
}

func TestElementClickRetries(t *testing.T) {
	d, fake, _ := newTestDevice(t)
	var n int
	fake.handlers["POST /elements"] = func(w http.ResponseWriter, r *http.Request) {
		n++
		if n < 3 {
			writeValue(w, []interface{}{})
			return
		}
		writeValue(w, []map[string]string{{"ELEMENT": "e9"}})
	}

	if err := d.ElementClick(`new UiSelector().text("Later")`, time.Second); err != nil {
		t.Fatalf("ElementClick failed: %v", err)
	}
	if fake.called("POST /element/e9/click") != 1 {
		t.Error("expected element to be clicked once")
	}
}

func TestElementClickTimeout(t *testing.T) {
	d, fake, _ := newTestDevice(t)
	serveElements(fake)

	err := d.ElementClick(`new UiSelector().text("Never")`, 5*time.Millisecond)
	if err == nil || !strings.Contains(err.Error(), "element not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestElementLongClick(t *testing.T) {
	d, fake, _ := newTestDevice(t)
	fake.handlers["POST /element"] = func(w http.ResponseWriter, r *http.Request) {
		writeValue(w, map[string]string{"ELEMENT": "e3"})
	}

	if err := d.ElementLongClick(`new UiSelector().text("Hold")`, 750*time.Millisecond); err != nil {
		t.Fatalf("ElementLongClick failed: %v", err)
	}
	var req uiautomator2.LongClickRequest
	fake.body(t, "POST /appium/gestures/long_click", &req)
	if req.Origin == nil || req.Origin.ELEMENT != "e3" || req.Duration != 750 {
		t.Errorf("unexpected request: %+v", req)
	}
}

func TestSendKeys(t *testing.T) {
	d, fake, _ := newTestDevice(t)
	fake.handlers["GET /element/active"] = func(w http.ResponseWriter, r *http.Request) {
		writeValue(w, map[string]string{"ELEMENT": "focus"})
	}

	if err := d.SendKeys("hello", true); err != nil {
		t.Fatalf("SendKeys failed: %v", err)
	}
	if fake.called("POST /element/focus/clear") != 1 {
		t.Error("expected clear before typing")
	}
	var req uiautomator2.InputTextRequest
	fake.body(t, "POST /element/focus/value", &req)
	if req.Text != "hello" {
		t.Errorf("unexpected text %q", req.Text)
	}

	if err := d.ClearText(); err != nil {
		t.Fatalf("ClearText failed: %v", err)
	}
	if fake.called("POST /element/focus/clear") != 2 {
		t.Error("expected ClearText to clear the focused element")
	}
}

func TestSendKeysNoFocus(t *testing.T) {
	d, _, _ := newTestDevice(t)
	if err := d.SendKeys("hello", false); err == nil {
		t.Error("expected error without a focused element")
	}
}

func TestXPath(t *testing.T) {
	d, fake, _ := newTestDevice(t)
	fake.handlers["POST /element"] = func(w http.ResponseWriter, r *http.Request) {
		writeValue(w, map[string]string{"ELEMENT": "x1"})
	}
	fake.handlers["GET /element/x1/text"] = func(w http.ResponseWriter, r *http.Request) {
		writeValue(w, "Wi-Fi")
	}
	fake.handlers["GET /element/x1/rect"] = func(w http.ResponseWriter, r *http.Request) {
		writeValue(w, map[string]int{"x": 0, "y": 0, "width": 10, "height": 10})
	}
	fake.attrs["text"] = "Wi-Fi"

	if err := d.XPathClick(`//*[@text="Wi-Fi"]`); err != nil {
		t.Fatalf("XPathClick failed: %v", err)
	}
	var req uiautomator2.FindElementRequest
	fake.body(t, "POST /element", &req)
	if req.Strategy != uiautomator2.StrategyXPath {
		t.Errorf("expected xpath strategy, got %s", req.Strategy)
	}

	if err := d.XPathSetText(`//*[@text="Wi-Fi"]`, "abc"); err != nil {
		t.Fatalf("XPathSetText failed: %v", err)
	}
	if fake.called("POST /element/x1/click") != 2 || fake.called("POST /element/x1/value") != 1 {
		t.Error("expected click then value for set text")
	}

	text, err := d.XPathText(`//*[@text="Wi-Fi"]`)
	if err != nil || text != "Wi-Fi" {
		t.Errorf("XPathText = (%q, %v)", text, err)
	}

	info, err := d.XPathInfo(`//*[@text="Wi-Fi"]`)
	if err != nil || info["text"] != "Wi-Fi" {
		t.Errorf("XPathInfo = (%v, %v)", info, err)
	}
}

func TestXPathNotFound(t *testing.T) {
	d, fake, _ := newTestDevice(t)
	fake.handlers["POST /element"] = func(w http.ResponseWriter, r *http.Request) {
		writeError(w, 404, "no such element", "An element could not be located")
	}

	err := d.XPathClick("//missing")
	if err == nil || err.Error() != "no such element: An element could not be located" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPress(t *testing.T) {
	d, fake, _ := newTestDevice(t)

	for key, want := range map[string]int{"home": 3, "Volume_Up": 24, "66": 66} {
		if err := d.Press(key); err != nil {
			t.Fatalf("Press(%s) failed: %v", key, err)
		}
		var req uiautomator2.KeyCodeRequest
		fake.body(t, "POST /appium/device/press_keycode", &req)
		if req.KeyCode != want {
			t.Errorf("Press(%s) sent %d, want %d", key, req.KeyCode, want)
		}
	}

	if err := d.Press("warp"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestInfo(t *testing.T) {
	d, fake, adb := newTestDevice(t)
	fake.handlers["GET /appium/device/info"] = func(w http.ResponseWriter, r *http.Request) {
		writeValue(w, map[string]string{
			"brand":           "google",
			"model":           "Pixel 7",
			"apiVersion":      "34",
			"platformVersion": "14",
		})
	}
	adb.pkg = "com.android.launcher3"
	adb.props["ro.product.name"] = "panther"
	adb.screenOn = true

	info, err := d.Info()
	if err != nil {
		t.Fatalf("Info failed: %v", err)
	}
	want := Info{
		DisplayWidth:       1000,
		DisplayHeight:      2000,
		CurrentPackageName: "com.android.launcher3",
		ProductName:        "panther",
		Brand:              "google",
		Model:              "Pixel 7",
		SdkInt:             34,
		ScreenOn:           true,
		Serial:             "emulator-5554",
		Version:            "14",
	}
	if *info != want {
		t.Errorf("unexpected info:\n got %+v\nwant %+v", *info, want)
	}

	adb.wlanIP = "192.168.1.23"
	info, err = d.Info()
	if err != nil {
		t.Fatal(err)
	}
	if info.WlanIP == nil || *info.WlanIP != "192.168.1.23" {
		t.Errorf("unexpected wlan ip %v", info.WlanIP)
	}
}

func TestInfoPropFallbacks(t *testing.T) {
	d, fake, adb := newTestDevice(t)
	fake.handlers["GET /appium/device/info"] = func(w http.ResponseWriter, r *http.Request) {
		writeValue(w, map[string]string{"brand": "generic"})
	}
	adb.props["ro.build.version.sdk"] = "30"
	adb.props["ro.build.version.release"] = "11"

	info, err := d.Info()
	if err != nil {
		t.Fatalf("Info failed: %v", err)
	}
	if info.SdkInt != 30 || info.Version != "11" {
		t.Errorf("expected prop fallbacks, got %+v", info)
	}
}

func TestCurrentApp(t *testing.T) {
	d, _, adb := newTestDevice(t)
	adb.pkg, adb.activity = "com.example", ".MainActivity"

	app, err := d.CurrentApp()
	if err != nil {
		t.Fatalf("CurrentApp failed: %v", err)
	}
	if *app != (App{Package: "com.example", Activity: ".MainActivity"}) {
		t.Errorf("unexpected app: %+v", app)
	}
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestScreenshots(t *testing.T) {
	d, fake, _ := newTestDevice(t)
	pngData := testPNG(t)
	fake.handlers["GET /screenshot"] = func(w http.ResponseWriter, r *http.Request) {
		writeValue(w, base64.StdEncoding.EncodeToString(pngData))
	}

	data, err := d.Screenshot()
	if err != nil || !bytes.Equal(data, pngData) {
		t.Fatalf("Screenshot = (%d bytes, %v)", len(data), err)
	}

	jpg, err := d.ScreenshotJPEG()
	if err != nil {
		t.Fatalf("ScreenshotJPEG failed: %v", err)
	}
	if _, err := jpeg.Decode(bytes.NewReader(jpg)); err != nil {
		t.Errorf("output is not a JPEG: %v", err)
	}

	dir := t.TempDir()
	for _, name := range []string{"shot.png", "shot.jpg"} {
		path := filepath.Join(dir, name)
		if err := d.SaveScreenshot(path); err != nil {
			t.Fatalf("SaveScreenshot(%s) failed: %v", name, err)
		}
		saved, err := os.ReadFile(path)
		if err != nil || len(saved) == 0 {
			t.Errorf("nothing written to %s", name)
		}
	}
}

func TestScreenshotNotPNG(t *testing.T) {
	if _, err := pngToJPEG([]byte("not an image")); err == nil {
		t.Error("expected decode error")
	}
}

func TestScreenAndUnlock(t *testing.T) {
	d, _, adb := newTestDevice(t)

	if err := d.ScreenOff(); err != nil {
		t.Fatal(err)
	}
	if err := d.Unlock(); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}
	if strings.Join(adb.screenOp, ",") != "off,on" {
		t.Errorf("unexpected screen ops: %v", adb.screenOp)
	}
	if len(adb.swipes) != 1 || adb.swipes[0] != [5]int{100, 1800, 900, 200, 300} {
		t.Errorf("unexpected unlock swipe: %v", adb.swipes)
	}
}

func TestApps(t *testing.T) {
	d, _, adb := newTestDevice(t)
	adb.packages = []string{"com.a", "com.b"}
	adb.labels["com.a"] = "Alpha"

	pkgs, err := d.UserApps()
	if err != nil || len(pkgs) != 2 {
		t.Fatalf("UserApps = (%v, %v)", pkgs, err)
	}
	if name, err := d.AppName("com.a"); err != nil || name != "Alpha" {
		t.Errorf("AppName(com.a) = (%q, %v)", name, err)
	}
	if _, err := d.AppName("com.b"); err == nil {
		t.Error("expected lookup error for com.b")
	}

	if err := d.AppStart("com.a", "", true, false); err != nil {
		t.Fatal(err)
	}
	if err := d.AppStop("com.a"); err != nil {
		t.Fatal(err)
	}
	if len(adb.started) != 1 || len(adb.stopped) != 1 {
		t.Errorf("unexpected lifecycle calls: started=%v stopped=%v", adb.started, adb.stopped)
	}
}

type recordingWait struct {
	implicit time.Duration
	settings map[string]interface{}
	err      error
}

func (r *recordingWait) SetImplicitWait(d time.Duration) error {
	r.implicit = d
	return r.err
}

func (r *recordingWait) UpdateSettings(s map[string]interface{}) error {
	r.settings = s
	return nil
}

func TestConfigureWait(t *testing.T) {
	cfg := config.Default()
	cfg.WaitTimeout = "2s"

	rec := &recordingWait{}
	if err := configureWait(rec, cfg); err != nil {
		t.Fatalf("configureWait failed: %v", err)
	}
	if rec.implicit != 2*time.Second {
		t.Errorf("expected 2s implicit wait, got %v", rec.implicit)
	}
	if rec.settings["waitForSelectorTimeout"] != int64(2000) {
		t.Errorf("unexpected settings: %v", rec.settings)
	}

	rec.err = errors.New("no active session")
	if err := configureWait(rec, cfg); err == nil || !strings.Contains(err.Error(), "set implicit wait") {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestClickOutOfRange(t *testing.T) {
	d, fake, _ := newTestDevice(t)

	for _, x := range []float64{1e300, -1e300, math.Inf(1), math.NaN()} {
		err := d.Click(x, 5)
		if err == nil || !strings.HasPrefix(err.Error(), "coordinate out of range") {
			t.Errorf("Click(%v): expected range error, got %v", x, err)
		}
	}
	if err := d.Swipe(0.5, 0.5, 0.5, 1e12, 0); err == nil {
		t.Error("Swipe: expected range error")
	}
	if fake.called("POST /appium/gestures/click") != 0 {
		t.Error("click sent for an out of range coordinate")
	}
}

func TestClose(t *testing.T) {
	d, fake, _ := newTestDevice(t)

	if err := d.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if n := fake.called("DELETE /"); n != 1 {
		t.Errorf("expected one session delete, got %d", n)
	}
}

func TestCloseError(t *testing.T) {
	d, fake, _ := newTestDevice(t)
	fake.handlers["DELETE /"] = func(w http.ResponseWriter, r *http.Request) {
		writeError(w, 404, "invalid session id", "gone")
	}

	err := d.Close()
	if err == nil || err.Error() != "delete session: invalid session id: gone" {
		t.Errorf("unexpected error: %v", err)
	}
}

func newOpenServer(t *testing.T, ready bool) (*uiautomator2.Client, *fakeServer) {
	t.Helper()
	fake := &fakeServer{
		handlers: map[string]http.HandlerFunc{
			"GET /status": func(w http.ResponseWriter, r *http.Request) {
				writeValue(w, map[string]interface{}{"ready": ready, "message": "UiAutomator2 Server"})
			},
			"POST /session": func(w http.ResponseWriter, r *http.Request) {
				writeValue(w, map[string]string{"sessionId": "new-session"})
			},
		},
		bodies: map[string][]byte{},
	}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	client := uiautomator2.NewTestClient(server.URL, server.Client())
	if err := client.DeleteSession(); err != nil {
		t.Fatal(err)
	}
	return client, fake
}

func TestOpenSession(t *testing.T) {
	client, fake := newOpenServer(t, true)
	cfg := config.Default()

	if err := openSession(client, uiautomator2.Capabilities{PlatformName: "Android"}, cfg); err != nil {
		t.Fatalf("openSession failed: %v", err)
	}
	if client.SessionID() != "new-session" {
		t.Errorf("unexpected session ID %q", client.SessionID())
	}
	if fake.called("GET /status") != 1 || fake.called("POST /timeouts") != 1 {
		t.Errorf("unexpected calls: %v", fake.calls)
	}
}

func TestOpenSessionNotReady(t *testing.T) {
	client, fake := newOpenServer(t, false)

	err := openSession(client, uiautomator2.Capabilities{}, config.Default())
	if err == nil || err.Error() != "UIAutomator2 server not ready" {
		t.Errorf("unexpected error: %v", err)
	}
	if fake.called("POST /session") != 0 {
		t.Error("session created on a server that is not ready")
	}
}
