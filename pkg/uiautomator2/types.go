// Package uiautomator2 provides an HTTP client for the Appium UIAutomator2 server.
package uiautomator2

// ---- Envelope ----

// Response wraps every server reply. Value holds the payload or an ErrorValue.
type Response struct {
	SessionID string      `json:"sessionId"`
	Value     interface{} `json:"value"`
}

// ErrorValue is the W3C error payload: a short code plus a human message.
type ErrorValue struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ---- Session ----

// Capabilities sent on session creation.
type Capabilities struct {
	PlatformName string `json:"platformName,omitempty"`
	DeviceName   string `json:"deviceName,omitempty"`
	UDID         string `json:"udid,omitempty"`
}

// SessionRequest is the POST /session body.
type SessionRequest struct {
	Capabilities Capabilities `json:"capabilities"`
}

// SettingsRequest is the POST /appium/settings body.
type SettingsRequest struct {
	Settings map[string]interface{} `json:"settings"`
}

// ---- Elements ----

// Locator strategies understood by /element and /elements.
const (
	StrategyID          = "id"
	StrategyClassName   = "class name"
	StrategyXPath       = "xpath"
	StrategyUiAutomator = "-android uiautomator"
)

// ElementModel is the legacy JSONWP element reference.
type ElementModel struct {
	ELEMENT string `json:"ELEMENT"`
}

// FindElementRequest locates elements, optionally below Context.
type FindElementRequest struct {
	Strategy string `json:"strategy"`
	Selector string `json:"selector"`
	Context  string `json:"context,omitempty"`
}

// InputTextRequest is the element /value body.
type InputTextRequest struct {
	Text string `json:"text"`
}

// ElementRect is what /rect returns: origin plus size.
type ElementRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ---- Gestures ----

// PointModel is an offset in screen pixels.
type PointModel struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// RectModel is a gesture area. Unlike ElementRect it is keyed left/top.
type RectModel struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewRect builds a RectModel.
func NewRect(left, top, width, height int) RectModel {
	return RectModel{Left: left, Top: top, Width: width, Height: height}
}

// Swipe directions.
const (
	DirectionUp    = "up"
	DirectionDown  = "down"
	DirectionLeft  = "left"
	DirectionRight = "right"
)

// ClickRequest taps Offset, or the centre of Origin.
type ClickRequest struct {
	Origin *ElementModel `json:"origin,omitempty"`
	Offset *PointModel   `json:"offset,omitempty"`
}

// LongClickRequest presses for Duration milliseconds.
type LongClickRequest struct {
	Origin   *ElementModel `json:"origin,omitempty"`
	Offset   *PointModel   `json:"offset,omitempty"`
	Duration int           `json:"duration,omitempty"`
}

// SwipeRequest swipes Percent (0-1] of Area in Direction.
type SwipeRequest struct {
	Origin    *ElementModel `json:"origin,omitempty"`
	Area      *RectModel    `json:"area,omitempty"`
	Direction string        `json:"direction"`
	Percent   float64       `json:"percent"`
	Speed     int           `json:"speed,omitempty"`
}

// DragRequest drags between two points at Speed pixels per second.
type DragRequest struct {
	Origin *ElementModel `json:"origin,omitempty"`
	StartX int           `json:"startX"`
	StartY int           `json:"startY"`
	EndX   int           `json:"endX"`
	EndY   int           `json:"endY"`
	Speed  int           `json:"speed,omitempty"`
}

// ---- Device ----

// KeyCodeRequest is the /appium/device/press_keycode body.
type KeyCodeRequest struct {
	KeyCode  int `json:"keycode"`
	MetaKeys int `json:"metastate,omitempty"`
}

// DeviceInfo is what /appium/device/info reports. APIVersion and
// PlatformVersion are empty on some server builds.
type DeviceInfo struct {
	AndroidID       string `json:"androidId"`
	Manufacturer    string `json:"manufacturer"`
	Model           string `json:"model"`
	Brand           string `json:"brand"`
	APIVersion      string `json:"apiVersion"`
	PlatformVersion string `json:"platformVersion"`
	CarrierName     string `json:"carrierName"`
	RealDisplaySize string `json:"realDisplaySize"`
	DisplayDensity  int    `json:"displayDensity"`
}

// WindowSize is the logical screen size in pixels.
type WindowSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Android KEYCODE_* values reachable by name through press_key.
const (
	KeyCodeHome       = 3
	KeyCodeBack       = 4
	KeyCodeCall       = 5
	KeyCodeEndCall    = 6
	KeyCodeDpadUp     = 19
	KeyCodeDpadDown   = 20
	KeyCodeDpadLeft   = 21
	KeyCodeDpadRight  = 22
	KeyCodeDpadCenter = 23
	KeyCodeVolumeUp   = 24
	KeyCodeVolumeDown = 25
	KeyCodePower      = 26
	KeyCodeCamera     = 27
	KeyCodeTab        = 61
	KeyCodeSpace      = 62
	KeyCodeEnter      = 66
	KeyCodeDelete     = 67
	KeyCodeMenu       = 82
	KeyCodeSearch     = 84
	KeyCodeForwardDel = 112
	KeyCodeVolumeMute = 164
	KeyCodeAppSwitch  = 187
	KeyCodeSleep      = 223
	KeyCodeWakeup     = 224
)
