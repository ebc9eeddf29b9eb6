package uiautomator2

import (
	"io"
	"log"
	"net/http"
)

// NewTestClient creates a client against baseURL with an active session.
// Intended for tests that serve the UIAutomator2 API from httptest.
func NewTestClient(baseURL string, hc *http.Client) *Client {
	return &Client{
		http:      hc,
		baseURL:   baseURL,
		sessionID: "test-session",
		logger:    log.New(io.Discard, "", 0),
	}
}
