package uiautomator2

import (
	"fmt"
)

// Element is a reference to a UI element held by the server.
type Element struct {
	id     string
	client *Client
}

// ID returns the element ID.
func (e *Element) ID() string {
	return e.id
}

// FindElement finds a single element. The server polls for up to the implicit wait.
func (c *Client) FindElement(strategy, selector string) (*Element, error) {
	req := FindElementRequest{
		Strategy: strategy,
		Selector: selector,
	}

	var ref ElementModel
	if err := c.value("POST", c.sessionPath("/element"), req, &ref); err != nil {
		return nil, err
	}
	if ref.ELEMENT == "" {
		return nil, fmt.Errorf("element not found: %s=%s", strategy, selector)
	}

	return &Element{id: ref.ELEMENT, client: c}, nil
}

// FindElements finds every element matching the selector. An empty slice is not an error.
func (c *Client) FindElements(strategy, selector string) ([]*Element, error) {
	req := FindElementRequest{
		Strategy: strategy,
		Selector: selector,
	}

	var refs []ElementModel
	if err := c.value("POST", c.sessionPath("/elements"), req, &refs); err != nil {
		return nil, err
	}

	elements := make([]*Element, len(refs))
	for i, ref := range refs {
		elements[i] = &Element{id: ref.ELEMENT, client: c}
	}
	return elements, nil
}

// ActiveElement returns the currently focused element.
func (c *Client) ActiveElement() (*Element, error) {
	var ref ElementModel
	if err := c.value("GET", c.sessionPath("/element/active"), nil, &ref); err != nil {
		return nil, err
	}
	if ref.ELEMENT == "" {
		return nil, fmt.Errorf("no active element")
	}

	return &Element{id: ref.ELEMENT, client: c}, nil
}

func (e *Element) path(suffix string) string {
	return e.client.sessionPath("/element/" + e.id + suffix)
}

// Click taps the element.
func (e *Element) Click() error {
	return e.client.value("POST", e.path("/click"), nil, nil)
}

// Clear clears the element's text.
func (e *Element) Clear() error {
	return e.client.value("POST", e.path("/clear"), nil, nil)
}

// SendKeys types text into the element.
func (e *Element) SendKeys(text string) error {
	return e.client.value("POST", e.path("/value"), InputTextRequest{Text: text}, nil)
}

// Text returns the element's text content.
func (e *Element) Text() (string, error) {
	var text string
	if err := e.client.value("GET", e.path("/text"), nil, &text); err != nil {
		return "", err
	}
	return text, nil
}

// Attribute returns an element attribute. Unset attributes come back as "".
func (e *Element) Attribute(name string) (string, error) {
	var attr interface{}
	if err := e.client.value("GET", e.path("/attribute/"+name), nil, &attr); err != nil {
		return "", err
	}
	switch v := attr.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return fmt.Sprint(v), nil
	}
}

// Rect returns the element's bounds.
func (e *Element) Rect() (ElementRect, error) {
	var rect ElementRect
	if err := e.client.value("GET", e.path("/rect"), nil, &rect); err != nil {
		return ElementRect{}, err
	}
	return rect, nil
}
