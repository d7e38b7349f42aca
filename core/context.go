package core

// Context is the controller state shared by the modem session, the
// notification sink and the emergency workflow. There is exactly one per
// Controller and it is only touched from the tick loop.
type Context struct {
	recipient      string
	callActive     bool
	wirelessActive bool
}

// NewContext returns a context addressed to the given default recipient
func NewContext(recipient string) *Context {
	return &Context{recipient: recipient}
}

// Recipient returns the number notifications and calls go to
func (c *Context) Recipient() string {
	return c.recipient
}

// SetRecipient replaces the recipient number
func (c *Context) SetRecipient(number string) {
	c.recipient = number
}

// CallActive reports whether a voice call is in progress
func (c *Context) CallActive() bool {
	return c.callActive
}

// SetCallActive marks the start or end of a voice call
func (c *Context) SetCallActive(active bool) {
	c.callActive = active
}

// WirelessActive reports whether the wireless channel is advertising
func (c *Context) WirelessActive() bool {
	return c.wirelessActive
}

// SetWirelessActive records the advertising state
func (c *Context) SetWirelessActive(active bool) {
	c.wirelessActive = active
}
