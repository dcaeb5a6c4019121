package models

import "time"

// Client represents an authenticated query client
type Client struct {
	// From JWT claims
	ID          string `json:"id"`          // Converted from int64 user_id
	Username    string `json:"username"`    // JWT claim
	Email       string `json:"email"`       // JWT claim
	Permissions int64  `json:"permissions"` // JWT claim: bitwise permission flags
	Activated   int64  `json:"activated"`   // JWT claim: activation timestamp or ban status
	AuthMethod  string `json:"auth_method"` // JWT claim: "password" or "oauth"

	// Set when authentication is disabled
	Anonymous bool `json:"anonymous,omitempty"`

	// Connection state
	ConnectionID string    `json:"connection_id"`
	Connected    bool      `json:"connected"`
	ConnectedAt  time.Time `json:"connected_at"`
	LastSeen     time.Time `json:"last_seen"`
}

// IsActive checks if the account is activated and not banned
func (c *Client) IsActive() bool {
	// activated > 0 means activated
	// activated == 0 means not activated
	// activated == -1 means banned
	return c.Anonymous || c.Activated > 0
}

// IsBanned checks if the account is banned
func (c *Client) IsBanned() bool {
	return c.Activated == -1
}

// IsConnected checks if the client currently holds a connection
func (c *Client) IsConnected() bool {
	return c.Connected
}
