package domain

type Client struct {
	ID           int64       `json:"id,omitempty"`
	Name         string      `json:"name"`
	CurrentState ClientState `json:"currentState"`
}

func (c Client) IsActive() bool {
	return c.CurrentState == ClientStateActive
}
