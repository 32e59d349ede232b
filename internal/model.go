package internal

import "time"

type User struct {
	ID    string `json:"id"`
	Token string `json:"token,omitempty"`
	Name  string `json:"name,omitempty"`
}

type Ratings struct {
	Stress int `json:"stress"`
	Energy int `json:"energy"`
	Mood   int `json:"mood"`
	Focus  int `json:"focus"`
}

// CheckIn is one user's entry for one calendar date. UserID + Date is the natural key.
type CheckIn struct {
	UserID    string     `json:"userId"`
	Date      string     `json:"date"` // YYYY-MM-DD
	Ratings   Ratings    `json:"ratings"`
	Prompts   Prompts    `json:"prompts"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

func (c CheckIn) Deleted() bool {
	return c.DeletedAt != nil
}

// Answer returns the answer for prompt id, or "" when the prompt is absent.
func (c CheckIn) Answer(id string) string {
	for _, p := range c.Prompts {
		if p.ID == id {
			return p.Answer
		}
	}
	return ""
}
