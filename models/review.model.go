package models

import "time"

// Review is embedded in Course; at most one per user
type Review struct {
	ID     string    `json:"id"`
	UserID string    `json:"user"`
	Rating int       `json:"rating"`
	Text   string    `json:"text"`
	Date   time.Time `json:"date"`
}

// ReviewBy returns the index of userID's review, or -1
func (c *Course) ReviewBy(userID string) int {
	for i, r := range c.Reviews {
		if r.UserID != "" && r.UserID == userID {
			return i
		}
	}
	return -1
}
