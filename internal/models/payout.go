package models

import "time"

// PayoutRecord is a confirmed withdrawal. Records are appended or removed, never edited.
type PayoutRecord struct {
	ID     string    `json:"id"`
	Amount float64   `json:"amount"`
	Date   time.Time `json:"date"`
}
