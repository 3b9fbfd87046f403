package models

import "time"

// ActivityAction names the mutation an ActivityLog reports.
type ActivityAction string

const (
	ActionTradeAdded    ActivityAction = "trade_added"
	ActionTradeUpdated  ActivityAction = "trade_updated"
	ActionTradeDeleted  ActivityAction = "trade_deleted"
	ActionPayoutCreated ActivityAction = "payout_created"
	ActionPayoutRemoved ActivityAction = "payout_removed"
	ActionImageAttached ActivityAction = "image_attached"
)

// ActivityLog is a UI notification emitted once per mutation.
type ActivityLog struct {
	ID      string         `json:"id"`
	Action  ActivityAction `json:"action"`
	Subject string         `json:"subject"`
	Message string         `json:"message"`
	At      time.Time      `json:"at"`
}
