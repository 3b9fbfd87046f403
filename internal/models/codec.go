package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeTrades parses a stored trade list.
// The payload may be double-encoded (a JSON string holding the array), in which
// case it is unwrapped once. Unknown fields are rejected, every trade is validated
// and ids must be unique.
func DecodeTrades(data []byte) ([]Trade, error) {
	data, err := unwrapPayload(data)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return []Trade{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var trades []Trade
	if err := dec.Decode(&trades); err != nil {
		return nil, fmt.Errorf("failed to decode trades: %w", err)
	}
	seen := make(map[string]struct{}, len(trades))
	for i := range trades {
		trades[i].Normalize()
		if err := trades[i].Validate(); err != nil {
			return nil, fmt.Errorf("trade at index %d: %w", i, err)
		}
		if _, dup := seen[trades[i].ID]; dup {
			return nil, fmt.Errorf("trade at index %d: %w: duplicate id %q", i, ErrInvalidTrade, trades[i].ID)
		}
		seen[trades[i].ID] = struct{}{}
	}
	if trades == nil {
		trades = []Trade{}
	}
	return trades, nil
}

// DecodePayouts parses a stored payout list using the same envelope rules as DecodeTrades.
func DecodePayouts(data []byte) ([]PayoutRecord, error) {
	data, err := unwrapPayload(data)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return []PayoutRecord{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var payouts []PayoutRecord
	if err := dec.Decode(&payouts); err != nil {
		return nil, fmt.Errorf("failed to decode payouts: %w", err)
	}
	if payouts == nil {
		payouts = []PayoutRecord{}
	}
	return payouts, nil
}

// unwrapPayload returns nil for an empty or null payload.
func unwrapPayload(data []byte) ([]byte, error) {
	data = bytes.TrimSpace(data)
	if isEmptyPayload(data) {
		return nil, nil
	}
	if data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return nil, fmt.Errorf("failed to unwrap encoded payload: %w", err)
		}
		data = bytes.TrimSpace([]byte(inner))
		if isEmptyPayload(data) {
			return nil, nil
		}
	}
	return data, nil
}

func isEmptyPayload(data []byte) bool {
	return len(data) == 0 || bytes.Equal(data, []byte("null"))
}
