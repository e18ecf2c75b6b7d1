package amqp

import (
	"encoding/json"
	"time"
)

// TransactionRecordedMessage notifies downstream consumers that a ledger
// entry was written. Carries only the id and the amount; consumers fetch
// the full row if they need it.
type TransactionRecordedMessage struct {
	ID          int64     `json:"id"`
	Kind        string    `json:"kind"`
	AmountCents int64     `json:"amount_cents"`
	Timestamp   time.Time `json:"timestamp"`
}

// GoalBalanceAdjustedMessage notifies consumers that a goal allocation or
// withdrawal was applied.
type GoalBalanceAdjustedMessage struct {
	GoalID     int64     `json:"goal_id"`
	DeltaCents int64     `json:"delta_cents"`
	Timestamp  time.Time `json:"timestamp"`
}

func (m *TransactionRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func (m *GoalBalanceAdjustedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionRecordedMessageFromJSON(data []byte) (*TransactionRecordedMessage, error) {
	var msg TransactionRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func GoalBalanceAdjustedMessageFromJSON(data []byte) (*GoalBalanceAdjustedMessage, error) {
	var msg GoalBalanceAdjustedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
