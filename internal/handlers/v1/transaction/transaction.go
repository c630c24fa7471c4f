package transaction

import (
	"time"

	"github.com/carson-networks/budget-recurring/internal/service"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID                  string  `json:"id" doc:"Transaction UUID"`
	Type                string  `json:"type" enum:"income,expense" doc:"Direction of the transaction"`
	UserID              string  `json:"userID" doc:"Owner UUID"`
	CategoryID          string  `json:"categoryID" doc:"Category UUID"`
	Amount              string  `json:"amount" doc:"Decimal amount"`
	Description         string  `json:"description" doc:"Free text description"`
	TransactionDate     string  `json:"transactionDate" doc:"Calendar date, YYYY-MM-DD"`
	IsRecurring         bool    `json:"isRecurring" doc:"True on the anchor of an active series"`
	RecurrenceType      string  `json:"recurrenceType,omitempty" doc:"Cadence of the series this record anchors"`
	RecurrenceEndDate   *string `json:"recurrenceEndDate,omitempty" doc:"Inclusive last date of the series"`
	NextOccurrence      *string `json:"nextOccurrence,omitempty" doc:"Date of the next scheduled occurrence"`
	ParentTransactionID *string `json:"parentTransactionID,omitempty" doc:"Anchor UUID for generated occurrences"`
	Version             int64   `json:"version" doc:"Optimistic lock counter"`
	CreatedAt           string  `json:"createdAt" doc:"RFC3339 creation time"`
}

// FromService converts a service transaction into its API representation.
func FromService(tx service.Transaction) Transaction {
	out := Transaction{
		ID:                tx.ID.String(),
		Type:              string(tx.Type),
		UserID:            tx.UserID.String(),
		CategoryID:        tx.CategoryID.String(),
		Amount:            tx.Amount.StringFixed(2),
		Description:       tx.Description,
		TransactionDate:   tx.TransactionDate.Format(time.DateOnly),
		IsRecurring:       tx.IsRecurring,
		RecurrenceType:    string(tx.RecurrenceType),
		RecurrenceEndDate: formatDate(tx.RecurrenceEndDate),
		NextOccurrence:    formatDate(tx.NextOccurrence),
		Version:           tx.Version,
		CreatedAt:         tx.CreatedAt.Format(time.RFC3339),
	}
	if tx.ParentTransactionID != nil {
		parent := tx.ParentTransactionID.String()
		out.ParentTransactionID = &parent
	}
	return out
}

// FromServiceList converts a slice of service transactions.
func FromServiceList(txs []service.Transaction) []Transaction {
	out := make([]Transaction, len(txs))
	for i, tx := range txs {
		out[i] = FromService(tx)
	}
	return out
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}
