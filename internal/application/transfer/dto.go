package transfer

import (
	"time"

	"github.com/sarafi/backend/internal/domain/transfer"
	"github.com/shopspring/decimal"
)

// PartyRequest describes one side of a transfer being created
type PartyRequest struct {
	Name      string  `json:"name" validate:"required,max=200"`
	Phone     string  `json:"phone" validate:"max=30"`
	AgentID   *uint64 `json:"agent_id,omitempty"`
	AccountID *uint64 `json:"account_id,omitempty"`
}

// CreateTransferRequest represents a request to create a hawala transfer
type CreateTransferRequest struct {
	Sender         PartyRequest    `json:"sender"`
	Receiver       PartyRequest    `json:"receiver"`
	Amount         decimal.Decimal `json:"amount" validate:"required"`
	CurrencyCode   string          `json:"currency_code" validate:"required,min=3,max=10"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	ActorID        uint64          `json:"actor_id" validate:"required"`
}

// PartyResponse describes one side of a transfer in API responses
type PartyResponse struct {
	Name      string  `json:"name"`
	Phone     string  `json:"phone,omitempty"`
	AgentID   *uint64 `json:"agent_id,omitempty"`
	AccountID *uint64 `json:"account_id,omitempty"`
}

// TransferResponse represents a transfer in API responses
type TransferResponse struct {
	ID               uint64          `json:"id"`
	ReferenceCode    string          `json:"reference_code"`
	Sender           PartyResponse   `json:"sender"`
	Receiver         PartyResponse   `json:"receiver"`
	CurrencyCode     string          `json:"currency_code"`
	Amount           decimal.Decimal `json:"amount"`
	CommissionRate   decimal.Decimal `json:"commission_rate"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	Status           string          `json:"status"`
	DebitEntryID     *uint64         `json:"debit_entry_id,omitempty"`
	CreditEntryID    *uint64         `json:"credit_entry_id,omitempty"`
	RefundEntryID    *uint64         `json:"refund_entry_id,omitempty"`
	CreatedByID      uint64          `json:"created_by_id"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
	CancelledAt      *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	Version          int             `json:"version"`
}

// ToTransferResponse converts a domain transfer to its response form
func ToTransferResponse(tr *transfer.Transfer) TransferResponse {
	return TransferResponse{
		ID:               tr.ID,
		ReferenceCode:    tr.ReferenceCode,
		Sender:           toPartyResponse(tr.Sender),
		Receiver:         toPartyResponse(tr.Receiver),
		CurrencyCode:     tr.CurrencyCode,
		Amount:           tr.Amount,
		CommissionRate:   tr.CommissionRate,
		CommissionAmount: tr.CommissionAmount,
		TotalAmount:      tr.TotalAmount,
		Status:           tr.Status.String(),
		DebitEntryID:     tr.DebitEntryID,
		CreditEntryID:    tr.CreditEntryID,
		RefundEntryID:    tr.RefundEntryID,
		CreatedByID:      tr.CreatedByID,
		CompletedAt:      tr.CompletedAt,
		CancelledAt:      tr.CancelledAt,
		CreatedAt:        tr.CreatedAt,
		Version:          tr.Version,
	}
}

func toPartyResponse(p transfer.Party) PartyResponse {
	return PartyResponse{
		Name:      p.Name,
		Phone:     p.Phone,
		AgentID:   p.AgentID,
		AccountID: p.AccountID,
	}
}

// ToTransferResponses converts a slice of transfers
func ToTransferResponses(transfers []transfer.Transfer) []TransferResponse {
	responses := make([]TransferResponse, len(transfers))
	for i := range transfers {
		responses[i] = ToTransferResponse(&transfers[i])
	}
	return responses
}
