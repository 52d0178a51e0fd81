package api

import "github.com/lodgebooks/autoledger/ledger"

// =============================================================================
// REQUEST / RESPONSE TYPES
// =============================================================================

// RunRequest triggers an engine run over explicit booking IDs.
type RunRequest struct {
	BookingIDs   []int64 `json:"bookingIds"`
	AccountantID string  `json:"accountantId,omitempty"`
}

// RunAllRequest triggers an engine run over every unprocessed booking.
type RunAllRequest struct {
	AccountantID string `json:"accountantId,omitempty"`
}

// RunResponse mirrors ledger.RunResult for JSON consumers.
type RunResponse struct {
	ExpensesCreated int      `json:"expensesCreated"`
	IncomesCreated  int      `json:"incomesCreated"`
	Errors          []string `json:"errors"`
}

func toRunResponse(r ledger.RunResult) RunResponse {
	errors := r.Errors
	if errors == nil {
		errors = []string{}
	}
	return RunResponse{
		ExpensesCreated: r.ExpensesCreated,
		IncomesCreated:  r.IncomesCreated,
		Errors:          errors,
	}
}

// ProcessedRequest asks which of the given IDs are already processed.
type ProcessedRequest struct {
	BookingIDs []int64 `json:"bookingIds"`
}

type ProcessedResponse struct {
	BookingIDs []int64 `json:"bookingIds"`
}

type UnprocessedCountResponse struct {
	Count int `json:"count"`
}

// RuleDTO is the read-only rule representation exposed by the API.
type RuleDTO struct {
	ID           string  `json:"id"`
	RuleType     string  `json:"ruleType"`
	ObjectID     string  `json:"objectId"`
	RoomID       *string `json:"roomId,omitempty"`
	Category     string  `json:"category"`
	Quantity     int     `json:"quantity"`
	AmountSource string  `json:"amountSource"`
	Amount       *string `json:"amount,omitempty"`
	Period       string  `json:"period"`
	Order        int     `json:"order"`
}

func toRuleDTO(r ledger.Rule) RuleDTO {
	dto := RuleDTO{
		ID:           r.ID,
		RuleType:     string(r.RuleType),
		ObjectID:     r.ObjectID,
		RoomID:       r.RoomID,
		Category:     r.Category,
		Quantity:     r.Quantity,
		AmountSource: string(r.AmountSource),
		Period:       string(r.Period),
		Order:        r.Order,
	}
	if r.Amount != nil {
		v := r.Amount.String()
		dto.Amount = &v
	}
	return dto
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
