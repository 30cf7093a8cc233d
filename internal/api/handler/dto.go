package handler

// CreateAccountRequest represents a request to create a new account
type CreateAccountRequest struct {
	OwnerName      string `json:"owner_name" binding:"required"`
	PhoneNumber    string `json:"phone_number" binding:"required"`
	InitialBalance string `json:"initial_balance,omitempty"`
}

// SetLocalStandRequest assigns a participant's usual compost stand
type SetLocalStandRequest struct {
	StandID int32 `json:"stand_id" binding:"required"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID           string `json:"id"`
	OwnerName    string `json:"owner_name"`
	PhoneNumber  string `json:"phone_number"`
	Balance      string `json:"balance"`
	LocalStandID *int32 `json:"local_stand_id,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// CreateStandRequest represents a request to register a compost stand
type CreateStandRequest struct {
	ID   int32  `json:"id" binding:"required"`
	Name string `json:"name" binding:"required"`
}

// AddStandAdminRequest grants an account admin status on a stand
type AddStandAdminRequest struct {
	AccountID string `json:"account_id" binding:"required,uuid"`
}

// StandResponse represents a compost stand in API responses
type StandResponse struct {
	ID        int32    `json:"id"`
	Name      string   `json:"name"`
	AdminIDs  []string `json:"admin_ids"`
	CreatedAt string   `json:"created_at"`
}

// CreateTransferRequest represents a balance movement request
type CreateTransferRequest struct {
	SourceAccountID      string `json:"source_account_id,omitempty"`
	DestinationAccountID string `json:"destination_account_id" binding:"required,uuid"`
	Amount               string `json:"amount" binding:"required"`
	Category             string `json:"category" binding:"required"`
	Reason               string `json:"reason,omitempty"`
}

// CreatePaymentRequestRequest proposes a transfer that the payer must resolve
type CreatePaymentRequestRequest struct {
	PayerAccountID string `json:"payer_account_id" binding:"required,uuid"`
	PayeeAccountID string `json:"payee_account_id" binding:"required,uuid"`
	Amount         string `json:"amount" binding:"required"`
	Reason         string `json:"reason,omitempty"`
}

// ResolveRequestRequest accepts or rejects a pending payment request
type ResolveRequestRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

// QualityObservationRequest carries the optional deposit condition flags
type QualityObservationRequest struct {
	DryMatter     string `json:"dry_matter,omitempty" binding:"omitempty,oneof=yes some no"`
	Notes         string `json:"notes,omitempty"`
	Bugs          *bool  `json:"bugs,omitempty"`
	ScalesProblem *bool  `json:"scales_problem,omitempty"`
	Full          *bool  `json:"full,omitempty"`
	CleanAndTidy  *bool  `json:"clean_and_tidy,omitempty"`
	CompostSmell  *bool  `json:"compost_smell,omitempty"`
}

// CreateDepositRequest records a physical compost deposit
type CreateDepositRequest struct {
	DepositorID string                     `json:"depositor_id" binding:"required,uuid"`
	StandID     int32                      `json:"stand_id" binding:"required"`
	WeightKg    string                     `json:"weight_kg" binding:"required"`
	Quality     *QualityObservationRequest `json:"quality,omitempty"`
}

// TransactionResponse represents a ledger transaction in API responses
type TransactionResponse struct {
	ID                   string  `json:"id"`
	Category             string  `json:"category"`
	Amount               string  `json:"amount"`
	SourceAccountID      *string `json:"source_account_id,omitempty"`
	DestinationAccountID string  `json:"destination_account_id"`
	Reason               string  `json:"reason,omitempty"`
	Pending              bool    `json:"pending"`
	CreatedAt            string  `json:"created_at"`
}

// DepositReportResponse represents a stored deposit report
type DepositReportResponse struct {
	ID          string                    `json:"id"`
	StandID     int32                     `json:"stand_id"`
	DepositorID string                    `json:"depositor_id"`
	WeightKg    string                    `json:"weight_kg"`
	Quality     QualityObservationRequest `json:"quality"`
	CreatedAt   string                    `json:"created_at"`
}

// DepositResponse bundles the stored report with the credits it produced
type DepositResponse struct {
	Report       DepositReportResponse `json:"report"`
	Transactions []TransactionResponse `json:"transactions"`
}

// DailyStatResponse represents one per-category daily aggregate
type DailyStatResponse struct {
	Day      string `json:"day"`
	Category string `json:"category"`
	Total    string `json:"total"`
	Count    int64  `json:"count"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}
