package model

import (
	"time"

	"delivery-service/src/internal/entity"
)

type CreditRequest struct {
	DriverID string                 `json:"-" validate:"required,uuid"`
	Amount   int64                  `json:"amount"`
	Notes    string                 `json:"notes" validate:"max=512"`
	Type     entity.TransactionType `json:"type,omitempty" validate:"omitempty,oneof=admin_add system"`
}

type DebitRequest struct {
	DriverID   string `json:"-" validate:"required,uuid"`
	Amount     int64  `json:"amount"`
	Notes      string `json:"notes" validate:"max=512"`
	DeliveryID string `json:"deliveryId,omitempty" validate:"omitempty,uuid"`
}

type BalanceRequest struct {
	DriverID string `json:"-" validate:"required,uuid"`
}

type TransactionResponse struct {
	ID              string                 `json:"id"`
	DriverID        string                 `json:"driverId"`
	Amount          int64                  `json:"amount"`
	TransactionType entity.TransactionType `json:"transactionType"`
	DeliveryID      *string                `json:"deliveryId,omitempty"`
	Notes           *string                `json:"notes,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
}

type LedgerEntryResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Balance     int64               `json:"balance"`
}

type BalanceResponse struct {
	DriverID     string                `json:"driverId"`
	Balance      int64                 `json:"balance"`
	Transactions []TransactionResponse `json:"transactions,omitempty"`
}

type LedgerAuditResponse struct {
	DriverID     string `json:"driverId"`
	LedgerSum    int64  `json:"ledgerSum"`
	CachedPoints int64  `json:"cachedPoints"`
	Consistent   bool   `json:"consistent"`
}
