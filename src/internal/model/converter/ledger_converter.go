package converter

import (
	"delivery-service/src/internal/entity"
	"delivery-service/src/internal/model"
)

func TransactionToResponse(tx *entity.PointTransaction) *model.TransactionResponse {
	return &model.TransactionResponse{
		ID:              tx.ID,
		DriverID:        tx.DriverID,
		Amount:          tx.Amount,
		TransactionType: tx.TransactionType,
		DeliveryID:      nullString(tx.DeliveryID),
		Notes:           nullString(tx.Notes),
		CreatedAt:       tx.CreatedAt,
	}
}

func TransactionsToResponse(txs []entity.PointTransaction) []model.TransactionResponse {
	res := make([]model.TransactionResponse, 0, len(txs))
	for i := range txs {
		res = append(res, *TransactionToResponse(&txs[i]))
	}
	return res
}

func TransactionToEvent(tx *entity.PointTransaction, balance int64) *model.PointsEvent {
	return &model.PointsEvent{
		Type:            model.EventPointsAppended,
		DriverID:        tx.DriverID,
		TransactionID:   tx.ID,
		Amount:          tx.Amount,
		TransactionType: tx.TransactionType,
		DeliveryID:      nullString(tx.DeliveryID),
		Balance:         balance,
		OccurredAt:      tx.CreatedAt,
	}
}
