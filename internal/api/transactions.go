package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/ammaryasser21/Mini-instabay/internal/core"
)

// TransactionClient wraps the transaction service.
type TransactionClient struct {
	client
}

func NewTransactionClient(baseURL string) *TransactionClient {
	return &TransactionClient{client: newClient(baseURL)}
}

type transferRequest struct {
	ReceiverPhone string          `json:"receiverPhone"`
	Amount        decimal.Decimal `json:"amount"`
}

// Transfer submits a send-money request on behalf of the session user.
func (c *TransactionClient) Transfer(ctx context.Context, token string, req core.TransferRequest) (core.Transaction, error) {
	var out core.Transaction
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/transactions/transfer", token, transferRequest{
		ReceiverPhone: req.ReceiverPhone,
		Amount:        req.Amount,
	}, &out)
	if err != nil {
		return core.Transaction{}, err
	}
	return out, nil
}

// ListByUser returns the user's transactions, newest first as served.
func (c *TransactionClient) ListByUser(ctx context.Context, token, userID string) ([]core.Transaction, error) {
	var out []core.Transaction
	err := c.doJSON(ctx, http.MethodGet, "/api/v1/transactions/user/"+url.PathEscape(userID), token, nil, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}
