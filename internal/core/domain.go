package core

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Send    TxType = "Send"
	Receive TxType = "Receive"
)

type (
	TxType string

	// User is the profile returned by the user service. The client keeps a
	// snapshot of it in the session after login and treats it as read-only.
	User struct {
		ID          string          `json:"id"`
		UserName    string          `json:"userName"`
		Email       string          `json:"email"`
		PhoneNumber string          `json:"phoneNumber"`
		Balance     decimal.Decimal `json:"balance"`
		CreatedAt   time.Time       `json:"createdAt"`
	}

	// Transaction is owned by the transaction service; the client only
	// reads and displays it.
	Transaction struct {
		ID         string          `json:"id"`
		SenderID   string          `json:"senderId"`
		ReceiverID string          `json:"receiverId"`
		Amount     decimal.Decimal `json:"amount"`
		Type       TxType          `json:"type"`
		CreatedAt  time.Time       `json:"createdAt"`
	}

	// Summary holds the aggregated totals served by the reporting service.
	Summary struct {
		TotalSent    decimal.Decimal `json:"totalSent"`
		TotalReceive decimal.Decimal `json:"totalReceive"`
	}

	// TransferRequest is the send-money form after parsing, validated
	// against the session user's cached balance before it leaves the client.
	TransferRequest struct {
		ReceiverPhone string
		Amount        decimal.Decimal
	}
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidPhone        = errors.New("invalid phone number")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrWeakPassword        = errors.New("password does not meet requirements")
	ErrEmptyUserName       = errors.New("empty user name")
)

// Validate checks the transfer against the cached balance. The transaction
// service re-checks on its side; this is the inline form feedback.
func (t TransferRequest) Validate(balance decimal.Decimal) error {
	if err := ValidatePhone(t.ReceiverPhone); err != nil {
		return err
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if t.Amount.GreaterThan(balance) {
		return ErrInsufficientBalance
	}
	return nil
}
