package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidatePhone(t *testing.T) {
	good := []string{"+201234567890", "+14155550123", "+4930123456"}
	for _, p := range good {
		if err := ValidatePhone(p); err != nil {
			t.Fatalf("expected %q valid, got %v", p, err)
		}
	}
	bad := []string{"", "0123456789", "+0123", "+2 0123", "201234567890", "+20123456789012345"}
	for _, p := range bad {
		if err := ValidatePhone(p); err == nil {
			t.Fatalf("expected %q rejected", p)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		pw string
		ok bool
	}{
		{"Passw0rd", true},
		{"aVeryL0ngPassword", true},
		{"short1A", false},    // too short
		{"alllower1", false},  // no upper
		{"ALLUPPER1", false},  // no lower
		{"NoDigitsHere", false},
	}
	for i, tc := range cases {
		err := ValidatePassword(tc.pw)
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestRegistrationValidate(t *testing.T) {
	good := Registration{
		UserName:    "ammar",
		Email:       "ammar@example.com",
		PhoneNumber: "+201234567890",
		Password:    "Passw0rd",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Registration{
		{UserName: "", Email: "a@b.co", PhoneNumber: "+201234567890", Password: "Passw0rd"},
		{UserName: "x", Email: "not-an-email", PhoneNumber: "+201234567890", Password: "Passw0rd"},
		{UserName: "x", Email: "a@b.co", PhoneNumber: "01234", Password: "Passw0rd"},
		{UserName: "x", Email: "a@b.co", PhoneNumber: "+201234567890", Password: "weak"},
	}
	for i, r := range bads {
		if err := r.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestTransferRequestValidate(t *testing.T) {
	balance := decimal.NewFromInt(100)

	ok := TransferRequest{ReceiverPhone: "+201234567890", Amount: decimal.NewFromInt(50)}
	if err := ok.Validate(balance); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	over := TransferRequest{ReceiverPhone: "+201234567890", Amount: decimal.NewFromInt(150)}
	if err := over.Validate(balance); err != ErrInsufficientBalance {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	exact := TransferRequest{ReceiverPhone: "+201234567890", Amount: balance}
	if err := exact.Validate(balance); err != nil {
		t.Fatalf("amount equal to balance should pass, got %v", err)
	}

	zero := TransferRequest{ReceiverPhone: "+201234567890", Amount: decimal.Zero}
	if err := zero.Validate(balance); err != ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	badPhone := TransferRequest{ReceiverPhone: "12345", Amount: decimal.NewFromInt(1)}
	if err := badPhone.Validate(balance); err != ErrInvalidPhone {
		t.Fatalf("expected ErrInvalidPhone, got %v", err)
	}
}
