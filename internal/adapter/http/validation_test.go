package http

import (
	"errors"
	"strings"
	"testing"
)

func TestHex32Validation(t *testing.T) {
	type P struct {
		ConsumerID string `json:"consumer_id" validate:"hex32"`
	}
	cv := NewValidator()

	ok := P{ConsumerID: strings.Repeat("a", 32)}
	if err := cv.Validate(ok); err != nil {
		t.Fatalf("expected valid hex32, got err: %v", err)
	}

	for _, s := range []string{
		"",
		strings.Repeat("A", 32),
		"deadbeef",
		strings.Repeat("g", 32),
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c8",
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c88x",
	} {
		err := cv.Validate(P{ConsumerID: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		if !containsFieldMsg(ToFieldErrors(err), "consumer_id", "32-char lowercase hex") {
			t.Fatalf("expected hex32 message for %q, got: %+v", s, ToFieldErrors(err))
		}
	}
}

func TestEnumValidation(t *testing.T) {
	type P struct {
		LoanType string `json:"loan_type" validate:"loantype"`
		Status   string `json:"status"    validate:"paystatus"`
	}
	cv := NewValidator()

	for _, lt := range []string{"Personal", "Home", "Auto", "Education", "Credit Card", "Business", "Other"} {
		if err := cv.Validate(P{LoanType: lt, Status: "Paid"}); err != nil {
			t.Fatalf("loan type %q rejected: %v", lt, err)
		}
	}
	for _, st := range []string{"Outstanding", "Paid", "Late", "Defaulted"} {
		if err := cv.Validate(P{LoanType: "Home", Status: st}); err != nil {
			t.Fatalf("status %q rejected: %v", st, err)
		}
	}

	err := cv.Validate(P{LoanType: "home", Status: "Settled"})
	if err == nil {
		t.Fatal("expected enum errors")
	}
	fe := ToFieldErrors(err)
	if !containsFieldMsg(fe, "loan_type", "Credit Card") {
		t.Fatalf("loan_type message should list the allowed values: %+v", fe)
	}
	if !containsFieldMsg(fe, "status", "Defaulted") {
		t.Fatalf("status message should list the allowed values: %+v", fe)
	}
}

func TestDec2Validation(t *testing.T) {
	type P struct {
		Amount float64 `json:"amount" validate:"dec2"`
	}
	cv := NewValidator()

	for _, v := range []float64{1.29, 2.00, 0.9, 1500} {
		if err := cv.Validate(P{Amount: v}); err != nil {
			t.Fatalf("expected dec2 OK for %v, got %v", v, err)
		}
	}
	for _, v := range []float64{1.234, 2.9999} {
		err := cv.Validate(P{Amount: v})
		if err == nil {
			t.Fatalf("expected dec2 error for %v", v)
		}
		if !containsFieldMsg(ToFieldErrors(err), "amount", "at most 2 decimal places") {
			t.Fatalf("expected 'at most 2 decimal places' for %v, got %+v", v, ToFieldErrors(err))
		}
	}
}

func TestRequiredAndBoundsMapping(t *testing.T) {
	type P struct {
		Name   string  `json:"name"     validate:"required"`
		Amount float64 `json:"amount"   validate:"gt=0"`
		Paid   float64 `json:"paid"     validate:"gte=0"`
		Cap    float64 `json:"cap"      validate:"lt=100"`
		Due    string  `json:"due_date" validate:"datetime=2006-01-02"`
		Role   string  `json:"role"     validate:"oneof=consumer lender"`
	}
	cv := NewValidator()

	err := cv.Validate(P{Name: "", Amount: 0, Paid: -1, Cap: 100, Due: "2025/09/06", Role: "admin"})
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	fe := ToFieldErrors(err)

	checks := []struct{ field, msg string }{
		{"name", "is required"},
		{"amount", "greater than 0"},
		{"paid", "greater than or equal to 0"},
		{"cap", "less than 100"},
		{"due_date", "2006-01-02"},
		{"role", "consumer lender"},
	}
	for _, ck := range checks {
		if !containsFieldMsg(fe, ck.field, ck.msg) {
			t.Fatalf("missing %q for %s: %+v", ck.msg, ck.field, fe)
		}
	}
}

func TestToFieldErrors_NonValidation(t *testing.T) {
	err := errors.New("boom")
	fe := ToFieldErrors(err)
	if len(fe) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(fe))
	}
	if fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected mapping: %+v", fe[0])
	}
}
