package enums

import "testing"

func TestParsePaymentMethod(t *testing.T) {
	method, err := ParsePaymentMethod("paypal")
	if err != nil || method != PaymentMethodPaypal {
		t.Fatalf("parse paypal: %v %v", method, err)
	}

	if _, err := ParsePaymentMethod("bitcoin"); err == nil {
		t.Fatalf("unknown method must not parse")
	}
	if _, err := ParsePaymentMethod(""); err == nil {
		t.Fatalf("empty method must not parse")
	}
}

func TestPaymentMethodIsValid(t *testing.T) {
	for _, m := range validPaymentMethods {
		if !m.IsValid() {
			t.Fatalf("%s should be valid", m)
		}
	}
	if PaymentMethod("cheque").IsValid() {
		t.Fatalf("cheque should not be valid")
	}
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("confirmed")
	if err != nil || status != OrderStatusConfirmed {
		t.Fatalf("parse confirmed: %v %v", status, err)
	}
	if _, err := ParseOrderStatus("shipped"); err == nil {
		t.Fatalf("unknown status must not parse")
	}
}

func TestCartIssueClientCorrectable(t *testing.T) {
	if CartIssueBackendFailure.IsClientCorrectable() {
		t.Fatalf("backend failure is not client correctable")
	}
	for _, issue := range []CartIssue{
		CartIssueMissingField,
		CartIssueDuplicateProduct,
		CartIssueInvalidQuantity,
		CartIssueProductNotFound,
		CartIssueInvalidPrice,
	} {
		if !issue.IsClientCorrectable() {
			t.Fatalf("%s should be client correctable", issue)
		}
	}
}
