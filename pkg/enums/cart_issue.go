package enums

// CartIssue tags the defect classes strict cart validation can report.
// Control flow dispatches on this tag, never on error message text.
type CartIssue string

const (
	CartIssueMissingField     CartIssue = "missing_field"
	CartIssueDuplicateProduct CartIssue = "duplicate_product"
	CartIssueInvalidQuantity  CartIssue = "invalid_quantity"
	CartIssueProductNotFound  CartIssue = "product_not_found"
	CartIssueInvalidPrice     CartIssue = "invalid_price"
	CartIssueBackendFailure   CartIssue = "backend_failure"
)

// String implements fmt.Stringer.
func (c CartIssue) String() string {
	return string(c)
}

// IsClientCorrectable reports whether the issue can be fixed by the caller
// editing its cart, as opposed to an infrastructure fault.
func (c CartIssue) IsClientCorrectable() bool {
	return c != CartIssueBackendFailure
}
