package checkout

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/oakmont/storefront/pkg/enums"
)

var (
	postalCodeRe = regexp.MustCompile(`^\d{4,6}$`)
	cardNumberRe = regexp.MustCompile(`^\d{16}$`)
	cardExpiryRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cardCVVRe    = regexp.MustCompile(`^\d{3}$`)
	digitRe      = regexp.MustCompile(`\d`)
)

var formValidate = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New()
	must(v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}))
	must(v.RegisterValidation("phonedigits", func(fl validator.FieldLevel) bool {
		return len(digitRe.FindAllString(fl.Field().String(), -1)) >= 10
	}))
	must(v.RegisterValidation("postalcode", func(fl validator.FieldLevel) bool {
		return postalCodeRe.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("cardnumber", func(fl validator.FieldLevel) bool {
		stripped := strings.ReplaceAll(fl.Field().String(), " ", "")
		return cardNumberRe.MatchString(stripped)
	}))
	must(v.RegisterValidation("cardexpiry", func(fl validator.FieldLevel) bool {
		return cardExpiryRe.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("cardcvv", func(fl validator.FieldLevel) bool {
		return cardCVVRe.MatchString(fl.Field().String())
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// form mirrors the customer/payment fields of an order request. Tags encode
// the field-level rules; violations are collected, never fail-fast.
type form struct {
	CustomerName  string `validate:"required,min=3"`
	Email         string `validate:"required,email"`
	Phone         string `validate:"omitempty,phonedigits"`
	Address       string `validate:"omitempty,notblank"`
	City          string `validate:"omitempty,notblank"`
	PostalCode    string `validate:"omitempty,postalcode"`
	PaymentMethod string `validate:"omitempty,oneof=card paypal bank"`
	CardName      string `validate:"required_if=PaymentMethod card,omitempty,notblank"`
	CardNumber    string `validate:"required_if=PaymentMethod card,omitempty,cardnumber"`
	CardExpiry    string `validate:"required_if=PaymentMethod card,omitempty,cardexpiry"`
	CardCVV       string `validate:"required_if=PaymentMethod card,omitempty,cardcvv"`
}

// validateForm returns one message per violated rule, empty when the form is
// acceptable.
func validateForm(input Input) []string {
	f := form{
		CustomerName:  input.CustomerName,
		Email:         input.Email,
		Phone:         input.Phone,
		Address:       input.Address,
		City:          input.City,
		PostalCode:    input.PostalCode,
		PaymentMethod: input.PaymentMethod,
		CardName:      input.CardName,
		CardNumber:    input.CardNumber,
		CardExpiry:    input.CardExpiry,
		CardCVV:       input.CardCVV,
	}
	// Card details only matter when paying by card. A stale card number left
	// in the payload must not reject a paypal or bank order.
	if f.PaymentMethod != enums.PaymentMethodCard.String() {
		f.CardName, f.CardNumber, f.CardExpiry, f.CardCVV = "", "", "", ""
	}
	err := formValidate.Struct(f)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{"invalid order form"}
	}

	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		messages = append(messages, formMessage(fe))
	}
	return messages
}

func formMessage(fe validator.FieldError) string {
	switch fe.StructField() {
	case "CustomerName":
		return "name must be at least 3 characters"
	case "Email":
		return "a valid email address is required"
	case "Phone":
		return "phone number must contain at least 10 digits"
	case "Address":
		return "address cannot be empty"
	case "City":
		return "city cannot be empty"
	case "PostalCode":
		return "postal code must be 4 to 6 digits"
	case "PaymentMethod":
		return "payment method must be card, paypal or bank"
	case "CardName":
		return "cardholder name is required"
	case "CardNumber":
		return "card number must be 16 digits"
	case "CardExpiry":
		return "card expiry must be in MM/YY format"
	case "CardCVV":
		return "card security code must be 3 digits"
	}
	return fe.StructField() + " is invalid"
}
