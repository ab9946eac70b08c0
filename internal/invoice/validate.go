package invoice

import (
	"regexp"
	"strings"
)

// Validation rule codes, stable identifiers for logging and metrics.
const (
	CodeMissingFields      = "missing_fields"
	CodeIncompleteCustomer = "incomplete_customer"
	CodeInvalidEmail       = "invalid_email"
	CodeEmptyProducts      = "empty_products"
	CodeInvalidProduct     = "invalid_product"
)

// emailPattern is the conventional address shape checked at every trust
// boundary that accepts an email address. Kept dependency-free so other
// boundaries can reuse it without importing anything beyond this package.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// ValidEmail reports whether the address matches the conventional pattern.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidationError names the first violated rule of a request. Title and
// Message carry the user-facing text returned to the HTTP caller; Code is
// the machine-readable rule identifier.
type ValidationError struct {
	Code    string
	Title   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Code + ": " + e.Message
}

// Validate checks an EmailRequest against the acceptance rules, in order,
// returning the first violated rule. No error aggregation is performed and
// no partial processing occurs on failure.
func Validate(r *EmailRequest) *ValidationError {
	if !r.hasCustomer || !r.hasProducts {
		return &ValidationError{
			Code:    CodeMissingFields,
			Title:   "Datos incompletos",
			Message: "Se requieren customer y products",
		}
	}

	c := r.Customer
	if strings.TrimSpace(c.Name) == "" ||
		strings.TrimSpace(c.Identification) == "" ||
		strings.TrimSpace(c.Email) == "" {
		return &ValidationError{
			Code:    CodeIncompleteCustomer,
			Title:   "Datos del cliente incompletos",
			Message: "Se requieren name, identification y email",
		}
	}

	if !ValidEmail(c.Email) {
		return &ValidationError{
			Code:    CodeInvalidEmail,
			Title:   "Email inválido",
			Message: "El formato del email no es válido",
		}
	}

	if len(r.Products) == 0 {
		return &ValidationError{
			Code:    CodeEmptyProducts,
			Title:   "Productos inválidos",
			Message: "Debe incluir al menos un producto",
		}
	}

	for _, p := range r.Products {
		if p.Total < 0 || p.Price < 0 || p.Quantity < 1 {
			return &ValidationError{
				Code:    CodeInvalidProduct,
				Title:   "Productos inválidos",
				Message: "Cada producto debe tener precio y total no negativos y cantidad mínima de 1",
			}
		}
	}

	return nil
}
