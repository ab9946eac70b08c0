// Package invoice defines the invoice-email request model and its
// validation rules.
package invoice

import "encoding/json"

// Customer identifies the invoice recipient.
type Customer struct {
	Name           string `json:"name"`
	Identification string `json:"identification"`
	Email          string `json:"email"`
}

// Product is a single invoice line item. Total is caller-supplied and is
// never recomputed from price and quantity; the rendered document sums the
// totals as given.
type Product struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Total    float64 `json:"total"`
}

// EmailRequest is the unit of work submitted to the background dispatcher.
// It is immutable once constructed: created on HTTP receipt, consumed
// exactly once by a dispatch worker, then discarded.
type EmailRequest struct {
	Customer  Customer
	Products  []Product
	PDFBase64 string

	hasCustomer bool
	hasProducts bool
}

// NewEmailRequest builds an EmailRequest directly, marking both keys as
// present. Used by tests and any non-JSON ingress.
func NewEmailRequest(c Customer, products []Product, pdfBase64 string) *EmailRequest {
	return &EmailRequest{
		Customer:    c,
		Products:    products,
		PDFBase64:   pdfBase64,
		hasCustomer: true,
		hasProducts: true,
	}
}

// UnmarshalJSON decodes the wire payload, recording whether the customer and
// products keys were present so validation can distinguish a missing key
// from an empty value.
func (r *EmailRequest) UnmarshalJSON(data []byte) error {
	var wire struct {
		Customer  *Customer  `json:"customer"`
		Products  *[]Product `json:"products"`
		PDFBase64 string     `json:"pdfBase64"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	if wire.Customer != nil {
		r.Customer = *wire.Customer
		r.hasCustomer = true
	}
	if wire.Products != nil {
		r.Products = *wire.Products
		r.hasProducts = true
	}
	r.PDFBase64 = wire.PDFBase64
	return nil
}

// GrandTotal returns the sum of all product totals. This is the single
// source of truth for the amount shown to the customer.
func (r *EmailRequest) GrandTotal() float64 {
	var sum float64
	for _, p := range r.Products {
		sum += p.Total
	}
	return sum
}
