package render

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sungwon/invoice-notifier/internal/invoice"
)

var testCustomer = invoice.Customer{
	Name:           "Ana Ruiz",
	Identification: "123",
	Email:          "ana@test.com",
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2000, "$2.000,00"},
		{80000, "$80.000,00"},
		{0, "$0,00"},
		{1234567.5, "$1.234.567,50"},
		{999, "$999,00"},
	}

	for _, tt := range tests {
		if got := FormatAmount(tt.in); got != tt.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSubject(t *testing.T) {
	got := Subject(testCustomer)
	want := "Factura Electrónica - Ana Ruiz"
	if got != want {
		t.Errorf("Subject() = %q, want %q", got, want)
	}
}

func TestHTML_GrandTotalIsSumOfProductTotals(t *testing.T) {
	products := []invoice.Product{
		{Name: "A", Price: 1, Quantity: 1, Total: 50000},
		{Name: "B", Price: 1, Quantity: 1, Total: 30000},
	}

	html, err := HTML(testCustomer, products, false)
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}

	// The grand total is the sum of the caller-supplied totals, not a
	// recomputation from price and quantity.
	if !strings.Contains(html, "$80.000,00") {
		t.Error("expected grand total $80.000,00 in rendered document")
	}
}

func TestHTML_OneRowPerProductInOrder(t *testing.T) {
	products := []invoice.Product{
		{Name: "Primero", Price: 100, Quantity: 1, Total: 100},
		{Name: "Segundo", Price: 200, Quantity: 2, Total: 400},
		{Name: "Tercero", Price: 300, Quantity: 3, Total: 900},
	}

	html, err := HTML(testCustomer, products, false)
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}

	first := strings.Index(html, "Primero")
	second := strings.Index(html, "Segundo")
	third := strings.Index(html, "Tercero")
	if first < 0 || second < 0 || third < 0 {
		t.Fatal("expected all product names in rendered document")
	}
	if !(first < second && second < third) {
		t.Error("expected product rows in input order")
	}

	if got := strings.Count(html, "<tr>"); got != 3 {
		t.Errorf("expected 3 product rows, got %d", got)
	}
}

func TestHTML_EscapesUntrustedContent(t *testing.T) {
	c := invoice.Customer{
		Name:           `<script>alert("x")</script>`,
		Identification: "123",
		Email:          "a@b.co",
	}
	products := []invoice.Product{
		{Name: `<img src=x onerror=alert(1)>`, Price: 1, Quantity: 1, Total: 1},
	}

	html, err := HTML(c, products, false)
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}

	if strings.Contains(html, "<script>") {
		t.Error("customer name was interpolated without escaping")
	}
	if strings.Contains(html, "<img src=x") {
		t.Error("product name was interpolated without escaping")
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Error("expected escaped script tag in output")
	}
}

func TestHTML_AttachmentNote(t *testing.T) {
	products := []invoice.Product{{Name: "W", Price: 1, Quantity: 1, Total: 1}}

	with, err := HTML(testCustomer, products, true)
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	without, err := HTML(testCustomer, products, false)
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}

	note := "Encontrará adjunto el PDF"
	if !strings.Contains(with, note) {
		t.Error("expected attachment note when a PDF is attached")
	}
	if strings.Contains(without, note) {
		t.Error("did not expect attachment note without a PDF")
	}
}

func TestHTML_Deterministic(t *testing.T) {
	products := []invoice.Product{{Name: "Widget", Price: 1000, Quantity: 2, Total: 2000}}

	a, err := HTML(testCustomer, products, false)
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	b, err := HTML(testCustomer, products, false)
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}

	if a != b {
		t.Error("expected identical output for identical input")
	}
}

func TestHTML_YearStamp(t *testing.T) {
	products := []invoice.Product{{Name: "W", Price: 1, Quantity: 1, Total: 1}}

	html, err := HTML(testCustomer, products, false)
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}

	stamp := fmt.Sprintf("© %d", time.Now().Year())
	if !strings.Contains(html, stamp) {
		t.Errorf("expected copyright stamp %q in output", stamp)
	}
}

func TestHTML_CustomerBlock(t *testing.T) {
	products := []invoice.Product{{Name: "Widget", Price: 1000, Quantity: 2, Total: 2000}}

	html, err := HTML(testCustomer, products, false)
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}

	for _, want := range []string{"Ana Ruiz", "123", "ana@test.com", "Estimado/a"} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in rendered document", want)
		}
	}
}
