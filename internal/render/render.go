// Package render turns a validated invoice request into the HTML email
// document sent to the customer. Rendering is pure: identical input produces
// identical output except for the copyright year stamp.
package render

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/es_CO"

	"github.com/sungwon/invoice-notifier/internal/invoice"
)

// translator formats currency amounts with es-CO grouping: thousands
// separated with dots, exactly two fraction digits.
var translator locales.Translator = es_CO.New()

// FormatAmount renders a monetary amount with locale grouping and a leading
// currency sign, e.g. 80000 -> "$80.000,00".
func FormatAmount(v float64) string {
	return "$" + translator.FmtNumber(v, 2)
}

// Subject returns the subject line for an invoice email.
func Subject(c invoice.Customer) string {
	return fmt.Sprintf("Factura Electrónica - %s", c.Name)
}

type productRow struct {
	Name     string
	Price    string
	Quantity int
	Total    string
}

type emailData struct {
	Name           string
	Identification string
	Email          string
	Products       []productRow
	GrandTotal     string
	HasAttachment  bool
	Year           int
}

// HTML renders the invoice email document. Product rows appear in input
// order; the displayed grand total is the sum of the caller-supplied product
// totals. All customer and product text passes through html/template
// escaping, so untrusted content is never interpreted as markup.
func HTML(c invoice.Customer, products []invoice.Product, hasAttachment bool) (string, error) {
	data := emailData{
		Name:           c.Name,
		Identification: c.Identification,
		Email:          c.Email,
		Products:       make([]productRow, 0, len(products)),
		HasAttachment:  hasAttachment,
		Year:           time.Now().Year(),
	}

	var grand float64
	for _, p := range products {
		grand += p.Total
		data.Products = append(data.Products, productRow{
			Name:     p.Name,
			Price:    FormatAmount(p.Price),
			Quantity: p.Quantity,
			Total:    FormatAmount(p.Total),
		})
	}
	data.GrandTotal = FormatAmount(grand)

	var buf strings.Builder
	if err := emailTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute invoice template: %w", err)
	}
	return buf.String(), nil
}

var emailTemplate = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Factura Electrónica</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
<div style="background-color: #3498db; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0;">
<h1 style="margin: 0;">Factura Electrónica</h1>
</div>
<div style="background-color: #f9f9f9; padding: 20px; border: 1px solid #ddd; border-top: none;">
<h2 style="color: #3498db; margin-top: 0;">Estimado/a {{.Name}},</h2>
<p>Gracias por su compra. A continuación encontrará el detalle de su factura:</p>
<div style="margin: 20px 0;">
<h3 style="color: #2c3e50;">Datos del Cliente:</h3>
<p style="margin: 5px 0;"><strong>Nombre:</strong> {{.Name}}</p>
<p style="margin: 5px 0;"><strong>Identificación:</strong> {{.Identification}}</p>
<p style="margin: 5px 0;"><strong>Email:</strong> {{.Email}}</p>
</div>
<h3 style="color: #2c3e50;">Detalle de Productos:</h3>
<table style="width: 100%; border-collapse: collapse; margin: 15px 0;">
<thead>
<tr style="background-color: #3498db; color: white;">
<th style="padding: 12px; border: 1px solid #ddd; text-align: left;">Producto</th>
<th style="padding: 12px; border: 1px solid #ddd; text-align: right;">Precio Unit.</th>
<th style="padding: 12px; border: 1px solid #ddd; text-align: center;">Cantidad</th>
<th style="padding: 12px; border: 1px solid #ddd; text-align: right;">Total</th>
</tr>
</thead>
<tbody>
{{- range .Products}}
<tr>
<td style="padding: 12px; border: 1px solid #ddd;">{{.Name}}</td>
<td style="padding: 12px; border: 1px solid #ddd; text-align: right;">{{.Price}}</td>
<td style="padding: 12px; border: 1px solid #ddd; text-align: center;">{{.Quantity}}</td>
<td style="padding: 12px; border: 1px solid #ddd; text-align: right;">{{.Total}}</td>
</tr>
{{- end}}
</tbody>
<tfoot>
<tr style="background-color: #ecf0f1; font-weight: bold;">
<td colspan="3" style="padding: 12px; border: 1px solid #ddd; text-align: right;">TOTAL:</td>
<td style="padding: 12px; border: 1px solid #ddd; text-align: right; color: #2c3e50; font-size: 1.2em;">{{.GrandTotal}}</td>
</tr>
</tfoot>
</table>
{{- if .HasAttachment}}
<div style="margin-top: 30px; padding: 15px; background-color: #e8f4f8; border-left: 4px solid #3498db;">
<p style="margin: 0;"><strong>Nota:</strong> Encontrará adjunto el PDF de su factura para sus registros.</p>
</div>
{{- end}}
<p style="margin-top: 30px; text-align: center; color: #7f8c8d; font-size: 0.9em;">
Gracias por confiar en nosotros.<br>
<em>Este es un email automático, por favor no responder.</em>
</p>
</div>
<div style="background-color: #2c3e50; color: white; padding: 15px; text-align: center; border-radius: 0 0 5px 5px; font-size: 0.8em;">
<p style="margin: 0;">© {{.Year}} Sistema de Facturación Electrónica</p>
</div>
</body>
</html>
`))
