package pdf

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/storage"
)

// InvoiceLine is one billed line on an invoice.
type InvoiceLine struct {
	Name           string
	Quantity       int
	UnitPriceCents int64
}

// InvoiceData is everything the invoice template needs.
type InvoiceData struct {
	OrderNumber   string
	CustomerEmail string
	Lines         []InvoiceLine
	SubtotalCents int64
	ShippingCents int64
	TotalCents    int64
	IssuedAt      time.Time
}

// InvoiceNumber derives the invoice number from the order number.
func InvoiceNumber(orderNumber string) string {
	return "INV-" + orderNumber
}

var invoiceTemplate = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"rands": func(cents int64) string {
		return fmt.Sprintf("R%d.%02d", cents/100, cents%100)
	},
	"lineTotal": func(l InvoiceLine) int64 {
		return l.UnitPriceCents * int64(l.Quantity)
	},
}).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><style>
body { font-family: sans-serif; color: #222; }
table { width: 100%; border-collapse: collapse; margin-top: 24px; }
th, td { text-align: left; padding: 6px 8px; border-bottom: 1px solid #ddd; }
td.amount, th.amount { text-align: right; }
.totals td { border: none; }
</style></head>
<body>
  <h1>Invoice {{.InvoiceNumber}}</h1>
  <p>Order {{.Data.OrderNumber}}<br>
     {{.Data.CustomerEmail}}<br>
     {{.Data.IssuedAt.Format "2 January 2006"}}</p>
  <table>
    <tr><th>Item</th><th class="amount">Qty</th><th class="amount">Unit</th><th class="amount">Total</th></tr>
    {{range .Data.Lines}}
    <tr><td>{{.Name}}</td><td class="amount">{{.Quantity}}</td><td class="amount">{{rands .UnitPriceCents}}</td><td class="amount">{{rands (lineTotal .)}}</td></tr>
    {{end}}
    <tr class="totals"><td colspan="3" class="amount">Subtotal</td><td class="amount">{{rands .Data.SubtotalCents}}</td></tr>
    <tr class="totals"><td colspan="3" class="amount">Shipping</td><td class="amount">{{rands .Data.ShippingCents}}</td></tr>
    <tr class="totals"><td colspan="3" class="amount"><strong>Total</strong></td><td class="amount"><strong>{{rands .Data.TotalCents}}</strong></td></tr>
  </table>
</body>
</html>`))

// InvoiceGenerator renders invoices and stores the PDFs.
type InvoiceGenerator struct {
	client *GotenbergClient
	store  storage.ObjectStore
	bucket string
}

// NewInvoiceGenerator creates the invoice generator.
func NewInvoiceGenerator(client *GotenbergClient, store storage.ObjectStore, bucket string) *InvoiceGenerator {
	return &InvoiceGenerator{client: client, store: store, bucket: bucket}
}

// Generate renders the invoice, stores the PDF, and returns the invoice
// number and the stored file key.
func (g *InvoiceGenerator) Generate(ctx context.Context, data InvoiceData) (string, string, error) {
	invoiceNumber := InvoiceNumber(data.OrderNumber)

	var buf bytes.Buffer
	err := invoiceTemplate.Execute(&buf, struct {
		InvoiceNumber string
		Data          InvoiceData
	}{InvoiceNumber: invoiceNumber, Data: data})
	if err != nil {
		return "", "", fmt.Errorf("render invoice: %w", err)
	}

	pdfBytes, err := g.client.ConvertHTML(ctx, buf.Bytes(), InvoiceOpts())
	if err != nil {
		return "", "", err
	}

	fileKey := fmt.Sprintf("%s/%s.pdf", data.OrderNumber, invoiceNumber)
	if err := g.store.UploadFile(ctx, g.bucket, fileKey, "application/pdf", bytes.NewReader(pdfBytes), int64(len(pdfBytes))); err != nil {
		return "", "", err
	}

	return invoiceNumber, fileKey, nil
}
