package orders

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"
)

// ReceiptDateLayout is the fixed date format printed on receipts, always in UTC.
const ReceiptDateLayout = "02 Jan 2006 15:04 UTC"

const (
	storeName      = "Mandlimart"
	receiptFooter  = "Thank you for shopping with Mandlimart!"
	currencySymbol = "₹"
)

// RenderReceipt produces the plain text receipt. Output depends only on the order's snapshot
// fields, so fulfillment updates never change it.
func RenderReceipt(order OrderDTO) string {
	var b strings.Builder
	rule := strings.Repeat("-", 56)

	fmt.Fprintf(&b, "%s\nOrder Receipt\n%s\n", storeName, rule)
	fmt.Fprintf(&b, "Order ID: %s\n", order.ID)
	fmt.Fprintf(&b, "Date: %s\n", order.CreatedAt.UTC().Format(ReceiptDateLayout))
	fmt.Fprintf(&b, "Payment: %s\n%s\n", order.PaymentMethod.Label(), rule)

	fmt.Fprintf(&b, "%-24s %5s %12s %12s\n", "Item", "Qty", "Price", "Total")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "%-24s %5d %12s %12s\n",
			truncate(item.Name, 24), item.Quantity, money(item.Price), money(item.LineTotal()))
	}
	fmt.Fprintf(&b, "%s\n%-43s %12s\n%s\n", rule, "Grand Total:", currencySymbol+money(order.TotalPrice), rule)

	a := order.Address
	fmt.Fprintf(&b, "Shipping Address:\n%s\n%s\n%s\n%s, %s - %s\n%s\nPhone: %s\n",
		a.FullName, a.AddressLine, a.Street, a.City, a.State, a.Pincode, a.Country, a.Phone)
	fmt.Fprintf(&b, "%s\n%s\n", rule, receiptFooter)
	return b.String()
}

var receiptTemplate = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"money": money,
}).Parse(`<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: Arial, sans-serif; padding: 20px; color: #333; }
h1, h2 { text-align: center; color: #007bff; }
table { width: 100%; border-collapse: collapse; margin: 20px 0; }
th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
th { background-color: #007bff; color: white; }
tfoot td { font-weight: bold; font-size: 16px; }
.address { margin-top: 20px; font-size: 14px; line-height: 1.5; }
.footer { margin-top: 30px; font-size: 12px; color: #666; text-align: center; }
</style>
</head>
<body>
<h1>{{.Store}}</h1>
<h2>Order Receipt</h2>
<p><strong>Order ID:</strong> {{.Order.ID}}</p>
<p><strong>Date:</strong> {{.Date}}</p>
<p><strong>Payment:</strong> {{.Order.PaymentMethod.Label}}</p>
<table>
<thead><tr><th>Item</th><th>Qty</th><th>Price ({{.Currency}})</th><th>Total ({{.Currency}})</th></tr></thead>
<tbody>
{{- range .Order.Items}}
<tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{money .Price}}</td><td>{{money .LineTotal}}</td></tr>
{{- end}}
</tbody>
<tfoot><tr><td colspan="3" style="text-align:right;">Grand Total:</td><td>{{.Currency}}{{money .Order.TotalPrice}}</td></tr></tfoot>
</table>
<div class="address">
<strong>Shipping Address:</strong><br>
{{.Order.Address.FullName}}<br>
{{.Order.Address.AddressLine}}<br>
{{.Order.Address.Street}}<br>
{{.Order.Address.City}}, {{.Order.Address.State}} - {{.Order.Address.Pincode}}<br>
{{.Order.Address.Country}}<br>
Phone: {{.Order.Address.Phone}}
</div>
<div class="footer">{{.Footer}}</div>
</body>
</html>
`))

// RenderReceiptHTML produces the markup handed to an external document converter.
func RenderReceiptHTML(order OrderDTO) (string, error) {
	var buf bytes.Buffer
	err := receiptTemplate.Execute(&buf, struct {
		Store    string
		Order    OrderDTO
		Date     string
		Currency string
		Footer   string
	}{
		Store:    storeName,
		Order:    order,
		Date:     order.CreatedAt.UTC().Format(ReceiptDateLayout),
		Currency: currencySymbol,
		Footer:   receiptFooter,
	})
	if err != nil {
		return "", fmt.Errorf("render receipt: %w", err)
	}
	return buf.String(), nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
