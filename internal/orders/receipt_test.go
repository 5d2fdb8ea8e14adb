package orders

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mandlimart/mandlimart-backend/pkg/enums"
	"github.com/mandlimart/mandlimart-backend/pkg/types"
)

func sampleOrder() OrderDTO {
	items := types.OrderItemSnapshots{
		{ItemID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Name: "Basmati Rice", Price: decimal.RequireFromString("50"), Quantity: 2},
		{ItemID: uuid.MustParse("22222222-2222-2222-2222-222222222222"), Name: "Toor Dal <1kg>", Price: decimal.RequireFromString("20"), Quantity: 1},
	}
	return OrderDTO{
		ID:            uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"),
		Items:         items,
		Address:       types.AddressSnapshot{FullName: "Asha Rao", AddressLine: "Flat 4B", Country: "India", State: "Karnataka", City: "Bengaluru", Street: "MG Road", Pincode: "560001", Phone: "9845000000"},
		PaymentMethod: enums.PaymentMethodCOD,
		TotalPrice:    items.Total(),
		Status:        enums.OrderStatusPending,
		StatusView:    ViewForStatus("Pending"),
		CreatedAt:     time.Date(2025, 1, 15, 22, 30, 0, 0, time.FixedZone("IST", 5*3600+1800)),
	}
}

func TestRenderReceiptText(t *testing.T) {
	out := RenderReceipt(sampleOrder())

	for _, want := range []string{
		"Mandlimart",
		"Order ID: aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee",
		"Date: 15 Jan 2025 17:00 UTC",
		"Payment: Cash on Delivery",
		"Basmati Rice",
		"50.00",
		"100.00",
		"₹120.00",
		"Bengaluru, Karnataka - 560001",
		"Phone: 9845000000",
		"Thank you for shopping with Mandlimart!",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("receipt missing %q:\n%s", want, out)
		}
	}
	if RenderReceipt(sampleOrder()) != out {
		t.Fatal("receipt output must be deterministic")
	}
	if strings.Contains(out, "Status") {
		t.Fatalf("receipt must not print the fulfillment status:\n%s", out)
	}
	if got := RenderReceipt(shipped(sampleOrder())); got != out {
		t.Fatalf("receipt changed after a status update:\nbefore:\n%s\nafter:\n%s", out, got)
	}
}

func TestRenderReceiptHTML(t *testing.T) {
	out, err := RenderReceiptHTML(sampleOrder())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "Toor Dal &lt;1kg&gt;") {
		t.Fatal("item names must be escaped")
	}
	for _, want := range []string{"15 Jan 2025 17:00 UTC", "₹120.00", "Grand Total:", "Thank you for shopping with Mandlimart!"} {
		if !strings.Contains(out, want) {
			t.Fatalf("html receipt missing %q", want)
		}
	}
	again, err := RenderReceiptHTML(sampleOrder())
	if err != nil || again != out {
		t.Fatal("html receipt output must be deterministic")
	}
	after, err := RenderReceiptHTML(shipped(sampleOrder()))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if after != out {
		t.Fatal("html receipt changed after a status update")
	}
}

func shipped(order OrderDTO) OrderDTO {
	order.Status = enums.OrderStatusShipped
	order.StatusView = ViewForStatus(string(enums.OrderStatusShipped))
	order.CartCleared = true
	order.UpdatedAt = order.CreatedAt.Add(48 * time.Hour)
	return order
}
