package orders

import (
	"github.com/mandlimart/mandlimart-backend/pkg/enums"
)

// StatusView is how a status is presented on the order tracker.
// Step is the position on the Pending > Shipped > Delivered track, or -1 when off the track.
type StatusView struct {
	Status   string `json:"status"`
	Label    string `json:"label"`
	Step     int    `json:"step"`
	Color    string `json:"color"`
	Terminal bool   `json:"terminal"`
}

// TrackerSteps lists the labels of the forward track in order.
var TrackerSteps = []string{"Pending", "Shipped", "Delivered"}

var statusViews = map[enums.OrderStatus]StatusView{
	enums.OrderStatusPending:   {Status: "Pending", Label: "Order placed", Step: 0, Color: "#FFA726"},
	enums.OrderStatusShipped:   {Status: "Shipped", Label: "On the way", Step: 1, Color: "#42A5F5"},
	enums.OrderStatusDelivered: {Status: "Delivered", Label: "Delivered", Step: 2, Color: "#66BB6A", Terminal: true},
	enums.OrderStatusCancelled: {Status: "Cancelled", Label: "Cancelled", Step: -1, Color: "#EF5350", Terminal: true},
}

var unknownStatusView = StatusView{Status: "Unknown", Label: "Status unavailable", Step: -1, Color: "#9e9e9e"}

// ViewForStatus maps a raw status string to its view. Unrecognized values get the neutral view.
func ViewForStatus(raw string) StatusView {
	status, err := enums.ParseOrderStatus(raw)
	if err != nil {
		return unknownStatusView
	}
	return statusViews[status]
}
