package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Subtotal sums price times quantity over the lines whose id is selected, rounded to 2 places.
// Selected ids that match no line contribute nothing.
func Subtotal(lines []LineDTO, selected []uuid.UUID) decimal.Decimal {
	want := make(map[uuid.UUID]struct{}, len(selected))
	for _, id := range selected {
		want[id] = struct{}{}
	}
	total := decimal.Zero
	for _, line := range lines {
		if _, ok := want[line.ID]; !ok {
			continue
		}
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total.Round(2)
}
