package checkout

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mandlimart/mandlimart-backend/pkg/db/models"
	"github.com/mandlimart/mandlimart-backend/pkg/types"
)

// dedupe keeps the first occurrence of each id and drops uuid.Nil.
func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// missingIDs returns the requested ids that have no loaded line.
func missingIDs(requested []uuid.UUID, lines []models.CartLine) []uuid.UUID {
	found := make(map[uuid.UUID]struct{}, len(lines))
	for _, line := range lines {
		found[line.ID] = struct{}{}
	}
	var missing []uuid.UUID
	for _, id := range requested {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// snapshotItems copies the selected lines into order items, in request order.
func snapshotItems(requested []uuid.UUID, lines []models.CartLine) (types.OrderItemSnapshots, error) {
	byID := make(map[uuid.UUID]models.CartLine, len(lines))
	for _, line := range lines {
		byID[line.ID] = line
	}
	items := make(types.OrderItemSnapshots, 0, len(requested))
	for _, id := range requested {
		line := byID[id]
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("line %s has quantity %d", id, line.Quantity)
		}
		if line.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("line %s has a negative price", id)
		}
		items = append(items, types.OrderItemSnapshot{
			ItemID:   line.ProductID,
			Name:     line.ProductName,
			Price:    line.UnitPrice.Round(2),
			Quantity: line.Quantity,
			Image:    line.ImageURL,
		})
	}
	return items, nil
}
