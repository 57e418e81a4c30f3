// Package delivery decides, per order item, whether existing design files can
// be granted automatically or an admin has to produce bespoke ones.
package delivery

import (
	"github.com/haitham-akram/prestige-designs-sub003/models"
)

// Decision is the classifier's verdict for one order item.
type Decision string

const (
	// AutoDeliver: no real customization and the product has active files.
	AutoDeliver Decision = "auto_deliver"
	// AwaitCustomWork: the customer asked for changes; an admin must upload.
	AwaitCustomWork Decision = "await_custom_work"
	// MissingFiles: nothing to customize but no files exist either. The item
	// keeps its prior state and the caller surfaces an error.
	MissingFiles Decision = "missing_files"
)

// HasRealCustomization reports whether the item carries actual customer
// input: either the explicit flag or any non-empty customization field.
func HasRealCustomization(item models.OrderItem) bool {
	return item.HasCustomizations || !item.Customizations.Empty()
}

// ClassifyItem decides the fulfillment path for a single item given how many
// active design files its product has.
func ClassifyItem(item models.OrderItem, activeFileCount int) Decision {
	if HasRealCustomization(item) {
		return AwaitCustomWork
	}
	if activeFileCount > 0 {
		return AutoDeliver
	}
	return MissingFiles
}

// OrderOutcome aggregates per-item decisions to an order status.
type OrderOutcome struct {
	AutoItems    []int // indexes into the order's item slice
	CustomItems  []int
	MissingItems []int
}

// ClassifyOrder runs the classifier over every item. fileCounts maps the
// product id hex to its active design file count.
func ClassifyOrder(order *models.Order, fileCounts map[string]int) OrderOutcome {
	var out OrderOutcome
	for i, item := range order.Items {
		switch ClassifyItem(item, fileCounts[item.ProductID.Hex()]) {
		case AutoDeliver:
			out.AutoItems = append(out.AutoItems, i)
		case AwaitCustomWork:
			out.CustomItems = append(out.CustomItems, i)
		default:
			out.MissingItems = append(out.MissingItems, i)
		}
	}
	return out
}

// NextStatus maps an outcome to the order status fulfillment should move to.
// Fully auto orders complete; anything needing an admin waits.
func (o OrderOutcome) NextStatus() models.OrderStatus {
	if len(o.CustomItems) > 0 {
		return models.OrderAwaitingCustomization
	}
	if len(o.MissingItems) > 0 {
		return models.OrderProcessing
	}
	return models.OrderCompleted
}
