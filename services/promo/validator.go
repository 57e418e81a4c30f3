// Package promo applies discount-code rules to a cart. Validation is
// stateless: the caller fetches the code document and passes it in, and
// redemption (the usage-count increment) happens separately at payment time.
package promo

import (
	"errors"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/haitham-akram/prestige-designs-sub003/models"
)

var (
	ErrInactive       = errors.New("promo code is not active")
	ErrNotStarted     = errors.New("promo code is not yet active")
	ErrExpired        = errors.New("promo code has expired")
	ErrUsageLimit     = errors.New("promo code usage limit reached")
	ErrNotApplicable  = errors.New("promo code does not apply to any item in the cart")
	ErrMinimumAmount  = errors.New("order amount is below the promo code minimum")
	ErrInvalidAmount  = errors.New("order amount must be positive")
)

// CartLine is the slice of an order the validator needs.
type CartLine struct {
	ProductID primitive.ObjectID
	Quantity  int
}

// Result is a successful validation outcome.
type Result struct {
	Code           string
	DiscountAmount float64
	QualifyingQty  int
	FinalAmount    float64
}

// Validate applies the rules in their fixed order: active, date window,
// usage cap, product eligibility, minimum amount. It never mutates the code.
func Validate(pc *models.PromoCode, lines []CartLine, orderAmount float64, now time.Time) (*Result, error) {
	if orderAmount <= 0 {
		return nil, ErrInvalidAmount
	}
	if pc == nil || !pc.IsActive {
		return nil, ErrInactive
	}
	if !pc.StartDate.IsZero() && now.Before(pc.StartDate) {
		return nil, ErrNotStarted
	}
	if !pc.EndDate.IsZero() && now.After(pc.EndDate) {
		return nil, ErrExpired
	}
	if pc.UsageLimit > 0 && pc.UsageCount >= pc.UsageLimit {
		return nil, ErrUsageLimit
	}

	qty := qualifyingQuantity(pc, lines)
	if qty == 0 {
		return nil, ErrNotApplicable
	}
	if pc.MinimumOrderAmount > 0 && orderAmount < pc.MinimumOrderAmount {
		return nil, ErrMinimumAmount
	}

	discount := computeDiscount(pc, qty, orderAmount)
	return &Result{
		Code:           pc.Code,
		DiscountAmount: discount,
		QualifyingQty:  qty,
		FinalAmount:    round2(orderAmount - discount),
	}, nil
}

// qualifyingQuantity counts cart units the code covers. Eligibility precedence:
// the all-products flag, then the explicit id list, then the legacy single id.
func qualifyingQuantity(pc *models.PromoCode, lines []CartLine) int {
	total := 0
	for _, line := range lines {
		if line.Quantity > 0 && eligible(pc, line.ProductID) {
			total += line.Quantity
		}
	}
	return total
}

func eligible(pc *models.PromoCode, productID primitive.ObjectID) bool {
	if pc.ApplyToAllProducts {
		return true
	}
	if len(pc.ProductIDs) > 0 {
		for _, id := range pc.ProductIDs {
			if id == productID {
				return true
			}
		}
		return false
	}
	if !pc.ProductID.IsZero() {
		return pc.ProductID == productID
	}
	return false
}

// computeDiscount caps the raw discount at MaxDiscountAmount (when set) and
// at the order amount itself.
func computeDiscount(pc *models.PromoCode, qualifyingQty int, orderAmount float64) float64 {
	var raw float64
	switch pc.DiscountType {
	case models.DiscountPercentage:
		raw = orderAmount * pc.DiscountValue / 100
	case models.DiscountFixed:
		raw = pc.DiscountValue * float64(qualifyingQty)
	default:
		return 0
	}
	if pc.MaxDiscountAmount > 0 {
		raw = math.Min(raw, pc.MaxDiscountAmount)
	}
	return round2(math.Min(raw, orderAmount))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
