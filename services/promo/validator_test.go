package promo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/haitham-akram/prestige-designs-sub003/models"
)

var (
	productA = primitive.NewObjectID()
	productB = primitive.NewObjectID()
	productC = primitive.NewObjectID()
)

func activeCode(mut func(*models.PromoCode)) *models.PromoCode {
	pc := &models.PromoCode{
		Code:               "SAVE10",
		DiscountType:       models.DiscountPercentage,
		DiscountValue:      10,
		ApplyToAllProducts: true,
		IsActive:           true,
	}
	if mut != nil {
		mut(pc)
	}
	return pc
}

func lines(qty ...int) []CartLine {
	ids := []primitive.ObjectID{productA, productB, productC}
	out := make([]CartLine, len(qty))
	for i, q := range qty {
		out[i] = CartLine{ProductID: ids[i], Quantity: q}
	}
	return out
}

func TestValidateRejections(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		code    *models.PromoCode
		amount  float64
		wantErr error
	}{
		{
			name:    "inactive code",
			code:    activeCode(func(pc *models.PromoCode) { pc.IsActive = false }),
			amount:  100,
			wantErr: ErrInactive,
		},
		{
			name:    "nil code",
			code:    nil,
			amount:  100,
			wantErr: ErrInactive,
		},
		{
			name:    "not yet started",
			code:    activeCode(func(pc *models.PromoCode) { pc.StartDate = now.Add(24 * time.Hour) }),
			amount:  100,
			wantErr: ErrNotStarted,
		},
		{
			name:    "expired",
			code:    activeCode(func(pc *models.PromoCode) { pc.EndDate = now.Add(-time.Hour) }),
			amount:  100,
			wantErr: ErrExpired,
		},
		{
			name: "usage limit reached",
			code: activeCode(func(pc *models.PromoCode) {
				pc.UsageLimit = 5
				pc.UsageCount = 5
			}),
			amount:  100,
			wantErr: ErrUsageLimit,
		},
		{
			name:    "below minimum order amount",
			code:    activeCode(func(pc *models.PromoCode) { pc.MinimumOrderAmount = 200 }),
			amount:  100,
			wantErr: ErrMinimumAmount,
		},
		{
			name:    "zero order amount",
			code:    activeCode(nil),
			amount:  0,
			wantErr: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.code, lines(1), tt.amount, now)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateRuleOrder(t *testing.T) {
	// An expired code that would also fail the usage cap reports the date
	// problem first.
	now := time.Now().UTC()
	pc := activeCode(func(pc *models.PromoCode) {
		pc.EndDate = now.Add(-time.Hour)
		pc.UsageLimit = 1
		pc.UsageCount = 1
	})
	_, err := Validate(pc, lines(1), 100, now)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestEligibilityPrecedence(t *testing.T) {
	now := time.Now().UTC()

	t.Run("all products flag wins", func(t *testing.T) {
		pc := activeCode(func(pc *models.PromoCode) {
			pc.ApplyToAllProducts = true
			// A stale explicit list must not restrict anything.
			pc.ProductIDs = []primitive.ObjectID{productC}
		})
		res, err := Validate(pc, lines(1, 1), 100, now)
		require.NoError(t, err)
		assert.Equal(t, 2, res.QualifyingQty)
	})

	t.Run("explicit list beats legacy single id", func(t *testing.T) {
		pc := activeCode(func(pc *models.PromoCode) {
			pc.ApplyToAllProducts = false
			pc.ProductIDs = []primitive.ObjectID{productA}
			pc.ProductID = productB
		})
		res, err := Validate(pc, lines(2, 3), 100, now)
		require.NoError(t, err)
		assert.Equal(t, 2, res.QualifyingQty)
	})

	t.Run("legacy single id when list empty", func(t *testing.T) {
		pc := activeCode(func(pc *models.PromoCode) {
			pc.ApplyToAllProducts = false
			pc.ProductID = productB
		})
		res, err := Validate(pc, lines(2, 3), 100, now)
		require.NoError(t, err)
		assert.Equal(t, 3, res.QualifyingQty)
	})

	t.Run("no qualifying items", func(t *testing.T) {
		pc := activeCode(func(pc *models.PromoCode) {
			pc.ApplyToAllProducts = false
			pc.ProductIDs = []primitive.ObjectID{productC}
		})
		_, err := Validate(pc, lines(2, 3), 100, now)
		assert.ErrorIs(t, err, ErrNotApplicable)
	})
}

func TestDiscountComputation(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name   string
		mut    func(*models.PromoCode)
		lines  []CartLine
		amount float64
		want   float64
	}{
		{
			name:   "percentage",
			mut:    nil, // 10%
			lines:  lines(1),
			amount: 250,
			want:   25,
		},
		{
			name: "percentage capped by max discount",
			mut: func(pc *models.PromoCode) {
				pc.DiscountValue = 50
				pc.MaxDiscountAmount = 30
			},
			lines:  lines(1),
			amount: 100,
			want:   30,
		},
		{
			name: "fixed amount times qualifying quantity capped at max",
			mut: func(pc *models.PromoCode) {
				pc.DiscountType = models.DiscountFixed
				pc.DiscountValue = 10
				pc.MaxDiscountAmount = 15
			},
			lines:  lines(2),
			amount: 100,
			want:   15,
		},
		{
			name: "fixed amount never exceeds order amount",
			mut: func(pc *models.PromoCode) {
				pc.DiscountType = models.DiscountFixed
				pc.DiscountValue = 40
			},
			lines:  lines(3),
			amount: 50,
			want:   50,
		},
		{
			name: "full percentage discount makes order free",
			mut: func(pc *models.PromoCode) {
				pc.DiscountValue = 100
			},
			lines:  lines(1),
			amount: 75,
			want:   75,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Validate(activeCode(tt.mut), tt.lines, tt.amount, now)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, res.DiscountAmount, 1e-9)
			assert.LessOrEqual(t, res.DiscountAmount, tt.amount)
			assert.InDelta(t, tt.amount-tt.want, res.FinalAmount, 1e-9)
		})
	}
}

func TestFinalAmountIsExactlyZeroWhenFullyDiscounted(t *testing.T) {
	// A subtotal accumulated from float line totals carries representation
	// error (0.1 + 0.2 != 0.3). Callers compare FinalAmount against zero to
	// pick the free-order path, so it must come out exact, not 5.6e-17.
	now := time.Now().UTC()
	pc := activeCode(func(pc *models.PromoCode) { pc.DiscountValue = 100 })

	var subtotal float64
	for _, lineTotal := range []float64{0.1, 0.2} {
		subtotal += lineTotal
	}
	require.NotEqual(t, 0.3, subtotal)

	res, err := Validate(pc, lines(1, 1), subtotal, now)
	require.NoError(t, err)
	assert.Zero(t, res.FinalAmount)
	assert.True(t, res.FinalAmount == 0, "free-order comparison must hold exactly")
}

func TestValidateDoesNotMutateCode(t *testing.T) {
	pc := activeCode(func(pc *models.PromoCode) { pc.UsageLimit = 10; pc.UsageCount = 3 })
	_, err := Validate(pc, lines(1), 100, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 3, pc.UsageCount)
}
