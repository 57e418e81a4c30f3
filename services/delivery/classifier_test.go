package delivery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/haitham-akram/prestige-designs-sub003/models"
)

func plainItem(productID primitive.ObjectID) models.OrderItem {
	return models.OrderItem{
		ProductID:      productID,
		ProductName:    "business card",
		Quantity:       1,
		DeliveryStatus: models.DeliveryPending,
	}
}

func TestHasRealCustomization(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*models.OrderItem)
		want bool
	}{
		{
			name: "no customization at all",
			mut:  nil,
			want: false,
		},
		{
			name: "explicit flag set",
			mut:  func(i *models.OrderItem) { i.HasCustomizations = true },
			want: true,
		},
		{
			name: "text changes present",
			mut: func(i *models.OrderItem) {
				i.Customizations.TextChanges = []models.TextChange{{Field: "title", Value: "شركة النور"}}
			},
			want: true,
		},
		{
			name: "uploaded images present",
			mut: func(i *models.OrderItem) {
				i.Customizations.UploadedImages = []string{"https://cdn.example.com/a.png"}
			},
			want: true,
		},
		{
			name: "uploaded logo with url",
			mut: func(i *models.OrderItem) {
				i.Customizations.UploadedLogo = &models.UploadedLogo{URL: "https://cdn.example.com/logo.svg"}
			},
			want: true,
		},
		{
			name: "logo object without url is not real",
			mut: func(i *models.OrderItem) {
				i.Customizations.UploadedLogo = &models.UploadedLogo{FileName: "logo.svg"}
			},
			want: false,
		},
		{
			name: "notes present",
			mut:  func(i *models.OrderItem) { i.Customizations.CustomizationNotes = "غير اللون الى أزرق" },
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := plainItem(primitive.NewObjectID())
			if tt.mut != nil {
				tt.mut(&item)
			}
			assert.Equal(t, tt.want, HasRealCustomization(item))
		})
	}
}

func TestClassifyItem(t *testing.T) {
	item := plainItem(primitive.NewObjectID())

	assert.Equal(t, AutoDeliver, ClassifyItem(item, 2))
	assert.Equal(t, MissingFiles, ClassifyItem(item, 0))

	item.HasCustomizations = true
	// Custom work wins even when files exist.
	assert.Equal(t, AwaitCustomWork, ClassifyItem(item, 2))
}

func TestClassifyOrder(t *testing.T) {
	pA, pB, pC := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()

	custom := plainItem(pB)
	custom.Customizations.CustomizationNotes = "change colors"

	order := &models.Order{Items: []models.OrderItem{plainItem(pA), custom, plainItem(pC)}}
	counts := map[string]int{pA.Hex(): 3, pC.Hex(): 0}

	out := ClassifyOrder(order, counts)
	assert.Equal(t, []int{0}, out.AutoItems)
	assert.Equal(t, []int{1}, out.CustomItems)
	assert.Equal(t, []int{2}, out.MissingItems)
}

func TestOrderOutcomeNextStatus(t *testing.T) {
	tests := []struct {
		name    string
		outcome OrderOutcome
		want    models.OrderStatus
	}{
		{
			name:    "all auto completes",
			outcome: OrderOutcome{AutoItems: []int{0, 1}},
			want:    models.OrderCompleted,
		},
		{
			name:    "any custom item parks the order",
			outcome: OrderOutcome{AutoItems: []int{0}, CustomItems: []int{1}},
			want:    models.OrderAwaitingCustomization,
		},
		{
			name:    "custom wins over missing",
			outcome: OrderOutcome{CustomItems: []int{0}, MissingItems: []int{1}},
			want:    models.OrderAwaitingCustomization,
		},
		{
			name:    "missing files keeps processing",
			outcome: OrderOutcome{AutoItems: []int{0}, MissingItems: []int{1}},
			want:    models.OrderProcessing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.outcome.NextStatus())
		})
	}
}
