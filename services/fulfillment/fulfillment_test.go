package fulfillment

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/haitham-akram/prestige-designs-sub003/models"
	"github.com/haitham-akram/prestige-designs-sub003/pkg/apperrors"
	"github.com/haitham-akram/prestige-designs-sub003/pkg/logger"
)

func TestAttemptAutoDeliveryRejectsTerminalOrders(t *testing.T) {
	s := New(nil, nil, nil, logger.Nop())

	for _, status := range []models.OrderStatus{models.OrderCancelled, models.OrderRefunded} {
		order := &models.Order{
			OrderNumber: "PD-DEAD",
			OrderStatus: status,
			Items: []models.OrderItem{
				{ProductID: primitive.NewObjectID(), DeliveryStatus: models.DeliveryPending},
			},
		}

		err := s.AttemptAutoDelivery(context.Background(), order, "system")
		assert.Error(t, err, "a %s order must not be delivered", status)
		assert.Equal(t, http.StatusConflict, apperrors.StatusCode(err))
		assert.Equal(t, models.DeliveryPending, order.Items[0].DeliveryStatus,
			"items on a %s order stay untouched", status)
		assert.Equal(t, status, order.OrderStatus)
	}
}

func TestCustomFileRecordStaysOutOfProductPool(t *testing.T) {
	now := time.Now().UTC()
	in := models.DesignFile{
		ProductID: primitive.NewObjectID(),
		FileName:  "bespoke-logo.ai",
		FileURL:   "https://cdn.example.com/bespoke-logo.ai",
		IsActive:  true, // admin input must not be able to force it active
	}

	out := customFileRecord(in, now)

	assert.False(t, out.IsActive,
		"bespoke files are reachable only through their order's grant")
	assert.False(t, out.ID.IsZero())
	assert.Equal(t, in.ProductID, out.ProductID)
	assert.Equal(t, now, out.CreatedAt)
	assert.Equal(t, now, out.UpdatedAt)
}
