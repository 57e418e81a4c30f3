package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from OrderStatus
		to   OrderStatus
		ok   bool
	}{
		{OrderPending, OrderProcessing, true},
		{OrderPending, OrderAwaitingCustomization, true},
		{OrderPending, OrderCompleted, true},
		{OrderPending, OrderCancelled, true},
		{OrderPending, OrderRefunded, false},
		{OrderProcessing, OrderAwaitingCustomization, true},
		{OrderProcessing, OrderCompleted, true},
		{OrderAwaitingCustomization, OrderUnderCustomization, true},
		{OrderAwaitingCustomization, OrderCompleted, true},
		{OrderUnderCustomization, OrderCompleted, true},
		{OrderUnderCustomization, OrderPending, false},
		{OrderCompleted, OrderRefunded, true},
		{OrderCompleted, OrderCancelled, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.ok, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestTerminalStatesAcceptNothing(t *testing.T) {
	all := []OrderStatus{
		OrderPending, OrderProcessing, OrderAwaitingCustomization,
		OrderUnderCustomization, OrderCompleted, OrderCancelled, OrderRefunded,
	}
	for _, terminal := range []OrderStatus{OrderCancelled, OrderRefunded} {
		assert.True(t, terminal.Terminal())
		for _, next := range all {
			assert.False(t, terminal.CanTransitionTo(next),
				"%s must not transition to %s", terminal, next)
		}
	}
}

func TestOrderStatusValid(t *testing.T) {
	assert.True(t, OrderAwaitingCustomization.Valid())
	assert.False(t, OrderStatus("shipped").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestCustomizationsEmpty(t *testing.T) {
	assert.True(t, Customizations{}.Empty())
	assert.True(t, Customizations{UploadedLogo: &UploadedLogo{}}.Empty())
	assert.False(t, Customizations{CustomizationNotes: "note"}.Empty())
	assert.False(t, Customizations{TextChanges: []TextChange{{Field: "a"}}}.Empty())
}

func TestAllItemsDelivered(t *testing.T) {
	order := Order{}
	assert.False(t, order.AllItemsDelivered(), "empty order is not delivered")

	order.Items = []OrderItem{
		{DeliveryStatus: DeliveryAutoDelivered},
		{DeliveryStatus: DeliveryPending},
	}
	assert.False(t, order.AllItemsDelivered())

	order.Items[1].DeliveryStatus = DeliveryCustomDelivered
	assert.True(t, order.AllItemsDelivered())
}

func TestNewHistoryEntry(t *testing.T) {
	before := time.Now().UTC()
	entry := NewHistoryEntry(OrderCompleted, "done", "admin-1")
	after := time.Now().UTC()

	assert.Equal(t, string(OrderCompleted), entry.Status)
	assert.Equal(t, "done", entry.Note)
	assert.Equal(t, "admin-1", entry.ChangedBy)
	assert.False(t, entry.Timestamp.Before(before))
	assert.False(t, entry.Timestamp.After(after))
}
