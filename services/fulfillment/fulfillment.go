// Package fulfillment runs the order completion pipeline: classify each item,
// grant design-file access for auto-deliverable ones, advance the order
// status, append history, and email the customer.
package fulfillment

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/haitham-akram/prestige-designs-sub003/config"
	"github.com/haitham-akram/prestige-designs-sub003/database"
	"github.com/haitham-akram/prestige-designs-sub003/models"
	"github.com/haitham-akram/prestige-designs-sub003/pkg/apperrors"
	"github.com/haitham-akram/prestige-designs-sub003/pkg/logger"
	"github.com/haitham-akram/prestige-designs-sub003/services/delivery"
	"github.com/haitham-akram/prestige-designs-sub003/services/mailer"
)

type Service struct {
	db     *database.Mongo
	mailer *mailer.Mailer
	cfg    *config.Config
	log    logger.Logger
}

func New(db *database.Mongo, m *mailer.Mailer, cfg *config.Config, log logger.Logger) *Service {
	return &Service{db: db, mailer: m, cfg: cfg, log: log}
}

// ActiveFileCounts returns, per product id hex, how many active design files
// exist for the given products.
func (s *Service) ActiveFileCounts(ctx context.Context, productIDs []primitive.ObjectID) (map[string]int, error) {
	counts := make(map[string]int, len(productIDs))
	if len(productIDs) == 0 {
		return counts, nil
	}

	cursor, err := s.db.DesignFiles.Find(ctx, bson.M{
		"productId": bson.M{"$in": productIDs},
		"isActive":  true,
	})
	if err != nil {
		return nil, err
	}
	var files []models.DesignFile
	if err := cursor.All(ctx, &files); err != nil {
		return nil, err
	}
	for _, f := range files {
		counts[f.ProductID.Hex()]++
	}
	return counts, nil
}

// grantFiles creates an OrderDesignFile row for every active design file of
// the given products, skipping grants the order already has.
func (s *Service) grantFiles(ctx context.Context, order *models.Order, productIDs []primitive.ObjectID) error {
	if len(productIDs) == 0 {
		return nil
	}

	cursor, err := s.db.DesignFiles.Find(ctx, bson.M{
		"productId": bson.M{"$in": productIDs},
		"isActive":  true,
	})
	if err != nil {
		return err
	}
	var files []models.DesignFile
	if err := cursor.All(ctx, &files); err != nil {
		return err
	}

	existing, err := s.grantedFileIDs(ctx, order.ID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, f := range files {
		if existing[f.ID.Hex()] {
			continue
		}
		grant := models.OrderDesignFile{
			ID:           primitive.NewObjectID(),
			OrderID:      order.ID,
			DesignFileID: f.ID,
			MaxDownloads: f.MaxDownloads,
			IsActive:     true,
			CreatedAt:    now,
		}
		if grant.MaxDownloads == 0 {
			grant.MaxDownloads = s.cfg.DefaultMaxDownloads
		}
		if !f.ExpiresAt.IsZero() {
			grant.ExpiresAt = f.ExpiresAt
		} else if s.cfg.DownloadExpiryDays > 0 {
			grant.ExpiresAt = now.AddDate(0, 0, s.cfg.DownloadExpiryDays)
		}
		if _, err := s.db.OrderDesignFiles.InsertOne(ctx, grant); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) grantedFileIDs(ctx context.Context, orderID primitive.ObjectID) (map[string]bool, error) {
	cursor, err := s.db.OrderDesignFiles.Find(ctx, bson.M{"orderId": orderID})
	if err != nil {
		return nil, err
	}
	var grants []models.OrderDesignFile
	if err := cursor.All(ctx, &grants); err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(grants))
	for _, g := range grants {
		out[g.DesignFileID.Hex()] = true
	}
	return out, nil
}

func itemProductIDs(order *models.Order, indexes []int) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(indexes))
	for _, i := range indexes {
		ids = append(ids, order.Items[i].ProductID)
	}
	return ids
}

// persist writes the mutated items and status back and pushes history
// entries. History is only ever appended.
func (s *Service) persist(ctx context.Context, order *models.Order, entries []models.HistoryEntry) error {
	update := bson.M{
		"$set": bson.M{
			"items":       order.Items,
			"orderStatus": order.OrderStatus,
			"updatedAt":   time.Now().UTC(),
		},
	}
	if len(entries) > 0 {
		update["$push"] = bson.M{"orderHistory": bson.M{"$each": entries}}
	}
	_, err := s.db.Orders.UpdateOne(ctx, bson.M{"_id": order.ID}, update)
	return err
}

// AttemptAutoDelivery runs after a successful payment (or a free checkout).
// Items without real customization get their files granted immediately; any
// item needing custom work parks the order in awaiting_customization. Missing
// files never fail the call here, the payment is already committed.
func (s *Service) AttemptAutoDelivery(ctx context.Context, order *models.Order, changedBy string) error {
	if order.OrderStatus.Terminal() {
		return apperrors.New(apperrors.ErrConflict,
			fmt.Sprintf("order is %s, nothing left to deliver", order.OrderStatus))
	}

	counts, err := s.ActiveFileCounts(ctx, orderProductIDs(order))
	if err != nil {
		return err
	}

	outcome := delivery.ClassifyOrder(order, counts)
	if err := s.grantFiles(ctx, order, itemProductIDs(order, outcome.AutoItems)); err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, i := range outcome.AutoItems {
		order.Items[i].DeliveryStatus = models.DeliveryAutoDelivered
		order.Items[i].DeliveredAt = &now
		order.Items[i].DeliveryNote = "design files granted automatically"
	}

	var entries []models.HistoryEntry
	next := outcome.NextStatus()
	if next != order.OrderStatus && order.OrderStatus.CanTransitionTo(next) {
		order.OrderStatus = next
		switch next {
		case models.OrderCompleted:
			entries = append(entries, models.NewHistoryEntry(next, "all items auto-delivered", changedBy))
		case models.OrderAwaitingCustomization:
			entries = append(entries, models.NewHistoryEntry(next, "order contains items requiring custom work", changedBy))
		default:
			entries = append(entries, models.NewHistoryEntry(next, "delivery pending, product files missing", changedBy))
		}
	}
	if len(outcome.MissingItems) > 0 {
		s.log.Warn("order has items with no active design files",
			"orderNumber", order.OrderNumber, "items", len(outcome.MissingItems))
	}

	if err := s.persist(ctx, order, entries); err != nil {
		return err
	}

	if order.OrderStatus == models.OrderCompleted {
		s.sendDeliveryEmail(ctx, order)
	}
	return nil
}

// Complete finishes an order on an admin's behalf. Auto-deliverable items are
// granted on the spot; items that required custom work must already have been
// delivered through a custom upload. Errors leave every item in its prior
// state.
func (s *Service) Complete(ctx context.Context, orderID primitive.ObjectID, changedBy, note string) (*models.Order, error) {
	var order models.Order
	if err := s.db.Orders.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
		return nil, apperrors.New(apperrors.ErrNotFound, "order not found")
	}
	if order.OrderStatus == models.OrderCompleted {
		return nil, apperrors.New(apperrors.ErrConflict, "order is already completed")
	}
	if !order.OrderStatus.CanTransitionTo(models.OrderCompleted) {
		return nil, apperrors.New(apperrors.ErrConflict,
			fmt.Sprintf("cannot complete an order in status %s", order.OrderStatus))
	}

	counts, err := s.ActiveFileCounts(ctx, orderProductIDs(&order))
	if err != nil {
		return nil, err
	}

	var autoIdx []int
	for i, item := range order.Items {
		if item.DeliveryStatus != models.DeliveryPending {
			continue
		}
		switch delivery.ClassifyItem(item, counts[item.ProductID.Hex()]) {
		case delivery.AutoDeliver:
			autoIdx = append(autoIdx, i)
		case delivery.AwaitCustomWork:
			return nil, apperrors.New(apperrors.ErrConflict,
				fmt.Sprintf("item %s still awaits custom work, upload its files first", item.ProductName))
		default:
			return nil, apperrors.New(apperrors.ErrConflict,
				fmt.Sprintf("product %s has no active design files", item.ProductName))
		}
	}

	if err := s.grantFiles(ctx, &order, itemProductIDs(&order, autoIdx)); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for _, i := range autoIdx {
		order.Items[i].DeliveryStatus = models.DeliveryAutoDelivered
		order.Items[i].DeliveredAt = &now
		order.Items[i].DeliveryNote = "design files granted automatically"
	}

	order.OrderStatus = models.OrderCompleted
	if note == "" {
		note = "order completed"
	}
	entries := []models.HistoryEntry{models.NewHistoryEntry(models.OrderCompleted, note, changedBy)}

	if err := s.persist(ctx, &order, entries); err != nil {
		return nil, err
	}

	s.sendDeliveryEmail(ctx, &order)
	return &order, nil
}

// AttachCustomFile records an admin-produced file for an order and marks the
// matching items custom_delivered.
func (s *Service) AttachCustomFile(ctx context.Context, orderID primitive.ObjectID, file models.DesignFile, changedBy string) (*models.Order, error) {
	var order models.Order
	if err := s.db.Orders.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
		return nil, apperrors.New(apperrors.ErrNotFound, "order not found")
	}
	if order.OrderStatus.Terminal() {
		return nil, apperrors.New(apperrors.ErrConflict,
			fmt.Sprintf("cannot attach files to a %s order", order.OrderStatus))
	}

	now := time.Now().UTC()
	file = customFileRecord(file, now)
	if _, err := s.db.DesignFiles.InsertOne(ctx, file); err != nil {
		return nil, err
	}

	grant := models.OrderDesignFile{
		ID:           primitive.NewObjectID(),
		OrderID:      order.ID,
		DesignFileID: file.ID,
		MaxDownloads: file.MaxDownloads,
		IsActive:     true,
		CreatedAt:    now,
	}
	if grant.MaxDownloads == 0 {
		grant.MaxDownloads = s.cfg.DefaultMaxDownloads
	}
	if s.cfg.DownloadExpiryDays > 0 {
		grant.ExpiresAt = now.AddDate(0, 0, s.cfg.DownloadExpiryDays)
	}
	if _, err := s.db.OrderDesignFiles.InsertOne(ctx, grant); err != nil {
		return nil, err
	}

	delivered := 0
	for i, item := range order.Items {
		if item.ProductID == file.ProductID && item.DeliveryStatus == models.DeliveryPending {
			order.Items[i].DeliveryStatus = models.DeliveryCustomDelivered
			order.Items[i].DeliveredAt = &now
			order.Items[i].DeliveryNote = "custom design files uploaded"
			delivered++
		}
	}

	var entries []models.HistoryEntry
	entries = append(entries, models.NewHistoryEntry(order.OrderStatus,
		fmt.Sprintf("custom file %s uploaded", file.FileName), changedBy))

	if order.OrderStatus == models.OrderAwaitingCustomization &&
		order.OrderStatus.CanTransitionTo(models.OrderUnderCustomization) {
		order.OrderStatus = models.OrderUnderCustomization
		entries = append(entries, models.NewHistoryEntry(models.OrderUnderCustomization, "custom work in progress", changedBy))
	}

	if err := s.persist(ctx, &order, entries); err != nil {
		return nil, err
	}

	s.log.Info("custom file attached", "orderNumber", order.OrderNumber,
		"file", file.FileName, "itemsDelivered", delivered)
	return &order, nil
}

// customFileRecord prepares an admin-produced file for insertion. The file is
// inactive at product scope: access flows only through this order's grant, so
// bespoke work never enters another order's auto-delivery pool.
func customFileRecord(file models.DesignFile, now time.Time) models.DesignFile {
	file.ID = primitive.NewObjectID()
	file.IsActive = false
	file.CreatedAt = now
	file.UpdatedAt = now
	return file
}

// sendDeliveryEmail is best-effort: a failure is logged and recorded in
// history but never rolls back completion.
func (s *Service) sendDeliveryEmail(ctx context.Context, order *models.Order) {
	links, err := s.deliveryLinks(ctx, order.ID)
	if err != nil {
		s.log.Error("failed to collect delivery links", "orderNumber", order.OrderNumber, "error", err)
		return
	}

	data := mailer.DeliveryEmail{
		OrderNumber: order.OrderNumber,
		StoreName:   s.storeName(ctx),
		Files:       links,
	}
	if err := s.mailer.SendDelivery(ctx, order.CustomerEmail, data); err != nil {
		s.log.Error("delivery email failed", "orderNumber", order.OrderNumber, "error", err)
		entry := models.NewHistoryEntry(order.OrderStatus, "delivery email failed: "+err.Error(), "system")
		_, _ = s.db.Orders.UpdateOne(ctx, bson.M{"_id": order.ID},
			bson.M{"$push": bson.M{"orderHistory": entry}})
		return
	}

	now := time.Now().UTC()
	_, _ = s.db.Orders.UpdateOne(ctx, bson.M{"_id": order.ID},
		bson.M{"$set": bson.M{"emailSentAt": now}})
}

// deliveryLinks resolves the order's grants to customer-facing download URLs.
func (s *Service) deliveryLinks(ctx context.Context, orderID primitive.ObjectID) ([]mailer.FileLink, error) {
	cursor, err := s.db.OrderDesignFiles.Find(ctx, bson.M{"orderId": orderID, "isActive": true})
	if err != nil {
		return nil, err
	}
	var grants []models.OrderDesignFile
	if err := cursor.All(ctx, &grants); err != nil {
		return nil, err
	}

	var links []mailer.FileLink
	for _, g := range grants {
		var f models.DesignFile
		if err := s.db.DesignFiles.FindOne(ctx, bson.M{"_id": g.DesignFileID}).Decode(&f); err != nil {
			continue
		}
		links = append(links, mailer.FileLink{
			FileName: f.FileName,
			URL:      fmt.Sprintf("%s/orders/%s/files/%s", s.cfg.StoreBaseURL, orderID.Hex(), g.ID.Hex()),
		})
	}
	return links, nil
}

func (s *Service) storeName(ctx context.Context) string {
	var settings models.SiteSettings
	if err := s.db.SiteSettings.FindOne(ctx, bson.M{}).Decode(&settings); err == nil && settings.StoreName != "" {
		return settings.StoreName
	}
	return "Prestige Designs"
}

func orderProductIDs(order *models.Order) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.ProductID)
	}
	return ids
}
