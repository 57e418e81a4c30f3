package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo holds the client and the collection handles the controllers work
// against. It is constructed once in main and injected, never global.
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database

	Users            *mongo.Collection
	Products         *mongo.Collection
	Categories       *mongo.Collection
	Orders           *mongo.Collection
	Carts            *mongo.Collection
	DesignFiles      *mongo.Collection
	OrderDesignFiles *mongo.Collection
	PromoCodes       *mongo.Collection
	SiteSettings     *mongo.Collection
	BlacklistTokens  *mongo.Collection
}

// Connect dials MongoDB and prepares the collection handles.
func Connect(ctx context.Context, uri, dbName string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	return &Mongo{
		Client:           client,
		DB:               db,
		Users:            db.Collection("users"),
		Products:         db.Collection("products"),
		Categories:       db.Collection("categories"),
		Orders:           db.Collection("orders"),
		Carts:            db.Collection("carts"),
		DesignFiles:      db.Collection("designfiles"),
		OrderDesignFiles: db.Collection("orderdesignfiles"),
		PromoCodes:       db.Collection("promocodes"),
		SiteSettings:     db.Collection("sitesettings"),
		BlacklistTokens:  db.Collection("blacklist_tokens"),
	}, nil
}

// Close disconnects the underlying client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
