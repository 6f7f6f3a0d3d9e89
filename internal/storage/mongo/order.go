package mongo

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xenking/storefront-api/internal/domain/order"
	"github.com/xenking/storefront-api/internal/domain/product"
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by the "orders"
// collection.
type OrderRepository struct {
	coll *mongo.Collection
}

// NewOrderRepository returns an OrderRepository over the given database.
func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection(ordersCollection)}
}

// orderDoc is the persisted shape of an order. Line items store the parsed
// product ObjectID, not the raw request string.
type orderDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"userId"`
	Items     []lineItemDoc      `bson:"items"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type lineItemDoc struct {
	ProductID primitive.ObjectID `bson:"productId"`
	Qty       int                `bson:"qty"`
}

// Create persists the order as a single document in one insert, so the write
// itself is atomic. Product IDs are expected to be valid hex identifiers by
// this point; a non-parsable one is reported as product.ErrMalformedID.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) (string, error) {
	doc := orderDoc{
		UserID:    o.UserID,
		Items:     make([]lineItemDoc, len(o.Items)),
		CreatedAt: time.Now().UTC(),
	}
	for i, item := range o.Items {
		oid, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			return "", product.ErrMalformedID
		}
		doc.Items[i] = lineItemDoc{ProductID: oid, Qty: item.Qty}
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return "", errors.Wrap(err, "insert order")
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// ListByUser returns a page of the user's orders in _id order.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string, limit, offset int64) ([]order.Order, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(offset).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find orders")
	}

	var docs []orderDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode orders")
	}

	out := make([]order.Order, len(docs))
	for i, doc := range docs {
		items := make([]order.LineItem, len(doc.Items))
		for j, item := range doc.Items {
			items[j] = order.LineItem{
				ProductID: item.ProductID.Hex(),
				Qty:       item.Qty,
			}
		}
		out[i] = order.Order{
			ID:        doc.ID.Hex(),
			UserID:    doc.UserID,
			Items:     items,
			CreatedAt: doc.CreatedAt,
		}
	}
	return out, nil
}
