package mongo

import (
	"context"
	"regexp"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xenking/storefront-api/internal/domain/product"
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by the "products"
// collection.
type ProductRepository struct {
	coll *mongo.Collection
}

// NewProductRepository returns a ProductRepository over the given database.
func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{coll: db.Collection(productsCollection)}
}

// productDoc is the persisted shape of a product. Prices are stored as
// doubles; the domain carries them as decimals.
type productDoc struct {
	ID    primitive.ObjectID `bson:"_id,omitempty"`
	Name  string             `bson:"name"`
	Price float64            `bson:"price"`
	Sizes []sizeDoc          `bson:"sizes"`
}

type sizeDoc struct {
	Size     string `bson:"size"`
	Quantity int    `bson:"quantity"`
}

// Create inserts a new product and returns its generated ID as a hex string.
// No existence check and no dedup: every call appends a record.
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) (string, error) {
	doc := productDoc{
		Name:  p.Name,
		Price: p.Price.InexactFloat64(),
		Sizes: make([]sizeDoc, len(p.Sizes)),
	}
	for i, s := range p.Sizes {
		doc.Sizes[i] = sizeDoc{Size: s.Label, Quantity: s.Quantity}
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return "", errors.Wrap(err, "insert product")
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// List returns a page of products matching the filter, in _id order. The
// name filter is a case-insensitive substring match (the pattern is escaped,
// so regex metacharacters in user input match literally); the size filter is
// exact equality against any element of the sizes array.
func (r *ProductRepository) List(ctx context.Context, f product.ListFilter) ([]product.Product, error) {
	query := bson.M{}
	if f.Name != "" {
		query["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Name), Options: "i"}
	}
	if f.Size != "" {
		query["sizes.size"] = f.Size
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(f.Offset).
		SetLimit(f.Limit)

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find products")
	}

	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}

	out := make([]product.Product, len(docs))
	for i, doc := range docs {
		out[i] = mapProduct(doc)
	}
	return out, nil
}

// GetByID returns a single product by its hex identifier. It returns
// product.ErrMalformedID when the identifier does not parse as an ObjectID
// and product.ErrNotFound when no document matches.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, product.ErrMalformedID
	}

	var doc productDoc
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, product.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find product %s", id)
	}

	p := mapProduct(doc)
	return &p, nil
}

func mapProduct(doc productDoc) product.Product {
	sizes := make([]product.Size, len(doc.Sizes))
	for i, s := range doc.Sizes {
		sizes[i] = product.Size{Label: s.Size, Quantity: s.Quantity}
	}
	return product.Product{
		ID:    doc.ID.Hex(),
		Name:  doc.Name,
		Price: decimal.NewFromFloat(doc.Price),
		Sizes: sizes,
	}
}
