// Command seed-db loads a product catalog from a JSON (optionally gzipped)
// file into the store. Intended for local development and demo environments.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/storefront-api/internal/domain/product"
	mongostore "github.com/xenking/storefront-api/internal/storage/mongo"
)

// insertWorkers bounds concurrent inserts so a large catalog doesn't exhaust
// the connection pool.
const insertWorkers = 8

type productJSON struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Sizes []struct {
		Size     string `json:"size"`
		Quantity int    `json:"quantity"`
	} `json:"sizes"`
}

func main() {
	var (
		mongoURI     string
		database     string
		productsFile string
	)

	flag.StringVar(&mongoURI, "mongo-uri", "", "MongoDB connection URI (or MONGO_URI env)")
	flag.StringVar(&database, "database", "ecommerce", "MongoDB database name")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file (.json or .json.gz)")
	flag.Parse()

	if mongoURI == "" {
		mongoURI = os.Getenv("MONGO_URI")
	}
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, mongoURI, database, productsFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, mongoURI, database, productsFile string) error {
	slog.Info("connecting to store", slog.String("database", database))

	client, err := mongostore.Connect(ctx, mongoURI)
	if err != nil {
		return errors.Wrap(err, "connect to store")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(database)
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "ensure indexes")
	}

	products, err := readProducts(productsFile)
	if err != nil {
		return errors.Wrap(err, "read products")
	}

	repo := mongostore.NewProductRepository(db)
	return seedProducts(ctx, repo, products)
}

// readProducts parses the seed file, transparently decompressing gzipped
// input.
func readProducts(path string) ([]productJSON, error) {
	slog.Info("reading products file", slog.String("path", path))

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "gzip reader")
		}
		defer gz.Close()
		r = gz
	}

	var products []productJSON
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, errors.Wrap(err, "parse JSON")
	}
	return products, nil
}

func seedProducts(ctx context.Context, repo *mongostore.ProductRepository, products []productJSON) error {
	slog.Info("inserting products", slog.Int("count", len(products)))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(insertWorkers)

	for _, pj := range products {
		g.Go(func() error {
			p := product.Product{
				Name:  pj.Name,
				Price: pj.Price,
				Sizes: make([]product.Size, len(pj.Sizes)),
			}
			for i, s := range pj.Sizes {
				p.Sizes[i] = product.Size{Label: s.Size, Quantity: s.Quantity}
			}

			id, err := repo.Create(ctx, &p)
			if err != nil {
				return errors.Wrapf(err, "insert %q", pj.Name)
			}
			slog.Info("inserted product", slog.String("id", id), slog.String("name", pj.Name))
			return nil
		})
	}
	return g.Wait()
}
