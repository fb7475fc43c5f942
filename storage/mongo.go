package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	currency "github.com/malusev998/fixerio-import"
)

type (
	mongoStorage struct {
		ctx        context.Context
		client     *mongo.Client
		collection *mongo.Collection
	}

	mongoCurrency struct {
		ID        primitive.ObjectID   `bson:"_id,omitempty"`
		ImportID  string               `bson:"importId"`
		From      string               `bson:"from"`
		To        string               `bson:"to"`
		Provider  string               `bson:"provider"`
		Rate      primitive.Decimal128 `bson:"rate"`
		CreatedAt time.Time            `bson:"createdAt"`
	}
)

func NewMongoStorage(c MongoDBConfig) (currency.Storage, error) {
	const op = "storage.NewMongoStorage"

	ctx := c.Cxt
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := mongo.NewClient(options.Client().ApplyURI(c.ConnectionString))
	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	if err := client.Connect(ctx); err != nil {
		return nil, errors.Wrap(err, op)
	}

	st := mongoStorage{
		ctx:        ctx,
		client:     client,
		collection: client.Database(c.Database).Collection(c.Collection),
	}

	if c.Migrate {
		if err := st.Migrate(); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
	}

	return st, nil
}

func toMongoCurrency(c currency.Currency) (mongoCurrency, error) {
	rate, err := primitive.ParseDecimal128(c.Rate.String())
	if err != nil {
		return mongoCurrency{}, err
	}

	return mongoCurrency{
		ImportID:  c.ImportID.String(),
		From:      c.From,
		To:        c.To,
		Provider:  string(c.Provider),
		Rate:      rate,
		CreatedAt: c.CreatedAt,
	}, nil
}

func (m mongoCurrency) toCurrency() (currency.CurrencyWithID, error) {
	rate, err := decimal.NewFromString(m.Rate.String())
	if err != nil {
		return currency.CurrencyWithID{}, err
	}

	importID, err := uuid.Parse(m.ImportID)
	if err != nil {
		return currency.CurrencyWithID{}, err
	}

	return currency.CurrencyWithID{
		Currency: currency.Currency{
			From:      m.From,
			To:        m.To,
			Provider:  currency.Provider(m.Provider),
			Rate:      rate,
			ImportID:  importID,
			CreatedAt: m.CreatedAt,
		},
		ID: m.ID,
	}, nil
}

func (m mongoStorage) Store(currencies []currency.Currency) ([]currency.CurrencyWithID, error) {
	const op = "storage.mongo.Store"

	if len(currencies) == 0 {
		return []currency.CurrencyWithID{}, nil
	}

	currencies = append([]currency.Currency(nil), currencies...)
	documents := make([]interface{}, 0, len(currencies))

	for i := range currencies {
		if currencies[i].CreatedAt.IsZero() {
			currencies[i].CreatedAt = time.Now()
		}

		document, err := toMongoCurrency(currencies[i])
		if err != nil {
			return nil, errors.Wrap(err, op)
		}

		documents = append(documents, document)
	}

	result, err := m.collection.InsertMany(m.ctx, documents)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	saved := make([]currency.CurrencyWithID, 0, len(currencies))

	for i, id := range result.InsertedIDs {
		saved = append(saved, currency.CurrencyWithID{
			Currency: currencies[i],
			ID:       id,
		})
	}

	return saved, nil
}

func (m mongoStorage) Get(from, to string, page, perPage int64) ([]currency.CurrencyWithID, error) {
	const op = "storage.mongo.Get"

	if page < 1 {
		page = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * perPage).
		SetLimit(perPage)

	cursor, err := m.collection.Find(m.ctx, bson.M{"from": from, "to": to}, opts)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	defer cursor.Close(m.ctx)

	var documents []mongoCurrency

	if err := cursor.All(m.ctx, &documents); err != nil {
		return nil, errors.Wrap(err, op)
	}

	currencies := make([]currency.CurrencyWithID, 0, len(documents))

	for _, document := range documents {
		c, err := document.toCurrency()
		if err != nil {
			return nil, errors.Wrap(err, op)
		}

		currencies = append(currencies, c)
	}

	return currencies, nil
}

func (m mongoStorage) GetStorageProviderName() string {
	return string(MongoDB)
}

func (m mongoStorage) Migrate() error {
	_, err := m.collection.Indexes().CreateOne(m.ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "from", Value: 1},
			{Key: "to", Value: 1},
			{Key: "createdAt", Value: -1},
		},
	})

	return errors.Wrap(err, "storage.mongo.Migrate")
}

func (m mongoStorage) Drop() error {
	return errors.Wrap(m.collection.Drop(m.ctx), "storage.mongo.Drop")
}

func (m mongoStorage) Close() error {
	return m.client.Disconnect(m.ctx)
}
