package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	_ "github.com/go-sql-driver/mysql"

	currency "github.com/malusev998/fixerio-import"
)

const MySQLTimeFormat = "2006-01-02 15:04:05"

type (
	IDGenerator interface {
		Generate() []byte
	}

	uuidGenerator struct{}

	sqlStorage struct {
		ctx         context.Context
		db          *sql.DB
		tableName   string
		idGenerator IDGenerator
	}
)

var ErrNotEnoughBytesInGenerator = errors.New("id generator must return at least 16 bytes")

func (uuidGenerator) Generate() []byte {
	id := uuid.New()
	return id[:]
}

func NewMySQLStorage(c MySQLConfig) (currency.Storage, error) {
	db, err := sql.Open("mysql", c.ConnectionString)
	if err != nil {
		return nil, errors.Wrap(err, "storage.NewMySQLStorage")
	}

	return NewSQLStorage(c.Cxt, db, c.IDGenerator, c.TableName, c.Migrate)
}

func NewSQLStorage(ctx context.Context, db *sql.DB, idGenerator IDGenerator, tableName string, migrate bool) (currency.Storage, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if idGenerator == nil {
		idGenerator = uuidGenerator{}
	}

	st := sqlStorage{
		ctx:         ctx,
		db:          db,
		tableName:   tableName,
		idGenerator: idGenerator,
	}

	if migrate {
		if err := st.Migrate(); err != nil {
			return nil, err
		}
	}

	return st, nil
}

func (s sqlStorage) generateID() (uuid.UUID, error) {
	id := s.idGenerator.Generate()

	if len(id) < 16 {
		return uuid.Nil, ErrNotEnoughBytesInGenerator
	}

	return uuid.FromBytes(id[:16])
}

func (s sqlStorage) Store(currencies []currency.Currency) ([]currency.CurrencyWithID, error) {
	const op = "storage.mysql.Store"

	tx, err := s.db.BeginTx(s.ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	stmt, err := tx.PrepareContext(s.ctx, fmt.Sprintf("INSERT INTO %s(id, import_id, currency_from, currency_to, provider, rate, created_at) VALUES (?,?,?,?,?,?,?);", s.tableName))
	if err != nil {
		_ = tx.Rollback()
		return nil, errors.Wrap(err, op)
	}

	saved := make([]currency.CurrencyWithID, 0, len(currencies))

	for _, c := range currencies {
		if c.CreatedAt.IsZero() {
			c.CreatedAt = time.Now()
		}

		id, err := s.generateID()
		if err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return nil, errors.Wrap(err, op)
		}

		_, err = stmt.ExecContext(
			s.ctx,
			id.String(),
			c.ImportID.String(),
			c.From,
			c.To,
			string(c.Provider),
			c.Rate.StringFixed(currency.RatePrecision),
			c.CreatedAt.UTC().Format(MySQLTimeFormat),
		)

		if err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return nil, errors.Wrap(err, op)
		}

		saved = append(saved, currency.CurrencyWithID{
			Currency: c,
			ID:       id,
		})
	}

	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return nil, errors.Wrap(err, op)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, op)
	}

	return saved, nil
}

func (s sqlStorage) Get(from, to string, page, perPage int64) ([]currency.CurrencyWithID, error) {
	const op = "storage.mysql.Get"

	if page < 1 {
		page = 1
	}

	rows, err := s.db.QueryContext(
		s.ctx,
		fmt.Sprintf("SELECT id, import_id, currency_from, currency_to, provider, rate, created_at FROM %s WHERE currency_from = ? AND currency_to = ? ORDER BY created_at DESC LIMIT ? OFFSET ?;", s.tableName),
		from,
		to,
		perPage,
		(page-1)*perPage,
	)

	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	defer rows.Close()

	currencies := make([]currency.CurrencyWithID, 0, perPage)

	for rows.Next() {
		var (
			id, importID, provider, createdAt string
			rate                              decimal.Decimal
			c                                 currency.Currency
		)

		if err := rows.Scan(&id, &importID, &c.From, &c.To, &provider, &rate, &createdAt); err != nil {
			return nil, errors.Wrap(err, op)
		}

		parsedID, err := uuid.Parse(id)
		if err != nil {
			return nil, errors.Wrap(err, op)
		}

		if c.ImportID, err = uuid.Parse(importID); err != nil {
			return nil, errors.Wrap(err, op)
		}

		if c.CreatedAt, err = time.ParseInLocation(MySQLTimeFormat, createdAt, time.UTC); err != nil {
			return nil, errors.Wrap(err, op)
		}

		c.Provider = currency.Provider(provider)
		c.Rate = rate

		currencies = append(currencies, currency.CurrencyWithID{
			Currency: c,
			ID:       parsedID,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, op)
	}

	return currencies, nil
}

func (s sqlStorage) GetStorageProviderName() string {
	return string(MySQL)
}

func (s sqlStorage) Migrate() error {
	_, err := s.db.ExecContext(s.ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s(
	id CHAR(36) PRIMARY KEY,
	import_id CHAR(36) NOT NULL,
	currency_from CHAR(3) NOT NULL,
	currency_to CHAR(3) NOT NULL,
	provider VARCHAR(50) NOT NULL,
	rate DECIMAL(24,12) NOT NULL,
	created_at DATETIME NOT NULL,
	INDEX currency_pair_created_at (currency_from, currency_to, created_at)
);`, s.tableName))

	return errors.Wrap(err, "storage.mysql.Migrate")
}

func (s sqlStorage) Drop() error {
	_, err := s.db.ExecContext(s.ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s;", s.tableName))

	return errors.Wrap(err, "storage.mysql.Drop")
}

func (s sqlStorage) Close() error {
	return s.db.Close()
}
