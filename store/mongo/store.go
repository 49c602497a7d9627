// Package mongo provides a MongoDB-backed Store.
//
// The atomic unit maps to a MongoDB multi-document transaction, which
// requires a replica set or sharded deployment. GetAccountForUpdate bumps a
// lock counter on the account document so two concurrent units touching the
// same account write-conflict; the driver retries the losing unit, which
// then rereads the committed balance.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	wallet "github.com/xraph/wallet"
	"github.com/xraph/wallet/account"
	"github.com/xraph/wallet/id"
	"github.com/xraph/wallet/store"
	"github.com/xraph/wallet/transaction"
	"github.com/xraph/wallet/types"
)

// Collection name constants.
const (
	colAccounts     = "wallet_accounts"
	colTransactions = "wallet_transactions"
	colCounters     = "wallet_counters"
)

// compile-time interface check
var _ store.Store = (*Store)(nil)

// Store implements store.Store using the official MongoDB driver.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New connects to MongoDB and returns a Store using the given database.
func New(ctx context.Context, uri, database string, opts ...Option) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background()) //nolint:errcheck // already failing
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}

	s := &Store{
		client: client,
		db:     client.Database(database),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewFromClient wraps an existing client, which stays owned by the caller.
func NewFromClient(client *mongo.Client, database string, opts ...Option) *Store {
	s := &Store{
		client: client,
		db:     client.Database(database),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// mapErr translates driver errors into the wallet error taxonomy.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return wallet.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return wallet.ErrAlreadyExists
	}
	return err
}

// ==================== Account methods ====================

func (s *Store) CreateAccount(ctx context.Context, a *account.Account) error {
	_, err := s.db.Collection(colAccounts).InsertOne(ctx, toAccountModel(a))
	if err != nil {
		return fmt.Errorf("mongo: create account: %w", mapErr(err))
	}
	return nil
}

func (s *Store) GetAccount(ctx context.Context, accountID id.AccountID) (*account.Account, error) {
	var m accountModel
	err := s.db.Collection(colAccounts).
		FindOne(ctx, bson.M{"_id": accountID.String()}).
		Decode(&m)
	if err != nil {
		return nil, mapErr(err)
	}
	return fromAccountModel(&m)
}

func (s *Store) GetAccountForUpdate(ctx context.Context, accountID id.AccountID) (*account.Account, error) {
	// The $inc turns the read into a write, so a parallel unit touching
	// the same account aborts with a write conflict instead of proceeding
	// on a stale balance.
	var m accountModel
	err := s.db.Collection(colAccounts).
		FindOneAndUpdate(ctx,
			bson.M{"_id": accountID.String()},
			bson.M{"$inc": bson.M{"lock": 1}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).
		Decode(&m)
	if err != nil {
		return nil, mapErr(err)
	}
	return fromAccountModel(&m)
}

func (s *Store) UpdateAccount(ctx context.Context, a *account.Account) error {
	res, err := s.db.Collection(colAccounts).
		UpdateOne(ctx,
			bson.M{"_id": a.ID.String()},
			bson.M{"$set": bson.M{
				"holder_kind": a.Holder.Kind,
				"holder_key":  a.Holder.Key,
				"name":        a.Name,
				"balance":     a.Balance,
				"precision":   a.Precision,
				"metadata":    map[string]any(a.Metadata),
				"created_at":  a.CreatedAt,
				"updated_at":  a.UpdatedAt,
			}},
		)
	if err != nil {
		return fmt.Errorf("mongo: update account: %w", mapErr(err))
	}
	if res.MatchedCount == 0 {
		return wallet.ErrNotFound
	}
	return nil
}

// ==================== Transaction methods ====================

func (s *Store) CreateTransaction(ctx context.Context, t *transaction.Transaction) error {
	seq, err := s.nextSeq(ctx)
	if err != nil {
		return err
	}

	_, err = s.db.Collection(colTransactions).InsertOne(ctx, toTransactionModel(t, seq))
	if err != nil {
		return fmt.Errorf("mongo: create transaction: %w", mapErr(err))
	}
	return nil
}

func (s *Store) GetTransaction(ctx context.Context, txID id.TransactionID) (*transaction.Transaction, error) {
	var m transactionModel
	err := s.db.Collection(colTransactions).
		FindOne(ctx, bson.M{"_id": txID.String()}).
		Decode(&m)
	if err != nil {
		return nil, mapErr(err)
	}
	return fromTransactionModel(&m)
}

func (s *Store) GetTransactionForUpdate(ctx context.Context, txID id.TransactionID) (*transaction.Transaction, error) {
	// Same write-conflict trick as GetAccountForUpdate.
	var m transactionModel
	err := s.db.Collection(colTransactions).
		FindOneAndUpdate(ctx,
			bson.M{"_id": txID.String()},
			bson.M{"$inc": bson.M{"lock": 1}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).
		Decode(&m)
	if err != nil {
		return nil, mapErr(err)
	}
	return fromTransactionModel(&m)
}

func (s *Store) UpdateTransaction(ctx context.Context, t *transaction.Transaction) error {
	res, err := s.db.Collection(colTransactions).
		UpdateOne(ctx,
			bson.M{"_id": t.ID.String()},
			bson.M{"$set": bson.M{
				"from_kind":    t.From.Kind,
				"from_key":     t.From.Key,
				"to_kind":      t.To.Kind,
				"to_key":       t.To.Key,
				"type":         string(t.Type),
				"amount":       t.Amount,
				"fee":          t.Fee,
				"discount":     t.Discount,
				"confirmed":    t.Confirmed,
				"confirmed_at": t.ConfirmedAt,
				"refunded":     t.Refunded,
				"metadata":     map[string]any(t.Metadata),
				"created_at":   t.CreatedAt,
				"updated_at":   t.UpdatedAt,
			}},
		)
	if err != nil {
		return fmt.Errorf("mongo: update transaction: %w", mapErr(err))
	}
	if res.MatchedCount == 0 {
		return wallet.ErrNotFound
	}
	return nil
}

func (s *Store) ListTransactionsByParty(ctx context.Context, ref types.Ref, dir transaction.Direction) ([]*transaction.Transaction, error) {
	sent := bson.M{"from_kind": ref.Kind, "from_key": ref.Key}
	received := bson.M{"to_kind": ref.Kind, "to_key": ref.Key}

	var filter bson.M
	switch dir {
	case transaction.DirectionSent:
		filter = sent
	case transaction.DirectionReceived:
		filter = received
	default:
		filter = bson.M{"$or": []bson.M{sent, received}}
	}

	cursor, err := s.db.Collection(colTransactions).
		Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "seq", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo: list transactions: %w", err)
	}

	var models []transactionModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("mongo: list transactions: %w", err)
	}

	result := make([]*transaction.Transaction, 0, len(models))
	for i := range models {
		t, err := fromTransactionModel(&models[i])
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, nil
}

// nextSeq allocates the next value of the monotonic transaction sequence,
// which orders history queries by insertion.
func (s *Store) nextSeq(ctx context.Context) (int64, error) {
	var counter struct {
		Value int64 `bson:"value"`
	}
	err := s.db.Collection(colCounters).
		FindOneAndUpdate(ctx,
			bson.M{"_id": "transaction_seq"},
			bson.M{"$inc": bson.M{"value": 1}},
			options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
		).
		Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("mongo: next seq: %w", err)
	}
	return counter.Value, nil
}

// ==================== Atomic unit ====================

// Atomic runs fn inside one MongoDB transaction. Nested calls join the
// enclosing session.
func (s *Store) Atomic(ctx context.Context, fn func(ctx context.Context, st store.Store) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx, s)
	}

	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("mongo: start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		return nil, fn(ctx, s)
	})
	return err
}

// ==================== Core methods ====================

// Migrate creates indexes for all wallet collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		colAccounts: {
			{Keys: bson.D{{Key: "holder_kind", Value: 1}, {Key: "holder_key", Value: 1}}},
		},
		colTransactions: {
			{Keys: bson.D{{Key: "from_kind", Value: 1}, {Key: "from_key", Value: 1}, {Key: "seq", Value: -1}}},
			{Keys: bson.D{{Key: "to_kind", Value: 1}, {Key: "to_key", Value: 1}, {Key: "seq", Value: -1}}},
		},
	}

	for col, models := range indexes {
		_, err := s.db.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}
