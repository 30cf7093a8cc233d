// Package mongo implements the reporting read models. Committed ledger
// transactions arrive here through the outbox pipeline and are folded into
// query-friendly documents: one per transaction plus per-category daily
// aggregates. Amounts are stored as integer minor units so aggregation
// stays exact.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/compost-credit-ledger/internal/domain/ledger"
)

const (
	// TransactionCollectionName holds one document per committed ledger
	// transaction.
	TransactionCollectionName = "ledger_transactions"
	// DailyStatsCollectionName holds per-category, per-day aggregates.
	DailyStatsCollectionName = "daily_category_stats"
)

// transactionDoc is the read-model shape of a ledger transaction. The
// amount is kept as its decimal string; uuids as their canonical strings.
type transactionDoc struct {
	ID                   string    `bson:"_id"`
	Category             string    `bson:"category"`
	Amount               string    `bson:"amount"`
	SourceAccountID      *string   `bson:"source_account_id,omitempty"`
	DestinationAccountID string    `bson:"destination_account_id"`
	Reason               string    `bson:"reason,omitempty"`
	CreatedAt            time.Time `bson:"created_at"`
}

// DailyCategoryStat aggregates one category's committed amounts for one UTC
// day. TotalMinorUnits is the sum of amounts shifted by the configured
// precision.
type DailyCategoryStat struct {
	ID              string `bson:"_id" json:"-"`
	Category        string `bson:"category" json:"category"`
	Day             string `bson:"day" json:"day"`
	TotalMinorUnits int64  `bson:"total_minor_units" json:"-"`
	Count           int64  `bson:"count" json:"count"`
}

// Total converts the aggregated minor units back to a decimal amount.
func (s *DailyCategoryStat) Total(precision int32) decimal.Decimal {
	return decimal.New(s.TotalMinorUnits, -precision)
}

// ReportingRepository maintains the MongoDB read models
type ReportingRepository struct {
	db        *mongo.Database
	precision int32
	logger    *slog.Logger
}

// NewReportingRepository creates a MongoDB reporting repository. precision
// is the minor-unit decimal places used when aggregating amounts.
func NewReportingRepository(logger *slog.Logger, db *mongo.Database, precision int32) *ReportingRepository {
	return &ReportingRepository{
		db:        db,
		precision: precision,
		logger:    logger,
	}
}

// ApplyTransaction folds one committed ledger transaction into the read
// models. Idempotent: a transaction already projected is skipped entirely,
// so redelivered outbox events never double-count aggregates.
func (r *ReportingRepository) ApplyTransaction(ctx context.Context, txn *ledger.Transaction) error {
	doc := toTransactionDoc(txn)

	res, err := r.db.Collection(TransactionCollectionName).UpdateOne(ctx,
		bson.M{"_id": doc.ID},
		bson.M{"$setOnInsert": doc},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		r.logger.Error("Failed to project ledger transaction",
			"transaction_id", doc.ID,
			"error", err)
		return fmt.Errorf("failed to project ledger transaction: %w", err)
	}

	if res.UpsertedCount == 0 {
		r.logger.Debug("Ledger transaction already projected, skipping", "transaction_id", doc.ID)
		return nil
	}

	day := txn.CreatedAt.UTC().Format("2006-01-02")
	statID := string(txn.Category) + ":" + day

	_, err = r.db.Collection(DailyStatsCollectionName).UpdateOne(ctx,
		bson.M{"_id": statID},
		bson.M{
			"$setOnInsert": bson.M{"category": string(txn.Category), "day": day},
			"$inc": bson.M{
				"total_minor_units": txn.Amount.Shift(r.precision).IntPart(),
				"count":             int64(1),
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		r.logger.Error("Failed to update daily category stats",
			"transaction_id", doc.ID,
			"stat_id", statID,
			"error", err)
		return fmt.Errorf("failed to update daily category stats: %w", err)
	}

	return nil
}

// GetTransaction retrieves a projected ledger transaction by its ID.
// Returns ledger.ErrTransactionNotFound if the transaction was never
// projected (or does not exist).
func (r *ReportingRepository) GetTransaction(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	var doc transactionDoc
	err := r.db.Collection(TransactionCollectionName).
		FindOne(ctx, bson.M{"_id": id.String()}).
		Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ledger.ErrTransactionNotFound{TransactionID: id}
		}
		r.logger.Error("Failed to get projected transaction", "transaction_id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get projected transaction: %w", err)
	}

	return fromTransactionDoc(&doc)
}

// GetByAccountID retrieves projected transactions where the account is
// either endpoint, newest first.
func (r *ReportingRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*ledger.Transaction, error) {
	filter := eitherEndpointFilter(accountID)
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.db.Collection(TransactionCollectionName).Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get projected transactions", "account_id", accountID.String(), "error", err)
		return nil, fmt.Errorf("failed to get projected transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []transactionDoc
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode projected transactions", "account_id", accountID.String(), "error", err)
		return nil, fmt.Errorf("failed to decode projected transactions: %w", err)
	}

	transactions := make([]*ledger.Transaction, 0, len(docs))
	for i := range docs {
		txn, err := fromTransactionDoc(&docs[i])
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, txn)
	}
	return transactions, nil
}

// CountByAccountID counts projected transactions for an account
func (r *ReportingRepository) CountByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error) {
	count, err := r.db.Collection(TransactionCollectionName).CountDocuments(ctx, eitherEndpointFilter(accountID))
	if err != nil {
		r.logger.Error("Failed to count projected transactions", "account_id", accountID.String(), "error", err)
		return 0, fmt.Errorf("failed to count projected transactions: %w", err)
	}
	return count, nil
}

// GetDailyStats retrieves per-category aggregates for UTC days in
// [startDay, endDay], both formatted as 2006-01-02.
func (r *ReportingRepository) GetDailyStats(ctx context.Context, startDay, endDay string) ([]*DailyCategoryStat, error) {
	filter := bson.M{"day": bson.M{"$gte": startDay, "$lte": endDay}}
	opts := options.Find().SetSort(bson.D{{Key: "day", Value: 1}, {Key: "category", Value: 1}})

	cursor, err := r.db.Collection(DailyStatsCollectionName).Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get daily stats", "error", err)
		return nil, fmt.Errorf("failed to get daily stats: %w", err)
	}
	defer cursor.Close(ctx)

	var stats []*DailyCategoryStat
	if err := cursor.All(ctx, &stats); err != nil {
		r.logger.Error("Failed to decode daily stats", "error", err)
		return nil, fmt.Errorf("failed to decode daily stats: %w", err)
	}
	return stats, nil
}

func eitherEndpointFilter(accountID uuid.UUID) bson.M {
	id := accountID.String()
	return bson.M{"$or": bson.A{
		bson.M{"source_account_id": id},
		bson.M{"destination_account_id": id},
	}}
}

func toTransactionDoc(txn *ledger.Transaction) *transactionDoc {
	doc := &transactionDoc{
		ID:                   txn.ID.String(),
		Category:             string(txn.Category),
		Amount:               txn.Amount.String(),
		DestinationAccountID: txn.DestinationAccountID.String(),
		Reason:               txn.Reason,
		CreatedAt:            txn.CreatedAt,
	}
	if txn.SourceAccountID != nil {
		s := txn.SourceAccountID.String()
		doc.SourceAccountID = &s
	}
	return doc
}

func fromTransactionDoc(doc *transactionDoc) (*ledger.Transaction, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid projected transaction id %q: %w", doc.ID, err)
	}
	destination, err := uuid.Parse(doc.DestinationAccountID)
	if err != nil {
		return nil, fmt.Errorf("invalid projected destination id %q: %w", doc.DestinationAccountID, err)
	}
	amount, err := decimal.NewFromString(doc.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid projected amount %q: %w", doc.Amount, err)
	}

	txn := &ledger.Transaction{
		ID:                   id,
		Category:             ledger.Category(doc.Category),
		Amount:               amount,
		DestinationAccountID: destination,
		Reason:               doc.Reason,
		CreatedAt:            doc.CreatedAt,
	}
	if doc.SourceAccountID != nil {
		source, err := uuid.Parse(*doc.SourceAccountID)
		if err != nil {
			return nil, fmt.Errorf("invalid projected source id %q: %w", *doc.SourceAccountID, err)
		}
		txn.SourceAccountID = &source
	}
	return txn, nil
}
