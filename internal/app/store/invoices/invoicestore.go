// internal/app/store/invoices/invoicestore.go
package invoicestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/staffhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrInvoiceLocked is returned when regenerating a period whose invoice
	// has already been issued or paid.
	ErrInvoiceLocked = errors.New("invoice for this period is already issued")
	// ErrInvalidTransition is returned for a status change the invoice
	// lifecycle does not allow.
	ErrInvalidTransition = errors.New("invoice status change not allowed")
	// ErrDuplicateInvoice means another writer created the period's invoice first.
	ErrDuplicateInvoice = errors.New("an invoice for this period already exists")
)

// transitions lists the allowed status changes.
var transitions = map[string][]string{
	models.InvoiceDraft:  {models.InvoiceIssued, models.InvoiceVoid},
	models.InvoiceIssued: {models.InvoicePaid, models.InvoiceVoid},
}

// CanTransition reports whether an invoice may move from one status to another.
func CanTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("invoices")}
}

// FindForPeriod returns the non-void invoice of a school for a month, or
// mongo.ErrNoDocuments.
func (s *Store) FindForPeriod(ctx context.Context, schoolID primitive.ObjectID, year, month int) (models.Invoice, error) {
	var inv models.Invoice
	err := s.c.FindOne(ctx, bson.M{
		"school_id": schoolID,
		"year":      year,
		"month":     month,
		"status":    bson.M{"$ne": models.InvoiceVoid},
	}).Decode(&inv)
	return inv, err
}

// SaveDraft stores inv as the draft for its period. An existing draft keeps
// its id and invoice number and has its lines replaced; an issued or paid
// invoice is left untouched and ErrInvoiceLocked is returned.
func (s *Store) SaveDraft(ctx context.Context, inv models.Invoice) (models.Invoice, error) {
	now := time.Now().UTC()
	existing, err := s.FindForPeriod(ctx, inv.SchoolID, inv.Year, inv.Month)
	switch {
	case err == nil:
		if existing.Locked() {
			return existing, ErrInvoiceLocked
		}
		res, err := s.c.UpdateOne(ctx,
			bson.M{"_id": existing.ID, "status": models.InvoiceDraft},
			bson.M{"$set": bson.M{
				"school_name":  inv.SchoolName,
				"lines":        inv.Lines,
				"subtotal":     inv.Subtotal,
				"generated_at": inv.GeneratedAt,
				"updated_at":   now,
			}})
		if err != nil {
			return models.Invoice{}, err
		}
		if res.MatchedCount == 0 {
			// Issued between our read and write.
			return existing, ErrInvoiceLocked
		}
		existing.SchoolName = inv.SchoolName
		existing.Lines = inv.Lines
		existing.Subtotal = inv.Subtotal
		existing.GeneratedAt = inv.GeneratedAt
		existing.UpdatedAt = now
		return existing, nil

	case errors.Is(err, mongo.ErrNoDocuments):
		inv.ID = primitive.NewObjectID()
		inv.Status = models.InvoiceDraft
		inv.CreatedAt = now
		inv.UpdatedAt = now
		if _, err := s.c.InsertOne(ctx, inv); err != nil {
			if wafflemongo.IsDup(err) {
				return models.Invoice{}, ErrDuplicateInvoice
			}
			return models.Invoice{}, err
		}
		return inv, nil

	default:
		return models.Invoice{}, err
	}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Invoice, error) {
	var inv models.Invoice
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&inv); err != nil {
		return models.Invoice{}, err
	}
	return inv, nil
}

// SetStatus moves an invoice along its lifecycle and stamps issued_at /
// paid_at. The write only succeeds if the invoice is still in the status
// it was read in.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, to string) (models.Invoice, error) {
	inv, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Invoice{}, err
	}
	if !CanTransition(inv.Status, to) {
		return inv, ErrInvalidTransition
	}
	now := time.Now().UTC()
	set := bson.M{"status": to, "updated_at": now}
	switch to {
	case models.InvoiceIssued:
		set["issued_at"] = now
		inv.IssuedAt = &now
	case models.InvoicePaid:
		set["paid_at"] = now
		inv.PaidAt = &now
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "status": inv.Status}, bson.M{"$set": set})
	if err != nil {
		return models.Invoice{}, err
	}
	if res.MatchedCount == 0 {
		return inv, ErrInvalidTransition
	}
	inv.Status = to
	inv.UpdatedAt = now
	return inv, nil
}

// Find returns invoices matching the given filter with optional find options.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Invoice, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Invoice
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of invoices matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
