package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

const auditCollection = "audit"

// AuditRecord is one row of the asynchronous audit trail.
type AuditRecord struct {
	ID        string    `bson:"_id"`
	EventType string    `bson:"event_type"`
	UserID    string    `bson:"user_id"`
	Name      string    `bson:"name"`
	At        time.Time `bson:"at"`
	Detail    string    `bson:"detail,omitempty"`
}

// AuditRepository appends audit trail rows.
type AuditRepository interface {
	Append(ctx context.Context, record AuditRecord) error
}

type auditRepository struct {
	audit *mongo.Collection
}

// NewAuditRepository returns a document-store-backed implementation.
func NewAuditRepository(db *mongo.Database) AuditRepository {
	return &auditRepository{audit: db.Collection(auditCollection)}
}

func (r *auditRepository) Append(ctx context.Context, record AuditRecord) error {
	_, err := r.audit.InsertOne(ctx, record)
	return err
}
