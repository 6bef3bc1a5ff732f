package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spec-kit/user-directory/internal/domain"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("record not found")

const userCollection = "user"

// UserRepository is the credential store: one record per principal,
// unique by name.
type UserRepository interface {
	Create(ctx context.Context, record *domain.CredentialRecord) error
	Update(ctx context.Context, record *domain.CredentialRecord) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.CredentialRecord, error)
	FindByName(ctx context.Context, name string) (*domain.CredentialRecord, error)
	List(ctx context.Context) ([]domain.CredentialRecord, error)
}

type userDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Phone       string             `bson:"phone"`
	Password    string             `bson:"password"`
	CreatedAt   string             `bson:"create_at"`
	Roles       []string           `bson:"roles"`
	Permissions []string           `bson:"permissions"`
}

func (d *userDocument) toRecord() *domain.CredentialRecord {
	return &domain.CredentialRecord{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Phone:        d.Phone,
		PasswordHash: d.Password,
		CreatedAt:    d.CreatedAt,
		Roles:        d.Roles,
		Permissions:  d.Permissions,
	}
}

type userRepository struct {
	users *mongo.Collection
}

// NewUserRepository returns a document-store-backed implementation.
func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{users: db.Collection(userCollection)}
}

func (r *userRepository) Create(ctx context.Context, record *domain.CredentialRecord) error {
	doc := userDocument{
		Name:        record.Name,
		Phone:       record.Phone,
		Password:    record.PasswordHash,
		CreatedAt:   record.CreatedAt,
		Roles:       record.Roles,
		Permissions: record.Permissions,
	}

	res, err := r.users.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		record.ID = id.Hex()
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, record *domain.CredentialRecord) error {
	id, err := primitive.ObjectIDFromHex(record.ID)
	if err != nil {
		return ErrNotFound
	}

	update := bson.M{"$set": bson.M{
		"name":        record.Name,
		"phone":       record.Phone,
		"password":    record.PasswordHash,
		"roles":       record.Roles,
		"permissions": record.Permissions,
	}}

	res, err := r.users.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := r.users.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*domain.CredentialRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *userRepository) FindByName(ctx context.Context, name string) (*domain.CredentialRecord, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*domain.CredentialRecord, error) {
	var doc userDocument
	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc.toRecord(), nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.CredentialRecord, error) {
	cursor, err := r.users.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []domain.CredentialRecord
	for cursor.Next(ctx) {
		var doc userDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		records = append(records, *doc.toRecord())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
