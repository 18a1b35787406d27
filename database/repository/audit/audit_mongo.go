package auditRepo

import (
	"context"
	"fmt"
	"time"

	"covenant/database"
	"covenant/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AuditRepository records verification attempts.
type AuditRepository interface {
	// Insert stores one verification audit record.
	Insert(ctx context.Context, audit *models.VerificationAudit) error
	// ListByUser returns the audit trail for one user, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.VerificationAudit, error)
}

// MongoAuditRepo implements AuditRepository using MongoDB.
type MongoAuditRepo struct {
	coll *mongo.Collection
}

// NewMongoAuditRepo creates a new instance of AuditRepository using MongoDB.
func NewMongoAuditRepo() AuditRepository {
	coll := database.MongoClient.Database(database.DatabaseName).Collection("verification_audits")
	return &MongoAuditRepo{coll: coll}
}

// Insert stores one verification audit record.
func (r *MongoAuditRepo) Insert(ctx context.Context, audit *models.VerificationAudit) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	audit.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, audit); err != nil {
		return fmt.Errorf("failed to insert verification audit: %w", err)
	}
	return nil
}

// ListByUser returns the audit trail for one user, newest first.
func (r *MongoAuditRepo) ListByUser(ctx context.Context, userID string) ([]models.VerificationAudit, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list verification audits for %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var audits []models.VerificationAudit
	if err := cursor.All(ctx, &audits); err != nil {
		return nil, fmt.Errorf("failed to decode verification audits: %w", err)
	}
	return audits, nil
}
