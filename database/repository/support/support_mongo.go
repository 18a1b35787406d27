package supportRepo

import (
	"context"
	"fmt"
	"time"

	"covenant/database"
	"covenant/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SupportRepository stores help tickets submitted from the support form.
type SupportRepository interface {
	Insert(ctx context.Context, ticket *models.SupportTicket) error
	// MarkDispatched flips a ticket to the dispatched state once the
	// background worker has forwarded it.
	MarkDispatched(ctx context.Context, ticketID string) error
}

// MongoSupportRepo implements SupportRepository using MongoDB.
type MongoSupportRepo struct {
	coll *mongo.Collection
}

// NewMongoSupportRepo creates a new instance of SupportRepository using MongoDB.
func NewMongoSupportRepo() SupportRepository {
	coll := database.MongoClient.Database(database.DatabaseName).Collection("support_tickets")
	return &MongoSupportRepo{coll: coll}
}

// Insert stores a new support ticket.
func (r *MongoSupportRepo) Insert(ctx context.Context, ticket *models.SupportTicket) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ticket.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, ticket); err != nil {
		return fmt.Errorf("failed to insert support ticket: %w", err)
	}
	return nil
}

// MarkDispatched flips a ticket to the dispatched state.
func (r *MongoSupportRepo) MarkDispatched(ctx context.Context, ticketID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": models.TicketStatusDispatched}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": ticketID}, update)
	if err != nil {
		return fmt.Errorf("failed to mark ticket %s dispatched: %w", ticketID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("ticket with id %s not found", ticketID)
	}
	return nil
}
