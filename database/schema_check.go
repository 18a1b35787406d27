package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// RequiredCollections lists the collections the service expects to exist.
// A missing collection puts the service into degraded mode instead of crashing,
// so operators get a readable signal on /health.
var RequiredCollections = []string{
	"users",
	"profiles",
	"verification_audits",
	"support_tickets",
}

// CheckSchema verifies the presence of every required collection and returns
// the names of the ones that are missing.
func CheckSchema(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db := MongoClient.Database(DatabaseName)
	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}

	present := make(map[string]bool, len(existing))
	for _, name := range existing {
		present[name] = true
	}

	var missing []string
	for _, name := range RequiredCollections {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	return missing, nil
}
