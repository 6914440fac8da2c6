package utils

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"library-catalog/internal/models"
)

// Logger writes an audit trail of mutating operations to the store.
// A zero Logger is a no-op, which keeps handlers testable without a
// live audit collection.
type Logger struct {
	Collection *mongo.Collection
}

func (l *Logger) Log(ctx context.Context, entity, action string, data any) error {
	if l.Collection == nil {
		return nil
	}
	entry := models.AuditLog{
		Timestamp: time.Now(),
		Entity:    entity,
		Action:    action,
		Data:      data,
	}
	_, err := l.Collection.InsertOne(ctx, entry)
	return err
}
