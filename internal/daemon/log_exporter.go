package daemon

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"library-catalog/internal/models"
	"library-catalog/internal/utils"
)

type LogExporter struct {
	Coll     *mongo.Collection
	Interval time.Duration
}

// ExportPending drains unexported audit entries to the sink and marks them
// exported. One batch per call; errors are returned, never fatal.
func (l *LogExporter) ExportPending(ctx context.Context) error {
	res, err := l.Coll.Find(ctx, bson.M{"exported": false})
	if err != nil {
		return err
	}

	var logs []models.AuditLog
	if err := res.All(ctx, &logs); err != nil {
		return err
	}

	if len(logs) == 0 {
		return nil
	}

	if err := utils.ExportData(logs); err != nil {
		return err
	}

	updateIds := []primitive.ObjectID{}
	for i := 0; i < len(logs); i++ {
		updateIds = append(updateIds, logs[i].ID)
	}

	_, err = l.Coll.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": updateIds}},
		bson.M{"$set": bson.M{"exported": true}},
	)
	return err
}

func (l *LogExporter) InitLogExporter() {
	go func() {
		for {
			if err := l.ExportPending(context.Background()); err != nil {
				log.Printf("audit log export failed: %v", err)
			}
			time.Sleep(l.Interval)
		}
	}()
}
