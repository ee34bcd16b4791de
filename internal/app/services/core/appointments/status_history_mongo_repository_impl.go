package appointments

import (
	"context"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type StatusHistoryMongoRepository struct {
	Collection *mongo.Collection
}

func NewStatusHistoryMongoRepository(db *mongo.Client, dbName, collectionName string) contracts.StatusHistoryRepository {
	return &StatusHistoryMongoRepository{
		Collection: db.Database(dbName).Collection(collectionName),
	}
}

func (repo *StatusHistoryMongoRepository) Insert(ctx context.Context, entry *models.StatusHistoryEntry) error {
	_, err := repo.Collection.InsertOne(ctx, entry)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (repo *StatusHistoryMongoRepository) FindByAppointmentID(ctx context.Context, appointmentID string) ([]models.StatusHistoryEntry, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "at", Value: 1}})
	cursor, err := repo.Collection.Find(ctx, bson.M{"appointment_id": appointmentID}, findOptions)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}

	entries := []models.StatusHistoryEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return entries, nil
}
