package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dahby/13-14-relationship-mapping/internal/models"
)

// FoodCollection is the mongo collection holding food documents.
const FoodCollection = "foods"

// foodDocument is the bson shape of a food. The ID is kept as its
// canonical string so documents stay readable from the mongo shell.
type foodDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Recipe    string    `bson:"recipe"`
	Timestamp time.Time `bson:"timestamp"`
}

func newFoodDocument(f *models.Food) foodDocument {
	return foodDocument{
		ID:        f.ID.String(),
		Name:      f.Name,
		Recipe:    f.Recipe,
		Timestamp: f.Timestamp,
	}
}

func (d foodDocument) toModel() (*models.Food, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("stored food has malformed id %q: %w", d.ID, err)
	}
	return &models.Food{
		ID:        id,
		Name:      d.Name,
		Recipe:    d.Recipe,
		Timestamp: d.Timestamp.UTC(),
	}, nil
}

// MongoStore keeps foods in a mongo collection with a unique index on name.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore creates a MongoStore over the foods collection of db
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(FoodCollection)}
}

// EnsureIndexes creates the unique name index. It is safe to call repeatedly.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("idx_foods_name"),
	})
	if err != nil {
		return fmt.Errorf("failed to create food indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) Create(ctx context.Context, food *models.Food) error {
	food.PrepareForInsert(time.Now())
	if _, err := s.coll.InsertOne(ctx, newFoodDocument(food)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("failed to insert food: %w", err)
	}
	return nil
}

func (s *MongoStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Food, error) {
	return s.findOne(ctx, bson.M{"_id": id.String()})
}

func (s *MongoStore) FindByField(ctx context.Context, field, value string) (*models.Food, error) {
	col, err := columnFor(field)
	if err != nil {
		return nil, err
	}
	return s.findOne(ctx, bson.M{col: value}, options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (s *MongoStore) Update(ctx context.Context, id uuid.UUID, update models.FoodUpdate) (*models.Food, error) {
	if update.IsEmpty() {
		return s.FindByID(ctx, id)
	}

	set := bson.M{}
	for col, val := range update.Columns() {
		set[col] = val
	}

	var doc foodDocument
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id.String()},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, ErrNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to update food: %w", err)
	}
	return doc.toModel()
}

func (s *MongoStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("failed to delete food: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Truncate removes every food document.
func (s *MongoStore) Truncate(ctx context.Context) error {
	_, err := s.coll.DeleteMany(ctx, bson.M{})
	return err
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*models.Food, error) {
	var doc foodDocument
	if err := s.coll.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find food: %w", err)
	}
	return doc.toModel()
}
