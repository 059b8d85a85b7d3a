package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	prefserrors "calview/internal/prefs/errors"
	"calview/pkg/config"
	"calview/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "Calendar_preferences"

type PreferencesRepository interface {
	Get(ctx context.Context, userID string) (*model.CalendarPreferences, error)
	Upsert(ctx context.Context, prefs *model.CalendarPreferences) error
	Delete(ctx context.Context, userID string) error
}

type mongoPreferencesRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoPreferencesRepository(cfg *config.Config) PreferencesRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPreferencesRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoPreferencesRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoPreferencesRepository) Get(ctx context.Context, userID string) (*model.CalendarPreferences, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var prefs model.CalendarPreferences
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&prefs)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", prefserrors.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("failed to load calendar preferences: %w", err)
	}
	return &prefs, nil
}

func (r *mongoPreferencesRepository) Upsert(ctx context.Context, prefs *model.CalendarPreferences) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	prefs.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": prefs.UserID}, prefs, opts); err != nil {
		return fmt.Errorf("failed to save calendar preferences: %w", err)
	}
	return nil
}

func (r *mongoPreferencesRepository) Delete(ctx context.Context, userID string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete calendar preferences: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", prefserrors.ErrNotFound, userID)
	}
	return nil
}
