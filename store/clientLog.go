package store

import (
	"context"
	"time"

	"learnhub/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
)

type ClientLogStore interface {
	Create(ctx context.Context, l *models.ClientLog) error
	FindBySession(ctx context.Context, sessionID string) ([]*models.ClientLog, error)
	FindByUser(ctx context.Context, userID string, limit int) ([]*models.ClientLog, error)
	PurgeOlderThan(ctx context.Context, before time.Time) (int64, error)
}

type clientLogStore struct {
	db *gorm.DB
}

func NewClientLogStore(db *gorm.DB) ClientLogStore {
	return &clientLogStore{db: db}
}

func (s *clientLogStore) Create(ctx context.Context, l *models.ClientLog) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(l).Error
}

func (s *clientLogStore) FindBySession(ctx context.Context, sessionID string) ([]*models.ClientLog, error) {
	var out []*models.ClientLog
	err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).Order("created_at desc").Find(&out).Error
	return out, err
}

func (s *clientLogStore) FindByUser(ctx context.Context, userID string, limit int) ([]*models.ClientLog, error) {
	var out []*models.ClientLog
	q := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

func (s *clientLogStore) PurgeOlderThan(ctx context.Context, before time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("created_at < ?", before).Delete(&models.ClientLog{})
	return res.RowsAffected, res.Error
}

// mongoClientLogStore keeps client logs in a collection whose TTL index
// expires batches after the retention window.
type mongoClientLogStore struct {
	coll *mongo.Collection
}

const clientLogCollection = "client_logs"

// NewMongoClientLogStore ensures the session, user and TTL indexes exist
func NewMongoClientLogStore(ctx context.Context, db *mongo.Database) (ClientLogStore, error) {
	coll := db.Collection(clientLogCollection)
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "sessionId", Value: 1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{
			Keys:    bson.D{{Key: "createdAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(models.ClientLogRetention / time.Second)),
		},
	})
	if err != nil {
		return nil, err
	}
	return &mongoClientLogStore{coll: coll}, nil
}

func (s *mongoClientLogStore) Create(ctx context.Context, l *models.ClientLog) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	_, err := s.coll.InsertOne(ctx, l)
	return err
}

func (s *mongoClientLogStore) find(ctx context.Context, filter bson.M, limit int) ([]*models.ClientLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var out []*models.ClientLog
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *mongoClientLogStore) FindBySession(ctx context.Context, sessionID string) ([]*models.ClientLog, error) {
	return s.find(ctx, bson.M{"sessionId": sessionID}, 0)
}

func (s *mongoClientLogStore) FindByUser(ctx context.Context, userID string, limit int) ([]*models.ClientLog, error) {
	return s.find(ctx, bson.M{"userId": userID}, limit)
}

// PurgeOlderThan sweeps whatever the TTL monitor has not removed yet
func (s *mongoClientLogStore) PurgeOlderThan(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.M{"createdAt": bson.M{"$lt": before}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
