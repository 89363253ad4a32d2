// Package mongodb implements store.Store on MongoDB. Document field names
// match the collections written by earlier versions of the app.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"TODO_WEB-APP/internal/config"
	"TODO_WEB-APP/internal/models"
	"TODO_WEB-APP/internal/store"
)

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"created_at"`
}

type taskDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Task      string             `bson:"task"`
	Done      bool               `bson:"done"`
	CreatedAt time.Time          `bson:"created_at"`
}

type sessionDoc struct {
	Token     string    `bson:"_id"`
	Email     string    `bson:"email"`
	Name      string    `bson:"name"`
	CreatedAt time.Time `bson:"created_at"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// Store is a store.Store backed by a MongoDB database
type Store struct {
	client   *mongo.Client
	users    *mongo.Collection
	tasks    *mongo.Collection
	sessions *mongo.Collection
}

var _ store.Store = (*Store)(nil)

// Open connects to MongoDB, fails if the server cannot be selected within
// cfg.ConnTimeout, and ensures the indexes exist.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (*Store, error) {
	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetServerSelectionTimeout(cfg.ConnTimeout).
		SetMaxPoolSize(uint64(cfg.MaxConns)).
		SetAppName("todo-web-app")

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping: %w", err)
	}

	db := client.Database(cfg.MongoDatabase)
	s := &Store{
		client:   client,
		users:    db.Collection("users"),
		tasks:    db.Collection("tasks"),
		sessions: db.Collection("sessions"),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	if _, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("users index: %w", err)
	}
	if _, err := s.tasks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}, {Key: "_id", Value: -1}},
	}); err != nil {
		return fmt.Errorf("tasks index: %w", err)
	}
	if _, err := s.sessions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}); err != nil {
		return fmt.Errorf("sessions index: %w", err)
	}
	return nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var doc userDoc
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &models.User{
		Name:         doc.Name,
		Email:        doc.Email,
		PasswordHash: doc.Password,
		CreatedAt:    doc.CreatedAt,
	}, nil
}

func (s *Store) InsertUser(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	_, err := s.users.InsertOne(ctx, userDoc{
		Name:      user.Name,
		Email:     user.Email,
		Password:  user.PasswordHash,
		CreatedAt: user.CreatedAt,
	})
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) FindTasksByOwner(ctx context.Context, ownerEmail string) ([]models.Task, error) {
	cursor, err := s.tasks.Find(ctx, bson.M{"email": ownerEmail},
		options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}

	var docs []taskDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	tasks := make([]models.Task, 0, len(docs))
	for _, doc := range docs {
		createdAt := doc.CreatedAt
		if createdAt.IsZero() {
			createdAt = doc.ID.Timestamp()
		}
		tasks = append(tasks, models.Task{
			ID:         doc.ID.Hex(),
			OwnerEmail: doc.Email,
			Text:       doc.Task,
			Done:       doc.Done,
			CreatedAt:  createdAt,
		})
	}
	return tasks, nil
}

func (s *Store) InsertTask(ctx context.Context, task *models.Task) error {
	doc := taskDoc{
		ID:        primitive.NewObjectID(),
		Email:     task.OwnerEmail,
		Task:      task.Text,
		Done:      task.Done,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.tasks.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	task.ID = doc.ID.Hex()
	task.CreatedAt = doc.CreatedAt
	return nil
}

// ownedTask builds the (id, owner) filter. ok is false when taskID is not
// an ObjectID and therefore cannot match any document.
func ownedTask(ownerEmail, taskID string) (filter bson.M, ok bool) {
	id, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, false
	}
	return bson.M{"_id": id, "email": ownerEmail}, true
}

func (s *Store) UpdateTaskDone(ctx context.Context, ownerEmail, taskID string, done bool) error {
	filter, ok := ownedTask(ownerEmail, taskID)
	if !ok {
		return nil
	}
	if _, err := s.tasks.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"done": done}}); err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, ownerEmail, taskID string) error {
	filter, ok := ownedTask(ownerEmail, taskID)
	if !ok {
		return nil
	}
	if _, err := s.tasks.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (s *Store) CreateSession(ctx context.Context, session *models.Session) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	if _, err := s.sessions.InsertOne(ctx, sessionDoc{
		Token:     session.Token,
		Email:     session.Email,
		Name:      session.Name,
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	}); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *Store) FindSession(ctx context.Context, token string) (*models.Session, error) {
	var doc sessionDoc
	err := s.sessions.FindOne(ctx, bson.M{"_id": token}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &models.Session{
		Token:     doc.Token,
		Email:     doc.Email,
		Name:      doc.Name,
		CreatedAt: doc.CreatedAt,
		ExpiresAt: doc.ExpiresAt,
	}, nil
}

func (s *Store) DeleteSession(ctx context.Context, token string) error {
	if _, err := s.sessions.DeleteOne(ctx, bson.M{"_id": token}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
