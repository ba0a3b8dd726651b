// Package mongostore keeps the collections in MongoDB: one document per
// user in "users" and one document per player in "leaderboard".
package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"codeguess/internal/models"
)

const connectTimeout = 10 * time.Second

type Store struct {
	client      *mongo.Client
	db          *mongo.Database
	users       *mongo.Collection
	leaderboard *mongo.Collection
}

// languageDoc stores one language list. Languages are kept in an array
// rather than as field names because tags such as "C/C++" or user input
// containing dots are awkward document keys.
type languageDoc struct {
	Language string         `bson:"language"`
	Entries  []models.Entry `bson:"entries"`
}

type boardDoc struct {
	UsernameLower string        `bson:"_id"`
	Languages     []languageDoc `bson:"languages"`
}

func New(ctx context.Context, uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(dbName)
	s := &Store{
		client:      client,
		db:          db,
		users:       db.Collection("users"),
		leaderboard: db.Collection("leaderboard"),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "usernameLower", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: 1}},
	})
	return err
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) LoadUsers(ctx context.Context) ([]models.User, error) {
	cur, err := s.users.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (s *Store) SaveUsers(ctx context.Context, users []models.User) error {
	keep := make([]string, 0, len(users))
	writes := make([]mongo.WriteModel, 0, len(users)+1)
	for _, u := range users {
		keep = append(keep, u.UsernameLower)
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"usernameLower": u.UsernameLower}).
			SetReplacement(u).
			SetUpsert(true))
	}
	writes = append(writes, mongo.NewDeleteManyModel().
		SetFilter(bson.M{"usernameLower": bson.M{"$nin": keep}}))

	if _, err := s.users.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true)); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}

func (s *Store) LoadLeaderboard(ctx context.Context) (models.Board, error) {
	cur, err := s.leaderboard.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find leaderboard: %w", err)
	}
	defer cur.Close(ctx)

	var docs []boardDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode leaderboard: %w", err)
	}
	return fromDocs(docs), nil
}

func (s *Store) SaveLeaderboard(ctx context.Context, board models.Board) error {
	docs := toDocs(board)
	keep := make([]string, 0, len(docs))
	writes := make([]mongo.WriteModel, 0, len(docs)+1)
	for _, doc := range docs {
		keep = append(keep, doc.UsernameLower)
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": doc.UsernameLower}).
			SetReplacement(doc).
			SetUpsert(true))
	}
	writes = append(writes, mongo.NewDeleteManyModel().
		SetFilter(bson.M{"_id": bson.M{"$nin": keep}}))

	if _, err := s.leaderboard.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true)); err != nil {
		return fmt.Errorf("save leaderboard: %w", err)
	}
	return nil
}

func toDocs(board models.Board) []boardDoc {
	docs := make([]boardDoc, 0, len(board))
	for user, langs := range board {
		doc := boardDoc{UsernameLower: user, Languages: []languageDoc{}}
		for lang, entries := range langs {
			if entries == nil {
				entries = []models.Entry{}
			}
			doc.Languages = append(doc.Languages, languageDoc{Language: lang, Entries: entries})
		}
		docs = append(docs, doc)
	}
	return docs
}

func fromDocs(docs []boardDoc) models.Board {
	board := make(models.Board, len(docs))
	for _, doc := range docs {
		langs := make(models.Languages, len(doc.Languages))
		for _, l := range doc.Languages {
			entries := l.Entries
			if entries == nil {
				entries = []models.Entry{}
			}
			langs[l.Language] = entries
		}
		board[doc.UsernameLower] = langs
	}
	return board
}
