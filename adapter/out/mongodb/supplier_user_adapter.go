package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"supplier_server/core/domain"
)

const collectionUsers = "users"

// UserAdapter implements out.UserRepository on the users collection.
type UserAdapter struct {
	collection *mongo.Collection
}

func NewUserAdapter(db *mongo.Database) *UserAdapter {
	return &UserAdapter{collection: db.Collection(collectionUsers)}
}

type userDocument struct {
	ID       string   `bson:"_id"`
	Username string   `bson:"username"`
	Password string   `bson:"password"`
	Roles    []string `bson:"rollen"`
}

// EnsureIndexes creates the unique username index.
func (a *UserAdapter) EnsureIndexes(ctx context.Context) error {
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, err := a.collection.Indexes().CreateOne(ctx, index)
	return err
}

// FindByUsername returns the user with the given username, or (nil, nil).
func (a *UserAdapter) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var doc userDocument
	err := a.collection.FindOne(ctx, bson.M{"username": username}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &domain.User{ID: doc.ID, Username: doc.Username, Password: doc.Password, Roles: doc.Roles}, nil
}

// Insert persists a new user document.
func (a *UserAdapter) Insert(ctx context.Context, user *domain.User) error {
	doc := userDocument{ID: user.ID, Username: user.Username, Password: user.Password, Roles: user.Roles}
	if _, err := a.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}
