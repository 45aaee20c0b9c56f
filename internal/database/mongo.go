package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"groupgate/entity"
	"groupgate/internal/config"
)

const (
	collectionState = "state"

	docActivatedUsers  = "activated_users"
	docActivationCodes = "activation_codes"
)

// MongoStore is an alternative backend for deployments that already run
// MongoDB. Each set lives in a single upserted document, keeping the
// save-the-whole-set semantics of the file store.
type MongoStore struct {
	ctx           context.Context
	clientOptions *options.ClientOptions
	database      string
}

type usersDoc struct {
	Id    string  `bson:"_id"`
	Users []int64 `bson:"users"`
}

type codesDoc struct {
	Id    string                  `bson:"_id"`
	Codes []entity.ActivationCode `bson:"codes"`
}

func NewMongoStore(conf *config.Config) *MongoStore {
	if !conf.Mongo.Enabled {
		return nil
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	return &MongoStore{
		ctx:           context.Background(),
		clientOptions: clientOptions,
		database:      conf.Mongo.Database,
	}
}

func (m *MongoStore) connect() (*mongo.Client, error) {
	connection, err := mongo.Connect(m.ctx, m.clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	return connection, nil
}

func (m *MongoStore) disconnect(connection *mongo.Client) {
	_ = connection.Disconnect(m.ctx)
}

func (m *MongoStore) LoadUsers() ([]int64, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionState)
	var doc usersDoc
	err = collection.FindOne(m.ctx, bson.D{{Key: "_id", Value: docActivatedUsers}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []int64{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongodb find: %w", err)
	}
	return doc.Users, nil
}

func (m *MongoStore) SaveUsers(users []int64) error {
	if users == nil {
		users = []int64{}
	}
	return m.upsert(docActivatedUsers, bson.D{{Key: "users", Value: users}})
}

func (m *MongoStore) LoadCodes() ([]entity.ActivationCode, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionState)
	var doc codesDoc
	err = collection.FindOne(m.ctx, bson.D{{Key: "_id", Value: docActivationCodes}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []entity.ActivationCode{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongodb find: %w", err)
	}
	return doc.Codes, nil
}

func (m *MongoStore) SaveCodes(codes []entity.ActivationCode) error {
	if codes == nil {
		codes = []entity.ActivationCode{}
	}
	return m.upsert(docActivationCodes, bson.D{{Key: "codes", Value: codes}})
}

func (m *MongoStore) upsert(id string, fields bson.D) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionState)
	filter := bson.D{{Key: "_id", Value: id}}
	update := bson.D{{Key: "$set", Value: fields}}
	opts := options.Update().SetUpsert(true)
	_, err = collection.UpdateOne(m.ctx, filter, update, opts)
	return err
}
