package message

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/consts"
	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/model"
	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/mongodatabase"
)

type mongoStore struct {
	db *mongodatabase.DBConfig
}

// NewMongoStore - creates the mongo-backed message store. Recipient state
// lives in its own collection, one document per (messageId, userId) pair, so
// a single-document $set is all a mutation ever needs.
func NewMongoStore(db *mongodatabase.DBConfig) Store {
	return &mongoStore{db: db}
}

func (s *mongoStore) stateCollection(dbConn *mongodatabase.MongoDBConn) *mongo.Collection {
	return dbConn.Client.Database(s.db.DBName).Collection(consts.MessageStates)
}

// messageWriter and stateWriter are the collection surface insertPair needs;
// *mongo.Collection satisfies both.
type messageWriter interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

type stateWriter interface {
	InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
}

// insertPair writes the message and then its frozen state set. When the state
// write fails the message is deleted again, best effort, so no recipient-less
// message stays behind for a retry to sit next to.
func insertPair(ctx context.Context, msgs messageWriter, states stateWriter, msg *model.Message, stateDocs []interface{}) error {
	if _, err := msgs.InsertOne(ctx, msg); err != nil {
		return errors.Wrap(err, "unable to insert message")
	}
	if len(stateDocs) == 0 {
		return nil
	}
	if _, err := states.InsertMany(ctx, stateDocs); err != nil {
		if _, derr := msgs.DeleteOne(ctx, bson.M{"_id": msg.ID}); derr != nil {
			logrus.WithError(derr).WithField("messageId", msg.ID.Hex()).
				Warn("unable to remove message after state insert failure")
		}
		return errors.Wrap(err, "unable to insert recipient states")
	}
	return nil
}

func (s *mongoStore) Insert(ctx context.Context, msg *model.Message, states []model.RecipientState) error {
	dbConn, err := s.db.New(consts.Messages)
	if err != nil {
		return err
	}
	msgCollection, msgClient := dbConn.Collection, dbConn.Client
	defer msgClient.Disconnect(context.TODO())

	docs := make([]interface{}, len(states))
	for i := range states {
		docs[i] = states[i]
	}
	return insertPair(ctx, msgCollection, s.stateCollection(dbConn), msg, docs)
}

func (s *mongoStore) Get(ctx context.Context, id primitive.ObjectID) (*model.Message, error) {
	dbConn, err := s.db.New(consts.Messages)
	if err != nil {
		return nil, err
	}
	msgCollection, msgClient := dbConn.Collection, dbConn.Client
	defer msgClient.Disconnect(context.TODO())

	var msg model.Message
	err = msgCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&msg)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "unable to fetch message")
	}
	return &msg, nil
}

// setFields maps a StateChange onto the exact field set of a $set update.
func setFields(change StateChange) bson.M {
	set := bson.M{"lastInteractionAt": change.At}
	if change.ReadInBell != nil {
		set["isReadInBell"] = *change.ReadInBell
	}
	if change.ReadInSystem != nil {
		set["isReadInSystem"] = *change.ReadInSystem
	}
	if change.RemovedFromBell != nil {
		set["isRemovedFromBell"] = *change.RemovedFromBell
	}
	if change.DeletedFromSystem != nil {
		set["isDeletedFromSystem"] = *change.DeletedFromSystem
	}
	return set
}

func (s *mongoStore) ApplyState(ctx context.Context, id primitive.ObjectID, userID string, change StateChange) error {
	dbConn, err := s.db.New(consts.MessageStates)
	if err != nil {
		return err
	}
	stateCollection, stateClient := dbConn.Collection, dbConn.Client
	defer stateClient.Disconnect(context.TODO())

	// Upsert is never used here: a missing entry means the user was not a
	// recipient at creation time and must stay that way.
	filter := bson.M{"messageId": id, "userId": userID}
	result, err := stateCollection.UpdateOne(ctx, filter, bson.M{"$set": setFields(change)})
	if err != nil {
		return errors.Wrap(err, "unable to update recipient state")
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoStore) ListForUser(ctx context.Context, userID string) ([]model.UserMessage, error) {
	dbConn, err := s.db.New(consts.MessageStates)
	if err != nil {
		return nil, err
	}
	stateCollection, stateClient := dbConn.Collection, dbConn.Client
	defer stateClient.Disconnect(context.TODO())

	cur, err := stateCollection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, errors.Wrap(err, "unable to list recipient states")
	}
	var states []model.RecipientState
	if err = cur.All(ctx, &states); err != nil {
		return nil, errors.Wrap(err, "unable to decode recipient states")
	}
	if len(states) == 0 {
		return []model.UserMessage{}, nil
	}

	byID := make(map[primitive.ObjectID]*model.RecipientState, len(states))
	ids := make([]primitive.ObjectID, 0, len(states))
	for i := range states {
		byID[states[i].MessageID] = &states[i]
		ids = append(ids, states[i].MessageID)
	}

	msgCollection := dbConn.Client.Database(s.db.DBName).Collection(consts.Messages)
	findOptions := options.Find().SetSort(bson.M{"createdAt": -1})
	cur, err = msgCollection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}, "isActive": true}, findOptions)
	if err != nil {
		return nil, errors.Wrap(err, "unable to list messages")
	}
	var msgs []model.Message
	if err = cur.All(ctx, &msgs); err != nil {
		return nil, errors.Wrap(err, "unable to decode messages")
	}

	ret := make([]model.UserMessage, 0, len(msgs))
	for i := range msgs {
		st, ok := byID[msgs[i].ID]
		if !ok {
			continue
		}
		ret = append(ret, model.UserMessage{Message: &msgs[i], State: st})
	}
	return ret, nil
}

func (s *mongoStore) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	dbConn, err := s.db.New(consts.Messages)
	if err != nil {
		return 0, err
	}
	msgCollection, msgClient := dbConn.Collection, dbConn.Client
	defer msgClient.Disconnect(context.TODO())

	filter := bson.M{"isActive": true, "expiresAt": bson.M{"$lte": now}}
	result, err := msgCollection.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"isActive": false}})
	if err != nil {
		return 0, errors.Wrap(err, "unable to deactivate expired messages")
	}
	return result.ModifiedCount, nil
}

func (s *mongoStore) PurgeLegacy(ctx context.Context) (int64, error) {
	dbConn, err := s.db.New(consts.Messages)
	if err != nil {
		return 0, err
	}
	msgCollection, msgClient := dbConn.Collection, dbConn.Client
	defer msgClient.Disconnect(context.TODO())

	// Strip the pre-split embedded state map from old message documents.
	unset, err := msgCollection.UpdateMany(ctx,
		bson.M{consts.LegacyStatesField: bson.M{"$exists": true}},
		bson.M{"$unset": bson.M{consts.LegacyStatesField: ""}})
	if err != nil {
		return 0, errors.Wrap(err, "unable to strip legacy state maps")
	}

	stateCollection := s.stateCollection(dbConn)
	rawIDs, err := stateCollection.Distinct(ctx, "messageId", bson.M{})
	if err != nil {
		return 0, errors.Wrap(err, "unable to list state message ids")
	}
	ids := make([]primitive.ObjectID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		if id, ok := raw.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}

	existing, err := msgCollection.Distinct(ctx, "_id", bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, errors.Wrap(err, "unable to list message ids")
	}
	known := make(map[primitive.ObjectID]struct{}, len(existing))
	for _, raw := range existing {
		if id, ok := raw.(primitive.ObjectID); ok {
			known[id] = struct{}{}
		}
	}

	orphans := make([]primitive.ObjectID, 0)
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			orphans = append(orphans, id)
		}
	}

	var deleted int64
	if len(orphans) > 0 {
		res, err := stateCollection.DeleteMany(ctx, bson.M{"messageId": bson.M{"$in": orphans}})
		if err != nil {
			return 0, errors.Wrap(err, "unable to delete orphaned states")
		}
		deleted = res.DeletedCount
	}
	return unset.ModifiedCount + deleted, nil
}
