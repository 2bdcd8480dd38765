package message

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/model"
)

type fakeMessageWriter struct {
	insertErr error
	inserted  int
	deleted   []interface{}
}

func (f *fakeMessageWriter) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	f.inserted++
	return &mongo.InsertOneResult{}, nil
}

func (f *fakeMessageWriter) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	f.deleted = append(f.deleted, filter)
	return &mongo.DeleteResult{DeletedCount: 1}, nil
}

type fakeStateWriter struct {
	insertErr error
	inserted  int
}

func (f *fakeStateWriter) InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	f.inserted += len(documents)
	return &mongo.InsertManyResult{}, nil
}

func stateDocs(msg *model.Message, recipients ...string) []interface{} {
	states := buildStates(msg.ID, recipients, time.Now().UTC())
	docs := make([]interface{}, len(states))
	for i := range states {
		docs[i] = states[i]
	}
	return docs
}

func TestInsertPair(t *testing.T) {
	msg := &model.Message{ID: primitive.NewObjectID(), Title: "t", Content: "c"}

	msgs := &fakeMessageWriter{}
	states := &fakeStateWriter{}
	if err := insertPair(context.Background(), msgs, states, msg, stateDocs(msg, "u1", "u2")); err != nil {
		t.Fatal(err)
	}
	if msgs.inserted != 1 || states.inserted != 2 {
		t.Fatalf("unexpected writes: %d messages, %d states", msgs.inserted, states.inserted)
	}
	if len(msgs.deleted) != 0 {
		t.Fatal("successful insert must not delete anything")
	}
}

func TestInsertPairEmptyStateSet(t *testing.T) {
	msg := &model.Message{ID: primitive.NewObjectID(), Title: "t", Content: "c"}

	msgs := &fakeMessageWriter{}
	states := &fakeStateWriter{insertErr: errors.New("must not be called")}
	if err := insertPair(context.Background(), msgs, states, msg, nil); err != nil {
		t.Fatal(err)
	}
	if msgs.inserted != 1 {
		t.Fatal("message not written")
	}
}

// A failed state write must take the freshly written message down with it, so
// a caller retry does not leave a recipient-less sibling behind.
func TestInsertPairRollsBackMessageOnStateFailure(t *testing.T) {
	msg := &model.Message{ID: primitive.NewObjectID(), Title: "t", Content: "c"}

	msgs := &fakeMessageWriter{}
	states := &fakeStateWriter{insertErr: errors.New("write concern failed")}
	err := insertPair(context.Background(), msgs, states, msg, stateDocs(msg, "u1"))
	if err == nil {
		t.Fatal("state failure must surface")
	}
	if len(msgs.deleted) != 1 {
		t.Fatalf("expected one compensating delete, got %d", len(msgs.deleted))
	}
	filter, ok := msgs.deleted[0].(bson.M)
	if !ok || filter["_id"] != msg.ID {
		t.Fatalf("compensating delete targeted the wrong document: %v", msgs.deleted[0])
	}
}

func TestInsertPairMessageFailureWritesNothing(t *testing.T) {
	msg := &model.Message{ID: primitive.NewObjectID(), Title: "t", Content: "c"}

	msgs := &fakeMessageWriter{insertErr: errors.New("duplicate key")}
	states := &fakeStateWriter{}
	if err := insertPair(context.Background(), msgs, states, msg, stateDocs(msg, "u1")); err == nil {
		t.Fatal("message failure must surface")
	}
	if states.inserted != 0 || len(msgs.deleted) != 0 {
		t.Fatal("no state write or delete may follow a failed message insert")
	}
}
