package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const testNS = "taskoo.test"

func newMock(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

// toDoc turns v into the document a mocked server would return.
func toDoc(t *mtest.T, v interface{}) bson.D {
	raw, err := bson.Marshal(v)
	require.NoError(t, err)
	var d bson.D
	require.NoError(t, bson.Unmarshal(raw, &d))
	return d
}

func cursorOf(docs ...bson.D) bson.D {
	return mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch, docs...)
}

func countOf(n int) bson.D {
	return cursorOf(bson.D{{Key: "n", Value: int32(n)}})
}

func bsonN(n int) bson.E {
	return bson.E{Key: "n", Value: n}
}

func updated(n int) bson.D {
	return mtest.CreateSuccessResponse(bsonN(n), bson.E{Key: "nModified", Value: n})
}

func commandError(msg string) bson.D {
	return mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Name: "BadValue", Message: msg})
}

// commands lists the started commands as "name collection", in order.
func commands(mt *mtest.T) []string {
	var out []string
	for _, e := range mt.GetAllStartedEvents() {
		coll, _ := e.Command.Lookup(e.CommandName).StringValueOK()
		out = append(out, e.CommandName+" "+coll)
	}
	return out
}

type fakeFiles struct {
	saved   map[primitive.ObjectID][]byte
	deleted []primitive.ObjectID
	saveErr error
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{saved: map[primitive.ObjectID][]byte{}}
}

func (f *fakeFiles) Save(_ context.Context, _ string, content io.Reader) (primitive.ObjectID, int64, error) {
	if f.saveErr != nil {
		return primitive.NilObjectID, 0, f.saveErr
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return primitive.NilObjectID, 0, err
	}
	id := primitive.NewObjectID()
	f.saved[id] = data
	return id, int64(len(data)), nil
}

func (f *fakeFiles) Open(_ context.Context, id primitive.ObjectID) (io.ReadCloser, error) {
	data, ok := f.saved[id]
	if !ok {
		return nil, fmt.Errorf("file %w", ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeFiles) Delete(_ context.Context, id primitive.ObjectID) error {
	f.deleted = append(f.deleted, id)
	delete(f.saved, id)
	return nil
}
