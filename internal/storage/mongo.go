package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const messagesCollection = "messages"

// Mongo stores file bodies in GridFS and messages in a collection.
type Mongo struct {
	client   *mongo.Client
	bucket   *gridfs.Bucket
	messages *mongo.Collection
}

var _ Store = (*Mongo)(nil)

// OpenMongo connects to uri, pings it and prepares the GridFS bucket.
func OpenMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	bucket, err := gridfs.NewBucket(db)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("open gridfs bucket: %w", err)
	}
	return &Mongo{
		client:   client,
		bucket:   bucket,
		messages: db.Collection(messagesCollection),
	}, nil
}

// SaveFile streams r into GridFS under name.
func (m *Mongo) SaveFile(ctx context.Context, name string, r io.Reader) (int64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, ErrEmptyName
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	// A failed read aborts the upload stream and removes written chunks.
	counter := &countingReader{r: ctxReader{ctx: ctx, r: r}}
	if _, err := m.bucket.UploadFromStream(name, counter); err != nil {
		return 0, fmt.Errorf("gridfs upload: %w", err)
	}
	return counter.n, nil
}

// ListFiles returns the filename and length of every GridFS file.
func (m *Mongo) ListFiles(ctx context.Context) ([]FileInfo, error) {
	cursor, err := m.bucket.Find(bson.D{})
	if err != nil {
		return nil, fmt.Errorf("gridfs find: %w", err)
	}
	var files []FileInfo
	if err := cursor.All(ctx, &files); err != nil {
		return nil, fmt.Errorf("decode gridfs files: %w", err)
	}
	if files == nil {
		files = []FileInfo{}
	}
	return files, nil
}

// SaveMessage inserts text into the messages collection.
func (m *Mongo) SaveMessage(ctx context.Context, text string) (Message, error) {
	msg := Message{ID: uuid.NewString(), Text: text, CreatedAt: time.Now().UTC()}
	if _, err := m.messages.InsertOne(ctx, msg); err != nil {
		return Message{}, fmt.Errorf("insert message: %w", err)
	}
	return msg, nil
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
