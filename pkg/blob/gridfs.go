package blob

import (
	"context"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "sweeply/pkg/errors"
)

// GridFSStore stores blobs in a MongoDB GridFS bucket. Re-uploading a key
// replaces the previous revision.
type GridFSStore struct {
	bucket *gridfs.Bucket
}

var _ Store = (*GridFSStore)(nil)

func NewGridFSStore(db *mongo.Database, bucketName string) (*GridFSStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(bucketName))
	if err != nil {
		return nil, apperrors.Internal("failed to create gridfs bucket", err)
	}
	return &GridFSStore{bucket: bucket}, nil
}

func (s *GridFSStore) Put(ctx context.Context, key string, contentType string, r io.Reader) error {
	if err := s.deleteByKey(ctx, key); err != nil {
		return err
	}

	// The upload stream has no context-taking variant; the deadline is
	// carried across through the bucket's write deadline instead.
	if deadline, ok := ctx.Deadline(); ok {
		if err := s.bucket.SetWriteDeadline(deadline); err != nil {
			return apperrors.Internal("failed to set blob upload deadline", err)
		}
	}

	opts := options.GridFSUpload().SetMetadata(bson.D{{Key: "content_type", Value: contentType}})
	if _, err := s.bucket.UploadFromStream(key, r, opts); err != nil {
		return apperrors.Internal("failed to upload blob", err)
	}
	return nil
}

func (s *GridFSStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	stream, err := s.bucket.OpenDownloadStreamByName(key)
	if err != nil {
		if err == gridfs.ErrFileNotFound {
			return nil, apperrors.NotFoundWithID("blob", key)
		}
		return nil, apperrors.Internal("failed to open blob", err)
	}
	return stream, nil
}

func (s *GridFSStore) Delete(ctx context.Context, key string) error {
	return s.deleteByKey(ctx, key)
}

func (s *GridFSStore) deleteByKey(ctx context.Context, key string) error {
	cursor, err := s.bucket.FindContext(ctx, bson.D{{Key: "filename", Value: key}})
	if err != nil {
		return apperrors.Internal("failed to look up blob", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var file struct {
			ID interface{} `bson:"_id"`
		}
		if err := cursor.Decode(&file); err != nil {
			return apperrors.Internal("failed to decode blob metadata", err)
		}
		if err := s.bucket.DeleteContext(ctx, file.ID); err != nil {
			return apperrors.Internal("failed to delete blob", err)
		}
	}
	return nil
}
