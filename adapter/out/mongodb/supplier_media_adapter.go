package mongodb

import (
	"context"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"supplier_server/core/port/out"
)

const bucketMultimedia = "multimedia"

// MediaAdapter implements out.MediaStore on a GridFS bucket. Blobs are stored
// with the supplier id as filename and the content type in the file metadata.
type MediaAdapter struct {
	bucket *gridfs.Bucket
}

func NewMediaAdapter(db *mongo.Database) (*MediaAdapter, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(bucketMultimedia))
	if err != nil {
		return nil, fmt.Errorf("failed to open gridfs bucket: %w", err)
	}
	return &MediaAdapter{bucket: bucket}, nil
}

type mediaMetadata struct {
	ContentType string `bson:"contentType"`
}

// Get returns the stored blob for the id, or (nil, nil) when none exists.
func (a *MediaAdapter) Get(ctx context.Context, id string) (*out.Media, error) {
	stream, err := a.bucket.OpenDownloadStreamByName(id)
	if err != nil {
		if err == gridfs.ErrFileNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open download stream: %w", err)
	}

	file := stream.GetFile()
	var meta mediaMetadata
	if file.Metadata != nil {
		if err := bson.Unmarshal(file.Metadata, &meta); err != nil {
			stream.Close()
			return nil, fmt.Errorf("failed to decode media metadata: %w", err)
		}
	}

	return &out.Media{
		ContentType: meta.ContentType,
		Length:      file.Length,
		Content:     stream,
	}, nil
}

// Put stores the blob for the id, replacing any previous revision.
func (a *MediaAdapter) Put(ctx context.Context, id, contentType string, content io.Reader) error {
	uploadOpts := options.GridFSUpload().SetMetadata(mediaMetadata{ContentType: contentType})
	if _, err := a.bucket.UploadFromStream(id, content, uploadOpts); err != nil {
		return fmt.Errorf("failed to upload media: %w", err)
	}
	return nil
}

// Delete removes every stored revision for the id. Absence is not an error.
func (a *MediaAdapter) Delete(ctx context.Context, id string) error {
	cursor, err := a.bucket.Find(bson.M{"filename": id})
	if err != nil {
		return fmt.Errorf("failed to find media files: %w", err)
	}
	defer cursor.Close(ctx)

	var fileIDs []primitive.ObjectID
	for cursor.Next(ctx) {
		var file struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&file); err != nil {
			return fmt.Errorf("failed to decode media file: %w", err)
		}
		fileIDs = append(fileIDs, file.ID)
	}
	if err := cursor.Err(); err != nil {
		return err
	}

	for _, fileID := range fileIDs {
		if err := a.bucket.Delete(fileID); err != nil && err != gridfs.ErrFileNotFound {
			return fmt.Errorf("failed to delete media file: %w", err)
		}
	}
	return nil
}
