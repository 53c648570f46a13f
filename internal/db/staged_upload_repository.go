package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"investing-journal-go/internal/models"
)

// firestoreStagedUploadRepository implements StagedUploadRepository using
// Firestore. The object key doubles as the document ID.
type firestoreStagedUploadRepository struct {
	client *firestore.Client
}

// NewFirestoreStagedUploadRepository creates a new staged upload repository
// backed by Firestore.
func NewFirestoreStagedUploadRepository(client *firestore.Client) StagedUploadRepository {
	return &firestoreStagedUploadRepository{client: client}
}

func (r *firestoreStagedUploadRepository) Put(ctx context.Context, upload *models.StagedUpload) error {
	if upload.Key == "" {
		return errors.New("staged upload key cannot be empty")
	}
	if _, err := r.client.Collection(stagedUploadsCollection).Doc(upload.Key).Set(ctx, upload); err != nil {
		return fmt.Errorf("failed to record staged upload '%s': %w", upload.Key, err)
	}
	return nil
}

// Delete removes a staging record. Missing records are a success: the key
// may already have been committed or reclaimed.
func (r *firestoreStagedUploadRepository) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("staged upload key cannot be empty")
	}
	if _, err := r.client.Collection(stagedUploadsCollection).Doc(key).Delete(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return fmt.Errorf("failed to delete staged upload '%s': %w", key, err)
	}
	return nil
}

func (r *firestoreStagedUploadRepository) DeleteMany(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	bw := r.client.BulkWriter(ctx)
	for _, key := range keys {
		if _, err := bw.Delete(r.client.Collection(stagedUploadsCollection).Doc(key)); err != nil {
			bw.End()
			return fmt.Errorf("failed to queue delete for staged upload '%s': %w", key, err)
		}
	}
	bw.End()
	return nil
}

// ListOlderThan returns staging records created before the cutoff; the
// sweeper uses it to reclaim abandoned uploads.
func (r *firestoreStagedUploadRepository) ListOlderThan(ctx context.Context, cutoff time.Time) ([]*models.StagedUpload, error) {
	iter := r.client.Collection(stagedUploadsCollection).Where("stagedAt", "<", cutoff).Documents(ctx)
	defer iter.Stop()

	uploads := make([]*models.StagedUpload, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate staged uploads: %w", err)
		}
		var upload models.StagedUpload
		if err := docSnap.DataTo(&upload); err != nil {
			return nil, fmt.Errorf("failed to decode staged upload '%s': %w", docSnap.Ref.ID, err)
		}
		upload.Key = docSnap.Ref.ID
		uploads = append(uploads, &upload)
	}
	return uploads, nil
}
