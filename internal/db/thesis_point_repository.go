package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"investing-journal-go/internal/models"
)

// firestoreThesisPointRepository implements ThesisPointRepository using Firestore.
type firestoreThesisPointRepository struct {
	client *firestore.Client
}

// NewFirestoreThesisPointRepository creates a new thesis point repository
// backed by Firestore.
func NewFirestoreThesisPointRepository(client *firestore.Client) ThesisPointRepository {
	return &firestoreThesisPointRepository{client: client}
}

// Create adds a new thesis point document with an auto-generated ID and
// sets point.ID to the new document ID.
func (r *firestoreThesisPointRepository) Create(ctx context.Context, point *models.ThesisPoint) (string, error) {
	docRef := r.client.Collection(thesisPointsCollection).NewDoc()
	point.ID = docRef.ID
	if _, err := docRef.Create(ctx, point); err != nil {
		return "", fmt.Errorf("failed to create thesis point: %w", err)
	}
	return docRef.ID, nil
}

func (r *firestoreThesisPointRepository) GetByID(ctx context.Context, thesisPointID string) (*models.ThesisPoint, error) {
	if thesisPointID == "" {
		return nil, errors.New("thesisPointID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(thesisPointsCollection).Doc(thesisPointID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("thesis point with ID '%s': %w", thesisPointID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get thesis point with ID '%s': %w", thesisPointID, err)
	}

	var point models.ThesisPoint
	if err := docSnap.DataTo(&point); err != nil {
		return nil, fmt.Errorf("failed to decode thesis point data for ID '%s': %w", thesisPointID, err)
	}
	point.ID = docSnap.Ref.ID
	return &point, nil
}

// GetByVaultID returns all thesis points belonging to the vault. The result
// is never nil: a vault without thesis points yields an empty slice.
func (r *firestoreThesisPointRepository) GetByVaultID(ctx context.Context, vaultID string) ([]*models.ThesisPoint, error) {
	if vaultID == "" {
		return nil, errors.New("vaultID cannot be empty for GetByVaultID operation")
	}

	iter := r.client.Collection(thesisPointsCollection).Where("vaultId", "==", vaultID).Documents(ctx)
	defer iter.Stop()

	points := make([]*models.ThesisPoint, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate thesis points for vault '%s': %w", vaultID, err)
		}
		var point models.ThesisPoint
		if err := docSnap.DataTo(&point); err != nil {
			return nil, fmt.Errorf("failed to decode thesis point '%s': %w", docSnap.Ref.ID, err)
		}
		point.ID = docSnap.Ref.ID
		points = append(points, &point)
	}
	return points, nil
}

// Update overwrites the thesis point document with the given model.
func (r *firestoreThesisPointRepository) Update(ctx context.Context, point *models.ThesisPoint) error {
	if point.ID == "" {
		return errors.New("thesis point ID cannot be empty for Update operation")
	}
	if _, err := r.client.Collection(thesisPointsCollection).Doc(point.ID).Set(ctx, point); err != nil {
		return fmt.Errorf("failed to update thesis point '%s': %w", point.ID, err)
	}
	return nil
}

// Delete removes the thesis point document, tolerating "already gone".
func (r *firestoreThesisPointRepository) Delete(ctx context.Context, thesisPointID string) error {
	if thesisPointID == "" {
		return errors.New("thesisPointID cannot be empty for Delete operation")
	}
	if _, err := r.client.Collection(thesisPointsCollection).Doc(thesisPointID).Delete(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return fmt.Errorf("failed to delete thesis point '%s': %w", thesisPointID, err)
	}
	return nil
}

// DeleteByVaultID bulk-deletes all thesis points belonging to the vault.
func (r *firestoreThesisPointRepository) DeleteByVaultID(ctx context.Context, vaultID string) error {
	if vaultID == "" {
		return errors.New("vaultID cannot be empty for DeleteByVaultID operation")
	}

	iter := r.client.Collection(thesisPointsCollection).Where("vaultId", "==", vaultID).Documents(ctx)
	defer iter.Stop()

	bw := r.client.BulkWriter(ctx)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			bw.End()
			return fmt.Errorf("failed to iterate thesis points for vault '%s': %w", vaultID, err)
		}
		if _, err := bw.Delete(docSnap.Ref); err != nil {
			bw.End()
			return fmt.Errorf("failed to queue delete for thesis point '%s': %w", docSnap.Ref.ID, err)
		}
	}
	bw.End()
	return nil
}
