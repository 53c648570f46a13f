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

// firestoreVaultRepository implements VaultRepository using Firestore.
type firestoreVaultRepository struct {
	client *firestore.Client
}

// NewFirestoreVaultRepository creates a new vault repository backed by Firestore.
func NewFirestoreVaultRepository(client *firestore.Client) VaultRepository {
	return &firestoreVaultRepository{client: client}
}

// Create adds a new vault document with an auto-generated ID and sets
// vault.ID to the new document ID.
func (r *firestoreVaultRepository) Create(ctx context.Context, vault *models.Vault) (string, error) {
	docRef := r.client.Collection(vaultsCollection).NewDoc()
	vault.ID = docRef.ID
	if _, err := docRef.Create(ctx, vault); err != nil {
		return "", fmt.Errorf("failed to create vault: %w", err)
	}
	return docRef.ID, nil
}

func (r *firestoreVaultRepository) GetByID(ctx context.Context, vaultID string) (*models.Vault, error) {
	if vaultID == "" {
		return nil, errors.New("vaultID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(vaultsCollection).Doc(vaultID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("vault with ID '%s': %w", vaultID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get vault with ID '%s': %w", vaultID, err)
	}

	var vault models.Vault
	if err := docSnap.DataTo(&vault); err != nil {
		return nil, fmt.Errorf("failed to decode vault data for ID '%s': %w", vaultID, err)
	}
	vault.ID = docSnap.Ref.ID
	return &vault, nil
}

// GetByName retrieves the vault with the given name, or ErrNotFound. The
// global name-uniqueness invariant is enforced at the service layer via
// this lookup.
func (r *firestoreVaultRepository) GetByName(ctx context.Context, name string) (*models.Vault, error) {
	iter := r.client.Collection(vaultsCollection).Where("name", "==", name).Limit(1).Documents(ctx)
	defer iter.Stop()

	docSnap, err := iter.Next()
	if err == iterator.Done {
		return nil, fmt.Errorf("vault named '%s': %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query vault by name: %w", err)
	}

	var vault models.Vault
	if err := docSnap.DataTo(&vault); err != nil {
		return nil, fmt.Errorf("failed to decode vault data for name '%s': %w", name, err)
	}
	vault.ID = docSnap.Ref.ID
	return &vault, nil
}

// Update overwrites the vault document with the given model.
func (r *firestoreVaultRepository) Update(ctx context.Context, vault *models.Vault) error {
	if vault.ID == "" {
		return errors.New("vault ID cannot be empty for Update operation")
	}
	if _, err := r.client.Collection(vaultsCollection).Doc(vault.ID).Set(ctx, vault); err != nil {
		return fmt.Errorf("failed to update vault '%s': %w", vault.ID, err)
	}
	return nil
}

// Delete removes the vault document. Deleting an already-removed vault is
// a success, so concurrent cascade deletes do not fail each other.
func (r *firestoreVaultRepository) Delete(ctx context.Context, vaultID string) error {
	if vaultID == "" {
		return errors.New("vaultID cannot be empty for Delete operation")
	}
	if _, err := r.client.Collection(vaultsCollection).Doc(vaultID).Delete(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return fmt.Errorf("failed to delete vault '%s': %w", vaultID, err)
	}
	return nil
}

// AppendThesisPointID adds a thesis point reference to the vault's ordered
// thesis point list.
func (r *firestoreVaultRepository) AppendThesisPointID(ctx context.Context, vaultID, thesisPointID string) error {
	_, err := r.client.Collection(vaultsCollection).Doc(vaultID).Update(ctx, []firestore.Update{
		{Path: "thesisPointIds", Value: firestore.ArrayUnion(thesisPointID)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("vault with ID '%s': %w", vaultID, ErrNotFound)
		}
		return fmt.Errorf("failed to append thesis point '%s' to vault '%s': %w", thesisPointID, vaultID, err)
	}
	return nil
}

// RemoveThesisPointID pulls a thesis point reference from the vault's list.
// A missing vault is treated as success.
func (r *firestoreVaultRepository) RemoveThesisPointID(ctx context.Context, vaultID, thesisPointID string) error {
	_, err := r.client.Collection(vaultsCollection).Doc(vaultID).Update(ctx, []firestore.Update{
		{Path: "thesisPointIds", Value: firestore.ArrayRemove(thesisPointID)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return fmt.Errorf("failed to remove thesis point '%s' from vault '%s': %w", thesisPointID, vaultID, err)
	}
	return nil
}
