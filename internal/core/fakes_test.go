package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"investing-journal-go/internal/db"
	"investing-journal-go/internal/models"
)

// In-memory repository fakes. Each one mimics the document store's
// behavior closely enough for service-level tests: auto-generated IDs,
// db.ErrNotFound on misses, and tolerant removes. Scripted errors let
// individual tests force a failure at a specific step.

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[string]*models.User

	createErr        error
	appendVaultIDErr error
	removeVaultIDErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.nextID++
	id := fmt.Sprintf("user-%d", f.nextID)
	user.ID = id
	stored := *user
	f.users[id] = &stored
	return id, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, userID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeUserRepo) AppendVaultID(ctx context.Context, userID, vaultID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendVaultIDErr != nil {
		return f.appendVaultIDErr
	}
	user, ok := f.users[userID]
	if !ok {
		return db.ErrNotFound
	}
	user.VaultIDs = append(user.VaultIDs, vaultID)
	return nil
}

func (f *fakeUserRepo) RemoveVaultID(ctx context.Context, userID, vaultID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.removeVaultIDErr != nil {
		return f.removeVaultIDErr
	}
	user, ok := f.users[userID]
	if !ok {
		return nil
	}
	kept := user.VaultIDs[:0]
	for _, id := range user.VaultIDs {
		if id != vaultID {
			kept = append(kept, id)
		}
	}
	user.VaultIDs = kept
	return nil
}

type fakeVaultRepo struct {
	mu     sync.Mutex
	nextID int
	vaults map[string]*models.Vault

	createErr              error
	deleteErr              error
	appendThesisPointIDErr error
}

func newFakeVaultRepo() *fakeVaultRepo {
	return &fakeVaultRepo{vaults: make(map[string]*models.Vault)}
}

func (f *fakeVaultRepo) Create(ctx context.Context, vault *models.Vault) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.nextID++
	id := fmt.Sprintf("vault-%d", f.nextID)
	vault.ID = id
	stored := *vault
	f.vaults[id] = &stored
	return id, nil
}

func (f *fakeVaultRepo) GetByID(ctx context.Context, vaultID string) (*models.Vault, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	vault, ok := f.vaults[vaultID]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *vault
	return &copied, nil
}

func (f *fakeVaultRepo) GetByName(ctx context.Context, name string) (*models.Vault, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, vault := range f.vaults {
		if vault.Name == name {
			copied := *vault
			return &copied, nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeVaultRepo) Update(ctx context.Context, vault *models.Vault) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.vaults[vault.ID]; !ok {
		return db.ErrNotFound
	}
	stored := *vault
	f.vaults[vault.ID] = &stored
	return nil
}

func (f *fakeVaultRepo) Delete(ctx context.Context, vaultID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.vaults, vaultID)
	return nil
}

func (f *fakeVaultRepo) AppendThesisPointID(ctx context.Context, vaultID, thesisPointID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendThesisPointIDErr != nil {
		return f.appendThesisPointIDErr
	}
	vault, ok := f.vaults[vaultID]
	if !ok {
		return db.ErrNotFound
	}
	vault.ThesisPointIDs = append(vault.ThesisPointIDs, thesisPointID)
	return nil
}

func (f *fakeVaultRepo) RemoveThesisPointID(ctx context.Context, vaultID, thesisPointID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	vault, ok := f.vaults[vaultID]
	if !ok {
		return nil
	}
	kept := vault.ThesisPointIDs[:0]
	for _, id := range vault.ThesisPointIDs {
		if id != thesisPointID {
			kept = append(kept, id)
		}
	}
	vault.ThesisPointIDs = kept
	return nil
}

type fakeThesisRepo struct {
	mu     sync.Mutex
	nextID int
	points map[string]*models.ThesisPoint

	createErr error
	deleteErr error
	updateErr error
}

func newFakeThesisRepo() *fakeThesisRepo {
	return &fakeThesisRepo{points: make(map[string]*models.ThesisPoint)}
}

func (f *fakeThesisRepo) Create(ctx context.Context, point *models.ThesisPoint) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.nextID++
	id := fmt.Sprintf("tp-%d", f.nextID)
	point.ID = id
	stored := *point
	f.points[id] = &stored
	return id, nil
}

func (f *fakeThesisRepo) GetByID(ctx context.Context, thesisPointID string) (*models.ThesisPoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	point, ok := f.points[thesisPointID]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *point
	return &copied, nil
}

func (f *fakeThesisRepo) GetByVaultID(ctx context.Context, vaultID string) ([]*models.ThesisPoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	points := make([]*models.ThesisPoint, 0)
	for _, point := range f.points {
		if point.VaultID == vaultID {
			copied := *point
			points = append(points, &copied)
		}
	}
	return points, nil
}

func (f *fakeThesisRepo) Update(ctx context.Context, point *models.ThesisPoint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.points[point.ID]; !ok {
		return db.ErrNotFound
	}
	stored := *point
	f.points[point.ID] = &stored
	return nil
}

func (f *fakeThesisRepo) Delete(ctx context.Context, thesisPointID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.points, thesisPointID)
	return nil
}

func (f *fakeThesisRepo) DeleteByVaultID(ctx context.Context, vaultID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, point := range f.points {
		if point.VaultID == vaultID {
			delete(f.points, id)
		}
	}
	return nil
}

type fakeStagedRepo struct {
	mu      sync.Mutex
	uploads map[string]time.Time

	putErr        error
	listErr       error
	deleteManyErr error
}

func newFakeStagedRepo() *fakeStagedRepo {
	return &fakeStagedRepo{uploads: make(map[string]time.Time)}
}

func (f *fakeStagedRepo) Put(ctx context.Context, upload *models.StagedUpload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.uploads[upload.Key] = upload.StagedAt
	return nil
}

func (f *fakeStagedRepo) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.uploads, key)
	return nil
}

func (f *fakeStagedRepo) DeleteMany(ctx context.Context, keys []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteManyErr != nil {
		return f.deleteManyErr
	}
	for _, key := range keys {
		delete(f.uploads, key)
	}
	return nil
}

func (f *fakeStagedRepo) ListOlderThan(ctx context.Context, cutoff time.Time) ([]*models.StagedUpload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	uploads := make([]*models.StagedUpload, 0)
	for key, stagedAt := range f.uploads {
		if stagedAt.Before(cutoff) {
			uploads = append(uploads, &models.StagedUpload{Key: key, StagedAt: stagedAt})
		}
	}
	return uploads, nil
}

func (f *fakeStagedRepo) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.uploads[key]
	return ok
}

// fakeObjectStore implements ObjectStore over a map of keys.
type fakeObjectStore struct {
	mu      sync.Mutex
	nextKey int
	objects map[string]bool

	uploadErr     error
	deleteErr     error
	deleteManyErr error

	deletedKeys []string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string]bool)}
}

func (f *fakeObjectStore) Upload(ctx context.Context, data []byte, mimeType, originalName string) (models.Attachment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return models.Attachment{}, f.uploadErr
	}
	f.nextKey++
	key := fmt.Sprintf("obj-%d.pdf", f.nextKey)
	f.objects[key] = true
	return models.Attachment{
		Key:          key,
		OriginalName: originalName,
		URL:          "https://bucket.example.com/" + key,
	}, nil
}

func (f *fakeObjectStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	f.deletedKeys = append(f.deletedKeys, key)
	return nil
}

func (f *fakeObjectStore) DeleteMany(ctx context.Context, keys []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteManyErr != nil {
		return f.deleteManyErr
	}
	for _, key := range keys {
		delete(f.objects, key)
		f.deletedKeys = append(f.deletedKeys, key)
	}
	return nil
}

func (f *fakeObjectStore) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.objects[key]
}

func (f *fakeObjectStore) put(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = true
}
