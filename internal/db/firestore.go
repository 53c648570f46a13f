package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	"investing-journal-go/internal/config"
)

// Collection names used by the repositories.
const (
	usersCollection         = "users"
	vaultsCollection        = "vaults"
	thesisPointsCollection  = "thesis_points"
	stagedUploadsCollection = "staged_uploads"
)

// NewFirestoreClient creates a Firestore client from the application
// configuration. When no credentials file is configured, Application
// Default Credentials are used (the common case on GCP).
func NewFirestoreClient(ctx context.Context, appConfig *config.Config) (*firestore.Client, error) {
	if appConfig == nil {
		return nil, fmt.Errorf("NewFirestoreClient: appConfig cannot be nil")
	}

	var opts []option.ClientOption
	if appConfig.GoogleApplicationCredentials != "" {
		opts = append(opts, option.WithCredentialsFile(appConfig.GoogleApplicationCredentials))
	}

	client, err := firestore.NewClient(ctx, appConfig.FirestoreProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore.NewClient: %w", err)
	}
	return client, nil
}
