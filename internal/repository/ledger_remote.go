package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/voicegenapp/api-voicegen/internal/model"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	usersCollection = "users"
	probeTimeout    = 2 * time.Second
)

// RemoteLedger adapts the Firestore "users" collection (doc id =
// device id) to the ledger operations. It is the source of truth
// whenever reachable. All operations are idempotent at the
// document-key level.
type RemoteLedger struct {
	client *firestore.Client
}

// NewRemoteLedger initializes the Firebase app and opens the Firestore
// client.
func NewRemoteLedger(ctx context.Context, credentialsFile, projectID string) (*RemoteLedger, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Firestore client: %w", err)
	}

	log.Println("✅ Firestore initialized")
	return &RemoteLedger{client: client}, nil
}

func (r *RemoteLedger) doc(deviceID string) *firestore.DocumentRef {
	return r.client.Collection(usersCollection).Doc(deviceID)
}

// Create writes a full record under its device id. An existing record
// is overwritten, last writer wins.
func (r *RemoteLedger) Create(ctx context.Context, rec *model.LedgerRecord) error {
	if _, err := r.doc(rec.DeviceID).Set(ctx, rec); err != nil {
		return mapRemoteErr(err)
	}
	return nil
}

// Read fetches the record for deviceID, or ErrNotFound.
func (r *RemoteLedger) Read(ctx context.Context, deviceID string) (*model.LedgerRecord, error) {
	snap, err := r.doc(deviceID).Get(ctx)
	if err != nil {
		return nil, mapRemoteErr(err)
	}
	var rec model.LedgerRecord
	if err := snap.DataTo(&rec); err != nil {
		return nil, fmt.Errorf("malformed ledger document %s: %w", deviceID, err)
	}
	return &rec, nil
}

// Patch merges the named fields into the record. Fields not mentioned
// are left untouched.
func (r *RemoteLedger) Patch(ctx context.Context, deviceID string, fields map[string]interface{}) error {
	if _, err := r.doc(deviceID).Set(ctx, fields, firestore.MergeAll); err != nil {
		return mapRemoteErr(err)
	}
	return nil
}

// Remove deletes the record. Deleting an absent record is not an
// error.
func (r *RemoteLedger) Remove(ctx context.Context, deviceID string) error {
	if _, err := r.doc(deviceID).Delete(ctx); err != nil {
		return mapRemoteErr(err)
	}
	return nil
}

// Online is a best-effort liveness probe: a short-deadline read against
// the collection. NotFound still means the store answered.
func (r *RemoteLedger) Online(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	_, err := r.doc("__liveness__").Get(probeCtx)
	return err == nil || status.Code(err) == codes.NotFound
}

// Close releases the Firestore client.
func (r *RemoteLedger) Close() error {
	return r.client.Close()
}

func mapRemoteErr(err error) error {
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
}
