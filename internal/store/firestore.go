package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultCollection holds one document per slot key.
const DefaultCollection = "dashboard_state"

type slotDocument struct {
	Value     string    `firestore:"value"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

// FirestoreSlot stores each key as a document whose "value" field carries the
// serialized JSON.
type FirestoreSlot struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreSlot(client *firestore.Client, collection string) *FirestoreSlot {
	if collection == "" {
		collection = DefaultCollection
	}
	return &FirestoreSlot{client: client, collection: collection}
}

func (s *FirestoreSlot) doc(key string) *firestore.DocumentRef {
	return s.client.Collection(s.collection).Doc(key)
}

func (s *FirestoreSlot) Read(ctx context.Context, key string) ([]byte, bool, error) {
	snap, err := s.doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, false, nil
		}
		return nil, false, err
	}
	var d slotDocument
	if err := snap.DataTo(&d); err != nil {
		return nil, false, err
	}
	return []byte(d.Value), true, nil
}

func (s *FirestoreSlot) Write(ctx context.Context, key string, value []byte) error {
	_, err := s.doc(key).Set(ctx, slotDocument{Value: string(value), UpdatedAt: time.Now()})
	return err
}
