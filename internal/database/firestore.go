package database

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	ierr "go-firestore-qna/internal/errors"
	"go-firestore-qna/internal/utils"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"
)

const (
	// Firestore limits a batched write to 500 operations.
	maxBatchSize = 500

	listenerErrCap          = 20
	maxStalledSnapshots     = 5
	snapshotDeliveryTimeout = time.Second * 10
	changeDeliveryTimeout   = time.Minute
)

type snapEvent struct {
	snap *firestore.QuerySnapshot
	err  error
}

type FirestoreClient struct {
	*firestore.Client
	writeTimeout time.Duration
}

func New(client *firestore.Client, writeTimeout time.Duration) FirestoreClient {
	if writeTimeout <= 0 {
		writeTimeout = time.Second * 120
	}
	return FirestoreClient{
		Client:       client,
		writeTimeout: writeTimeout,
	}
}

// NotifyOnChanges forwards the document changes of the given kinds seen by the snapshot
// iterator. Listener errors are tolerated up to listenerErrCap, after which the last error
// is delivered and the channel is closed. The channel is also closed when ctx is done.
func (c FirestoreClient) NotifyOnChanges(ctx context.Context, it *firestore.QuerySnapshotIterator, kinds ...firestore.DocumentChangeKind) <-chan ChangeEvent {
	out := make(chan ChangeEvent)

	go func() {
		defer close(out)

		failures := 0
		for event := range listen(ctx, it) {
			if event.err != nil {
				if isContextErr(event.err) {
					return
				}

				failures++
				log.Error().Err(event.err).Int("failures", failures).Msg("snapshot listener failed")
				if failures < listenerErrCap {
					continue
				}
				select {
				case out <- ChangeEvent{Err: event.err}:
				case <-ctx.Done():
				}
				return
			}

			for _, change := range event.snap.Changes {
				if change.Doc == nil || (len(kinds) > 0 && !slices.Contains(kinds, change.Kind)) {
					continue
				}
				if !deliver[ChangeEvent](ctx, out, ChangeEvent{Change: change}, changeDeliveryTimeout) && ctx.Err() != nil {
					return
				}
			}
		}
	}()

	return out
}

// listen pulls snapshots until the iterator is exhausted, ctx is done or the consumer
// stopped reading for more than maxStalledSnapshots deliveries.
func listen(ctx context.Context, it *firestore.QuerySnapshotIterator) <-chan snapEvent {
	out := make(chan snapEvent)

	go func() {
		defer close(out)
		defer it.Stop()

		stalled := 0
		for {
			snap, err := it.Next()
			if err == iterator.Done {
				return
			}

			if deliver[snapEvent](ctx, out, snapEvent{snap, err}, snapshotDeliveryTimeout) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			stalled++
			if stalled > maxStalledSnapshots {
				log.Error().Msg("snapshot consumer stalled, stopping the listener")
				return
			}
		}
	}()

	return out
}

// deliver reports whether v was written to ch before the timeout and before ctx was done.
func deliver[T any](ctx context.Context, ch chan<- T, v T, timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ch <- v:
		return true
	case <-ctx.Done():
		return false
	case <-timer.C:
		log.Warn().Dur("timeout", timeout).Msg("listener consumer did not read in time")
		return false
	}
}

// IterDocs runs the query and calls fn for every returned document.
// Iteration stops at the first error, either from Firestore or from fn.
func (c FirestoreClient) IterDocs(ctx context.Context, query firestore.Query, fn func(*firestore.DocumentSnapshot) error) error {
	iter := query.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return err
		}

		if err := fn(doc); err != nil {
			return err
		}
	}
}

func (c FirestoreClient) GetDoc(ctx context.Context, docRef *firestore.DocumentRef) (*firestore.DocumentSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	docSnapshot, err := docRef.Get(ctx)
	if err != nil {
		return nil, err
	}

	if !docSnapshot.Exists() {
		return nil, ierr.NotFound
	}

	return docSnapshot, nil
}

func (c FirestoreClient) CreateDoc(ctx context.Context, docRef *firestore.DocumentRef, data interface{}) (_ *firestore.WriteResult, err error) {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	return docRef.Create(ctx, data)
}

func (c FirestoreClient) UpdateDoc(ctx context.Context, docRef *firestore.DocumentRef, updates []firestore.Update, preconds ...firestore.Precondition) (_ *firestore.WriteResult, err error) {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	return docRef.Update(ctx, updates, preconds...)
}

func (c FirestoreClient) SetDoc(ctx context.Context, docRef *firestore.DocumentRef, data interface{}, opts ...firestore.SetOption) (_ *firestore.WriteResult, err error) {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	return docRef.Set(ctx, data, opts...)
}

// SetDocs writes data in batches of at most maxBatchSize documents.
// Batches are committed one after another, so a failure may leave earlier batches written.
func (c FirestoreClient) SetDocs(ctx context.Context, data []DataBatch) (_ []*firestore.WriteResult, err error) {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	results := make([]*firestore.WriteResult, 0, len(data))
	for _, chunk := range utils.Chunk(data, maxBatchSize) {
		batch := c.Client.Batch()
		for _, item := range chunk {
			batch.Set(item.DocRef, item.Data)
		}

		res, err := batch.Commit(ctx)
		if err != nil {
			return results, err
		}
		results = append(results, res...)
	}

	return results, nil
}

// The error is not always wrapped properly, so errors.Is() alone does not work
func isContextErr(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return strings.Contains(err.Error(), "context canceled") || strings.Contains(err.Error(), "context deadline exceeded")
}
