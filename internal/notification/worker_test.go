package notification

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waste-monitor-backend/internal/model"
)

// mockSender is a mock implementation of the NotificationSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

type fakeStore struct {
	mu       sync.Mutex
	readings map[string][]model.Reading
	subs     map[string][]model.PushSubscription
	deleted  []string
}

func (f *fakeStore) ByBin(_ context.Context, binID string) ([]model.Reading, error) {
	return f.readings[binID], nil
}

func (f *fakeStore) SubscriptionsForBin(_ context.Context, binID string) ([]model.PushSubscription, error) {
	return f.subs[binID], nil
}

func (f *fakeStore) DeleteSubscription(_ context.Context, endpoint string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, endpoint)
	return nil
}

func (f *fakeStore) Deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func wetReadings(bin string) []model.Reading {
	// moisture 800 and weight 4 score 50
	return []model.Reading{{ID: "1", BinID: bin, WeightKg: 4, MoistureRaw: 800, WasteTag: "mixed", Timestamp: time.Now()}}
}

func response(status int) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(bytes.NewBufferString(""))}
}

func TestWorkerPool_Dispatch(t *testing.T) {
	wp := NewWorkerPool(1, 60, &fakeStore{}, &webpush.Options{}, nil)

	wp.Dispatch("BIN-1")

	select {
	case job := <-wp.Jobs():
		assert.Equal(t, "BIN-1", job)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_DispatchDropsWhenFull(t *testing.T) {
	wp := NewWorkerPool(1, 60, &fakeStore{}, &webpush.Options{}, nil)
	for i := 0; i < cap(wp.jobs)+5; i++ {
		wp.Dispatch("BIN-1")
	}
	assert.Len(t, wp.jobs, cap(wp.jobs))
}

func TestWorkerPool_SendsAlertBelowThreshold(t *testing.T) {
	store := &fakeStore{
		readings: map[string][]model.Reading{"BIN-WET": wetReadings("BIN-WET")},
		subs: map[string][]model.PushSubscription{
			"BIN-WET": {{Endpoint: "https://push.example/a", P256DH: "p", Auth: "a"}},
		},
	}
	wp := NewWorkerPool(1, 60, store, &webpush.Options{}, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			defer wg.Done()
			assert.Equal(t, "https://push.example/a", sub.Endpoint)
			assert.Equal(t, "Bin BIN-WET segregation score dropped to 50", string(payload))
			return response(http.StatusCreated), nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.Dispatch("BIN-WET")
	wg.Wait()
}

func TestWorkerPool_DeletesExpiredSubscription(t *testing.T) {
	store := &fakeStore{
		readings: map[string][]model.Reading{"BIN-WET": wetReadings("BIN-WET")},
		subs: map[string][]model.PushSubscription{
			"BIN-WET": {{Endpoint: "https://push.example/gone"}},
		},
	}
	wp := NewWorkerPool(1, 60, store, &webpush.Options{}, nil)
	wp.sender = &mockSender{
		SendFunc: func([]byte, *webpush.Subscription, *webpush.Options) (*http.Response, error) {
			return response(http.StatusGone), nil
		},
	}

	wp.checkBin(context.Background(), "BIN-WET")

	assert.Equal(t, []string{"https://push.example/gone"}, store.Deleted())
}

func TestWorkerPool_NoAlertAtOrAboveThreshold(t *testing.T) {
	store := &fakeStore{
		readings: map[string][]model.Reading{
			"BIN-OK": {{ID: "1", BinID: "BIN-OK", WeightKg: 1, MoistureRaw: 100, Timestamp: time.Now()}},
		},
		subs: map[string][]model.PushSubscription{
			"BIN-OK":  {{Endpoint: "https://push.example/a"}},
			"BIN-NEW": {{Endpoint: "https://push.example/a"}},
		},
	}
	wp := NewWorkerPool(1, 100, store, &webpush.Options{}, nil)
	wp.sender = &mockSender{
		SendFunc: func([]byte, *webpush.Subscription, *webpush.Options) (*http.Response, error) {
			require.FailNow(t, "no alert expected")
			return nil, nil
		},
	}

	wp.checkBin(context.Background(), "BIN-OK")
	wp.checkBin(context.Background(), "BIN-NEW")
}
