// internal/notify/notifier_test.go
package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"escalation-notifier/internal/common/database"
	apperrors "escalation-notifier/internal/common/errors"
	"escalation-notifier/internal/common/logger"
	"escalation-notifier/internal/rules"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// ==========================
// Test Helper Functions
// ==========================

type delivery struct {
	handle  string
	message string
	link    string
}

type fakeSink struct {
	handles    map[string]string
	lookupErr  map[string]error
	deliverErr map[string]error
	lookups    []string
	deliveries []delivery
}

func newFakeSink() *fakeSink {
	return &fakeSink{
		handles:    map[string]string{},
		lookupErr:  map[string]error{},
		deliverErr: map[string]error{},
	}
}

func (f *fakeSink) ResolveRecipient(ctx context.Context, email string) (string, error) {
	f.lookups = append(f.lookups, email)
	if err, ok := f.lookupErr[email]; ok {
		return "", err
	}
	handle, ok := f.handles[email]
	if !ok {
		return "", errors.New("users_not_found")
	}
	return handle, nil
}

func (f *fakeSink) Deliver(ctx context.Context, handle, message, link string) error {
	if err, ok := f.deliverErr[handle]; ok {
		return err
	}
	f.deliveries = append(f.deliveries, delivery{handle: handle, message: message, link: link})
	return nil
}

func testConfig() Config {
	return Config{
		AdminEmail: "admin@example.com",
	}
}

// ==========================
// Send Tests
// ==========================

func TestNotifier_Send_Success(t *testing.T) {
	sink := newFakeSink()
	sink.handles["alice@example.com"] = "U123"

	n := NewNotifier(sink, testConfig(), logger.NewNoOpLogger())
	err := n.Send(context.Background(), rules.Action{
		Recipient: "alice@example.com",
		Message:   "hello",
		Link:      "https://notion.example.com/x",
		Kind:      rules.KindCreator,
	})

	assert.NoError(t, err)
	assert.Len(t, sink.deliveries, 1)
	assert.Equal(t, "U123", sink.deliveries[0].handle)
	assert.Equal(t, "hello", sink.deliveries[0].message)
	assert.Equal(t, "https://notion.example.com/x", sink.deliveries[0].link)
}

func TestNotifier_Send_TestModeRedirectsWithoutAlteringContent(t *testing.T) {
	sink := newFakeSink()
	sink.handles["test@example.com"] = "UTEST"

	cfg := testConfig()
	cfg.TestMode = true
	cfg.TestEmail = "test@example.com"

	n := NewNotifier(sink, cfg, logger.NewNoOpLogger())
	err := n.Send(context.Background(), rules.Action{
		Recipient: "alice@example.com",
		Message:   "Hey @alice\n\noriginal content",
		Kind:      rules.KindCreator,
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"test@example.com"}, sink.lookups)
	assert.Len(t, sink.deliveries, 1)
	assert.Equal(t, "Hey @alice\n\noriginal content", sink.deliveries[0].message)
}

func TestNotifier_Send_LookupFailureAlertsAdmin(t *testing.T) {
	sink := newFakeSink()
	sink.handles["admin@example.com"] = "UADMIN"

	n := NewNotifier(sink, testConfig(), logger.NewNoOpLogger())
	err := n.Send(context.Background(), rules.Action{
		Recipient: "ghost@example.com",
		Message:   "hello",
		Kind:      rules.KindCreator,
	})

	assert.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeRecipientLookupFailed, apperrors.CodeOf(err))

	// The admin alert names the failed recipient and the reason.
	assert.Len(t, sink.deliveries, 1)
	assert.Equal(t, "UADMIN", sink.deliveries[0].handle)
	assert.Contains(t, sink.deliveries[0].message, "ghost@example.com")
	assert.Contains(t, sink.deliveries[0].message, "users_not_found")
	assert.Empty(t, sink.deliveries[0].link)
}

func TestNotifier_Send_DeliveryFailureAlertsAdmin(t *testing.T) {
	sink := newFakeSink()
	sink.handles["alice@example.com"] = "U123"
	sink.handles["admin@example.com"] = "UADMIN"
	sink.deliverErr["U123"] = errors.New("channel_not_found")

	n := NewNotifier(sink, testConfig(), logger.NewNoOpLogger())
	err := n.Send(context.Background(), rules.Action{
		Recipient: "alice@example.com",
		Message:   "hello",
		Kind:      rules.KindCreator,
	})

	assert.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeDeliveryFailed, apperrors.CodeOf(err))
	assert.Len(t, sink.deliveries, 1)
	assert.Contains(t, sink.deliveries[0].message, "Error sending message to alice@example.com")
}

func TestNotifier_Send_AdminFailureNeverRecurses(t *testing.T) {
	sink := newFakeSink()
	// Admin address resolves to nothing: sends to the admin fail too.

	n := NewNotifier(sink, testConfig(), logger.NewNoOpLogger())
	err := n.Send(context.Background(), rules.Action{
		Recipient: "admin@example.com",
		Message:   "hello",
		Kind:      rules.KindAdmin,
	})

	assert.Error(t, err)
	// One lookup for the send itself, none for a follow-up alert.
	assert.Equal(t, []string{"admin@example.com"}, sink.lookups)
	assert.Empty(t, sink.deliveries)
}

func TestNotifier_AlertAdmin_FailureIsLoggedOnly(t *testing.T) {
	sink := newFakeSink()
	sink.lookupErr["admin@example.com"] = errors.New("account_inactive")

	n := NewNotifier(sink, testConfig(), logger.NewNoOpLogger())
	n.AlertAdmin(context.Background(), "something broke")

	assert.Equal(t, []string{"admin@example.com"}, sink.lookups)
	assert.Empty(t, sink.deliveries)
}

// ==========================
// Recipient Cache Tests
// ==========================

func setupRedis(t *testing.T) *database.RedisClient {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	t.Cleanup(mr.Close)

	return &database.RedisClient{Client: redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})}
}

func TestCachedSink_CachesLookups(t *testing.T) {
	sink := newFakeSink()
	sink.handles["alice@example.com"] = "U123"

	cached := NewCachedSink(sink, setupRedis(t), time.Hour, logger.NewNoOpLogger())
	ctx := context.Background()

	handle, err := cached.ResolveRecipient(ctx, "alice@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "U123", handle)

	handle, err = cached.ResolveRecipient(ctx, "alice@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "U123", handle)

	// Second resolve was served from the cache.
	assert.Equal(t, []string{"alice@example.com"}, sink.lookups)
}

func TestCachedSink_LookupErrorsAreNotCached(t *testing.T) {
	sink := newFakeSink()

	cached := NewCachedSink(sink, setupRedis(t), time.Hour, logger.NewNoOpLogger())
	ctx := context.Background()

	_, err := cached.ResolveRecipient(ctx, "ghost@example.com")
	assert.Error(t, err)

	sink.handles["ghost@example.com"] = "U999"
	handle, err := cached.ResolveRecipient(ctx, "ghost@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "U999", handle)
}
