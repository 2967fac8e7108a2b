package recallstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemRecallStoreConsumeOnce(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	s := NewMemRecallStore()
	err := s.Record(ctx, "m1", Entry{UserID: "u1", GroupID: "g1", Raw: "hello", Time: time.Now()})
	assert.NoError(err)

	e, err := s.Consume(ctx, "m1")
	assert.NoError(err)
	assert.NotNil(e)
	assert.Equal("hello", e.Raw)

	// second consume finds nothing
	e, err = s.Consume(ctx, "m1")
	assert.NoError(err)
	assert.Nil(e)
}

func TestMemRecallStoreUnknownMessage(t *testing.T) {
	assert := assert.New(t)

	s := NewMemRecallStore()
	e, err := s.Consume(context.Background(), "missing")
	assert.NoError(err)
	assert.Nil(e)
}

func TestMemRecallStoreTTLBoundary(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	base := time.Now()
	now := base
	s := NewMemRecallStore()
	s.Now = func() time.Time { return now }

	assert.NoError(s.Record(ctx, "m1", Entry{Raw: "a", Time: base}))

	// just inside the TTL the entry is live
	now = base.Add(TTL - time.Millisecond)
	e, err := s.Consume(ctx, "m1")
	assert.NoError(err)
	assert.NotNil(e)

	// exactly at the TTL it is expired
	assert.NoError(s.Record(ctx, "m2", Entry{Raw: "b", Time: base}))
	now = base.Add(TTL)
	e, err = s.Consume(ctx, "m2")
	assert.NoError(err)
	assert.Nil(e)
}

func TestMemRecallStoreLazySweep(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	base := time.Now()
	now := base
	s := NewMemRecallStore()
	s.Now = func() time.Time { return now }

	assert.NoError(s.Record(ctx, "m1", Entry{Raw: "old", Time: base}))
	assert.NoError(s.Record(ctx, "m2", Entry{Raw: "old", Time: base}))
	assert.Equal(2, s.Len())

	// a write past the TTL evicts everything stale
	now = base.Add(TTL + time.Second)
	assert.NoError(s.Record(ctx, "m3", Entry{Raw: "new", Time: now}))
	assert.Equal(1, s.Len())
}
