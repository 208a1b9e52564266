package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskpulse/deskpulse/internal/ports"
)

func TestRedisDocumentStoreGet(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisDocumentStore(client, "deskpulse")
	ctx := context.Background()

	mock.ExpectHGet("deskpulse:bis", "1").SetVal(`{"id":"1"}`)
	mock.ExpectHGet("deskpulse:bis", "2").RedisNil()
	mock.ExpectHGet("deskpulse:bis", "3").SetErr(errors.New("connection refused"))

	body, err := store.Get(ctx, "bis", "1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1"}`, string(body))

	_, err = store.Get(ctx, "bis", "2")
	assert.ErrorIs(t, err, ports.ErrDocumentNotFound)

	_, err = store.Get(ctx, "bis", "3")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrDocumentNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisDocumentStoreDelete(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisDocumentStore(client, "deskpulse")
	ctx := context.Background()

	mock.ExpectHDel("deskpulse:tasks", "t1").SetVal(1)
	mock.ExpectHDel("deskpulse:tasks", "missing").SetVal(0)

	assert.NoError(t, store.Delete(ctx, "tasks", "t1"))
	assert.ErrorIs(t, store.Delete(ctx, "tasks", "missing"), ports.ErrDocumentNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisDocumentStoreListOrdersByID(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisDocumentStore(client, "deskpulse")

	mock.ExpectHGetAll("deskpulse:automacoes").SetVal(map[string]string{
		"b": `{"id":"b"}`,
		"a": `{"id":"a"}`,
	})

	bodies, err := store.List(context.Background(), "automacoes")
	require.NoError(t, err)
	require.Len(t, bodies, 2)
	assert.JSONEq(t, `{"id":"a"}`, string(bodies[0]))
	assert.JSONEq(t, `{"id":"b"}`, string(bodies[1]))

	assert.NoError(t, mock.ExpectationsWereMet())
}
