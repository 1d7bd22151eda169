package gateway_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/caretrack/internal/gateway"
	"github.com/jwalitptl/caretrack/internal/gateway/memory"
	"github.com/jwalitptl/caretrack/pkg/metrics"
)

func TestInstrumentCountsOperations(t *testing.T) {
	ctx := context.Background()
	m := metrics.New("test")
	b := gateway.Instrument(memory.New("").Gateway(gateway.Collections{DatabaseID: "db"}), m)

	_, err := b.Documents.CreateDocument(ctx, "db", "c", "d1", map[string]string{"a": "b"})
	require.NoError(t, err)
	_, err = b.Documents.GetDocument(ctx, "db", "c", "missing")
	require.Error(t, err)
	_, err = b.Users.CreateUser(ctx, "u1", "a@b.co", "+14155550100", "A")
	require.NoError(t, err)
	_, err = b.Users.CreateUser(ctx, "u2", "a@b.co", "+14155550100", "A")
	require.ErrorIs(t, err, gateway.ErrConflict)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.GatewayOperations.WithLabelValues("create_document", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GatewayOperations.WithLabelValues("get_document", "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GatewayOperations.WithLabelValues("create_user", "conflict")))
	assert.Equal(t, "db", b.Collections.DatabaseID)
	assert.NoError(t, b.Ping(ctx))
}

func TestQueryEncoding(t *testing.T) {
	assert.JSONEq(t, `{"method":"equal","attribute":"email","values":["a@b.co"]}`, gateway.Equal("email", "a@b.co").String())
	assert.JSONEq(t, `{"method":"orderDesc","attribute":"$createdAt"}`, gateway.OrderDesc(gateway.AttrCreatedAt).String())
	assert.JSONEq(t, `{"method":"limit","values":[25]}`, gateway.Limit(25).String())

	n, ok := gateway.Limit(25).LimitOf()
	assert.True(t, ok)
	assert.Equal(t, 25, n)
}

func TestMerge(t *testing.T) {
	merged, err := gateway.Merge([]byte(`{"a":1,"b":"x"}`), []byte(`{"b":"y","c":true}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1,"b":"y","c":true}`, string(merged))
}

func TestUniqueID(t *testing.T) {
	a, b := gateway.UniqueID(), gateway.UniqueID()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

type countingDriver struct {
	*memory.Backend
	pings int
}

func (d *countingDriver) Ping(ctx context.Context) error {
	d.pings++
	return d.Backend.Ping(ctx)
}

func TestInstrumentedPingReachesDriverOnce(t *testing.T) {
	d := &countingDriver{Backend: memory.New("")}
	b := gateway.Instrument(gateway.Backend{
		Documents: d,
		Users:     d,
		Files:     d,
		Messages:  d,
	}, metrics.New("ping"))

	require.NoError(t, b.Ping(context.Background()))
	assert.Equal(t, 1, d.pings)
}
