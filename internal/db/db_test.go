package db

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/parisxmas/examapi/internal/metrics"
)

// switchPinger answers pings with whatever error was last set.
type switchPinger struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (p *switchPinger) set(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func (p *switchPinger) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *switchPinger) ping(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.err
}

// startMonitored builds a Handle over a client that never dials and starts its
// monitor with the given pinger.
func startMonitored(t *testing.T, p *switchPinger, log *zap.Logger) *Handle {
	t.Helper()
	client, err := mongo.Connect(context.Background(), options.Client().
		ApplyURI("mongodb://127.0.0.1:1/?directConnection=true").
		SetServerSelectionTimeout(100*time.Millisecond))
	require.NoError(t, err)

	h := newHandle(client, "examapi_test", time.Second, log)
	h.pinger = p.ping
	metrics.DBUp.Set(1)
	go h.keepalive(10 * time.Millisecond)
	return h
}

func dbUp() float64 { return testutil.ToFloat64(metrics.DBUp) }

func TestConnectRejectsBadURI(t *testing.T) {
	_, err := Connect(context.Background(), Options{
		URI:            "http://127.0.0.1:27017",
		Database:       "examapi_test",
		PoolSize:       1,
		ConnectTimeout: time.Second,
		PingInterval:   time.Second,
	}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db: connect")
}

func TestConnectUnreachable(t *testing.T) {
	start := time.Now()
	_, err := Connect(context.Background(), Options{
		// port 1 is never a mongod
		URI:            "mongodb://127.0.0.1:1/?directConnection=true",
		Database:       "examapi_test",
		PoolSize:       1,
		ConnectTimeout: 300 * time.Millisecond,
		PingInterval:   time.Second,
	}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db: ping examapi_test")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestMonitorTracksReachability(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := &switchPinger{}
	h := startMonitored(t, p, zap.New(core))
	t.Cleanup(func() { _ = h.Close(context.Background()) })

	p.set(errors.New("connection refused"))
	require.Eventually(t, func() bool { return dbUp() == 0 }, 2*time.Second, 5*time.Millisecond)

	p.set(nil)
	require.Eventually(t, func() bool { return dbUp() == 1 }, 2*time.Second, 5*time.Millisecond)

	// one log line per transition, not per tick
	assert.Equal(t, 1, logs.FilterMessage("database ping failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("database reachable again").Len())
}

func TestCloseStopsMonitor(t *testing.T) {
	p := &switchPinger{}
	h := startMonitored(t, p, zap.NewNop())
	require.Eventually(t, func() bool { return p.count() > 0 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, h.Close(context.Background()))
	select {
	case <-h.done:
	default:
		t.Fatal("monitor still running after Close")
	}
	assert.Equal(t, float64(0), dbUp())

	calls := p.count()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, calls, p.count(), "pinged after Close")

	second := make(chan error, 1)
	go func() { second <- h.Close(context.Background()) }()
	select {
	case err := <-second:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("second Close blocked")
	}
}
