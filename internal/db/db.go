package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/parisxmas/examapi/internal/metrics"
)

type Options struct {
	URI            string
	Database       string
	PoolSize       int
	ConnectTimeout time.Duration
	PingInterval   time.Duration
}

// Handle owns the process-wide MongoDB client. The driver pools connections
// and reconnects on its own; Handle only adds a reachability monitor.
type Handle struct {
	client   *mongo.Client
	database *mongo.Database
	log      *zap.Logger
	timeout  time.Duration
	pinger   func(ctx context.Context) error

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// Connect creates the client and pings the primary before returning.
func Connect(ctx context.Context, opts Options, log *zap.Logger) (*Handle, error) {
	clientOpts := options.Client().
		ApplyURI(opts.URI).
		SetMaxPoolSize(uint64(opts.PoolSize)).
		SetConnectTimeout(opts.ConnectTimeout).
		SetServerSelectionTimeout(opts.ConnectTimeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("db: connect: %w", err)
	}

	h := newHandle(client, opts.Database, opts.ConnectTimeout, log)
	if err := h.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("db: ping %s: %w", opts.Database, err)
	}
	metrics.DBUp.Set(1)

	go h.keepalive(opts.PingInterval)
	return h, nil
}

func newHandle(client *mongo.Client, database string, timeout time.Duration, log *zap.Logger) *Handle {
	return &Handle{
		client:   client,
		database: client.Database(database),
		log:      log,
		timeout:  timeout,
		pinger: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Database returns the configured database.
func (h *Handle) Database() *mongo.Database {
	return h.database
}

// Ping checks that the primary is reachable within the connect timeout.
func (h *Handle) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	return h.pinger(ctx)
}

func (h *Handle) keepalive(interval time.Duration) {
	defer close(h.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	up := true
	for {
		select {
		case <-h.stop:
			return
		case <-ticker.C:
			err := h.Ping(context.Background())
			switch {
			case err != nil && up:
				h.log.Warn("database ping failed", zap.Error(err))
				metrics.DBUp.Set(0)
				up = false
			case err == nil && !up:
				h.log.Info("database reachable again")
				metrics.DBUp.Set(1)
				up = true
			}
		}
	}
}

// Close stops the monitor and disconnects. Safe to call more than once.
func (h *Handle) Close(ctx context.Context) error {
	var err error
	h.closeOnce.Do(func() {
		close(h.stop)
		<-h.done
		metrics.DBUp.Set(0)
		if e := h.client.Disconnect(ctx); e != nil {
			err = fmt.Errorf("db: disconnect: %w", e)
		}
	})
	return err
}
