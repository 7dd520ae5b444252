package realtime

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const (
	minReconnect = 10 * time.Second
	maxReconnect = time.Minute
	pingInterval = 90 * time.Second
)

// PQSource LISTENs on a Postgres channel and publishes every notification
// to the hub.
type PQSource struct {
	dsn     string
	channel string
	hub     *Hub
	logger  *zap.Logger

	listener *pq.Listener
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewPQSource(dsn, channel string, hub *Hub, logger *zap.Logger) *PQSource {
	return &PQSource{
		dsn:     dsn,
		channel: channel,
		hub:     hub,
		logger:  logger,
	}
}

func (s *PQSource) Start(ctx context.Context) error {
	s.listener = pq.NewListener(s.dsn, minReconnect, maxReconnect, s.onListenerEvent)
	if err := s.listener.Listen(s.channel); err != nil {
		_ = s.listener.Close()
		return fmt.Errorf("listen %s: %w", s.channel, err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(runCtx)

	s.logger.Info("listening for row changes", zap.String("channel", s.channel))
	return nil
}

func (s *PQSource) Stop(ctx context.Context) error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()

	select {
	case <-s.done:
	case <-ctx.Done():
	}
	return s.listener.Close()
}

func (s *PQSource) run(ctx context.Context) {
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-s.listener.Notify:
			if !ok {
				return
			}
			// nil after a reconnect; missed notifications are not replayed.
			if n == nil {
				continue
			}
			s.handle([]byte(n.Extra))
		case <-time.After(pingInterval):
			if err := s.listener.Ping(); err != nil {
				s.logger.Warn("realtime listener ping failed", zap.Error(err))
			}
		}
	}
}

func (s *PQSource) handle(payload []byte) {
	ev, err := ParseEvent(payload)
	if err != nil {
		s.logger.Warn("skipping malformed row change", zap.Error(err))
		return
	}
	s.hub.Publish(ev)
}

func (s *PQSource) onListenerEvent(ev pq.ListenerEventType, err error) {
	switch ev {
	case pq.ListenerEventConnectionAttemptFailed, pq.ListenerEventDisconnected:
		s.logger.Warn("realtime listener connection problem", zap.Error(err))
	case pq.ListenerEventReconnected:
		s.logger.Info("realtime listener reconnected")
	}
}
