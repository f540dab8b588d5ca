// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

//go:build nats

package events

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/nats-io/nats-server/v2/server"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/driftlabs/stratodrift/internal/config"
	"github.com/driftlabs/stratodrift/internal/metrics"
)

// JetStream stream holding the mirrored simulation events.
const (
	mirrorStreamName     = "STRATODRIFT_EVENTS"
	mirrorStreamSubjects = "sim.>"
	mirrorStreamMaxAge   = 24 * time.Hour
)

// Mirror replicates bus messages to NATS JetStream for external consumers.
// It is best-effort: a mirror failure is logged and the message dropped, so
// an external outage never stalls the in-process pipeline. A circuit breaker
// sheds publish attempts while the connection is down.
type Mirror struct {
	publisher message.Publisher
	conn      *natsgo.Conn
	embedded  *server.Server
	breaker   *gobreaker.CircuitBreaker[any]
	logger    watermill.LoggerAdapter

	mu     sync.Mutex
	closed bool
}

// NewMirror connects to NATS (starting the embedded server first when
// configured), ensures the event stream exists, and returns a mirror ready
// for handler registration.
func NewMirror(cfg *config.NATSConfig, logger watermill.LoggerAdapter) (*Mirror, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, fmt.Errorf("NATS mirror requires nats.enabled")
	}
	if logger == nil {
		logger = NewLoggerAdapter()
	}

	m := &Mirror{logger: logger}

	clientURL := cfg.URL
	if cfg.EmbeddedServer {
		ns, err := startEmbeddedServer(cfg)
		if err != nil {
			return nil, err
		}
		m.embedded = ns
		clientURL = ns.ClientURL()
	}

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{
				"url": nc.ConnectedUrl(),
			})
		}),
	}

	conn, err := natsgo.Connect(clientURL, natsOpts...)
	if err != nil {
		m.shutdownEmbedded()
		return nil, fmt.Errorf("connect NATS %s: %w", clientURL, err)
	}
	m.conn = conn

	if err := ensureStream(conn); err != nil {
		conn.Close()
		m.shutdownEmbedded()
		return nil, err
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         clientURL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      false,
			AutoProvision: false, // stream is pre-created by ensureStream
			TrackMsgId:    true,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}, logger)
	if err != nil {
		conn.Close()
		m.shutdownEmbedded()
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}
	m.publisher = pub

	m.breaker = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "nats-mirror",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	logger.Info("NATS mirror connected", watermill.LogFields{
		"url":      clientURL,
		"stream":   mirrorStreamName,
		"embedded": cfg.EmbeddedServer,
	})

	return m, nil
}

// Enabled reports whether mirroring is active in this build.
func (m *Mirror) Enabled() bool {
	return true
}

// ClientURL returns the URL clients of the embedded server should use, or
// the configured URL for an external server.
func (m *Mirror) ClientURL() string {
	if m.conn != nil {
		return m.conn.ConnectedUrl()
	}
	return ""
}

// Handle republishes a bus message to JetStream under the subject it was
// consumed from. It always returns nil so mirror failures are never retried
// against the in-process pipeline.
func (m *Mirror) Handle(msg *message.Message) error {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return nil
	}

	subject := message.SubscribeTopicFromCtx(msg.Context())
	if subject == "" {
		m.logger.Error("mirror message without subscribe topic", nil, watermill.LogFields{
			"message_uuid": msg.UUID,
		})
		return nil
	}

	out := message.NewMessage(msg.UUID, msg.Payload)
	// Nats-Msg-Id drives JetStream deduplication across reconnect retries.
	out.Metadata.Set(natsgo.MsgIdHdr, msg.UUID)

	_, err := m.breaker.Execute(func() (any, error) {
		return nil, m.publisher.Publish(subject, out)
	})
	if err != nil {
		m.logger.Error("mirror publish failed", err, watermill.LogFields{
			"subject":      subject,
			"message_uuid": msg.UUID,
		})
		return nil
	}

	metrics.NATSMessagesPublished.Inc()
	return nil
}

// Close shuts down the publisher, the connection, and the embedded server.
func (m *Mirror) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	var errs []error
	if m.publisher != nil {
		if err := m.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	if m.conn != nil {
		m.conn.Close()
	}
	if m.embedded != nil {
		m.embedded.Shutdown()
		m.embedded.WaitForShutdown()
	}

	return errors.Join(errs...)
}

func (m *Mirror) shutdownEmbedded() {
	if m.embedded != nil {
		m.embedded.Shutdown()
		m.embedded = nil
	}
}

// startEmbeddedServer runs a JetStream-enabled NATS server inside the
// process, listening on the host and port named by the configured URL.
func startEmbeddedServer(cfg *config.NATSConfig) (*server.Server, error) {
	host, port, err := listenAddr(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts := &server.Options{
		ServerName: "stratodrift-events",
		Host:       host,
		Port:       port,
		JetStream:  true,
		StoreDir:   cfg.StoreDir,
		DontListen: false,
		Debug:      false,
		Trace:      false,
		NoLog:      false,
		MaxPayload: 8 * 1024 * 1024,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("create NATS server: %w", err)
	}

	ns.ConfigureLogger()
	go ns.Start()

	if !ns.ReadyForConnections(30 * time.Second) {
		ns.Shutdown()
		return nil, fmt.Errorf("NATS server not ready within timeout")
	}

	return ns, nil
}

// ensureStream creates the event stream if missing and reconciles its
// configuration if it already exists. The operation is idempotent.
func ensureStream(conn *natsgo.Conn) error {
	js, err := jetstream.New(conn)
	if err != nil {
		return fmt.Errorf("jetstream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	streamCfg := jetstream.StreamConfig{
		Name:        mirrorStreamName,
		Subjects:    []string{mirrorStreamSubjects},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      mirrorStreamMaxAge,
		Storage:     jetstream.FileStorage,
		Discard:     jetstream.DiscardOld,
		AllowDirect: true,
	}

	if _, err := js.Stream(ctx, mirrorStreamName); err == nil {
		if _, err := js.UpdateStream(ctx, streamCfg); err != nil {
			return fmt.Errorf("update stream %s: %w", mirrorStreamName, err)
		}
		return nil
	} else if !errors.Is(err, jetstream.ErrStreamNotFound) {
		return fmt.Errorf("check stream %s: %w", mirrorStreamName, err)
	}

	if _, err := js.CreateStream(ctx, streamCfg); err != nil {
		return fmt.Errorf("create stream %s: %w", mirrorStreamName, err)
	}
	return nil
}

// listenAddr extracts the embedded server bind address from a nats:// URL.
func listenAddr(rawURL string) (string, int, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", 0, fmt.Errorf("parse NATS URL: %w", err)
	}

	host := u.Hostname()
	if host == "" {
		host = "127.0.0.1"
	}

	port := 4222
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			return "", 0, fmt.Errorf("parse NATS port: %w", err)
		}
	}

	return host, port, nil
}
