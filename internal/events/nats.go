package events

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

var _ Publisher = (*NATSPublisher)(nil)

// NATSPublisher publishes events on a NATS connection using the event type
// as subject.
type NATSPublisher struct {
	conn *nats.Conn
	lg   *zap.Logger
}

// ConnectNATS dials url and returns a publisher owning the connection.
func ConnectNATS(url string, lg *zap.Logger) (*NATSPublisher, error) {
	if lg == nil {
		lg = zap.NewNop()
	}
	conn, err := nats.Connect(url,
		nats.Name("storefront-api"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				lg.Warn("NATS disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			lg.Info("NATS reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "connect nats %s", url)
	}
	return NewNATSPublisher(conn, lg), nil
}

// NewNATSPublisher wraps an existing connection.
func NewNATSPublisher(conn *nats.Conn, lg *zap.Logger) *NATSPublisher {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &NATSPublisher{conn: conn, lg: lg}
}

// Publish implements Publisher.
func (p *NATSPublisher) Publish(_ context.Context, e Event) error {
	if err := p.conn.Publish(e.Type, e.Encode()); err != nil {
		return errors.Wrapf(err, "publish %s", e.Type)
	}
	return nil
}

// Connected reports whether the connection is currently up.
func (p *NATSPublisher) Connected() bool {
	return p.conn.IsConnected()
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return errors.Wrap(err, "drain nats")
	}
	return nil
}
