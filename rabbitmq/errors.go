package rabbitmq

import (
	"errors"
)

var (
	// ErrTransport wraps every failure returned by Sender.Send and Broker.Publish.
	ErrTransport = errors.New("transport error")

	// ErrConnectionFailed is returned when the broker cannot be dialled.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrChannelFailed is returned when a channel cannot be opened.
	ErrChannelFailed = errors.New("channel open failed")

	// ErrTopologyFailed is returned when the broker exchange or queue cannot
	// be declared or bound.
	ErrTopologyFailed = errors.New("topology declaration failed")

	// ErrPublishFailed is returned when the broker rejects a publish.
	ErrPublishFailed = errors.New("publish failed")

	// ErrNotConnected is returned by Broker.Publish before Connect or after Close.
	ErrNotConnected = errors.New("not connected")

	// ErrInvalidConfig is returned by constructors for unusable configs.
	ErrInvalidConfig = errors.New("invalid rabbitmq config")
)

// IsTransportError reports whether err came from talking to the broker.
func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsNotConnected reports whether err means the broker has no open connection.
func IsNotConnected(err error) bool {
	return errors.Is(err, ErrNotConnected)
}
