package kafka

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTransport wraps every failure returned by Sender.Send.
	ErrTransport = errors.New("transport error")

	// ErrConnectionFailed is returned when connection to Kafka cannot be established
	ErrConnectionFailed = errors.New("connection failed")

	// ErrConnectionLost is returned when connection to Kafka is lost
	ErrConnectionLost = errors.New("connection lost")

	// ErrBrokerNotAvailable is returned when broker is not available
	ErrBrokerNotAvailable = errors.New("broker not available")

	// ErrAuthenticationFailed is returned when authentication fails
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrAuthorizationFailed is returned when authorization fails
	ErrAuthorizationFailed = errors.New("authorization failed")

	// ErrTopicNotFound is returned when topic doesn't exist
	ErrTopicNotFound = errors.New("topic not found")

	// ErrMessageTooLarge is returned when message exceeds size limits
	ErrMessageTooLarge = errors.New("message too large")

	// ErrLeaderNotAvailable is returned when leader is not available
	ErrLeaderNotAvailable = errors.New("leader not available")

	// ErrRequestTimedOut is returned when request times out
	ErrRequestTimedOut = errors.New("request timed out")

	// ErrContextCanceled is returned when context is canceled
	ErrContextCanceled = errors.New("context canceled")

	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid config")

	// ErrPublishFailed is returned for write failures that match no other error
	ErrPublishFailed = errors.New("publish failed")
)

// translateError classifies a kafka-go error and wraps it in ErrTransport.
// The original error stays in the chain.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	kind := classify(strings.ToLower(err.Error()))
	return fmt.Errorf("%w: %w: %w", ErrTransport, kind, err)
}

func classify(errMsg string) error {
	switch {
	case strings.Contains(errMsg, "connection refused"),
		strings.Contains(errMsg, "dial"),
		strings.Contains(errMsg, "no such host"):
		return ErrConnectionFailed
	case strings.Contains(errMsg, "connection reset"),
		strings.Contains(errMsg, "connection closed"),
		strings.Contains(errMsg, "broken pipe"):
		return ErrConnectionLost
	case strings.Contains(errMsg, "broker not available"):
		return ErrBrokerNotAvailable
	case strings.Contains(errMsg, "sasl"),
		strings.Contains(errMsg, "authentication failed"):
		return ErrAuthenticationFailed
	case strings.Contains(errMsg, "authorization failed"),
		strings.Contains(errMsg, "not authorized"):
		return ErrAuthorizationFailed
	case strings.Contains(errMsg, "unknown topic"),
		strings.Contains(errMsg, "topic not found"):
		return ErrTopicNotFound
	case strings.Contains(errMsg, "message too large"),
		strings.Contains(errMsg, "record too large"):
		return ErrMessageTooLarge
	case strings.Contains(errMsg, "leader not available"),
		strings.Contains(errMsg, "not leader for partition"):
		return ErrLeaderNotAvailable
	case strings.Contains(errMsg, "context canceled"),
		strings.Contains(errMsg, "context cancelled"):
		return ErrContextCanceled
	case strings.Contains(errMsg, "timed out"),
		strings.Contains(errMsg, "timeout"),
		strings.Contains(errMsg, "deadline exceeded"):
		return ErrRequestTimedOut
	}
	return ErrPublishFailed
}

// IsTransportError reports whether err came from Send.
func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsAuthenticationError reports whether err is an authentication or
// authorization failure.
func IsAuthenticationError(err error) bool {
	return errors.Is(err, ErrAuthenticationFailed) || errors.Is(err, ErrAuthorizationFailed)
}
