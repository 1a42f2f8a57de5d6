package minio

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
)

var (
	// ErrInvalidConfig is returned by NewSchemaStore for incomplete settings.
	ErrInvalidConfig = errors.New("invalid minio configuration")

	// ErrConnectionFailed is returned when the endpoint cannot be reached.
	ErrConnectionFailed = errors.New("minio connection failed")

	// ErrBucketNotFound is returned when the bucket does not exist and
	// CreateBucket is off.
	ErrBucketNotFound = errors.New("bucket not found")

	// ErrObjectNotFound is returned when the object does not exist.
	ErrObjectNotFound = errors.New("object not found")

	// ErrAccessDenied is returned when the credentials lack permission.
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidCredentials is returned for unknown keys or bad signatures.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// translateError maps MinIO errors to the package sentinels, keeping the
// original error in the chain.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var resp minio.ErrorResponse
	if errors.As(err, &resp) && resp.Code != "" {
		if sentinel := sentinelForCode(resp.Code); sentinel != nil {
			return fmt.Errorf("%w: %w", sentinel, err)
		}
		return err
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "i/o timeout"):
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	return err
}

func sentinelForCode(code string) error {
	switch code {
	case "NoSuchBucket":
		return ErrBucketNotFound
	case "NoSuchKey":
		return ErrObjectNotFound
	case "AccessDenied":
		return ErrAccessDenied
	case "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return ErrInvalidCredentials
	}
	return nil
}

// IsNotFound reports whether err means the object or bucket is missing.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrObjectNotFound) || errors.Is(err, ErrBucketNotFound)
}
