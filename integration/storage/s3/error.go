package s3

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrymomot/contactcard/core/storage"
)

// apiErrors maps S3 error codes onto storage sentinels.
var apiErrors = map[string]error{
	"NoSuchKey":          storage.ErrFileNotFound,
	"NotFound":           storage.ErrFileNotFound,
	"NoSuchBucket":       storage.ErrBucketNotFound,
	"AccessDenied":       storage.ErrAccessDenied,
	"RequestTimeout":     storage.ErrRequestTimeout,
	"SlowDown":           storage.ErrServiceUnavailable,
	"ServiceUnavailable": storage.ErrServiceUnavailable,
	"InvalidObjectState": storage.ErrInvalidObjectState,
}

// classifyS3Error wraps err so callers can match storage sentinels.
func classifyS3Error(err error, op, location string) error {
	var (
		nsk    *types.NoSuchKey
		nsb    *types.NoSuchBucket
		apiErr smithy.APIError
	)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s %s", storage.ErrOperationTimeout, op, location)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %s %s", storage.ErrOperationCanceled, op, location)
	case errors.As(err, &nsk):
		return fmt.Errorf("%w: %s", storage.ErrFileNotFound, location)
	case errors.As(err, &nsb):
		return fmt.Errorf("%w: %s", storage.ErrBucketNotFound, location)
	case errors.As(err, &apiErr):
		if sentinel, ok := apiErrors[apiErr.ErrorCode()]; ok {
			return fmt.Errorf("%w: %s %s: %w", sentinel, op, location, err)
		}
	}
	return fmt.Errorf("s3: %s %s: %w", op, location, err)
}
