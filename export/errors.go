// SPDX-License-Identifier: EPL-2.0

package export

import "errors"

var (
	// ErrInvalidName is returned for object names that are empty or point
	// outside the sink.
	ErrInvalidName = errors.New("invalid export name")

	// ErrS3NotConfigured is returned by NewS3Sink when the bucket or the
	// credentials are missing.
	ErrS3NotConfigured = errors.New("s3 export is not configured")
)
