package errors

import "github.com/pkg/errors"

var (
	// decode errors, fatal to the inbound request
	ErrMalformedAttachment = errors.New("attachment content is not valid base64")

	// storage errors
	ErrEmailNotFound          = errors.New("email not found")
	ErrAttachmentNotFound     = errors.New("attachment not found")
	ErrSubmissionHashConflict = errors.New("submission hash conflict not resolved")
)
