package upload

import (
	"net/http"
	"time"
)

const (
	ACLPublicRead = "public-read"

	// MaxKeyBytes is the S3 limit for an object key.
	MaxKeyBytes = 1024
)

type (
	// Request is what a caller asks for: an object key and the content type
	// the later PUT will declare.
	Request struct {
		FileName string
		FileType string
	}

	// Object describes the PUT a signed URL authorizes.
	Object struct {
		Key         string
		ContentType string
		ACL         string
	}

	SignedURL struct {
		URL         string
		Method      string
		Provider    string
		Bucket      string
		Key         string
		ContentType string
		ACL         string
		ExpiresIn   time.Duration
		// Headers the client has to send with the PUT for the signature to match.
		SignedHeaders http.Header
	}
)
