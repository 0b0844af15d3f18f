package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const nanoIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// SubmissionHashLength is the number of hex characters kept from the digest.
// 12 characters is practically unique, not cryptographically collision-free.
const SubmissionHashLength = 12

func Now() time.Time {
	return time.Now().UTC()
}

// GenerateNanoIDWithPrefix creates an id like "email_x7f2q9..." used as a
// primary key across all models
func GenerateNanoIDWithPrefix(prefix string, length int) string {
	id, err := gonanoid.Generate(nanoIDAlphabet, length)
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("%s_%s", prefix, id)
}

// NewSubmissionHash derives the short receipt identifier for one ingested
// email from the sender address, subject and the current time. The time
// component differentiates repeated submissions with identical metadata.
func NewSubmissionHash(fromAddress, subject string) string {
	seed := fmt.Sprintf("%s|%s|%d", fromAddress, subject, time.Now().UnixNano())
	digest := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(digest[:])[:SubmissionHashLength]
}
