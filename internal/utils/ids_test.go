package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateNanoIDWithPrefix(t *testing.T) {
	// Act
	id := GenerateNanoIDWithPrefix("email", 24)

	// Assert
	assert.True(t, strings.HasPrefix(id, "email_"))
	assert.Len(t, id, len("email_")+24)
}

func TestGenerateNanoIDWithPrefix_Unique(t *testing.T) {
	// Act
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seen[GenerateNanoIDWithPrefix("file", 12)] = true
	}

	// Assert
	assert.Len(t, seen, 100)
}

func TestNewSubmissionHash(t *testing.T) {
	// Act
	hash := NewSubmissionHash("sender@example.com", "field report")

	// Assert
	assert.Len(t, hash, SubmissionHashLength)
	for _, c := range hash {
		assert.Contains(t, "0123456789abcdef", string(c))
	}
}

func TestNewSubmissionHash_DiffersAcrossCalls(t *testing.T) {
	// Arrange
	from := "sender@example.com"
	subject := "field report"

	// Act
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[NewSubmissionHash(from, subject)] = true
	}

	// Assert: the time component keeps identical metadata from colliding
	assert.Greater(t, len(seen), 1)
}
