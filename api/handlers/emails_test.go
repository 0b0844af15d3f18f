package handlers

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/mailpin/mailpin/internal/models"
)

func TestEmailView_PreviewFromHTMLBody(t *testing.T) {
	// Arrange
	email := &models.Email{
		ID:       "email_test1",
		HTMLBody: "<html><body><p>Hello <b>world</b></p></body></html>",
	}

	// Act
	view := emailView(email)

	// Assert
	assert.Equal(t, "Hello world", view.Preview)
}

func TestEmailView_TextBodyWinsOverHTML(t *testing.T) {
	// Arrange
	email := &models.Email{
		TextBody: "plain text",
		HTMLBody: "<p>html text</p>",
	}

	// Act
	view := emailView(email)

	// Assert
	assert.Equal(t, "plain text", view.Preview)
}

func TestEmailView_PreviewTruncatesOnRuneBoundary(t *testing.T) {
	// Arrange: multibyte characters past the preview limit
	email := &models.Email{
		TextBody: strings.Repeat("ü", previewLength+50),
	}

	// Act
	view := emailView(email)

	// Assert
	assert.True(t, utf8.ValidString(view.Preview))
	assert.Equal(t, previewLength, utf8.RuneCountInString(view.Preview))
}
