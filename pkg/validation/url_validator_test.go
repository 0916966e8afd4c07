package validation

import (
	"testing"

	apperrors "github.com/anime-shed/doc-insight-go/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewURLValidator(t *testing.T) {
	validator := NewURLValidator()
	require.NotNil(t, validator)
	assert.Equal(t, []string{"http", "https"}, validator.allowedSchemes)
	assert.Empty(t, validator.allowedHosts)
}

func TestValidateDocumentURL(t *testing.T) {
	validator := NewURLValidator()

	tests := []struct {
		name    string
		url     string
		message string
	}{
		{name: "https pdf", url: "https://example.com/bills/invoice.pdf"},
		{name: "http with port", url: "http://192.168.1.1:8080/receipt.jpg"},
		{name: "query string", url: "https://storage.example.com/doc.pdf?sig=abc"},
		{name: "surrounding space", url: "  https://example.com/a.pdf  "},
		{name: "empty", url: "", message: "URL cannot be empty"},
		{name: "blank", url: " \t\n", message: "URL cannot be empty"},
		{name: "relative", url: "not-a-url", message: "URL scheme not allowed"},
		{name: "ftp", url: "ftp://example.com/a.pdf", message: "URL scheme not allowed"},
		{name: "file", url: "file:///etc/passwd", message: "URL scheme not allowed"},
		{name: "data", url: "data:application/pdf;base64,JVBERi0=", message: "URL scheme not allowed"},
		{name: "no host", url: "https://", message: "URL must have a valid host"},
		{name: "port only", url: "http://:80/a.pdf", message: "URL must have a valid host"},
		{name: "bad escape", url: "https://example.com/%zz", message: "Invalid URL format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateDocumentURL(tt.url)
			if tt.message == "" {
				assert.NoError(t, err)
				return
			}

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
			assert.Equal(t, tt.message, appErr.Message)
		})
	}
}

func TestValidateDocumentURL_RestrictedHosts(t *testing.T) {
	validator := NewURLValidatorWithOptions([]string{"https"}, []string{"example.com", "docs.contoso.com"})

	assert.NoError(t, validator.ValidateDocumentURL("https://example.com/a.pdf"))
	assert.NoError(t, validator.ValidateDocumentURL("https://DOCS.contoso.com:443/b.pdf"))

	err := validator.ValidateDocumentURL("https://malicious.com/a.pdf")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	err = validator.ValidateDocumentURL("http://example.com/a.pdf")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestIsHostAllowed(t *testing.T) {
	assert.True(t, NewURLValidator().isHostAllowed("anything.example"))

	restricted := NewURLValidatorWithOptions([]string{"http", "https"}, []string{"example.com"})
	assert.True(t, restricted.isHostAllowed("example.com"))
	assert.False(t, restricted.isHostAllowed("evil.com"))
}
