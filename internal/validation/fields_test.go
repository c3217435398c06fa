package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateLength(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateLength("content", strings.Repeat("x", MaxContentLength), MaxContentLength))
	assert.Error(t, ValidateLength("content", strings.Repeat("x", MaxContentLength+1), MaxContentLength))
	// characters, not bytes
	assert.NoError(t, ValidateLength("name", strings.Repeat("ग", MaxNameLength), MaxNameLength))
}

func TestValidateID(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"Empty", "", false},
		{"UUID", "1b4e28ba-2fa1-11d2-883f-0016d3cca427", false},
		{"Legacy Timestamp", "1717230000.123456", false},
		{"Firebase UID", "kX9pQ2mVbNf0Z3aLr7tYw1sHc4e2", false},
		{"Space", "a b", true},
		{"Slash", "a/b", true},
		{"Too Long", strings.Repeat("a", MaxIDLength+1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID("id", tt.id)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateEmail(""))
	assert.NoError(t, ValidateEmail("asha@example.com"))
	assert.Error(t, ValidateEmail("Asha <asha@example.com>"))
	assert.Error(t, ValidateEmail("not-an-email"))
}

func TestValidateTags(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateTags(nil))
	assert.NoError(t, ValidateTags([]string{"rice", "organic"}))
	assert.Error(t, ValidateTags(make([]string, MaxTags+1)))
	assert.Error(t, ValidateTags([]string{strings.Repeat("t", MaxTagLength+1)}))
}
