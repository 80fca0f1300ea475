package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"description only", `{"description":"Buy milk"}`, ""},
		{"both fields", `{"description":"Buy milk","completed":true}`, ""},
		{"empty object", `{}`, ""},
		{"empty body", ``, ""},
		{"unknown fields pass", `{"description":"x","priority":3}`, ""},
		{"description not string", `{"description":42}`, "Description must be a string"},
		{"description null", `{"description":null}`, "Description must be a string"},
		{"completed not bool", `{"completed":"yes"}`, "Completed must be a boolean value (true/false)"},
		{"both wrong", `{"completed":1,"description":false}`, "Description must be a string, Completed must be a boolean value (true/false)"},
		{"array body", `[{"description":"x"}]`, InvalidBodyMessage},
		{"malformed", `{"description":`, InvalidBodyMessage},
		{"trailing value", `{"description":"x"} {"completed":"nope"}`, InvalidBodyMessage},
		{"trailing garbage", `{"description":"x"}}`, InvalidBodyMessage},
		{"trailing white space", "{\"description\":\"x\"} \n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBody([]byte(tt.body))
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.want, verr.Error())
		})
	}
}
