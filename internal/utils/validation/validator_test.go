package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"  validate:"omitempty,max=5"`
	Age   int    `json:"age"   validate:"gte=0,lte=150"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		in      sample
		wantMsg string
	}{
		{"valid", sample{Email: "a@b.co"}, ""},
		{"missing email", sample{}, "email is required"},
		{"bad email", sample{Email: "nope"}, "email must be a valid email address"},
		{"long name", sample{Email: "a@b.co", Name: "abcdefg"}, "name must be at most 5 characters"},
		{"age", sample{Email: "a@b.co", Age: 200}, "age must be less than 150"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.in)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verr *Error
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantMsg, verr.Message)
		})
	}
}
