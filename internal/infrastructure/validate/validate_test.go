package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompose(t *testing.T) {
	code := Compose(Required(), LengthBetween(3, 8))

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "valid", value: "123", wantErr: false},
		{name: "blank", value: "   ", wantErr: true},
		{name: "too short", value: "ab", wantErr: true},
		{name: "too long", value: "abcdefghi", wantErr: true},
		{name: "multibyte counts runes", value: "ääö", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := code(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNoControlChars(t *testing.T) {
	assert.NoError(t, NoControlChars()("alice"))
	assert.Error(t, NoControlChars()("ali\nce"))
}
