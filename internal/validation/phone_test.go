package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid phone - ukraine",
			phone:   "+380501234567",
			wantErr: false,
		},
		{
			name:    "valid phone - 10 digits",
			phone:   "+1234567890",
			wantErr: false,
		},
		{
			name:    "valid phone - 15 digits",
			phone:   "+123456789012345",
			wantErr: false,
		},
		{
			name:    "invalid - empty phone",
			phone:   "",
			wantErr: true,
			errMsg:  "phone cannot be empty",
		},
		{
			name:    "invalid - no plus",
			phone:   "380501234567",
			wantErr: true,
			errMsg:  "international format",
		},
		{
			name:    "invalid - too short",
			phone:   "+12345",
			wantErr: true,
			errMsg:  "international format",
		},
		{
			name:    "invalid - too long",
			phone:   "+1234567890123456",
			wantErr: true,
			errMsg:  "international format",
		},
		{
			name:    "invalid - letters",
			phone:   "+38050abc4567",
			wantErr: true,
			errMsg:  "international format",
		},
		{
			name:    "invalid - leading zero",
			phone:   "+0501234567",
			wantErr: true,
			errMsg:  "international format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePhone(tt.phone)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+380501234567", NormalizePhone(" +38 (050) 123-45-67 "))
	assert.Equal(t, "+380501234567", NormalizePhone("+380501234567"))
}

func TestValidateCode(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr bool
	}{
		{name: "valid code", code: "12345", wantErr: false},
		{name: "leading zeros", code: "00001", wantErr: false},
		{name: "empty", code: "", wantErr: true},
		{name: "too short", code: "1234", wantErr: true},
		{name: "too long", code: "123456", wantErr: true},
		{name: "letters", code: "12a45", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCode(tt.code)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMaskPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  string
	}{
		{phone: "+380501234567", want: "+380*******67"},
		{phone: "+1234567890", want: "+123*****90"},
		{phone: "+12345", want: "******"},
		{phone: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			got := MaskPhone(tt.phone)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, len(tt.phone))
		})
	}
}
