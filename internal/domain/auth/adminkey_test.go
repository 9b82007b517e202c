package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminKey(t *testing.T) {
	k, err := NewAdminKey("admin123")
	require.NoError(t, err)

	tests := []struct {
		name      string
		presented string
		wantErr   bool
	}{
		{name: "exact", presented: "admin123"},
		{name: "empty", presented: "", wantErr: true},
		{name: "prefix", presented: "admin12", wantErr: true},
		{name: "longer", presented: "admin1234", wantErr: true},
		{name: "case differs", presented: "ADMIN123", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := k.Check(tt.presented)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnauthorized)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewAdminKey_RejectsBlank(t *testing.T) {
	_, err := NewAdminKey("   ")
	require.Error(t, err)
}
