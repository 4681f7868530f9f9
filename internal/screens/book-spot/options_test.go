package bookspot

import (
	"testing"
	"time"

	apperrors "parkvision-client/internal/common/errors"
	"parkvision-client/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirm(t *testing.T) {
	now := time.Date(2024, 5, 1, 23, 45, 0, 0, time.UTC)

	tests := []struct {
		name    string
		option  string
		kind    models.HoldKind
		arrival string
	}{
		{name: "immediate", option: "immediate", kind: models.HoldImmediate, arrival: "23:45"},
		{name: "half hour label", option: "1/2 hour", kind: models.HoldHalfHour, arrival: "00:15"},
		{name: "hour wire value", option: "hour", kind: models.HoldOneHour, arrival: "00:45"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Confirm(8, 2, tt.option, now)
			require.NoError(t, err)
			assert.Equal(t, "Booking Confirmation", c.Title)
			assert.Equal(t, "Estimated arriving time: "+tt.arrival, c.Message)
			assert.Equal(t, models.SpotID(8), c.Params.SpotID)
			assert.Equal(t, models.LotID(2), c.Params.LotID)
			assert.Equal(t, tt.kind, c.Params.HoldKind)
		})
	}
}

func TestConfirm_UnknownOption(t *testing.T) {
	_, err := Confirm(8, 2, "all day", time.Now())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidHoldKind))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, []string{"immediate (Immediate)", "half (1/2 hour)", "hour (1 hour)"}, Describe())
}
