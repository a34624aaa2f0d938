package lottery

import (
	"fmt"
	"testing"

	"skullbot/bot/common"
	"skullbot/domain/entities"
	"skullbot/i18n"

	"github.com/stretchr/testify/assert"
)

func newTestFeature() *Feature {
	return NewFeature(nil, nil, nil, i18n.NewPrinter("en"), "channel")
}

func TestUserError_MapsSentinelsToUserText(t *testing.T) {
	f := newTestFeature()

	tests := []struct {
		err  error
		want string
	}{
		{entities.ErrLotteryNotFound, "Lottery not found."},
		{entities.ErrLotteryNotActive, "This lottery is not active."},
		{entities.ErrAlreadyJoined, "You are already participating in this lottery."},
		{entities.ErrNotJoined, "You are not participating in this lottery."},
		{entities.ErrInsufficientFunds, "You don't have enough skulls to join this lottery."},
		{entities.ErrCapacityExceeded, "Requested tickets exceed the per-user limit."},
		{entities.ErrDrawModeUnset, "Please select a draw method before confirming."},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			botErr := f.userError(fmt.Errorf("failed to join: %w", tt.err))
			assert.Equal(t, tt.want, botErr.UserMessage)
			assert.Nil(t, botErr.Err, "user errors carry no internal error")
		})
	}
}

func TestUserError_WrapsUnknownErrorsAsSystem(t *testing.T) {
	f := newTestFeature()

	botErr := f.userError(assert.AnError)
	assert.Equal(t, "Something went wrong. Please try again later.", botErr.UserMessage)
	assert.ErrorIs(t, botErr, assert.AnError)
}

func TestUserError_PassesThroughBotErrors(t *testing.T) {
	f := newTestFeature()
	orig := common.NewUserError("Pick one lottery.", "ambiguous target")

	assert.Same(t, orig, f.userError(fmt.Errorf("failed to resolve target: %w", orig)))
}

func TestLastIDPart(t *testing.T) {
	assert.Equal(t, "abc-123", lastIDPart("lottery_join_abc-123"))
	assert.Equal(t, "abc-123", lastIDPart("lottery_mode_auto_abc-123"))
}
