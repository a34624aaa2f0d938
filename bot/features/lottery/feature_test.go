package lottery

import (
	"context"
	"testing"
	"time"

	"skullbot/domain/entities"

	"github.com/stretchr/testify/require"
)

// A join racing expiry must not overwrite the final message with a live
// view. The nil session would panic if the refresh reached the Discord API.
func TestRenderSnapshot_SkipsEndedLottery(t *testing.T) {
	f := newTestFeature()

	lottery, err := entities.NewLottery(entities.LotteryConfig{
		Prize:       "Gift card",
		Duration:    time.Minute,
		WinnerCount: 1,
	})
	require.NoError(t, err)
	require.NoError(t, lottery.SetDrawMode(entities.DrawModeAuto))
	require.NoError(t, lottery.Activate(time.Now()))
	lottery.SetMessage("channel", "message")
	require.NoError(t, lottery.Cancel())

	require.NoError(t, f.RenderSnapshot(context.Background(), lottery))
}
