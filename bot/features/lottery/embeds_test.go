package lottery

import (
	"testing"
	"time"

	"skullbot/application"
	"skullbot/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver map[string]string

func (r stubResolver) DisplayName(account string) string {
	if name, ok := r[account]; ok {
		return name
	}
	return application.UnknownUserLabel
}

func newEmbedLottery(t *testing.T) *entities.Lottery {
	lottery, err := entities.NewLottery(entities.LotteryConfig{
		Prize:       "Nitro",
		Duration:    time.Hour,
		WinnerCount: 2,
	})
	require.NoError(t, err)
	return lottery
}

func TestCreateParticipantsEmbed_ResolvesDisplayNames(t *testing.T) {
	lottery := newEmbedLottery(t)
	participants := map[string]int{"100": 3, "200": 1}
	resolver := stubResolver{"100": "alice"}

	embed := CreateParticipantsEmbed(lottery, participants, resolver)

	assert.Contains(t, embed.Description, "alice: 3 tickets")
	assert.Contains(t, embed.Description, application.UnknownUserLabel+": 1 tickets")
	assert.Equal(t, "2 participants", embed.Footer.Text)
}

func TestCreateParticipantsEmbed_OrdersByTickets(t *testing.T) {
	lottery := newEmbedLottery(t)
	participants := map[string]int{"100": 1, "200": 5}
	resolver := stubResolver{"100": "alice", "200": "bob"}

	embed := CreateParticipantsEmbed(lottery, participants, resolver)

	assert.Equal(t, "bob: 5 tickets\nalice: 1 tickets", embed.Description)
}

func TestCreateResultEmbed_ResolvesWinnerNames(t *testing.T) {
	lottery := newEmbedLottery(t)
	resolver := stubResolver{"100": "alice"}

	embed := CreateResultEmbed(lottery, []string{"100", "200"}, resolver)

	winners := embed.Fields[0].Value
	assert.Contains(t, winners, "<@100> (alice)")
	assert.Contains(t, winners, "<@200> ("+application.UnknownUserLabel+")")
}

func TestCreateResultEmbed_NoWinners(t *testing.T) {
	lottery := newEmbedLottery(t)

	embed := CreateResultEmbed(lottery, nil, stubResolver{})

	assert.Equal(t, "No winner", embed.Fields[0].Value)
}
