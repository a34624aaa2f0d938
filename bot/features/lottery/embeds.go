package lottery

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"skullbot/application"
	"skullbot/bot/common"
	"skullbot/domain/entities"
	"skullbot/i18n"

	"github.com/bwmarrin/discordgo"
)

type poolEntry struct {
	account string
	tickets int
}

// sortedPool orders the participant pool largest ticket holders first, ties
// broken by account id for a stable listing
func sortedPool(participants map[string]int) []poolEntry {
	entries := make([]poolEntry, 0, len(participants))
	for account, tickets := range participants {
		entries = append(entries, poolEntry{account, tickets})
	}
	sort.Slice(entries, func(a, b int) bool {
		if entries[a].tickets != entries[b].tickets {
			return entries[a].tickets > entries[b].tickets
		}
		return entries[a].account < entries[b].account
	})
	return entries
}

// formatParticipants renders the participant pool as mention lines, largest
// ticket holders first, truncated after five entries
func formatParticipants(participants map[string]int) string {
	if len(participants) == 0 {
		return "No participants yet"
	}

	entries := sortedPool(participants)
	maxShow := 5
	if len(entries) < maxShow {
		maxShow = len(entries)
	}
	lines := make([]string, 0, maxShow+1)
	for i := 0; i < maxShow; i++ {
		lines = append(lines, fmt.Sprintf("<@%s>: %d tickets", entries[i].account, entries[i].tickets))
	}
	if len(entries) > maxShow {
		lines = append(lines, fmt.Sprintf("...and %d more", len(entries)-maxShow))
	}
	return strings.Join(lines, "\n")
}

// formatResolvedParticipants renders the full pool with resolved display
// names. Accounts that fail to resolve keep the Unknown User placeholder
// supplied by the resolver.
func formatResolvedParticipants(participants map[string]int, resolver application.UserResolver) string {
	if len(participants) == 0 {
		return "No participants yet"
	}

	entries := sortedPool(participants)
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s: %d tickets", resolver.DisplayName(e.account), e.tickets))
	}
	return strings.Join(lines, "\n")
}

// entryCostField renders the ticket price, or Free for zero-price lotteries
func entryCostField(lottery *entities.Lottery) string {
	if lottery.TicketPrice <= 0 {
		return "Free"
	}
	return fmt.Sprintf("%s skulls per ticket", common.FormatSkulls(lottery.TicketPrice))
}

// CreateSetupEmbed creates the ephemeral configuration embed shown to the
// operator before the lottery is started
func CreateSetupEmbed(lottery *entities.Lottery) *discordgo.MessageEmbed {
	modeStr := "Not selected"
	switch lottery.Mode() {
	case entities.DrawModeAuto:
		modeStr = "Automatic at end time"
	case entities.DrawModeManual:
		modeStr = "Manual via /lottery draw"
	}

	fields := []*discordgo.MessageEmbedField{
		{
			Name:   "Duration",
			Value:  lottery.Duration.String(),
			Inline: true,
		},
		{
			Name:   "Winners",
			Value:  fmt.Sprintf("%d", lottery.WinnerCount),
			Inline: true,
		},
		{
			Name:   "Entry Cost",
			Value:  entryCostField(lottery),
			Inline: true,
		},
		{
			Name:   "Draw Method",
			Value:  modeStr,
			Inline: false,
		},
	}
	if lottery.TicketPrice > 0 && lottery.MaxTicketsPerUser > 1 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Max Tickets Per User",
			Value:  fmt.Sprintf("%d", lottery.MaxTicketsPerUser),
			Inline: true,
		})
	}
	if lottery.MinParticipants > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Minimum Participants",
			Value:  fmt.Sprintf("%d", lottery.MinParticipants),
			Inline: true,
		})
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Lottery Setup - %s", lottery.Prize),
		Color:       common.ColorInfo,
		Description: "Choose a draw method, then confirm to start the lottery.",
		Fields:      fields,
	}
}

// CreateActiveLotteryEmbed creates the public lottery embed with the live
// countdown and participant pool
func CreateActiveLotteryEmbed(lottery *entities.Lottery) *discordgo.MessageEmbed {
	endTime := lottery.EndTime()

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🎉 Lottery - %s", lottery.Prize),
		Color:       common.ColorPrimary,
		Description: fmt.Sprintf("Ends <t:%d:R> (<t:%d:t>)", endTime.Unix(), endTime.Unix()),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Entry Cost",
				Value:  entryCostField(lottery),
				Inline: true,
			},
			{
				Name:   "Winners",
				Value:  fmt.Sprintf("%d", lottery.WinnerCount),
				Inline: true,
			},
			{
				Name:   "Participants",
				Value:  formatParticipants(lottery.Participants()),
				Inline: false,
			},
		},
	}
}

// CreateFinalLotteryEmbed creates the terminal embed that replaces the live
// countdown once the lottery has ended
func CreateFinalLotteryEmbed(lottery *entities.Lottery) *discordgo.MessageEmbed {
	var color int
	var statusStr string
	if lottery.Status() == entities.LotteryStatusCompleted {
		color = common.ColorSuccess
		statusStr = "Ended"
	} else {
		color = common.ColorDanger
		statusStr = "Cancelled"
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🎉 Lottery - %s", lottery.Prize),
		Color:       color,
		Description: fmt.Sprintf("%s <t:%d:f>", statusStr, time.Now().Unix()),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Participants",
				Value:  formatParticipants(lottery.Participants()),
				Inline: false,
			},
		},
	}
}

// CreateParticipantsEmbed creates the ephemeral participant list shown by
// the view button and /lottery participants, with display names resolved
func CreateParticipantsEmbed(lottery *entities.Lottery, participants map[string]int, resolver application.UserResolver) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Participants - %s", lottery.Prize),
		Color:       common.ColorInfo,
		Description: formatResolvedParticipants(participants, resolver),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%d participants", len(participants)),
		},
	}
}

// CreateResultEmbed creates the public winner announcement. Winners are
// shown as mentions with the resolved display name alongside, so the result
// stays readable in clients that cannot resolve the mention.
func CreateResultEmbed(lottery *entities.Lottery, winners []string, resolver application.UserResolver) *discordgo.MessageEmbed {
	winnerStr := "No winner"
	if len(winners) > 0 {
		lines := make([]string, 0, len(winners))
		for _, winner := range winners {
			lines = append(lines, fmt.Sprintf("<@%s> (%s)", winner, resolver.DisplayName(winner)))
		}
		winnerStr = strings.Join(lines, ", ")
	}

	return &discordgo.MessageEmbed{
		Title:       "🎊 Lottery Results",
		Color:       common.ColorSuccess,
		Description: fmt.Sprintf("The lottery for **%s** has ended!", lottery.Prize),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Winner",
				Value:  winnerStr,
				Inline: false,
			},
		},
	}
}

// CreateInsufficientParticipantsEmbed creates the cancellation notice posted
// when the participant minimum was not met
func CreateInsufficientParticipantsEmbed(lottery *entities.Lottery, printer *i18n.Printer) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Lottery Cancelled",
		Color: common.ColorWarning,
		Description: printer.Sprintf(
			"The lottery for **%s** ended with insufficient participants. Minimum required: %d",
			lottery.Prize, lottery.MinParticipants,
		),
	}
}

// CreateWinnerDMEmbed creates the congratulation DM sent to each winner
func CreateWinnerDMEmbed(lottery *entities.Lottery, printer *i18n.Printer) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🏆 You Won!",
		Color:       common.ColorSuccess,
		Description: printer.Sprintf("Congratulations! You won the lottery for **%s**!", lottery.Prize),
	}
}

// CreateJoinDMEmbed creates the join confirmation DM
func CreateJoinDMEmbed(lottery *entities.Lottery, printer *i18n.Printer) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Lottery Entry",
		Color:       common.ColorInfo,
		Description: fmt.Sprintf("%s **%s**", printer.Sprintf("You have joined the lottery!"), lottery.Prize),
	}
}

// CreateLeaveDMEmbed creates the leave confirmation DM
func CreateLeaveDMEmbed(lottery *entities.Lottery, printer *i18n.Printer) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Lottery Entry",
		Color:       common.ColorInfo,
		Description: fmt.Sprintf("%s **%s**", printer.Sprintf("You have left the lottery."), lottery.Prize),
	}
}
