package lottery

import (
	"fmt"

	"skullbot/bot/common"
	"skullbot/domain/entities"

	"github.com/bwmarrin/discordgo"
)

// CreateSetupComponents creates the draw method and confirmation buttons for
// the operator setup message. The selected mode is highlighted.
func CreateSetupComponents(lottery *entities.Lottery) []discordgo.MessageComponent {
	autoStyle := discordgo.SecondaryButton
	manualStyle := discordgo.SecondaryButton
	switch lottery.Mode() {
	case entities.DrawModeAuto:
		autoStyle = discordgo.PrimaryButton
	case entities.DrawModeManual:
		manualStyle = discordgo.PrimaryButton
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Auto Draw",
					Style:    autoStyle,
					CustomID: fmt.Sprintf("lottery_mode_auto_%s", lottery.ID),
					Emoji: &discordgo.ComponentEmoji{
						Name: "⏰",
					},
				},
				discordgo.Button{
					Label:    "Manual Draw",
					Style:    manualStyle,
					CustomID: fmt.Sprintf("lottery_mode_manual_%s", lottery.ID),
					Emoji: &discordgo.ComponentEmoji{
						Name: "🎫",
					},
				},
			},
		},
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Start Lottery",
					Style:    discordgo.SuccessButton,
					CustomID: fmt.Sprintf("lottery_confirm_%s", lottery.ID),
				},
				discordgo.Button{
					Label:    "Cancel",
					Style:    discordgo.DangerButton,
					CustomID: fmt.Sprintf("lottery_abort_%s", lottery.ID),
				},
			},
		},
	}
}

// CreateActiveLotteryComponents creates the participation buttons for the
// public lottery message
func CreateActiveLotteryComponents(lottery *entities.Lottery) []discordgo.MessageComponent {
	joinLabel := "Join"
	if lottery.TicketPrice > 0 {
		joinLabel = "Buy Tickets"
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    joinLabel,
					Style:    discordgo.PrimaryButton,
					CustomID: fmt.Sprintf("lottery_join_%s", lottery.ID),
					Emoji: &discordgo.ComponentEmoji{
						Name: "🎟️",
					},
				},
				discordgo.Button{
					Label:    "Leave",
					Style:    discordgo.SecondaryButton,
					CustomID: fmt.Sprintf("lottery_leave_%s", lottery.ID),
				},
				discordgo.Button{
					Label:    "Participants",
					Style:    discordgo.SecondaryButton,
					CustomID: fmt.Sprintf("lottery_view_%s", lottery.ID),
				},
			},
		},
	}
}

// CreateClosedLotteryComponents creates the disabled button shown once the
// lottery has ended
func CreateClosedLotteryComponents(lottery *entities.Lottery) []discordgo.MessageComponent {
	label := "Lottery Ended"
	if lottery.Status() == entities.LotteryStatusCancelled {
		label = "Lottery Cancelled"
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    label,
					Style:    discordgo.SecondaryButton,
					CustomID: fmt.Sprintf("lottery_closed_%s", lottery.ID),
					Disabled: true,
				},
			},
		},
	}
}

// CreateQuantityComponents creates the ticket quantity picker for paid
// lotteries, offering 1 through the affordable maximum
func CreateQuantityComponents(lotteryID string, max int) []discordgo.MessageComponent {
	quantities := make([]int, 0, common.MaxButtonsPerRow)
	for qty := 1; qty <= max && len(quantities) < common.MaxButtonsPerRow-1; qty++ {
		quantities = append(quantities, qty)
	}
	if max > quantities[len(quantities)-1] {
		quantities = append(quantities, max)
	}

	buttons := make([]discordgo.MessageComponent, 0, len(quantities))
	for _, qty := range quantities {
		label := fmt.Sprintf("%d", qty)
		if qty == max && len(quantities) > 1 {
			label = fmt.Sprintf("%d (max)", qty)
		}
		buttons = append(buttons, discordgo.Button{
			Label:    label,
			Style:    discordgo.PrimaryButton,
			CustomID: fmt.Sprintf("lottery_buy_%s_%d", lotteryID, qty),
		})
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: buttons},
	}
}
