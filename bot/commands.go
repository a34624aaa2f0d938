package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// registerCommands registers all slash commands with Discord. Commands are
// registered per guild when a guild id is configured so updates apply
// immediately during development.
func (b *Bot) registerCommands() error {
	minTickets := float64(1)

	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "lottery",
			Description: "Create and manage lotteries",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create",
					Description: "Create a new lottery",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "prize",
							Description: "What the winners receive",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "duration",
							Description: "How long the lottery runs (e.g. 30m, 2h, 1h30m)",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "winners",
							Description: "Number of winners to draw (default 1)",
							MinValue:    &minTickets,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "ticket-price",
							Description: "Skulls per ticket (0 for a free lottery)",
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "max-tickets",
							Description: "Maximum tickets per user for paid lotteries",
							MinValue:    &minTickets,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "min-participants",
							Description: "Minimum participants required for a draw",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "cancel",
					Description: "Cancel a running lottery",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "id",
							Description: "Lottery ID (optional when only one is active)",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "draw",
					Description: "End a lottery and draw winners now",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "id",
							Description: "Lottery ID (optional when only one is active)",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "participants",
					Description: "Show the participants of a lottery",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "id",
							Description: "Lottery ID (optional when only one is active)",
						},
					},
				},
			},
		},
		{
			Name:        "skulls",
			Description: "Manage your skull balance",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "balance",
					Description: "Check a skull balance",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "user",
							Description: "User to check (defaults to yourself)",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "give",
					Description: "Give skulls to another user",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "user",
							Description: "User to give skulls to",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "amount",
							Description: "Amount of skulls to give",
							Required:    true,
							MinValue:    &minTickets,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "award",
					Description: "Award skulls to a user (Manage Server only)",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "user",
							Description: "User to award skulls to",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "amount",
							Description: "Amount of skulls to award",
							Required:    true,
							MinValue:    &minTickets,
						},
					},
				},
			},
		},
	}

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	return nil
}
