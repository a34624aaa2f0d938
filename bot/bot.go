package bot

import (
	"fmt"
	"strings"

	"skullbot/application"
	"skullbot/bot/features/lottery"
	"skullbot/bot/features/skulls"
	"skullbot/domain/interfaces"
	"skullbot/i18n"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token            string
	GuildID          string
	LotteryChannelID string
}

// Bot manages the Discord session and all feature modules
type Bot struct {
	config       Config
	session      *discordgo.Session
	userResolver application.UserResolver

	lottery *lottery.Feature
	skulls  *skulls.Feature
}

// New creates a new bot instance with all features. The returned bot has an
// open gateway connection and registered slash commands.
func New(
	config Config,
	lotteryService interfaces.LotteryService,
	ledger interfaces.Ledger,
	printer *i18n.Printer,
) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages

	userResolver := NewUserResolver(dg)

	bot := &Bot{
		config:       config,
		session:      dg,
		userResolver: userResolver,
	}

	bot.lottery = lottery.NewFeature(dg, lotteryService, userResolver, printer, config.LotteryChannelID)
	bot.skulls = skulls.NewFeature(ledger, userResolver, printer)

	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleInteractions)
	dg.AddHandler(bot.handleReady)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	return bot, nil
}

// Lottery returns the lottery feature, which doubles as the renderer and
// notifier for the draw scheduler
func (b *Bot) Lottery() *lottery.Feature {
	return b.lottery
}

// Session returns the Discord session
func (b *Bot) Session() *discordgo.Session {
	return b.session
}

// UserResolver returns the shared display name resolver
func (b *Bot) UserResolver() application.UserResolver {
	return b.userResolver
}

// Close gracefully shuts down the bot
func (b *Bot) Close() error {
	return b.session.Close()
}

// handleReady logs the connected account once the gateway session is up
func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	log.WithFields(log.Fields{
		"username": r.User.Username,
		"guilds":   len(r.Guilds),
	}).Info("Bot connected to Discord")
}

// handleCommands routes slash commands to appropriate handlers
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "lottery":
		b.lottery.HandleCommand(s, i)
	case "skulls":
		b.skulls.HandleCommand(s, i)
	}
}

// handleInteractions routes component interactions to appropriate features
func (b *Bot) handleInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	customID := i.MessageComponentData().CustomID
	if strings.HasPrefix(customID, "lottery_") {
		b.lottery.HandleInteraction(s, i)
	}
}
