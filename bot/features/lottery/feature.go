package lottery

import (
	"context"
	"fmt"
	"strings"

	"skullbot/application"
	"skullbot/bot/common"
	"skullbot/domain/entities"
	"skullbot/domain/interfaces"
	"skullbot/i18n"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature represents the lottery feature. It owns the Discord surface of a
// lottery: slash commands, setup and participation buttons, the tracked
// status message, and winner notifications.
type Feature struct {
	session   *discordgo.Session
	service   interfaces.LotteryService
	scheduler *application.DrawScheduler
	resolver  application.UserResolver
	printer   *i18n.Printer
	channelID string
}

// NewFeature creates a new lottery feature instance. The scheduler is bound
// separately because it is constructed with the feature as its renderer.
func NewFeature(
	session *discordgo.Session,
	service interfaces.LotteryService,
	resolver application.UserResolver,
	printer *i18n.Printer,
	channelID string,
) *Feature {
	return &Feature{
		session:   session,
		service:   service,
		resolver:  resolver,
		printer:   printer,
		channelID: channelID,
	}
}

// BindScheduler attaches the draw scheduler after construction
func (f *Feature) BindScheduler(scheduler *application.DrawScheduler) {
	f.scheduler = scheduler
}

// HandleInteraction handles lottery button interactions
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		f.handleComponentInteraction(s, i)
	default:
		log.Warnf("Unknown interaction type in lottery: %v", i.Type)
	}
}

// handleComponentInteraction routes button clicks based on custom ID.
// Lottery buttons use the format: lottery_<action>_<lottery_id>
func (f *Feature) handleComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID

	switch {
	case strings.HasPrefix(customID, "lottery_mode_auto_"):
		f.handleModeButton(s, i, entities.DrawModeAuto)
	case strings.HasPrefix(customID, "lottery_mode_manual_"):
		f.handleModeButton(s, i, entities.DrawModeManual)
	case strings.HasPrefix(customID, "lottery_confirm_"):
		f.handleConfirmButton(s, i)
	case strings.HasPrefix(customID, "lottery_abort_"):
		f.handleAbortButton(s, i)
	case strings.HasPrefix(customID, "lottery_join_"):
		f.handleJoinButton(s, i)
	case strings.HasPrefix(customID, "lottery_leave_"):
		f.handleLeaveButton(s, i)
	case strings.HasPrefix(customID, "lottery_view_"):
		f.handleViewButton(s, i)
	case strings.HasPrefix(customID, "lottery_buy_"):
		f.handleBuyButton(s, i)
	default:
		common.RespondWithError(s, i, "Unknown lottery interaction")
	}
}

// RenderSnapshot refreshes the tracked lottery message with the current
// countdown and participant pool (implements interfaces.Renderer)
func (f *Feature) RenderSnapshot(ctx context.Context, lottery *entities.Lottery) error {
	// The terminal view belongs to RenderFinal; refreshing an ended lottery
	// would resurrect the live entry buttons
	if !lottery.IsActive() {
		return nil
	}

	channelID, messageID, ok := lottery.MessageRef()
	if !ok {
		return fmt.Errorf("lottery %s has no tracked message", lottery.ID)
	}

	embed := CreateActiveLotteryEmbed(lottery)
	components := CreateActiveLotteryComponents(lottery)

	_, err := f.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    channelID,
		ID:         messageID,
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &components,
	})
	if err != nil {
		return fmt.Errorf("failed to update lottery message: %w", err)
	}
	return nil
}

// RenderFinal replaces the tracked lottery message with the terminal view
// (implements interfaces.Renderer)
func (f *Feature) RenderFinal(ctx context.Context, lottery *entities.Lottery, includeActions bool) error {
	channelID, messageID, ok := lottery.MessageRef()
	if !ok {
		log.Warnf("Lottery %s has no message to update with final state", lottery.ID)
		return nil
	}

	embed := CreateFinalLotteryEmbed(lottery)
	var components []discordgo.MessageComponent
	if includeActions {
		components = CreateActiveLotteryComponents(lottery)
	} else {
		components = CreateClosedLotteryComponents(lottery)
	}

	_, err := f.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    channelID,
		ID:         messageID,
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &components,
	})
	if err != nil {
		return fmt.Errorf("failed to render final lottery message: %w", err)
	}

	log.WithFields(log.Fields{
		"lottery_id": lottery.ID,
		"status":     lottery.Status(),
	}).Info("Rendered final lottery message")
	return nil
}

// NotifyWinner sends a congratulation DM to a winner (implements
// interfaces.Notifier)
func (f *Feature) NotifyWinner(ctx context.Context, account string, lottery *entities.Lottery) error {
	embed := CreateWinnerDMEmbed(lottery, f.printer)
	return f.sendDM(account, embed)
}

// NotifyJoin sends a join confirmation DM (implements interfaces.Notifier)
func (f *Feature) NotifyJoin(ctx context.Context, account string, lottery *entities.Lottery) error {
	embed := CreateJoinDMEmbed(lottery, f.printer)
	return f.sendDM(account, embed)
}

// NotifyLeave sends a leave confirmation DM (implements interfaces.Notifier)
func (f *Feature) NotifyLeave(ctx context.Context, account string, lottery *entities.Lottery) error {
	embed := CreateLeaveDMEmbed(lottery, f.printer)
	return f.sendDM(account, embed)
}

// AnnounceResult posts the winner announcement to the lottery channel
// (implements interfaces.Notifier)
func (f *Feature) AnnounceResult(ctx context.Context, lottery *entities.Lottery, winners []string) error {
	embed := CreateResultEmbed(lottery, winners, f.resolver)

	channelID := f.announceChannel(lottery)
	_, err := f.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
	if err != nil {
		return fmt.Errorf("failed to announce lottery result: %w", err)
	}

	log.WithFields(log.Fields{
		"lottery_id": lottery.ID,
		"winners":    len(winners),
	}).Info("Announced lottery result")
	return nil
}

// AnnounceInsufficientParticipants posts a cancellation notice when the
// participant minimum was not met (implements interfaces.Notifier)
func (f *Feature) AnnounceInsufficientParticipants(ctx context.Context, lottery *entities.Lottery) error {
	embed := CreateInsufficientParticipantsEmbed(lottery, f.printer)

	channelID := f.announceChannel(lottery)
	_, err := f.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
	if err != nil {
		return fmt.Errorf("failed to announce lottery cancellation: %w", err)
	}
	return nil
}

// announceChannel prefers the channel of the tracked message over the
// configured lottery channel
func (f *Feature) announceChannel(lottery *entities.Lottery) string {
	if channelID, _, ok := lottery.MessageRef(); ok {
		return channelID
	}
	return f.channelID
}

// sendDM delivers an embed to the account's DM channel
func (f *Feature) sendDM(account string, embed *discordgo.MessageEmbed) error {
	channel, err := f.session.UserChannelCreate(account)
	if err != nil {
		return fmt.Errorf("failed to open DM channel for %s: %w", account, err)
	}
	_, err = f.session.ChannelMessageSendEmbed(channel.ID, embed)
	if err != nil {
		return fmt.Errorf("failed to send DM to %s: %w", account, err)
	}
	return nil
}
