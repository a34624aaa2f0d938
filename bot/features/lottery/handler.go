package lottery

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"skullbot/bot/common"
	"skullbot/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// HandleCommand handles /lottery slash command interactions
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Missing subcommand")
		return
	}

	switch options[0].Name {
	case "create":
		f.handleCreate(s, i, options[0].Options)
	case "cancel":
		f.handleCancel(s, i, options[0].Options)
	case "draw":
		f.handleDraw(s, i, options[0].Options)
	case "participants":
		f.handleParticipants(s, i, options[0].Options)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}

// handleCreate handles /lottery create
func (f *Feature) handleCreate(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	cfg := entities.LotteryConfig{WinnerCount: 1}
	var durationStr string
	for _, opt := range options {
		switch opt.Name {
		case "prize":
			cfg.Prize = opt.StringValue()
		case "duration":
			durationStr = opt.StringValue()
		case "winners":
			cfg.WinnerCount = int(opt.IntValue())
		case "ticket-price":
			cfg.TicketPrice = opt.IntValue()
		case "max-tickets":
			cfg.MaxTicketsPerUser = int(opt.IntValue())
		case "min-participants":
			cfg.MinParticipants = int(opt.IntValue())
		}
	}

	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		common.RespondWithError(s, i, "Invalid duration, use formats like 30m, 2h or 1h30m")
		return
	}
	cfg.Duration = duration

	lottery, err := f.service.Create(cfg)
	if err != nil {
		common.RespondWithError(s, i, fmt.Sprintf("Failed to create lottery: %v", err))
		return
	}

	log.WithFields(log.Fields{
		"lottery_id": lottery.ID,
		"prize":      lottery.Prize,
		"duration":   lottery.Duration,
		"creator":    interactionUser(i),
	}).Info("Lottery created, awaiting setup")

	embed := CreateSetupEmbed(lottery)
	components := CreateSetupComponents(lottery)
	if err := common.RespondWithEmbed(s, i, embed, components); err != nil {
		log.Errorf("Failed to send lottery setup message: %v", err)
	}
}

// handleCancel handles /lottery cancel
func (f *Feature) handleCancel(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	lottery, err := f.resolveTarget(options)
	if err != nil {
		f.respondError(s, i, err)
		return
	}

	if _, err := f.service.Cancel(lottery.ID); err != nil {
		f.respondError(s, i, err)
		return
	}
	if f.scheduler != nil {
		f.scheduler.Detach(lottery.ID)
	}

	if err := f.RenderFinal(context.Background(), lottery, false); err != nil {
		log.WithError(err).WithField("lottery_id", lottery.ID).Warn("Failed to render cancelled lottery message")
	}
	f.service.Retire(lottery.ID)

	log.WithFields(log.Fields{
		"lottery_id": lottery.ID,
		"operator":   interactionUser(i),
	}).Info("Lottery cancelled by operator")

	if err := common.RespondWithMessage(s, i, f.printer.Sprintf("Lottery cancelled.")); err != nil {
		log.Errorf("Failed to confirm cancellation: %v", err)
	}
}

// handleDraw handles /lottery draw, which ends an active lottery immediately
func (f *Feature) handleDraw(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	lottery, err := f.resolveTarget(options)
	if err != nil {
		f.respondError(s, i, err)
		return
	}
	if f.scheduler == nil {
		common.RespondWithError(s, i, "Draw scheduler is not available")
		return
	}

	if err := f.scheduler.ExpireNow(context.Background(), lottery.ID); err != nil {
		f.respondError(s, i, err)
		return
	}

	if err := common.RespondWithMessage(s, i, "Draw complete!"); err != nil {
		log.Errorf("Failed to confirm draw: %v", err)
	}
}

// handleParticipants handles /lottery participants
func (f *Feature) handleParticipants(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	lottery, err := f.resolveTarget(options)
	if err != nil {
		f.respondError(s, i, err)
		return
	}

	participants, err := f.service.ListParticipants(lottery.ID)
	if err != nil {
		f.respondError(s, i, err)
		return
	}

	embed := CreateParticipantsEmbed(lottery, participants, f.resolver)
	if err := common.RespondWithEmbed(s, i, embed, nil); err != nil {
		log.Errorf("Failed to send participant list: %v", err)
	}
}

// handleModeButton records the selected draw method during setup
func (f *Feature) handleModeButton(s *discordgo.Session, i *discordgo.InteractionCreate, mode entities.DrawMode) {
	lotteryID := lastIDPart(i.MessageComponentData().CustomID)

	if err := f.service.SetDrawMode(lotteryID, mode); err != nil {
		f.respondError(s, i, err)
		return
	}
	lottery, err := f.service.Get(lotteryID)
	if err != nil {
		f.respondError(s, i, err)
		return
	}

	embed := CreateSetupEmbed(lottery)
	components := CreateSetupComponents(lottery)
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
	if err != nil {
		log.Errorf("Failed to update setup message: %v", err)
	}
}

// handleConfirmButton activates the lottery, posts the public countdown
// message and attaches the draw scheduler
func (f *Feature) handleConfirmButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	lotteryID := lastIDPart(i.MessageComponentData().CustomID)

	lottery, err := f.service.Activate(lotteryID)
	if err != nil {
		f.respondError(s, i, err)
		return
	}

	embed := CreateActiveLotteryEmbed(lottery)
	components := CreateActiveLotteryComponents(lottery)
	msg, err := s.ChannelMessageSendComplex(f.channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	})
	if err != nil {
		log.Errorf("Failed to post lottery message: %v", err)
		common.RespondWithError(s, i, "Failed to post the lottery message")
		return
	}
	lottery.SetMessage(f.channelID, msg.ID)

	if f.scheduler != nil {
		f.scheduler.Attach(context.Background(), lottery)
	}

	log.WithFields(log.Fields{
		"lottery_id": lottery.ID,
		"end_time":   lottery.EndTime(),
		"draw_mode":  lottery.Mode().String(),
	}).Info("Lottery started")

	if err := common.UpdateResponse(s, i, f.printer.Sprintf("Lottery started successfully!")); err != nil {
		log.Errorf("Failed to update setup message: %v", err)
	}
}

// handleAbortButton cancels a lottery during setup
func (f *Feature) handleAbortButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	lotteryID := lastIDPart(i.MessageComponentData().CustomID)

	if _, err := f.service.Cancel(lotteryID); err != nil {
		f.respondError(s, i, err)
		return
	}
	f.service.Retire(lotteryID)

	if err := common.UpdateResponse(s, i, f.printer.Sprintf("Lottery cancelled.")); err != nil {
		log.Errorf("Failed to update setup message: %v", err)
	}
}

// handleJoinButton enters the user into a free lottery, or shows the ticket
// quantity picker for a paid one
func (f *Feature) handleJoinButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	lotteryID := lastIDPart(i.MessageComponentData().CustomID)
	account := interactionUser(i)

	lottery, err := f.service.Get(lotteryID)
	if err != nil {
		f.respondError(s, i, err)
		return
	}

	if lottery.TicketPrice <= 0 {
		joined, err := f.service.Join(ctx, lotteryID, account, 1)
		if err != nil {
			f.respondError(s, i, err)
			return
		}
		if err := common.RespondWithMessage(s, i, f.printer.Sprintf("You have joined the lottery!")); err != nil {
			log.Errorf("Failed to confirm join: %v", err)
		}
		f.afterEntryChange(joined, account, true)
		return
	}

	if _, joined := lottery.Tickets(account); joined {
		common.RespondWithError(s, i, f.printer.Sprintf("You are already participating in this lottery."))
		return
	}

	max, err := f.service.MaxPurchasable(lotteryID, account)
	if err != nil {
		f.respondError(s, i, err)
		return
	}
	if max < 1 {
		common.RespondWithError(s, i, f.printer.Sprintf("You don't have enough skulls to join this lottery."))
		return
	}

	prompt := f.printer.Sprintf("How many tickets would you like? (%d skulls per ticket)", lottery.TicketPrice)
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    prompt,
			Components: CreateQuantityComponents(lotteryID, max),
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Failed to send quantity picker: %v", err)
	}
}

// handleBuyButton completes a paid entry with the picked ticket quantity.
// Custom ID format: lottery_buy_<lottery_id>_<quantity>
func (f *Feature) handleBuyButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	parts := strings.Split(i.MessageComponentData().CustomID, "_")
	if len(parts) != 4 {
		common.RespondWithError(s, i, "Invalid button")
		return
	}
	lotteryID := parts[2]
	quantity, err := strconv.Atoi(parts[3])
	if err != nil || quantity < 1 {
		common.RespondWithError(s, i, "Invalid ticket quantity")
		return
	}
	account := interactionUser(i)

	lottery, err := f.service.Join(ctx, lotteryID, account, quantity)
	if err != nil {
		f.respondError(s, i, err)
		return
	}

	cost := int64(quantity) * lottery.TicketPrice
	confirmation := f.printer.Sprintf("Successfully purchased %d tickets for %d skulls!", quantity, cost)
	if err := common.UpdateResponse(s, i, confirmation); err != nil {
		log.Errorf("Failed to confirm ticket purchase: %v", err)
	}
	f.afterEntryChange(lottery, account, true)
}

// handleLeaveButton withdraws the user from the lottery
func (f *Feature) handleLeaveButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	lotteryID := lastIDPart(i.MessageComponentData().CustomID)
	account := interactionUser(i)

	lottery, err := f.service.Leave(ctx, lotteryID, account)
	if err != nil {
		f.respondError(s, i, err)
		return
	}

	if err := common.RespondWithMessage(s, i, f.printer.Sprintf("You have left the lottery.")); err != nil {
		log.Errorf("Failed to confirm leave: %v", err)
	}
	f.afterEntryChange(lottery, account, false)
}

// handleViewButton shows the participant list
func (f *Feature) handleViewButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	lotteryID := lastIDPart(i.MessageComponentData().CustomID)

	lottery, err := f.service.Get(lotteryID)
	if err != nil {
		f.respondError(s, i, err)
		return
	}
	participants, err := f.service.ListParticipants(lotteryID)
	if err != nil {
		f.respondError(s, i, err)
		return
	}

	embed := CreateParticipantsEmbed(lottery, participants, f.resolver)
	if err := common.RespondWithEmbed(s, i, embed, nil); err != nil {
		log.Errorf("Failed to send participant list: %v", err)
	}
}

// afterEntryChange refreshes the public message and sends the best-effort
// confirmation DM without blocking the interaction response
func (f *Feature) afterEntryChange(lottery *entities.Lottery, account string, joined bool) {
	go func() {
		ctx := context.Background()
		if err := f.RenderSnapshot(ctx, lottery); err != nil {
			log.WithError(err).WithField("lottery_id", lottery.ID).Warn("Failed to refresh lottery message")
		}

		var err error
		if joined {
			err = f.NotifyJoin(ctx, account, lottery)
		} else {
			err = f.NotifyLeave(ctx, account, lottery)
		}
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"lottery_id": lottery.ID,
				"account":    account,
			}).Debug("Failed to send entry confirmation DM")
		}
	}()
}

// resolveTarget finds the lottery a subcommand refers to: an explicit id
// option, or the single active lottery when no id is given
func (f *Feature) resolveTarget(options []*discordgo.ApplicationCommandInteractionDataOption) (*entities.Lottery, error) {
	for _, opt := range options {
		if opt.Name == "id" {
			return f.service.Get(opt.StringValue())
		}
	}

	active := f.service.ListActive()
	switch len(active) {
	case 0:
		return nil, entities.ErrLotteryNotFound
	case 1:
		return active[0], nil
	default:
		return nil, common.NewUserError(
			f.printer.Sprintf("Multiple lotteries are active, pass the id option."),
			"ambiguous lottery target",
		)
	}
}

// userError splits a service error into its user-facing and log sides.
// Known sentinels become user errors with localized text; anything else is
// a system error whose detail stays out of the user message.
func (f *Feature) userError(err error) *common.BotError {
	var botErr *common.BotError
	if errors.As(err, &botErr) {
		return botErr
	}

	switch {
	case errors.Is(err, entities.ErrLotteryNotFound):
		return common.NewUserError(f.printer.Sprintf("Lottery not found."), "lottery not found")
	case errors.Is(err, entities.ErrLotteryNotActive):
		return common.NewUserError(f.printer.Sprintf("This lottery is not active."), "lottery not active")
	case errors.Is(err, entities.ErrAlreadyJoined):
		return common.NewUserError(f.printer.Sprintf("You are already participating in this lottery."), "duplicate join")
	case errors.Is(err, entities.ErrNotJoined):
		return common.NewUserError(f.printer.Sprintf("You are not participating in this lottery."), "leave without entry")
	case errors.Is(err, entities.ErrInsufficientFunds):
		return common.NewUserError(f.printer.Sprintf("You don't have enough skulls to join this lottery."), "insufficient funds")
	case errors.Is(err, entities.ErrCapacityExceeded):
		return common.NewUserError(f.printer.Sprintf("Requested tickets exceed the per-user limit."), "ticket limit exceeded")
	case errors.Is(err, entities.ErrDrawModeUnset):
		return common.NewUserError(f.printer.Sprintf("Please select a draw method before confirming."), "draw mode unset")
	default:
		return common.NewSystemError(err, "unhandled lottery error")
	}
}

// respondError reports a service error to the user, logging the internal
// side of system errors
func (f *Feature) respondError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	botErr := f.userError(err)
	if botErr.Err != nil {
		log.WithError(botErr.Err).Error(botErr.LogMessage)
	}
	common.RespondWithError(s, i, botErr.UserMessage)
}

// lastIDPart extracts the lottery id from a custom ID of the form
// <prefix>_<lottery_id>
func lastIDPart(customID string) string {
	parts := strings.Split(customID, "_")
	return parts[len(parts)-1]
}

// interactionUser returns the acting user's account id for both guild and DM
// interactions
func interactionUser(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
