package skulls

import (
	"context"
	"errors"

	"skullbot/application"
	"skullbot/bot/common"
	"skullbot/domain/entities"
	"skullbot/domain/interfaces"
	"skullbot/i18n"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature represents the skulls currency feature
type Feature struct {
	ledger   interfaces.Ledger
	resolver application.UserResolver
	printer  *i18n.Printer
}

// NewFeature creates a new skulls feature instance
func NewFeature(ledger interfaces.Ledger, resolver application.UserResolver, printer *i18n.Printer) *Feature {
	return &Feature{
		ledger:   ledger,
		resolver: resolver,
		printer:  printer,
	}
}

// HandleCommand handles /skulls slash command interactions
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Missing subcommand")
		return
	}

	switch options[0].Name {
	case "balance":
		f.handleBalance(s, i, options[0].Options)
	case "give":
		f.handleGive(s, i, options[0].Options)
	case "award":
		f.handleAward(s, i, options[0].Options)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}

// handleBalance handles /skulls balance, showing the caller's balance or
// another user's when the user option is set
func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	account := interactionUser(i)
	var target *discordgo.User
	for _, opt := range options {
		if opt.Name == "user" {
			target = opt.UserValue(s)
		}
	}

	var content string
	if target != nil && target.ID != account {
		balance := f.ledger.Balance(target.ID)
		content = f.printer.Sprintf("%s's balance: %d skulls", f.resolver.DisplayName(target.ID), balance)
	} else {
		balance := f.ledger.Balance(account)
		content = f.printer.Sprintf("Your balance: %d skulls", balance)
	}

	if err := common.RespondWithMessage(s, i, content); err != nil {
		log.Errorf("Failed to send balance response: %v", err)
	}
}

// handleGive handles /skulls give, transferring skulls between users
func (f *Feature) handleGive(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	from := interactionUser(i)
	var target *discordgo.User
	var amount int64
	for _, opt := range options {
		switch opt.Name {
		case "user":
			target = opt.UserValue(s)
		case "amount":
			amount = opt.IntValue()
		}
	}

	if target == nil || amount <= 0 {
		common.RespondWithError(s, i, "A recipient and a positive amount are required")
		return
	}
	if target.ID == from {
		common.RespondWithError(s, i, "You cannot give skulls to yourself")
		return
	}
	if target.Bot {
		common.RespondWithError(s, i, "Bots cannot hold skulls")
		return
	}

	if err := f.ledger.Transfer(context.Background(), from, target.ID, amount); err != nil {
		if errors.Is(err, entities.ErrInsufficientFunds) {
			common.RespondWithError(s, i, f.printer.Sprintf("Insufficient funds."))
			return
		}
		log.WithError(err).WithFields(log.Fields{
			"from": from,
			"to":   target.ID,
		}).Error("Failed to transfer skulls")
		common.RespondWithError(s, i, "Failed to transfer skulls")
		return
	}

	log.WithFields(log.Fields{
		"from":   from,
		"to":     target.ID,
		"amount": amount,
	}).Info("Skulls transferred")

	content := f.printer.Sprintf("Transferred %d skulls to %s.", amount, f.resolver.DisplayName(target.ID))
	if err := common.RespondWithMessage(s, i, content); err != nil {
		log.Errorf("Failed to confirm transfer: %v", err)
	}
}

// handleAward handles /skulls award, an operator-only mint into a user's
// account
func (f *Feature) handleAward(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if i.Member == nil || i.Member.Permissions&discordgo.PermissionManageServer == 0 {
		common.RespondWithError(s, i, "You need the Manage Server permission to award skulls")
		return
	}

	var target *discordgo.User
	var amount int64
	for _, opt := range options {
		switch opt.Name {
		case "user":
			target = opt.UserValue(s)
		case "amount":
			amount = opt.IntValue()
		}
	}

	if target == nil || amount <= 0 {
		common.RespondWithError(s, i, "A recipient and a positive amount are required")
		return
	}

	newBalance, err := f.ledger.AddFunds(context.Background(), target.ID, amount)
	if err != nil {
		log.WithError(err).WithField("account", target.ID).Error("Failed to award skulls")
		common.RespondWithError(s, i, "Failed to award skulls")
		return
	}

	log.WithFields(log.Fields{
		"operator":    interactionUser(i),
		"account":     target.ID,
		"amount":      amount,
		"new_balance": newBalance,
	}).Info("Skulls awarded")

	content := f.printer.Sprintf("Awarded %d skulls to %s.", amount, f.resolver.DisplayName(target.ID))
	if err := common.RespondWithMessage(s, i, content); err != nil {
		log.Errorf("Failed to confirm award: %v", err)
	}
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
