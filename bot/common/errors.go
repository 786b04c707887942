package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"subsdesk/ingest"
	"subsdesk/models"
	"subsdesk/report"
)

// BotError represents a structured error with user-facing and internal messages
type BotError struct {
	UserMessage string      // Message shown to Discord user
	LogMessage  string      // Internal message for logging
	Ephemeral   bool        // Whether the error message should be ephemeral
	Err         error       // Underlying error
	Context     interface{} // Additional context for logging
}

// Error implements the error interface
func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

// Unwrap returns the underlying error
func (e *BotError) Unwrap() error {
	return e.Err
}

// NewUserError creates an error for user-caused issues (bad file, missing column, etc)
func NewUserError(userMessage string, logMessage string) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  logMessage,
		Ephemeral:   true,
	}
}

// NewSystemError creates an error for system issues (download, rendering, database, etc)
func NewSystemError(err error, logMessage string) *BotError {
	return &BotError{
		UserMessage: "Une erreur est survenue. Réessayez plus tard.",
		LogMessage:  logMessage,
		Ephemeral:   true,
		Err:         err,
	}
}

// FromServiceError turns a service failure into a BotError. Input problems keep
// their detail for the user; anything else is reported as a system error.
func FromServiceError(err error, action string) *BotError {
	var botErr *BotError
	if errors.As(err, &botErr) {
		return botErr
	}

	logMessage := fmt.Sprintf("%s failed", action)
	var (
		missingCol  *models.MissingColumnError
		unsupported *models.UnsupportedFormatError
		duplicate   *models.DuplicateIdentifierError
		missingID   *models.MissingIdentifierError
	)

	var userMessage string
	switch {
	case errors.As(err, &missingCol):
		userMessage = fmt.Sprintf("Colonnes manquantes: %s", strings.Join(missingCol.Columns, ", "))
		if missingCol.Table != "" {
			userMessage = fmt.Sprintf("%s: colonnes manquantes: %s", missingCol.Table, strings.Join(missingCol.Columns, ", "))
		}
	case errors.As(err, &unsupported):
		userMessage = fmt.Sprintf("Format non pris en charge pour %s (CSV ou XLSX attendu).", unsupported.Name)
	case errors.As(err, &duplicate):
		userMessage = fmt.Sprintf("Identifiants en double: %s", FormatList(duplicate.IDs, 10))
	case errors.As(err, &missingID):
		lines := make([]string, len(missingID.Lines))
		for i, l := range missingID.Lines {
			lines[i] = fmt.Sprintf("%d", l)
		}
		userMessage = fmt.Sprintf("Identifiant manquant aux lignes: %s", FormatList(lines, 10))
	case errors.Is(err, models.ErrEmptyOutputName):
		userMessage = "Indiquez un nom de fichier."
	case errors.Is(err, ingest.ErrNoInput):
		userMessage = "Aucun fichier reçu."
	case errors.Is(err, report.ErrUnknownFormat):
		userMessage = "Format de sortie inconnu (xlsx ou csv)."
	default:
		return NewSystemError(err, logMessage)
	}

	botErr = NewUserError(userMessage, logMessage)
	botErr.Err = err
	return botErr
}

// RespondWithError sends an error message as an interaction response
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// FollowUpWithError sends an error message as a follow-up to a deferred interaction
func FollowUpWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: fmt.Sprintf("❌ %s", message),
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Errorf("Error sending follow-up error message: %v", err)
	}
}

// HandleError processes a BotError and responds appropriately
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, deferred bool) {
	var botErr *BotError
	if errors.As(err, &botErr) {
		log.WithFields(log.Fields{
			"user":         Requester(i),
			"command":      i.ApplicationCommandData().Name,
			"error":        botErr.Error(),
			"user_message": botErr.UserMessage,
			"context":      botErr.Context,
		}).Error(botErr.LogMessage)

		if deferred {
			FollowUpWithError(s, i, botErr.UserMessage)
		} else {
			RespondWithError(s, i, botErr.UserMessage)
		}
		return
	}

	log.WithFields(log.Fields{
		"user":    Requester(i),
		"command": i.ApplicationCommandData().Name,
		"error":   err.Error(),
	}).Error("Unexpected error in bot command")

	if deferred {
		FollowUpWithError(s, i, "Une erreur est survenue. Réessayez plus tard.")
	} else {
		RespondWithError(s, i, "Une erreur est survenue. Réessayez plus tard.")
	}
}
