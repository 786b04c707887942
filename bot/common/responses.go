package common

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"subsdesk/report"
)

// DeferResponse sends a deferred response to give more time for processing
func DeferResponse(s *discordgo.Session, i *discordgo.InteractionCreate, ephemeral bool) error {
	var flags discordgo.MessageFlags
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: flags,
		},
	})
}

// FollowUpWithEmbed sends an embed as a follow-up message
func FollowUpWithEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) (*discordgo.Message, error) {
	params := &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{FitEmbed(embed)},
	}

	if ephemeral {
		params.Flags = discordgo.MessageFlagsEphemeral
	}

	return s.FollowupMessageCreate(i.Interaction, true, params)
}

// FollowUpWithFiles sends an embed with the generated files attached. When
// Discord rejects the message, the files are sent again on their own.
func FollowUpWithFiles(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, artifacts []report.Artifact) (*discordgo.Message, error) {
	msg, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{FitEmbed(embed)},
		Files:  ToFiles(artifacts),
	})
	if err == nil || len(artifacts) == 0 || !isBadRequest(err) {
		return msg, err
	}

	log.WithError(err).Warn("Follow-up rejected, sending the files without the summary")
	return s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: "Fichiers générés (résumé trop long pour être affiché) :",
		Files:   ToFiles(artifacts),
	})
}

func isBadRequest(err error) bool {
	var restErr *discordgo.RESTError
	return errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusBadRequest
}

// ToFiles wraps artifacts as Discord uploads
func ToFiles(artifacts []report.Artifact) []*discordgo.File {
	files := make([]*discordgo.File, len(artifacts))
	for i, a := range artifacts {
		files[i] = &discordgo.File{
			Name:        a.Name,
			ContentType: a.ContentType,
			Reader:      bytes.NewReader(a.Data),
		}
	}
	return files
}
