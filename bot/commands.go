package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"subsdesk/bot/features/export"
	"subsdesk/bot/features/subscriptions"
	"subsdesk/bot/features/thanks"
	"subsdesk/bot/features/variants"
)

// Slash command names
const (
	CommandSubscriptions = "abonnements"
	CommandExport        = "export"
	CommandThanks        = "remerciements"
	CommandVariants      = "variants"
)

// Commands returns the slash command definitions
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        CommandSubscriptions,
			Description: "Classer les abonnements et préparer les listes France / Reste du monde",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionAttachment,
					Name:        subscriptions.OptionFile,
					Description: "Export des abonnements (CSV ou XLSX)",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        subscriptions.OptionPrefix,
					Description: "Préfixe des fichiers générés (sans préfixe: aperçu seulement)",
					Required:    false,
				},
				{
					Type:        discordgo.ApplicationCommandOptionAttachment,
					Name:        subscriptions.OptionFile2,
					Description: "Deuxième export à fusionner",
					Required:    false,
				},
				{
					Type:        discordgo.ApplicationCommandOptionAttachment,
					Name:        subscriptions.OptionFile3,
					Description: "Troisième export à fusionner",
					Required:    false,
				},
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        subscriptions.OptionIncludeExternal,
					Description: "Ajouter les abonnés externes",
					Required:    false,
				},
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        subscriptions.OptionSmartFilter,
					Description: "Faire relire les annulations par le filtre intelligent",
					Required:    false,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        subscriptions.OptionRetainIDs,
					Description: "IDs d'abonnements annulés à conserver, séparés par des virgules",
					Required:    false,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        subscriptions.OptionFormat,
					Description: "Format des fichiers",
					Required:    false,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Excel", Value: "xlsx"},
						{Name: "CSV", Value: "csv"},
					},
				},
			},
		},
		{
			Name:        CommandExport,
			Description: "Convertir un export CSV en fichiers Excel par pays de facturation",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionAttachment,
					Name:        export.OptionFile,
					Description: "Export des abonnements (CSV)",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        export.OptionPrefix,
					Description: "Préfixe des fichiers générés",
					Required:    true,
				},
			},
		},
		{
			Name:        CommandThanks,
			Description: "Fusionner la liste des remerciements et produire le document Word",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionAttachment,
					Name:        thanks.OptionList,
					Description: "Liste des remerciements (Reference, Prénom, Nom)",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionAttachment,
					Name:        thanks.OptionChanges,
					Description: "Table des changements",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        thanks.OptionName,
					Description: "Nom du document",
					Required:    true,
				},
			},
		},
		{
			Name:        CommandVariants,
			Description: "Analyser les combinaisons de produits par client",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionAttachment,
					Name:        variants.OptionFile,
					Description: "Export des commandes (CSV ou XLSX)",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        variants.OptionProducts,
					Description: "Produits à mettre en avant, dans l'ordre, séparés par des virgules",
					Required:    false,
				},
			},
		},
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	for _, cmd := range Commands() {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}
	return nil
}
