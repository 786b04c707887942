package variants

import (
	"github.com/bwmarrin/discordgo"

	"subsdesk/bot/common"
	"subsdesk/service"
)

// Command options
const (
	OptionFile     = "file"
	OptionProducts = "products"
)

type Feature struct {
	variantService service.VariantService
	fetcher        common.AttachmentFetcher
}

func New(variantService service.VariantService, fetcher common.AttachmentFetcher) *Feature {
	return &Feature{
		variantService: variantService,
		fetcher:        fetcher,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleAnalyze(s, i)
}
