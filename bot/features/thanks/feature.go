package thanks

import (
	"github.com/bwmarrin/discordgo"

	"subsdesk/bot/common"
	"subsdesk/service"
)

// Command options
const (
	OptionList    = "thanks"
	OptionChanges = "changes"
	OptionName    = "name"
)

type Feature struct {
	thanksService service.ThanksService
	fetcher       common.AttachmentFetcher
}

func New(thanksService service.ThanksService, fetcher common.AttachmentFetcher) *Feature {
	return &Feature{
		thanksService: thanksService,
		fetcher:       fetcher,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleMerge(s, i)
}
