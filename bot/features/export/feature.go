package export

import (
	"github.com/bwmarrin/discordgo"

	"subsdesk/bot/common"
	"subsdesk/service"
)

// Command options
const (
	OptionFile   = "file"
	OptionPrefix = "prefix"
)

type Feature struct {
	exportService service.ExportService
	fetcher       common.AttachmentFetcher
}

func New(exportService service.ExportService, fetcher common.AttachmentFetcher) *Feature {
	return &Feature{
		exportService: exportService,
		fetcher:       fetcher,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleExport(s, i)
}
