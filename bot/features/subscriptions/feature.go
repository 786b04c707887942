package subscriptions

import (
	"github.com/bwmarrin/discordgo"

	"subsdesk/bot/common"
	"subsdesk/service"
)

// Command options
const (
	OptionFile            = "file"
	OptionFile2           = "file2"
	OptionFile3           = "file3"
	OptionPrefix          = "prefix"
	OptionIncludeExternal = "include_external"
	OptionSmartFilter     = "smart_filter"
	OptionRetainIDs       = "retain_ids"
	OptionFormat          = "format"
)

type Feature struct {
	routingService service.RoutingService
	fetcher        common.AttachmentFetcher
}

func New(routingService service.RoutingService, fetcher common.AttachmentFetcher) *Feature {
	return &Feature{
		routingService: routingService,
		fetcher:        fetcher,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleAnalyze(s, i)
}
