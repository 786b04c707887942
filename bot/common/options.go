package common

import (
	"github.com/bwmarrin/discordgo"
)

// Options indexes command options by name
type Options map[string]*discordgo.ApplicationCommandInteractionDataOption

// NewOptions indexes the options of a command
func NewOptions(options []*discordgo.ApplicationCommandInteractionDataOption) Options {
	opts := make(Options, len(options))
	for _, opt := range options {
		opts[opt.Name] = opt
	}
	return opts
}

// String returns a string option or ""
func (o Options) String(name string) string {
	if opt, ok := o[name]; ok {
		return opt.StringValue()
	}
	return ""
}

// Bool returns a boolean option or false
func (o Options) Bool(name string) bool {
	if opt, ok := o[name]; ok {
		return opt.BoolValue()
	}
	return false
}

// Attachments resolves the attachment options present among names, in order
func (o Options) Attachments(data discordgo.ApplicationCommandInteractionData, names ...string) []*discordgo.MessageAttachment {
	var out []*discordgo.MessageAttachment
	if data.Resolved == nil {
		return out
	}
	for _, name := range names {
		opt, ok := o[name]
		if !ok {
			continue
		}
		id, ok := opt.Value.(string)
		if !ok {
			continue
		}
		if att, ok := data.Resolved.Attachments[id]; ok {
			out = append(out, att)
		}
	}
	return out
}
