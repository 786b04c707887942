package common

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
)

// FormatCount formats a count with thousand separators
func FormatCount(n int) string {
	if n < 0 {
		return "-" + FormatCount(-n)
	}
	str := fmt.Sprintf("%d", n)

	l := len(str)
	if l <= 3 {
		return str
	}

	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (l-i)%3 == 0 {
			result.WriteRune(' ')
		}
		result.WriteRune(digit)
	}
	return result.String()
}

// FormatList joins items, naming at most max of them
func FormatList(items []string, max int) string {
	if len(items) <= max {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s (+%d)", strings.Join(items[:max], ", "), len(items)-max)
}

// FormatDate formats a naive date the way the operators read it
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

// TruncateField cuts a value to the embed field limit
func TruncateField(value string) string {
	if value == "" {
		return "-"
	}
	runes := []rune(value)
	if len(runes) <= MaxFieldValueLength {
		return value
	}
	return string(runes[:MaxFieldValueLength-1]) + "…"
}

// Field builds an embed field with a truncated value
func Field(name, value string, inline bool) *discordgo.MessageEmbedField {
	return &discordgo.MessageEmbedField{
		Name:   name,
		Value:  TruncateField(value),
		Inline: inline,
	}
}

// EmbedLength counts the characters Discord sums against MaxEmbedLength
func EmbedLength(embed *discordgo.MessageEmbed) int {
	n := utf8.RuneCountInString(embed.Title) + utf8.RuneCountInString(embed.Description)
	for _, f := range embed.Fields {
		n += utf8.RuneCountInString(f.Name) + utf8.RuneCountInString(f.Value)
	}
	if embed.Footer != nil {
		n += utf8.RuneCountInString(embed.Footer.Text)
	}
	if embed.Author != nil {
		n += utf8.RuneCountInString(embed.Author.Name)
	}
	return n
}

// FitEmbed returns a copy of embed with trailing fields dropped until it fits
// MaxEmbedLength. The footer then says how many fields were left out.
func FitEmbed(embed *discordgo.MessageEmbed) *discordgo.MessageEmbed {
	if EmbedLength(embed) <= MaxEmbedLength {
		return embed
	}

	fitted := *embed
	fitted.Fields = append([]*discordgo.MessageEmbedField(nil), embed.Fields...)
	baseFooter := ""
	if embed.Footer != nil {
		baseFooter = embed.Footer.Text
	}

	dropped := 0
	for len(fitted.Fields) > 0 && EmbedLength(&fitted) > MaxEmbedLength {
		fitted.Fields = fitted.Fields[:len(fitted.Fields)-1]
		dropped++
		text := fmt.Sprintf("… et %d section(s) de plus dans le fichier", dropped)
		if baseFooter != "" {
			text = baseFooter + " · " + text
		}
		fitted.Footer = &discordgo.MessageEmbedFooter{Text: text}
	}
	return &fitted
}

// Requester returns the name of the user who ran the command
func Requester(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.Username
	}
	if i.User != nil {
		return i.User.Username
	}
	return ""
}
