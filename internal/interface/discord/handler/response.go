// Package handler contains slash-command handlers.
package handler

import "github.com/bwmarrin/discordgo"

// Response is what a command handler wants sent back to the interaction.
type Response struct {
	// Content is the plain text answer (used when Embed is nil).
	Content string

	// Embed is the rich answer.
	Embed *discordgo.MessageEmbed

	// Ephemeral makes the reply visible only to the invoking user.
	Ephemeral bool

	// IsError marks a friendly failure answer.
	IsError bool
}

// errorResponse builds the standard ephemeral failure answer.
func errorResponse(text string) *Response {
	return &Response{Content: text, Ephemeral: true, IsError: true}
}
