package bot

import "github.com/bwmarrin/discordgo"

// Commands is the slash command surface registered at startup.
var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "ticket",
		Description: "Manage support tickets",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "create",
				Description: "Open a new ticket",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        "type",
						Description: "Kind of ticket",
						Type:        discordgo.ApplicationCommandOptionString,
						Required:    true,
						Choices: []*discordgo.ApplicationCommandOptionChoice{
							{Name: "help", Value: "help"},
							{Name: "submit", Value: "submit"},
							{Name: "misc", Value: "misc"},
						},
					},
				},
			},
			{
				Name:        "close",
				Description: "Close this ticket",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
			},
			{
				Name:        "reopen",
				Description: "Reopen this ticket",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
			},
			{
				Name:        "delete",
				Description: "Archive and delete this ticket",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
			},
			{
				Name:        "add",
				Description: "Add a member to this ticket",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        "member",
						Description: "Member to add",
						Type:        discordgo.ApplicationCommandOptionUser,
						Required:    true,
					},
				},
			},
			{
				Name:        "remove",
				Description: "Remove a member from this ticket",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        "member",
						Description: "Member to remove",
						Type:        discordgo.ApplicationCommandOptionUser,
						Required:    true,
					},
				},
			},
		},
	},
	{
		Name:        "autoclose",
		Description: "Toggle inactivity auto-close for this ticket",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "on",
				Description: "Enable auto-close for this ticket",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
			},
			{
				Name:        "off",
				Description: "Disable auto-close for this ticket",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
			},
		},
	},
	{
		Name:        "helper",
		Description: "Manage the helper roster",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "add",
				Description: "Register a member as helper",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        "member",
						Description: "Member to register",
						Type:        discordgo.ApplicationCommandOptionUser,
						Required:    true,
					},
				},
			},
			{
				Name:        "remove",
				Description: "Remove a member from the roster",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        "member",
						Description: "Member to remove",
						Type:        discordgo.ApplicationCommandOptionUser,
						Required:    true,
					},
				},
			},
			{
				Name:        "available",
				Description: "Toggle your helper availability",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        "available",
						Description: "Whether you are available to help",
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Required:    true,
					},
				},
			},
		},
	},
	{
		Name:        "refresh",
		Description: "Refresh the challenge catalog and helper roster",
	},
}

// RegisterCommands overwrites the guild's slash commands with the current set.
func RegisterCommands(session *discordgo.Session, guildID string) error {
	_, err := session.ApplicationCommandBulkOverwrite(session.State.User.ID, guildID, Commands)
	return err
}
