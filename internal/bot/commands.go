package bot

import "github.com/bwmarrin/discordgo"

var manageGuildPermission int64 = discordgo.PermissionManageServer

func denylistCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "denylist",
			Description: "Inspect and manage the shared denylist",
			DescriptionLocalizations: &map[discordgo.Locale]string{
				discordgo.French:    "Consulter et gerer la liste de mots interdits",
				discordgo.EnglishUS: "Inspect and manage the shared denylist",
				discordgo.SpanishES: "Consultar y gestionar la lista de palabras prohibidas",
			},
			DefaultMemberPermissions: &manageGuildPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "status",
					Description: "Show denylist size and refresh state",
					DescriptionLocalizations: map[discordgo.Locale]string{
						discordgo.French:    "Afficher la taille et l'etat de la liste",
						discordgo.EnglishUS: "Show denylist size and refresh state",
						discordgo.SpanishES: "Mostrar tamano y estado de la lista",
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "check",
					Description: "Test a text against the denylist without acting",
					DescriptionLocalizations: map[discordgo.Locale]string{
						discordgo.French:    "Tester un texte sans moderer",
						discordgo.EnglishUS: "Test a text against the denylist without acting",
						discordgo.SpanishES: "Probar un texto sin moderar",
					},
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "text",
							Description: "Text to check",
							DescriptionLocalizations: map[discordgo.Locale]string{
								discordgo.French:    "Texte a verifier",
								discordgo.EnglishUS: "Text to check",
								discordgo.SpanishES: "Texto a comprobar",
							},
							Required: true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "refresh",
					Description: "Reload the denylist now",
					DescriptionLocalizations: map[discordgo.Locale]string{
						discordgo.French:    "Recharger la liste maintenant",
						discordgo.EnglishUS: "Reload the denylist now",
						discordgo.SpanishES: "Recargar la lista ahora",
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "report",
					Description: "Show recorded denylist events",
					DescriptionLocalizations: map[discordgo.Locale]string{
						discordgo.French:    "Afficher les evenements enregistres",
						discordgo.EnglishUS: "Show recorded denylist events",
						discordgo.SpanishES: "Mostrar eventos registrados",
					},
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "period",
							Description: "day or week",
							DescriptionLocalizations: map[discordgo.Locale]string{
								discordgo.French:    "day ou week",
								discordgo.EnglishUS: "day or week",
								discordgo.SpanishES: "day o week",
							},
							Required: false,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "day", Value: "day"},
								{Name: "week", Value: "week"},
							},
						},
					},
				},
			},
		},
	}
}

// registerCommands syncs global commands: edits existing ones, creates
// missing ones and removes stale global and guild commands.
func (b *Bot) registerCommands() error {
	commands := denylistCommands()

	if b.session.State == nil || b.session.State.User == nil {
		return nil
	}
	appID := b.session.State.User.ID
	existing, err := b.session.ApplicationCommands(appID, "")
	if err != nil {
		for _, cmd := range commands {
			if _, err := b.session.ApplicationCommandCreate(appID, "", cmd); err != nil {
				return err
			}
		}
		return nil
	}

	existingByName := make(map[string]*discordgo.ApplicationCommand)
	for _, cmd := range existing {
		existingByName[cmd.Name] = cmd
	}

	desired := make(map[string]struct{})
	for _, cmd := range commands {
		desired[cmd.Name] = struct{}{}
		if current, ok := existingByName[cmd.Name]; ok {
			if _, err := b.session.ApplicationCommandEdit(appID, "", current.ID, cmd); err != nil {
				return err
			}
			continue
		}
		if _, err := b.session.ApplicationCommandCreate(appID, "", cmd); err != nil {
			return err
		}
	}

	for _, cmd := range existing {
		if _, ok := desired[cmd.Name]; ok {
			continue
		}
		_ = b.session.ApplicationCommandDelete(appID, "", cmd.ID)
	}

	for _, guild := range b.session.State.Guilds {
		if guild == nil {
			continue
		}
		guildCmds, err := b.session.ApplicationCommands(appID, guild.ID)
		if err != nil {
			continue
		}
		for _, cmd := range guildCmds {
			if _, ok := desired[cmd.Name]; ok {
				continue
			}
			_ = b.session.ApplicationCommandDelete(appID, guild.ID, cmd.ID)
		}
	}
	return nil
}
