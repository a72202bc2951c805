// Package serve wires the bot together and runs it until a shutdown signal.
package serve

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"

	"ticketbot/internal/application/autoclose"
	"ticketbot/internal/application/helper"
	"ticketbot/internal/application/ticket/usecases"
	vo "ticketbot/internal/domain/ticket/value_objects"
	"ticketbot/internal/infrastructure/challengeapi"
	"ticketbot/internal/infrastructure/config"
	"ticketbot/internal/infrastructure/database"
	"ticketbot/internal/infrastructure/discord"
	"ticketbot/internal/infrastructure/persistence/migrations"
	"ticketbot/internal/infrastructure/repository"
	"ticketbot/internal/infrastructure/scheduler"
	"ticketbot/internal/interfaces/bot"
	"ticketbot/internal/shared/logger"
	"ticketbot/internal/shared/syncutil"
)

var skipCommandSync bool

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the ticket bot",
		Long:  `Connect to Discord, register the slash command surface, and serve ticket interactions until interrupted.`,
		RunE:  run,
	}

	cmd.Flags().BoolVar(&skipCommandSync, "skip-command-sync", false, "Skip slash command registration on startup")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	log.Infow("starting ticket bot", "guild_id", cfg.Bot.GuildID)

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if err := migrations.MigrateAll(database.Get()); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	session, err := discordgo.New("Bot " + cfg.Bot.Token)
	if err != nil {
		return fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentMessageContent

	channels := discord.NewChannelService(session, log)
	messages := discord.NewMessagingService(session, log)
	roster := discord.NewRosterService(session, cfg.Roles.Admin, log)
	transcripts := discord.NewTranscriptService(channels, log)

	db := database.Get()
	ticketRepo := repository.NewTicketRepository(db, log)
	challengeRepo := repository.NewChallengeRepository(db, log)
	helperRepo := repository.NewHelperRepository(db, log)

	ucCfg := buildUseCaseConfig(cfg)
	locks := syncutil.NewKeyedMutex()

	createUC := usecases.NewCreateTicketUseCase(ticketRepo, challengeRepo, channels, messages, roster, locks, ucCfg, log)
	closeUC := usecases.NewCloseTicketUseCase(ticketRepo, channels, messages, roster, transcripts, locks, ucCfg, log)
	reopenUC := usecases.NewReopenTicketUseCase(ticketRepo, channels, messages, locks, ucCfg, log)
	deleteUC := usecases.NewDeleteTicketUseCase(ticketRepo, channels, messages, locks, ucCfg, log)
	participantUC := usecases.NewModifyParticipantUseCase(ticketRepo, channels, messages, ucCfg, log)
	autocloseUC := usecases.NewToggleAutoCloseUseCase(ticketRepo, messages, log)

	apiClient := challengeapi.NewClient(&cfg.ChallengeAPI, log)
	helperSvc := helper.NewService(challengeRepo, helperRepo, ticketRepo, channels, roster, apiClient, locks, log)

	handler := bot.NewHandler(createUC, closeUC, reopenUC, deleteUC, participantUC, autocloseUC,
		helperSvc, helperRepo, roster, ucCfg, log)
	handler.Register(session)

	session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Infow("gateway session ready", "bot_user", r.User.Username, "guilds", len(r.Guilds))
	})

	if err := session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Errorw("failed to close discord session", "error", err)
		}
	}()

	if !skipCommandSync {
		if err := bot.RegisterCommands(session, cfg.Bot.GuildID); err != nil {
			return fmt.Errorf("failed to register slash commands: %w", err)
		}
		log.Infow("slash commands registered", "count", len(bot.Commands))
	}

	sched, err := scheduler.NewSchedulerManager(log)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	if cfg.AutoClose.Enabled {
		scanner := autoclose.NewScanner(ticketRepo, channels, messages, roster, closeUC,
			time.Duration(cfg.AutoClose.ThresholdHours)*time.Hour,
			time.Duration(cfg.AutoClose.TicketTimeoutSec)*time.Second,
			log)
		if err := sched.RegisterAutoCloseJob(cfg.AutoClose.Cron, scanner); err != nil {
			return fmt.Errorf("failed to register auto-close job: %w", err)
		}
	}
	if cfg.ChallengeAPI.BaseURL != "" && cfg.Bot.GuildID != "" {
		if err := sched.RegisterCatalogRefreshJob(cfg.ChallengeAPI.RefreshCron, cfg.Bot.GuildID, helperSvc); err != nil {
			return fmt.Errorf("failed to register catalog refresh job: %w", err)
		}
	}

	sched.Start()
	defer func() {
		if err := sched.Stop(); err != nil {
			log.Errorw("failed to stop scheduler", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down")
	return nil
}

func buildUseCaseConfig(cfg *config.Config) usecases.Config {
	ucCfg := usecases.DefaultConfig()
	ucCfg.AdminRole = cfg.Roles.Admin
	ucCfg.HelperRole = cfg.Roles.Helper
	ucCfg.TicketPingRole = cfg.Roles.TicketPing
	ucCfg.MutedRole = cfg.Roles.Muted
	ucCfg.LogCategory = cfg.Tickets.LogCategory
	ucCfg.LogChannel = cfg.Tickets.LogChannel
	ucCfg.CategoryCap = cfg.Tickets.CategoryCap
	ucCfg.Limits = map[vo.TicketType]int{
		vo.TypeHelp:   cfg.Tickets.HelpLimit,
		vo.TypeSubmit: cfg.Tickets.SubmitLimit,
		vo.TypeMisc:   cfg.Tickets.MiscLimit,
	}
	ucCfg.SelectionWait = time.Duration(cfg.Tickets.SelectionWaitMinutes) * time.Minute
	ucCfg.TranscriptDomain = cfg.Transcript.Domain
	ucCfg.TranscriptPort = cfg.Transcript.Port
	return ucCfg
}
