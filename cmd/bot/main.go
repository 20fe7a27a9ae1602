package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/VaInBlAt/appointment-bot/internal/app"
	"github.com/VaInBlAt/appointment-bot/internal/config"
	"github.com/VaInBlAt/appointment-bot/internal/controller"
	"github.com/VaInBlAt/appointment-bot/internal/model"
	"github.com/VaInBlAt/appointment-bot/internal/notify"
	"github.com/VaInBlAt/appointment-bot/internal/slots"
	"github.com/VaInBlAt/appointment-bot/migrations"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "appointment-bot",
		Short: "Telegram-бот записи на приём к врачу",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(slotsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Запустить бота",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.RequireTelegram(); err != nil {
		return err
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting appointment bot",
		zap.String("environment", cfg.Environment),
		zap.String("storage", cfg.StorageDriver))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Контроллер появляется после бота, а сообщения начинают приходить только после Start
	var ctrl *controller.BotController
	b, err := bot.New(cfg.TelegramToken, bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if ctrl != nil {
			ctrl.HandleDefault(ctx, b, update)
		}
	}))
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	notifier := notify.NewTelegramNotifier(b, cfg.NotifyRetries, logger.Named("notify"))

	application, err := app.New(ctx, cfg, notifier, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	ctrl = controller.NewBotController(b, application, logger)
	if err := ctrl.RegisterHandlers(ctx); err != nil {
		logger.Warn("Bot menu is not set", zap.Error(err))
	}

	scheduler := app.NewScheduler(ctrl.Sessions(), cfg.DayOffSessionTTL, application.Now, logger.Named("scheduler"))
	scheduler.Start(ctx)
	defer scheduler.Stop()

	ctrl.Start(ctx)

	logger.Info("Bot stopped")
	return nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Миграции PostgreSQL",
	}

	run := func(action func(context.Context, *app.Migrator) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) (err error) {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.StorageDriver != config.StoragePostgres {
				return fmt.Errorf("migrations need STORAGE_DRIVER=postgres, got %q", cfg.StorageDriver)
			}

			logger := app.NewLogger(cfg.Environment)
			defer logger.Sync()

			ctx := cmd.Context()
			pool, err := app.OpenPool(ctx, cfg.DBDSN)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator, err := app.NewMigrator(pool, migrations.FS, logger)
			if err != nil {
				return err
			}
			defer func() {
				err = multierr.Append(err, migrator.Close())
			}()

			return action(ctx, migrator)
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Применить все миграции",
		RunE:  run(func(ctx context.Context, m *app.Migrator) error { return m.Run(ctx) }),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Откатить последнюю миграцию",
		RunE:  run(func(ctx context.Context, m *app.Migrator) error { return m.Down(ctx) }),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Показать версию схемы",
		RunE: run(func(ctx context.Context, m *app.Migrator) error {
			version, err := m.Version(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("schema version: %d\n", version)
			return nil
		}),
	})

	return cmd
}

// slotsCmd печатает сетку слотов периода без подключения к хранилищу
func slotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "slots <ЧЧ:ММ-ЧЧ:ММ>",
		Short:   "Показать слоты периода",
		Example: "appointment-bot slots 09:00-12:00 --duration 30",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			duration, _ := cmd.Flags().GetInt("duration")
			if duration < model.MinSlotDuration || duration > model.MaxSlotDuration {
				return fmt.Errorf("%w: %d", model.ErrInvalidSlotDuration, duration)
			}

			period, err := model.ParsePeriodRange(args[0])
			if err != nil {
				return err
			}

			for _, slot := range slots.ForPeriod(period, duration) {
				fmt.Fprintln(cmd.OutOrStdout(), slot)
			}
			return nil
		},
	}
	cmd.Flags().Int("duration", 30, "Длительность приёма в минутах")
	return cmd
}

func init() {
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)
	log.SetPrefix("[appointment-bot] ")
}
