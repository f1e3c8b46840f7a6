package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/hrygo/recall/internal/log"
	"github.com/hrygo/recall/internal/profile"
	"github.com/hrygo/recall/server/assistant"
	"github.com/hrygo/recall/server/memory"
	"github.com/hrygo/recall/server/namespace"
	"github.com/hrygo/recall/server/reminder"
	"github.com/hrygo/recall/server/timeparse"
	"github.com/hrygo/recall/server/timezone"
	"github.com/hrygo/recall/store"
	"github.com/hrygo/recall/store/db"
)

const version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:   "recall",
	Short: "Personal-assistant backend: durable reminders and namespaced memory",
	RunE: func(_ *cobra.Command, _ []string) error {
		return run()
	},
}

func init() {
	rootCmd.PersistentFlags().String("mode", "dev", `mode of the daemon, can be "prod" or "dev"`)
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("dsn", "", "database source name")
	rootCmd.PersistentFlags().String("default-timezone", "UTC", "IANA zone for conversations without a preference")
	rootCmd.PersistentFlags().Duration("poll-interval", 0, "reminder delivery poll cadence")
	rootCmd.PersistentFlags().Duration("notify-timeout", 0, "bound on a single notifier call")
	rootCmd.PersistentFlags().Bool("log-json", false, "emit JSON logs")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}
	viper.SetEnvPrefix("recall")
	viper.AutomaticEnv()
}

func run() error {
	instanceProfile := &profile.Profile{
		Mode:            viper.GetString("mode"),
		Data:            viper.GetString("data"),
		DSN:             viper.GetString("dsn"),
		Driver:          "sqlite",
		Version:         version,
		DefaultTimezone: viper.GetString("default-timezone"),
		PollInterval:    viper.GetDuration("poll-interval"),
		NotifyTimeout:   viper.GetDuration("notify-timeout"),
	}
	instanceProfile.FromEnv()
	if err := instanceProfile.Validate(); err != nil {
		return err
	}

	logLevel := slog.LevelInfo
	if instanceProfile.IsDev() {
		logLevel = slog.LevelDebug
	}
	logger := log.New(log.Config{Level: logLevel, JSON: viper.GetBool("log-json")})

	dbDriver, err := db.NewDBDriver(instanceProfile)
	if err != nil {
		return err
	}
	storeInstance := store.New(dbDriver, instanceProfile)
	defer storeInstance.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := storeInstance.Migrate(ctx); err != nil {
		return err
	}

	vectorStore, err := memory.NewChromemStore(instanceProfile.MemoryPath, memory.NewHashEmbedding(0))
	if err != nil {
		return err
	}

	router := memory.NewRouter(vectorStore, logger.With("component", "memory"))
	namespaces := namespace.NewResolver(storeInstance, logger.With("component", "namespace"))
	prefs := timezone.NewPreferences(storeInstance, logger.With("component", "timezone"))
	parser := timeparse.New()

	// The real notifier is supplied by a chat-transport adapter; until one
	// is attached, deliveries land in the log.
	notifier := &logNotifier{logger: logger.With("component", "notifier")}

	reminderService := reminder.NewService(storeInstance, notifier, instanceProfile.NotifyTimeout, logger.With("component", "reminder"))
	scheduler := reminder.NewScheduler(reminderService, instanceProfile.PollInterval, logger.With("component", "scheduler"))

	// Built here so transport adapters only need to call Process.
	_ = assistant.NewIntake(namespaces, prefs, parser, reminderService, router, logger.With("component", "intake"))

	logger.Info("recall started",
		slog.String("version", version),
		slog.String("mode", instanceProfile.Mode),
		slog.String("dsn", instanceProfile.DSN))

	g, gctx := errgroup.WithContext(ctx)
	if err := scheduler.Start(gctx); err != nil {
		return err
	}
	g.Go(func() error {
		<-gctx.Done()
		scheduler.Stop()
		return nil
	})

	return g.Wait()
}

// logNotifier is the default Notifier when no transport adapter is wired.
type logNotifier struct {
	logger *slog.Logger
}

func (n *logNotifier) Notify(_ context.Context, conversationID, message string) error {
	n.logger.Info("reminder due",
		slog.String("conversation_id", conversationID),
		slog.String("message", message))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
