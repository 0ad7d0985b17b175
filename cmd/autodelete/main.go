package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/melodelete/autodelete/server/app"
	"github.com/melodelete/autodelete/server/bot"
	"github.com/melodelete/autodelete/server/command"
	"github.com/melodelete/autodelete/server/config"
	"github.com/melodelete/autodelete/server/discord"
	"github.com/melodelete/autodelete/server/gateway"
	"github.com/melodelete/autodelete/server/httpapi"
	"github.com/melodelete/autodelete/server/metrics"
	"github.com/melodelete/autodelete/server/sqlstore"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "autodelete",
	Short: "delete channel messages past their retention policy",
	RunE:  runCmdF,
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "run a single scan cycle and exit",
	RunE:  scanCmdF,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the configuration file")
	rootCmd.AddCommand(scanCmd)
}

// service bundles everything both commands need.
type service struct {
	cfg     *config.Configuration
	logger  bot.Logger
	store   *sqlstore.PolicyStore
	client  *discord.Client
	scanner *app.Scanner
	obs     *metrics.Observer
	db      *sqlx.DB
}

func newService() (*service, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger := bot.NewLogger(log.New(os.Stderr, "autodelete ", log.LstdFlags|log.LUTC), cfg.Verbose)

	db, err := sqlx.Connect("mysql", cfg.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to the policy database")
	}

	sqlStore, err := sqlstore.New(db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	store := sqlstore.NewPolicyStore(sqlStore)

	obs := metrics.NewObserver()
	limiter := app.NewRateLimit(logger, obs)

	var clientOpts []discord.Option
	if cfg.APIBaseURL != "" {
		clientOpts = append(clientOpts, discord.WithBaseURL(cfg.APIBaseURL))
	}
	client := discord.NewClient(cfg.Token, limiter, logger, clientOpts...)

	deleter := app.NewDeleter(client, limiter, logger, obs)
	scanner := app.NewScanner(store, client, limiter, deleter, logger, obs)

	return &service{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		client:  client,
		scanner: scanner,
		obs:     obs,
		db:      db,
	}, nil
}

func runCmdF(_ *cobra.Command, _ []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	poster := bot.NewPoster(svc.client, svc.logger)

	if svc.cfg.HTTPAddr != "" {
		handler := httpapi.New(svc.scanner, svc.obs.Handler(), svc.logger)
		httpHandler := cors.New(cors.Options{
			AllowedOrigins: svc.cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
		}).Handler(handler.Router())

		httpServer := &http.Server{Addr: svc.cfg.HTTPAddr, Handler: httpHandler}
		go func() {
			svc.logger.Infof("serving status API on %s", svc.cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				svc.logger.Errorf("status API server stopped: %v", err)
			}
		}()
		defer httpServer.Shutdown(context.Background())
	}

	events := gateway.Events{
		OnReady: func() {
			if svc.scanner.Start(ctx) {
				svc.logger.Infof("scan loop started")
			}
		},
		OnMessage: func(ev gateway.MessageEvent) {
			if !strings.HasPrefix(ev.Content, "/autodelete") {
				return
			}
			runner := command.NewCommandRunner(command.Args{
				Command:   ev.Content,
				GuildID:   ev.GuildID,
				ChannelID: ev.ChannelID,
				UserID:    ev.AuthorID,
				RoleIDs:   ev.RoleIDs,
			}, svc.store, svc.scanner, svc.client, svc.logger, poster)
			if err := runner.Execute(ctx); err != nil {
				svc.logger.Errorf("command execution failed: %v", err)
			}
		},
		OnMessageDelete: func(channelID uint64, count int) {
			if svc.scanner.IsChannelSet(channelID) {
				svc.logger.Infof("%d message(s) deleted in channel %d", count, channelID)
			}
		},
	}

	gw := gateway.New(svc.cfg.GatewayURL, svc.cfg.Token, events, svc.logger)
	gw.Run(ctx)
	return nil
}

func scanCmdF(_ *cobra.Command, _ []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := svc.scanner.Refresh(ctx)
	if err != nil {
		return errors.Wrap(err, "scan cycle failed")
	}

	out, err := json.MarshalIndent(report, "", "\t")
	if err != nil {
		return errors.Wrap(err, "failed to render scan report")
	}
	fmt.Println(string(out))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
