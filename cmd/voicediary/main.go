package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/pitabwire/frame"
	"github.com/pitabwire/frame/config"
	"github.com/pitabwire/frame/workerpool"
	"github.com/pitabwire/util"

	vdconfig "github.com/voicediary/voicediary/config"
	"github.com/voicediary/voicediary/internal/audio"
	"github.com/voicediary/voicediary/internal/bot"
	"github.com/voicediary/voicediary/internal/journal"
	"github.com/voicediary/voicediary/internal/speech"
	"github.com/voicediary/voicediary/internal/telegram"
	"github.com/voicediary/voicediary/pkg/events"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadWithOIDC[vdconfig.BotConfig](ctx)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	variant, err := speech.ParseVariant(cfg.RecognizerVariant)
	if err != nil {
		log.Fatalf("invalid recognizer variant: %v", err)
	}

	eventRef := cfg.GetEventsQueueName()
	eventURL := cfg.GetEventsQueueURL()

	ctx, srv := frame.NewService(
		frame.WithConfig(&cfg),
		frame.WithName("voicediary"),
		frame.WithDatastore(),
		frame.WithRegisterPublisher(eventRef, eventURL),
		frame.WithWorkerPoolOptions(
			workerpool.WithPoolCount(cfg.WorkerPoolCount),
			workerpool.WithSinglePoolCapacity(cfg.WorkerPoolCapacity),
		),
	)
	defer srv.Stop(ctx)

	pool, err := srv.WorkManager().GetPool()
	if err != nil {
		log.Fatalf("getting worker pool: %v", err)
	}

	pub := events.NewPublisher(srv.QueueManager(), "bot", eventRef)

	// Local event stream: mirror every published envelope into the log.
	eventLog := pub.Subscribe("eventlog", 64)
	_ = pool.Submit(ctx, func() {
		defer pub.Unsubscribe("eventlog")
		for {
			select {
			case <-ctx.Done():
				return
			case env, ok := <-eventLog:
				if !ok {
					return
				}
				util.Log(ctx).
					WithField("type", string(env.Type)).
					WithField("session", env.SessionID).
					Debug("event published")
			}
		}
	})

	store := journal.NewRepository(
		srv.DatastoreManager().GetPool(ctx, "__default__pool_name__"),
	)

	gateway := speech.NewGateway(speech.Config{
		APIKey:               cfg.SpeechAPIKey,
		BaseURL:              cfg.SpeechAPIBaseURL,
		PrimaryLanguage:      cfg.PrimaryLanguage,
		AlternativeLanguages: cfg.AlternativeLanguageCodes(),
	})

	if err := os.MkdirAll(cfg.VoiceWorkDir, 0o755); err != nil {
		log.Fatalf("creating voice work dir: %v", err)
	}
	converter := audio.NewConverter(
		cfg.FFmpegPath, cfg.VoiceWorkDir,
		time.Duration(cfg.ConvertTimeoutSec)*time.Second,
	)

	prompts, err := bot.LoadPrompts(cfg.PromptsFile)
	if err != nil {
		log.Fatalf("loading prompts: %v", err)
	}
	_ = pool.Submit(ctx, func() {
		if err := prompts.WatchAndReload(ctx.Done()); err != nil {
			util.Log(ctx).WithError(err).Error("prompts watcher stopped")
		}
	})

	transport, err := telegram.New(cfg.TelegramBotToken, cfg.TelegramPollSec)
	if err != nil {
		log.Fatalf("connecting to telegram: %v", err)
	}

	languages := append([]string{cfg.PrimaryLanguage}, cfg.AlternativeLanguageCodes()...)
	handler := bot.NewHandler(
		bot.NewSessionStore(), store, gateway, converter,
		transport, transport, prompts, pub,
		variant, languages,
	)

	_ = pool.Submit(ctx, func() {
		if err := transport.Run(ctx, handler); err != nil && ctx.Err() == nil {
			util.Log(ctx).WithError(err).Error("telegram update loop exited")
		}
	})

	srv.Init(ctx)

	if err := srv.Run(ctx, ""); err != nil {
		log.Fatalf("service exited: %v", err)
	}
}
