// Command aribcaptiond demuxes ARIB STD-B24 captions out of an SRT
// MPEG-TS feed and republishes them over a WebRTC data channel,
// wiring b24, tsingest and publish together with go.uber.org/fx.
package main

import (
	"context"
	"log"

	astisrt "github.com/asticode/go-astisrt/pkg"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/ariblive/captionb24/b24"
	"github.com/ariblive/captionb24/internal/config"
	"github.com/ariblive/captionb24/internal/logging"
	"github.com/ariblive/captionb24/internal/publish"
	"github.com/ariblive/captionb24/internal/tsingest"
)

func newConfig() (*config.Config, error) {
	return config.Load()
}

func newLogger() (*zap.SugaredLogger, error) {
	z, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return z.Sugar(), nil
}

func newDecoder(cfg *config.Config, log *zap.SugaredLogger) (*b24.Decoder, error) {
	dec := b24.New(logging.New(log))
	if err := dec.Initialize(b24.TypeCaption, b24.ProfileA, b24.LanguageId(cfg.CaptionLanguageId)); err != nil {
		return nil, err
	}
	return dec, nil
}

func registerSRT(lc fx.Lifecycle, log *zap.SugaredLogger) {
	astisrt.SetLogLevel(astisrt.LogLevel(astisrt.LogLevelNotice))
	astisrt.SetLogHandler(func(ll astisrt.LogLevel, file, area, msg string, line int) {
		log.Infow("SRT", "ll", ll, "msg", msg)
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return astisrt.Startup()
		},
		OnStop: func(ctx context.Context) error {
			return astisrt.CleanUp()
		},
	})
}

// run connects to SRT, opens a WebRTC caption data channel, and pumps
// decoded captions from one to the other until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger, dec *b24.Decoder, ing *tsingest.Ingester, pub *publish.Publisher) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	conn, err := ing.Connect(runCtx, cancel)
	if err != nil {
		return err
	}

	peer, err := pub.CreatePeerConnection(cancel)
	if err != nil {
		return err
	}
	defer peer.Close()

	channel, err := pub.CreateCaptionChannel(peer)
	if err != nil {
		return err
	}

	return ing.Run(runCtx, conn, dec, func(c b24.Caption) {
		if err := pub.Publish(channel, c); err != nil {
			log.Errorw("failed to publish caption", "error", err)
		}
	})
}

func registerRunner(lc fx.Lifecycle, cfg *config.Config, log *zap.SugaredLogger, dec *b24.Decoder, ing *tsingest.Ingester, pub *publish.Publisher, shutdowner fx.Shutdowner) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			go func() {
				if err := run(ctx, cfg, log, dec, ing, pub); err != nil {
					log.Errorw("aribcaptiond run loop exited", "error", err)
				}
				_ = shutdowner.Shutdown()
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			newConfig,
			newLogger,
			newDecoder,
			tsingest.New,
			publish.New,
		),
		fx.Invoke(registerSRT, registerRunner),
		fx.NopLogger,
	)

	if err := app.Err(); err != nil {
		log.Fatal(err)
	}
	app.Run()
}
