package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	charm "github.com/charmbracelet/log"
	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/gommon/log"

	"veoprompt/pkg/analysis"
	"veoprompt/pkg/config"
	"veoprompt/pkg/preview"
	"veoprompt/pkg/server"
	"veoprompt/pkg/session"
)

func main() {
	ctx, done := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	charm.SetLevel(cfg.Level())

	analyzer, err := cfg.Analyzer(ctx)
	if err != nil {
		log.Fatal(err)
	}

	previews := preview.NewStore()
	var svc *analysis.Service
	sess := session.New(
		session.WithPreviews(previews),
		session.WithDeleteHook(func(characterID string) { svc.Cancel(characterID) }),
	)
	svc = analysis.NewService(sess, analyzer, previews, cfg.AnalysisOptions())
	svc.Start()

	srv := server.NewServer(ctx, sess, svc, previews, cfg.BodyLimit())
	if cfg.Level() <= charm.DebugLevel {
		srv.Echo.Logger.SetLevel(log.DEBUG)
	} else {
		srv.Echo.Logger.SetLevel(log.INFO)
	}

	finishedShutDown := make(chan struct{})
	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error(err)
		}
		done()
		close(finishedShutDown)
	}()

	if err := srv.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error(err)
		done()
		os.Exit(1)
	}
	<-finishedShutDown
}
