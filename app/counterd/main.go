package main

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/x-xyz/goguard/base/config"
	"github.com/x-xyz/goguard/base/ctx"
	"github.com/x-xyz/goguard/base/lock"
	"github.com/x-xyz/goguard/base/log"
	bValidator "github.com/x-xyz/goguard/base/validator"
	mmiddleware "github.com/x-xyz/goguard/middleware"
	counter_delivery "github.com/x-xyz/goguard/stores/counter/delivery/http"
	counter_usecase "github.com/x-xyz/goguard/stores/counter/usecase"
	hc_delivery "github.com/x-xyz/goguard/stores/healthcheck/delivery/http"
	hc_repo "github.com/x-xyz/goguard/stores/healthcheck/repository"
	hc_usecase "github.com/x-xyz/goguard/stores/healthcheck/usecase"
)

func init() {
	flags := pflag.NewFlagSet("counterd", pflag.ExitOnError)
	file := flags.String("config", "infra/configs/config.yaml", "config file")
	flags.String("server.addr", ":8080", "listen address")
	flags.String("lock.mode", "thread", "lock mode, thread or atomic")
	flags.Int64("counter.initial", 0, "initial value of the counter")
	if err := flags.Parse(os.Args[1:]); err != nil {
		panic(err)
	}

	if err := config.Load(*file, flags); err != nil {
		panic(err)
	}
}

func main() {
	defer log.Sync()

	context := ctx.Background()

	mode, err := lock.ParseMode(viper.GetString("lock.mode"))
	if err != nil {
		context.WithField("err", err).Error("lock.ParseMode failed")
		os.Exit(1)
	}

	context.Info("init counter")
	counter, err := counter_usecase.New(context, &counter_usecase.Config{
		Initial:   viper.GetInt64("counter.initial"),
		Mode:      mode,
		SpinStart: viper.GetInt("lock.spinStart"),
		SpinLimit: viper.GetInt("lock.spinLimit"),
	})
	if err != nil {
		context.WithField("err", err).Error("counter_usecase.New failed")
		os.Exit(1)
	}

	hcRepo := hc_repo.New(counter, viper.GetDuration("server.healthTimeout"))
	hc := hc_usecase.New(hcRepo)

	// init echo
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Validator = bValidator.NewCustomValidator(bValidator.Default())

	hc_delivery.New(e, hc)
	counter_delivery.New(e, counter)

	sigCtx, stop := signal.NotifyContext(context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gCtx := errgroup.WithContext(sigCtx)

	g.Go(func() error {
		addr := viper.GetString("server.addr")
		context.WithField("addr", addr).Info("start server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Log().Info("shutting down the server")
		shutdownCtx, cancel := ctx.WithTimeout(context, viper.GetDuration("server.shutdownTimeout"))
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Log().WithField("err", err).Error("server stopped")
		os.Exit(1)
	}
	log.Log().Info("shutdown server successfully")
}
