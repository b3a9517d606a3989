package main

import (
	"net/http"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/x-xyz/goguard/base/config"
	"github.com/x-xyz/goguard/base/ctx"
	"github.com/x-xyz/goguard/base/lock"
	"github.com/x-xyz/goguard/base/log"
	"github.com/x-xyz/goguard/service/counterclient"
	counter_usecase "github.com/x-xyz/goguard/stores/counter/usecase"
	harness_cli "github.com/x-xyz/goguard/stores/harness/delivery/cli"
	harness_usecase "github.com/x-xyz/goguard/stores/harness/usecase"
)

var flags = pflag.NewFlagSet("harness", pflag.ExitOnError)

func init() {
	file := flags.String("config", "infra/configs/config.yaml", "config file")
	flags.Int64("value", 0, "initial value of x, prompted if unset")
	flags.Int("workers", 0, "number of workers, prompted if unset")
	flags.String("remote", "", "base URL of a counterd instance to run against")
	flags.String("lock.mode", "thread", "lock mode, thread or atomic")
	flags.Int("harness.poolSize", 0, "cap on concurrently running workers, 0 for one goroutine per worker")
	if err := flags.Parse(os.Args[1:]); err != nil {
		panic(err)
	}

	if err := config.Load(*file, flags); err != nil {
		panic(err)
	}
}

func main() {
	defer log.Sync()

	if err := run(ctx.Background()); err != nil {
		os.Exit(1)
	}
}

func run(context ctx.Ctx) error {
	mode, err := lock.ParseMode(viper.GetString("lock.mode"))
	if err != nil {
		context.WithField("err", err).Error("lock.ParseMode failed")
		return err
	}

	h := harness_usecase.New(&harness_usecase.Config{
		Factory: counter_usecase.NewFactory(counter_usecase.Config{
			Mode:      mode,
			SpinStart: viper.GetInt("lock.spinStart"),
			SpinLimit: viper.GetInt("lock.spinLimit"),
		}),
		MaxWorkers:   viper.GetInt("harness.maxWorkers"),
		PoolSize:     viper.GetInt("harness.poolSize"),
		SpawnTimeout: viper.GetDuration("harness.spawnTimeout"),
	})
	handler := harness_cli.New(h, os.Stdin, os.Stdout)

	if remote := viper.GetString("remote"); remote != "" {
		return runRemote(context, handler, remote)
	}

	var (
		initial *int64
		workers *int
	)
	if flags.Changed("value") {
		v := viper.GetInt64("value")
		initial = &v
	}
	if flags.Changed("workers") {
		w := viper.GetInt("workers")
		workers = &w
	}

	p, err := handler.Params(context, initial, workers)
	if err != nil {
		return err
	}
	return handler.Execute(context, p)
}

func runRemote(context ctx.Ctx, handler *harness_cli.Handler, remote string) error {
	if flags.Changed("value") {
		context.Warn("--value is ignored against a remote counter")
	}

	svc, err := counterclient.NewClient(context, &counterclient.ClientCfg{
		HttpClient: http.Client{},
		Timeout:    viper.GetDuration("client.timeout"),
		BaseURL:    remote,
	})
	if err != nil {
		return err
	}

	workers := viper.GetInt("workers")
	if !flags.Changed("workers") {
		if workers, err = handler.PromptWorkers(context); err != nil {
			return err
		}
	}
	return handler.ExecuteAgainst(context, svc, workers)
}
