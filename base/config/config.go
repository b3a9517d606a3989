// Package config loads the process configuration into viper.
//
// Precedence, highest first: command-line flags, GUARD_* environment
// variables (a .env file is loaded into the environment first), the YAML
// config file, then the defaults below.
package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/x-xyz/goguard/base/env"
	"github.com/x-xyz/goguard/base/log"
)

const envPrefix = "GUARD"

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("lock.mode", "thread")
	v.SetDefault("lock.spinStart", 4)
	v.SetDefault("lock.spinLimit", 1024)
	v.SetDefault("harness.poolSize", 0)
	v.SetDefault("harness.maxWorkers", 1000000)
	v.SetDefault("harness.spawnTimeout", 3*time.Second)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.healthTimeout", time.Second)
	v.SetDefault("counter.initial", 0)
	v.SetDefault("client.timeout", 5*time.Second)
	v.SetDefault("datadog_host", "")
	v.SetDefault("datadog_port", 8125)
}

// Load reads file (if it exists), the environment and flags into viper's
// global instance and configures the logger from it.
func Load(file string, flags *pflag.FlagSet) error {
	if err := env.Load(".env"); err != nil {
		return err
	}
	return load(viper.GetViper(), file, flags)
}

func load(v *viper.Viper, file string, flags *pflag.FlagSet) error {
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return err
		}
	}

	if file != "" {
		v.SetConfigType("yaml")
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	if err := log.Setup(v.GetString("log.level"), v.GetBool("debug")); err != nil {
		return err
	}
	if v.GetBool("debug") {
		log.Log().Info("Service RUN on DEBUG mode")
	}
	return nil
}
