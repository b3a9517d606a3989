/*
Package metrics records counters, gauges and timers through dogstatsd.
Without a datadog agent configured every metric is written to the debug log.

Naming convention of metric keys:
  - Internal process time: *.time
  - Counts of events: *.count
  - Waiting time: *.wait
  - Error: *.err
*/
package metrics

import (
	"math/rand"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/x-xyz/goguard/base/env"
)

const (
	defaultLevel = 3
	// fraction of bumps whose own latency is recorded
	latencySampling = 0.0001
)

// Ender is returned by BumpTime. End stops the timer and sends it.
type Ender interface {
	End()
}

// Service provides interface for metrics
type Service interface {
	BumpAvg(key string, val float64, tags ...string)
	BumpSum(key string, val float64, tags ...string)
	BumpHistogram(key string, val float64, tags ...string)

	BumpTime(key string, tags ...string) Ender
}

// Option is functional parameter for metrics option
type Option func(*opt)

type opt struct {
	// withPodName adds a pod:<name> tag, true by default
	withPodName bool
}

// WithoutPodName drops the pod tag. Every distinct pod name is a separate
// custom metric on the datadog side.
func WithoutPodName() Option {
	return func(o *opt) {
		o.withPodName = false
	}
}

// New creates a metric client whose keys are prefixed with pkgName.
func New(pkgName string, options ...Option) Service {
	o := opt{
		withPodName: true,
	}
	for _, option := range options {
		option(&o)
	}

	// an empty host tag removes the tags datadog attaches per host
	ddTags := []string{"host:"}
	if o.withPodName {
		ddTags = append(ddTags, "pod:"+env.PodName())
	}
	ddTags = append(ddTags,
		"env:"+firstSet(env.EnvName(), viper.GetString("env_name")),
		"app:"+firstSet(env.AppName(), viper.GetString("app_name")),
	)

	return &Metrics{
		pkgName: pkgName,
		level:   defaultLevel,
		datadog: DDMetrics{
			ddTags: ddTags,
		},
	}
}

func firstSet(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Metrics implements Service on top of DDMetrics.
type Metrics struct {
	pkgName string
	level   int
	datadog DDMetrics
}

// shouldGiveUp reports whether bumps of the given level are dropped by the
// metrics.disabled and metrics.level config keys.
func (mt *Metrics) shouldGiveUp(pkgName string, level int) bool {
	if viper.GetBool("metrics.disabled") {
		return true
	}
	enabledLevel := viper.GetInt("metrics.level")
	return enabledLevel > 0 && level > enabledLevel
}

// sampleRate is the metrics.sampleRate config key, within (0, 1]. 1 means
// always send.
func (mt *Metrics) sampleRate(pkgName string) float64 {
	if rate := viper.GetFloat64("metrics.sampleRate"); rate > 0 && rate <= 1 {
		return rate
	}
	return 1.0
}

func (mt *Metrics) key(key string) string {
	return mt.pkgName + "." + key
}

// bumpSumPanic counts a bump that panicked, typically on odd tags.
func (mt *Metrics) bumpSumPanic(fn, key string, tags []string) {
	mt.datadog.BumpSum(fn+".panic", 1, 1, "tag", mt.key(key)+"#"+strings.Join(tags, "#"))
}

// bumpLatency records how long a bump itself took, for a tiny sample.
func (mt *Metrics) bumpLatency(typ string, start time.Time, sampleRate float64) {
	if rand.Float64() < latencySampling*sampleRate {
		mt.datadog.BumpHistogram("bump.latency", float64(time.Since(start)/time.Millisecond), 1, "name", mt.pkgName, "type", typ)
	}
}

// bump runs send unless the level is disabled, with panics turned into a
// bumpsum.panic style counter.
func (mt *Metrics) bump(fn, key string, tags []string, send func(key string, sampleRate float64)) {
	if mt.shouldGiveUp(mt.pkgName, mt.level) {
		return
	}
	defer func() {
		if err := recover(); err != nil {
			mt.bumpSumPanic(fn, key, tags)
		}
	}()

	sampleRate := mt.sampleRate(mt.pkgName)
	defer mt.bumpLatency(fn, time.Now(), sampleRate)
	send(mt.key(key), sampleRate)
}

// BumpAvg bumps the average for the given key.
func (mt *Metrics) BumpAvg(key string, val float64, tags ...string) {
	mt.bump("bumpavg", key, tags, func(k string, rate float64) {
		mt.datadog.BumpAvg(k, val, rate, tags...)
	})
}

// BumpSum bumps the sum for the given key.
func (mt *Metrics) BumpSum(key string, val float64, tags ...string) {
	mt.bump("bumpsum", key, tags, func(k string, rate float64) {
		mt.datadog.BumpSum(k, val, rate, tags...)
	})
}

// BumpHistogram bumps the histogram for the given key.
func (mt *Metrics) BumpHistogram(key string, val float64, tags ...string) {
	mt.bump("bumphistogram", key, tags, func(k string, rate float64) {
		mt.datadog.BumpHistogram(k, val, rate, tags...)
	})
}

// BumpTime starts a timer. The usual form is
//
//	defer s.BumpTime("decrement.time").End()
func (mt *Metrics) BumpTime(key string, tags ...string) Ender {
	var end Ender = nopEnd{}
	mt.bump("bumptime", key, tags, func(k string, rate float64) {
		end = &timeTracker{
			mt:         mt,
			key:        key,
			tags:       tags,
			sampleRate: rate,
			ddEnd:      mt.datadog.BumpTime(k, rate, tags...),
		}
	})
	return end
}

type nopEnd struct{}

func (nopEnd) End() {}

type timeTracker struct {
	mt         *Metrics
	key        string
	tags       []string
	sampleRate float64
	ddEnd      Ender
}

func (t *timeTracker) End() {
	defer func() {
		if err := recover(); err != nil {
			t.mt.bumpSumPanic("bumptime", t.key, t.tags)
		}
	}()
	defer t.mt.bumpLatency("bumptime", time.Now(), t.sampleRate)

	t.ddEnd.End()
}
