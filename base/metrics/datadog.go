package metrics

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/spf13/viper"

	"github.com/x-xyz/goguard/base/log"
)

const (
	ddClientsSize    = 16 // needs to be 2^n
	ddClientsIdxMask = ddClientsSize - 1

	// buffer 10 metrics before sending to statsd
	bufferMetrics = 10
)

var (
	initOnce = sync.Once{}

	// DdHost is the datadog agent host, read from config key datadog_host
	DdHost = ""
	// DdPort is the agent's dogstatsd port, read from config key datadog_port
	DdPort = 8125

	// ddClientsIdx picks ddClients round robin
	ddClientsIdx = int32(0)
	ddClients    []statsCli
)

func initDDClient() {
	DdHost = viper.GetString("datadog_host")
	if port := viper.GetInt("datadog_port"); port > 0 {
		DdPort = port
	}
	ddClients = make([]statsCli, ddClientsSize)

	if DdHost == "" {
		log.Log().Info("datadog_host not set, metrics are logged")
		for i := range ddClients {
			ddClients[i] = &LogClient{}
		}
		return
	}

	// several buffered clients on one agent address spread the lock
	// contention of the statsd buffer
	addr := fmt.Sprintf("%s:%d", DdHost, DdPort)
	log.Log().WithFields(log.Fields{"addr": addr, "clients": ddClientsSize}).Info("connecting to datadog agent")
	for i := range ddClients {
		cli, err := statsd.NewBuffered(addr, bufferMetrics)
		if err != nil {
			log.Log().WithFields(log.Fields{"addr": addr, "err": err}).Panic("can't talk to datadog agent")
		}
		ddClients[i] = cli
	}
}

// nextClient returns the statsd client for the next bump
func nextClient() statsCli {
	initOnce.Do(initDDClient)
	return ddClients[atomic.AddInt32(&ddClientsIdx, 1)&ddClientsIdxMask]
}

type statsCli interface {
	Gauge(name string, value float64, tags []string, rate float64) error
	Count(name string, value int64, tags []string, rate float64) error
	Histogram(name string, value float64, tags []string, rate float64) error
	TimeInMilliseconds(name string, value float64, tags []string, rate float64) error
}

// DDMetrics sends bumps to dogstatsd with a fixed set of base tags.
type DDMetrics struct {
	ddTags []string
}

func (dm *DDMetrics) tags(tags []string) []string {
	all := make([]string, 0, len(dm.ddTags)+len(tags)/2)
	all = append(all, dm.ddTags...)
	return append(all, parseTag(tags)...)
}

func bumpFailed(err error, fn, key string, val interface{}) {
	log.Log().WithFields(log.Fields{"err": err, "key": key, "val": val, "func": fn}).Error("Bump fail")
}

// BumpAvg is sent as a gauge since dogstatsd has no average type.
func (dm *DDMetrics) BumpAvg(key string, val, sampleRate float64, tags ...string) {
	if err := nextClient().Gauge(key, val, dm.tags(tags), sampleRate); err != nil {
		bumpFailed(err, "BumpAvg", key, val)
	}
}

func (dm *DDMetrics) BumpSum(key string, val, sampleRate float64, tags ...string) {
	if err := nextClient().Count(key, int64(val), dm.tags(tags), sampleRate); err != nil {
		bumpFailed(err, "BumpSum", key, val)
	}
}

func (dm *DDMetrics) BumpHistogram(key string, val, sampleRate float64, tags ...string) {
	if err := nextClient().Histogram(key, val, dm.tags(tags), sampleRate); err != nil {
		bumpFailed(err, "BumpHistogram", key, val)
	}
}

// BumpTime starts a timer that is sent in milliseconds when End is called.
func (dm *DDMetrics) BumpTime(key string, sampleRate float64, tags ...string) Ender {
	return &ddTimeTracker{
		start:      time.Now(),
		key:        key,
		tags:       dm.tags(tags),
		sampleRate: sampleRate,
	}
}

// parseTag turns key, value pairs into datadog's key:value tags.
func parseTag(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	if len(tags)%2 != 0 {
		log.Log().WithField("tags", tags).Panic("tag length needs to be multiple of 2")
	}
	arr := make([]string, 0, len(tags)/2)
	for i := 0; i < len(tags); i += 2 {
		arr = append(arr, tags[i]+":"+tags[i+1])
	}
	return arr
}

type ddTimeTracker struct {
	start      time.Time
	key        string
	tags       []string
	sampleRate float64
}

func (dt *ddTimeTracker) End() {
	ms := float64(time.Since(dt.start)) / float64(time.Millisecond)
	if err := nextClient().TimeInMilliseconds(dt.key, ms, dt.tags, dt.sampleRate); err != nil {
		bumpFailed(err, "BumpTime", dt.key, ms)
	}
}
