// Package market implements the simulated price feed and the paper trading
// ledger backing the paper app.
package market

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/ekato-labs/tradecore/internal/domain/market"
	"github.com/ekato-labs/tradecore/pkg/logger"
)

// EngineConfig tunes the synthetic price walk.
type EngineConfig struct {
	TickInterval   time.Duration // wall-clock delay between candles
	StepsPerCandle int           // sub-steps aggregated into one candle
	HistoryCap     int           // oldest candles evicted past this
	StartPrice     float64       // price when no prior history exists

	// Walk parameters. Zero values take the defaults below.
	SubVolatility float64 // per-sub-step base volatility
	DriftFactor   float64 // pull strength toward the trailing average
	TrendWindow   int     // candles in the trailing moving average
	BaseVolume    float64 // average volume baseline
}

func (c *EngineConfig) applyDefaults() {
	if c.TickInterval <= 0 {
		c.TickInterval = 5 * time.Second
	}
	if c.StepsPerCandle <= 0 {
		c.StepsPerCandle = 3600
	}
	if c.HistoryCap <= 0 {
		c.HistoryCap = 5000
	}
	if c.StartPrice <= 0 {
		c.StartPrice = 50
	}
	if c.SubVolatility <= 0 {
		c.SubVolatility = 0.002
	}
	if c.DriftFactor <= 0 {
		c.DriftFactor = 0.0005
	}
	if c.TrendWindow <= 0 {
		c.TrendWindow = 50
	}
	if c.BaseVolume <= 0 {
		c.BaseVolume = 2_000_000
	}
}

// Engine owns the candle history and current simulated price. The tick
// goroutine started by Run is the only writer; readers take snapshots under
// a short read lock.
type Engine struct {
	mu      sync.RWMutex
	candles []market.Candle
	price   float64

	cfg   EngineConfig
	store *FileStore
	rng   *rand.Rand
	now   func() time.Time
	log   *logger.Logger

	subMu   sync.Mutex
	subs    map[int]chan market.Candle
	nextSub int
}

// NewEngine builds an engine, loading any persisted candle history. A corrupt
// save file resets the history rather than failing startup.
func NewEngine(cfg EngineConfig, store *FileStore, log *logger.Logger) *Engine {
	cfg.applyDefaults()
	if log == nil {
		log = logger.NewDefault("market")
	}

	e := &Engine{
		cfg:   cfg,
		store: store,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		now:   time.Now,
		log:   log,
		price: cfg.StartPrice,
		subs:  make(map[int]chan market.Candle),
	}

	if store != nil {
		candles, err := store.Load()
		if err != nil {
			log.WithError(err).Warn("corrupted candle save, resetting history")
		} else if len(candles) > 0 {
			e.candles = candles
			e.price = candles[len(candles)-1].Close
			log.WithField("candles", len(candles)).WithField("last", e.price).Info("candle history loaded")
		}
	}
	return e
}

// WithClock injects a clock for tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// WithSeed makes the walk deterministic for tests. Reproducibility across
// process runs is otherwise neither guaranteed nor required.
func (e *Engine) WithSeed(seed int64) *Engine {
	e.rng = rand.New(rand.NewSource(seed))
	return e
}

// Run drives the simulation until the context is cancelled, producing one
// candle per tick interval.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.cfg.TickInterval)
	defer ticker.Stop()

	e.log.WithField("tick", e.cfg.TickInterval.String()).
		WithField("steps", e.cfg.StepsPerCandle).Info("simulation started")

	for {
		select {
		case <-ctx.Done():
			e.log.Info("simulation stopped")
			return
		case <-ticker.C:
			e.Step()
		}
	}
}

// Step synthesizes one candle from a sub-step random walk, appends it to the
// capped history, persists the whole document, and notifies subscribers.
func (e *Engine) Step() market.Candle {
	e.mu.Lock()

	startPrice := e.price
	trend := e.trendLocked(startPrice)

	open := startPrice
	high := startPrice
	low := startPrice
	price := startPrice
	prev := startPrice

	for i := 1; i < e.cfg.StepsPerCandle; i++ {
		// Drift toward the trailing average keeps the walk from running away.
		drift := (trend - price) * e.cfg.DriftFactor

		// Volatility clustering: a large previous move widens the next one.
		lastMove := math.Abs((price - prev) / prev)
		vol := e.cfg.SubVolatility * (1 + lastMove*5)

		z := e.rng.Float64()*2 - 1
		prev = price
		price *= math.Exp(drift + vol*z)

		if price > high {
			high = price
		}
		if price < low {
			low = price
		}
	}

	// Final micro movement.
	price *= 1 + e.cfg.SubVolatility*(e.rng.Float64()*2-1)
	if price > high {
		high = price
	}
	if price < low {
		low = price
	}

	movePct := math.Abs((price - open) / open)
	volume := int64(e.cfg.BaseVolume * (0.8 + e.rng.Float64()*0.4) * (1 + movePct*5))

	candle := market.Candle{
		Date:     e.now().Unix(),
		Open:     round2(open),
		High:     round2(high),
		Low:      round2(low),
		Close:    round2(price),
		Volume:   volume,
		AdjClose: round2(price),
	}

	e.candles = append(e.candles, candle)
	if len(e.candles) > e.cfg.HistoryCap {
		e.candles = e.candles[len(e.candles)-e.cfg.HistoryCap:]
	}
	e.price = candle.Close

	snapshot := append([]market.Candle(nil), e.candles...)
	e.mu.Unlock()

	if e.store != nil {
		if err := e.store.Save(snapshot); err != nil {
			e.log.WithError(err).Error("candle save failed")
		}
	}

	e.broadcast(candle)
	return candle
}

// trendLocked returns the trailing moving average of closes, or the current
// price when the history is shorter than the window.
func (e *Engine) trendLocked(fallback float64) float64 {
	n := e.cfg.TrendWindow
	if len(e.candles) < n {
		return fallback
	}
	sum := 0.0
	for _, c := range e.candles[len(e.candles)-n:] {
		sum += c.Close
	}
	return sum / float64(n)
}

// LastPrice returns the current simulated price.
func (e *Engine) LastPrice() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.price
}

// History returns a copy of the candle history.
func (e *Engine) History() []market.Candle {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]market.Candle(nil), e.candles...)
}

// Subscribe registers for new candles. The returned cancel function must be
// called to release the subscription. Slow consumers miss candles rather
// than blocking the tick loop.
func (e *Engine) Subscribe() (<-chan market.Candle, func()) {
	e.subMu.Lock()
	defer e.subMu.Unlock()

	id := e.nextSub
	e.nextSub++
	ch := make(chan market.Candle, 8)
	e.subs[id] = ch

	cancel := func() {
		e.subMu.Lock()
		defer e.subMu.Unlock()
		if _, ok := e.subs[id]; ok {
			delete(e.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (e *Engine) broadcast(candle market.Candle) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	for _, ch := range e.subs {
		select {
		case ch <- candle:
		default:
		}
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
