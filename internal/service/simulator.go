package service

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"sensor_dashboard/internal/logger"
)

// ----------- Simulation constants -----------
const (
	BaseTempC        = 25.0 // mean temperature °C
	TempAmplitudeC   = 8.0  // sine swing °C
	TempNoiseC       = 2.0  // uniform noise °C
	BaseHumidityPct  = 65.0 // mean relative humidity %
	HumidityAmpPct   = 15.0 // cosine swing %
	HumidityNoisePct = 5.0  // uniform noise %
)

// SimulatedSample is served in the single-reading shape with "simulated": true.
type SimulatedSample struct {
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Simulated   bool      `json:"simulated"`
	Step        int       `json:"step"`
	CreatedAt   time.Time `json:"created_at"`
}

// SimulatorService evolves a synthetic sensor that stands in for hardware during demos.
type SimulatorService struct {
	log  *logger.Logger
	rand *rand.Rand

	mu     sync.RWMutex
	step   int
	sample SimulatedSample
}

// NewSimulatorService returns a simulator whose first sample is already available.
func NewSimulatorService(log *logger.Logger) *SimulatorService {
	s := &SimulatorService{
		log:  log.Named("simulator"),
		rand: rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
	}
	s.advance(time.Now())
	return s
}

// Run ticks at the given interval until ctx is canceled.
func (s *SimulatorService) Run(ctx context.Context, tick time.Duration) {
	s.log.Infow("simulator_started", "tick", tick)
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Infow("simulator_stopped")
			return
		case now := <-t.C:
			s.advance(now)
		}
	}
}

// Sample returns the latest synthetic reading.
func (s *SimulatorService) Sample() SimulatedSample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sample
}

func (s *SimulatorService) advance(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := float64(s.step)
	s.sample = SimulatedSample{
		Temperature: round2(BaseTempC + math.Sin(i/5)*TempAmplitudeC + s.rand.Float64()*TempNoiseC),
		Humidity:    clamp(round2(BaseHumidityPct+math.Cos(i/3)*HumidityAmpPct+s.rand.Float64()*HumidityNoisePct), 0, 100),
		Simulated:   true,
		Step:        s.step,
		CreatedAt:   now.UTC(),
	}
	s.step++
}

// helpers
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
