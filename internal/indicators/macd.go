package indicators

// MACDConfig parameterizes the Moving Average Convergence/Divergence
// oscillator. Fast must be less than Slow.
type MACDConfig struct {
	Fast   int
	Slow   int
	Signal int
}

// DefaultMACDConfig returns the spec's default MACD parameters.
func DefaultMACDConfig() MACDConfig {
	return MACDConfig{Fast: 12, Slow: 26, Signal: 9}
}

// Crossover classifies the latest bar's MACD/signal relationship.
type Crossover int

const (
	// CrossoverNeutral means no crossover occurred on the latest bar.
	CrossoverNeutral Crossover = iota
	// CrossoverBullish means macd crossed from <= signal to > signal.
	CrossoverBullish
	// CrossoverBearish means macd crossed from >= signal to < signal.
	CrossoverBearish
)

// ema computes the exponential moving average of data, seeded by the simple
// average of the first period values. The returned slice has the same
// length as data; entries before the seed index are zero and must not be
// read.
func ema(data []float64, period int) (out []float64, firstValid int) {
	out = make([]float64, len(data))
	if period <= 0 || len(data) < period {
		return out, len(data)
	}

	var sum float64
	for i := 0; i < period; i++ {
		sum += data[i]
	}
	out[period-1] = sum / float64(period)

	k := 2.0 / float64(period+1)
	for i := period; i < len(data); i++ {
		out[i] = (data[i]-out[i-1])*k + out[i-1]
	}
	return out, period - 1
}

// MACD computes the MACD line, the signal line, and classifies the latest
// bar's crossover. It requires at least slow+signal closes (oldest first);
// otherwise ok is false.
func MACD(closes []float64, fast, slow, signal int) (classification Crossover, ok bool) {
	if fast <= 0 || slow <= 0 || signal <= 0 || fast >= slow {
		return CrossoverNeutral, false
	}
	if len(closes) < slow+signal {
		return CrossoverNeutral, false
	}

	fastEMA, _ := ema(closes, fast)
	slowEMA, slowStart := ema(closes, slow)

	macdLine := make([]float64, len(closes)-slowStart)
	for i := slowStart; i < len(closes); i++ {
		macdLine[i-slowStart] = fastEMA[i] - slowEMA[i]
	}

	signalLine, sigStart := ema(macdLine, signal)
	if len(macdLine)-sigStart < 2 {
		return CrossoverNeutral, false
	}

	lastLocal := len(macdLine) - 1
	prevLocal := lastLocal - 1

	currMACD, currSignal := macdLine[lastLocal], signalLine[lastLocal]
	prevMACD, prevSignal := macdLine[prevLocal], signalLine[prevLocal]

	switch {
	case prevMACD <= prevSignal && currMACD > currSignal:
		return CrossoverBullish, true
	case prevMACD >= prevSignal && currMACD < currSignal:
		return CrossoverBearish, true
	default:
		return CrossoverNeutral, true
	}
}
