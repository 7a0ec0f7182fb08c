// Package indicators provides pure numeric functions over price slices:
// no I/O, no state, never block. Each function reports "not enough data"
// via a boolean rather than an error.
package indicators

// RSIConfig parameterizes Wilder's Relative Strength Index.
type RSIConfig struct {
	// Period is the smoothing window, must be >= 2.
	Period int
	// Overbought is the level at or above which the asset is overbought.
	Overbought float64
	// Oversold is the level at or below which the asset is oversold.
	Oversold float64
}

// DefaultRSIConfig returns the spec's default RSI parameters.
func DefaultRSIConfig() RSIConfig {
	return RSIConfig{Period: 14, Overbought: 70, Oversold: 30}
}

// RSI computes Wilder's Relative Strength Index over closes (oldest first).
// It requires at least period+1 prices; otherwise ok is false.
func RSI(closes []float64, period int) (value float64, ok bool) {
	if period < 2 || len(closes) < period+1 {
		return 0, false
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss += -delta
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		var gain, loss float64
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100, true
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}
