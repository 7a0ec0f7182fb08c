package models

// RiskEventKind discriminates the RiskEvent variants.
type RiskEventKind string

const (
	// RiskEventOrderRejected fires when the risk manager refuses a signal.
	RiskEventOrderRejected RiskEventKind = "order_rejected"
	// RiskEventStopLossTriggered fires when a position's stop-loss crosses.
	RiskEventStopLossTriggered RiskEventKind = "stop_loss_triggered"
	// RiskEventTakeProfitTriggered fires when a position's take-profit crosses.
	RiskEventTakeProfitTriggered RiskEventKind = "take_profit_triggered"
	// RiskEventOrderFailed fires when the executor's submit_order call fails.
	RiskEventOrderFailed RiskEventKind = "order_failed"
	// RiskEventDrawdownHaltEntered fires when the drawdown breaker trips.
	RiskEventDrawdownHaltEntered RiskEventKind = "drawdown_halt_entered"
	// RiskEventDrawdownHaltExited fires when an operator clears the halt.
	RiskEventDrawdownHaltExited RiskEventKind = "drawdown_halt_exited"
)

// RejectReason enumerates why the risk manager refused a signal.
type RejectReason string

const (
	// RejectDrawdownHalt means the engine was halted.
	RejectDrawdownHalt RejectReason = "drawdown_halt"
	// RejectHardCeilingReached means MaxOpenOrders was already reached.
	RejectHardCeilingReached RejectReason = "hard_ceiling_reached"
	// RejectExposureLimitExceeded means the trade's notional was too large.
	RejectExposureLimitExceeded RejectReason = "exposure_limit_exceeded"
)

// RiskEvent is an out-of-band notification published to the alert sink.
// Only the fields relevant to Kind are populated.
type RiskEvent struct {
	Kind RiskEventKind `json:"kind"`

	// OrderRejected fields.
	Signal Signal       `json:"signal,omitempty"`
	Reason RejectReason `json:"reason,omitempty"`

	// StopLossTriggered / TakeProfitTriggered fields.
	Pair       string  `json:"pair,omitempty"`
	ClosePrice float64 `json:"close_price,omitempty"`

	// OrderFailed fields.
	Err string `json:"error,omitempty"`

	// DrawdownHaltEntered fields.
	DrawdownPct float64 `json:"drawdown_pct,omitempty"`
}
