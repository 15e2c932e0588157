package ports

import "time"

// BridgeMetrics records the outcome of every bridge operation.
type BridgeMetrics interface {
	ObserveOperation(operation string, errCode string, took time.Duration)
	ObserveEvent(eventType string)
	SetPendingTransfers(count int)
}
