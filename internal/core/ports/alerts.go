package ports

import "context"

const (
	NFTSent         Topic = "NFT Sent"
	NFTReceived     Topic = "NFT Received"
	TransferExpired Topic = "Transfer Expired"
)

type Topic string

type Alerts interface {
	Publish(ctx context.Context, topic Topic, message interface{}) error
}

type TransferAlert struct {
	Asset      string
	ParaId     uint32
	Account    string
	XcmHash    string
	OccurredAt int64
}
