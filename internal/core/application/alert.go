package application

import (
	"context"
	"time"

	"github.com/arkade-os/nftbridge/internal/core/domain"
	"github.com/arkade-os/nftbridge/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

// sendReceivedAlerts publishes inbound transfers. Outbound ones are published by the send
// path, which knows the hash of the message.
func (s *service) sendReceivedAlerts(events []domain.Event) {
	for _, event := range events {
		if e, ok := event.(domain.NFTReceived); ok {
			s.publishAlert(ports.NFTReceived, ports.TransferAlert{
				Asset:      e.Id,
				ParaId:     uint32(e.FromParaId),
				OccurredAt: time.Now().Unix(),
			})
		}
	}
}

func (s *service) sendSentAlert(transfer domain.PendingTransfer, hash domain.XcmHash) {
	s.publishAlert(ports.NFTSent, ports.TransferAlert{
		Asset:      transfer.Key.String(),
		ParaId:     uint32(transfer.DestParaId),
		Account:    transfer.Sender.String(),
		XcmHash:    hash.String(),
		OccurredAt: transfer.CreatedAt,
	})
}

func (s *service) sendExpiredAlert(transfer domain.PendingTransfer) {
	s.publishAlert(ports.TransferExpired, ports.TransferAlert{
		Asset:      transfer.Key.String(),
		ParaId:     uint32(transfer.DestParaId),
		Account:    transfer.Sender.String(),
		OccurredAt: time.Now().Unix(),
	})
}

func (s *service) publishAlert(topic ports.Topic, message ports.TransferAlert) {
	if s.alerts == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.alerts.Publish(ctx, topic, message); err != nil {
		log.WithError(err).WithField("topic", topic).Warn("failed to publish alert")
	}
}
