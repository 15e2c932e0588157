package inmemoryxcm

import (
	"context"
	"fmt"
	"sync"

	"github.com/arkade-os/nftbridge/internal/core/domain"
)

type SentMessage struct {
	Hash    domain.XcmHash
	Dest    domain.Location
	Message domain.Xcm
}

// Sender keeps every accepted message in memory, grouped by destination parachain.
type Sender struct {
	lock    *sync.RWMutex
	sent    map[domain.ParaId][]SentMessage
	failErr error
}

func NewSender() *Sender {
	return &Sender{
		lock: &sync.RWMutex{},
		sent: make(map[domain.ParaId][]SentMessage),
	}
}

// FailWith makes every following SendXcm return err. A nil err restores delivery.
func (s *Sender) FailWith(err error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.failErr = err
}

func (s *Sender) SendXcm(
	_ context.Context, dest domain.Location, msg domain.Xcm,
) (domain.XcmHash, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.failErr != nil {
		return domain.XcmHash{}, s.failErr
	}

	paraId, ok := dest.ParaId()
	if !ok {
		return domain.XcmHash{}, fmt.Errorf("unroutable destination %s", dest)
	}

	hash, err := msg.Hash()
	if err != nil {
		return domain.XcmHash{}, fmt.Errorf("failed to hash message: %w", err)
	}

	s.sent[paraId] = append(s.sent[paraId], SentMessage{hash, dest, msg})
	return hash, nil
}

// Sent returns a copy of the messages delivered to the given parachain, oldest first.
func (s *Sender) Sent(paraId domain.ParaId) []SentMessage {
	s.lock.RLock()
	defer s.lock.RUnlock()

	msgs := make([]SentMessage, len(s.sent[paraId]))
	copy(msgs, s.sent[paraId])
	return msgs
}

func (s *Sender) Close() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.sent = make(map[domain.ParaId][]SentMessage)
}
