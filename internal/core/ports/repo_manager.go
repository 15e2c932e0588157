package ports

import "github.com/arkade-os/nftbridge/internal/core/domain"

type RepoManager interface {
	Ledger() domain.LedgerRepository
	Events() domain.EventRepository
	Close()
}
