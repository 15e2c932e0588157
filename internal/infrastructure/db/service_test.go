package db_test

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/arkade-os/nftbridge/internal/core/domain"
	"github.com/arkade-os/nftbridge/internal/core/ports"
	"github.com/arkade-os/nftbridge/internal/infrastructure/db"
	"github.com/stretchr/testify/require"
)

var (
	alice = domain.AccountId{1}
	bob   = domain.AccountId{2}
)

func TestService(t *testing.T) {
	tests := []struct {
		name   string
		config db.ServiceConfig
	}{
		{
			name: "repo_manager_with_badger_stores",
			config: db.ServiceConfig{
				EventStoreType:   "inmemory",
				DataStoreType:    "badger",
				EventStoreConfig: []interface{}{},
				DataStoreConfig:  []interface{}{"", nil},
			},
		},
		{
			name: "repo_manager_with_sqlite_stores",
			config: db.ServiceConfig{
				EventStoreType:   "inmemory",
				DataStoreType:    "sqlite",
				EventStoreConfig: []interface{}{},
				DataStoreConfig:  []interface{}{t.TempDir()},
			},
		},
		{
			name: "repo_manager_with_leveldb_stores",
			config: db.ServiceConfig{
				EventStoreType:   "inmemory",
				DataStoreType:    "leveldb",
				EventStoreConfig: []interface{}{},
				DataStoreConfig:  []interface{}{t.TempDir()},
			},
		},
		{
			name: "repo_manager_with_inmemory_leveldb_stores",
			config: db.ServiceConfig{
				EventStoreType:   "inmemory",
				DataStoreType:    "leveldb",
				EventStoreConfig: []interface{}{},
				DataStoreConfig:  []interface{}{""},
			},
		},
	}
	if pgDsn := os.Getenv("NFTBRIDGE_TEST_PG_URL"); pgDsn != "" {
		tests = append(tests, struct {
			name   string
			config db.ServiceConfig
		}{
			name: "repo_manager_with_postgres_stores",
			config: db.ServiceConfig{
				EventStoreType:   "postgres",
				DataStoreType:    "postgres",
				EventStoreConfig: []interface{}{pgDsn, true},
				DataStoreConfig:  []interface{}{pgDsn, true},
			},
		})
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := db.NewService(tt.config)
			require.NoError(t, err)
			require.NotNil(t, svc)

			testLedgerRecords(t, svc)
			testLedgerRollback(t, svc)
			testPendingTransfers(t, svc)
			testLedgerEvents(t, svc)
			testEventRepository(t, svc)

			svc.Close()
		})
	}

	t.Run("invalid config", func(t *testing.T) {
		_, err := db.NewService(db.ServiceConfig{
			EventStoreType: "inmemory",
			DataStoreType:  "unknown",
		})
		require.Error(t, err)

		_, err = db.NewService(db.ServiceConfig{
			EventStoreType: "kafka",
			DataStoreType:  "badger",
		})
		require.Error(t, err)
	})
}

func testLedgerRecords(t *testing.T, svc ports.RepoManager) {
	t.Run("test_ledger_records", func(t *testing.T) {
		ctx := context.Background()
		repo := svc.Ledger()
		key := randomKey()

		owner, err := repo.GetOwner(ctx, key)
		require.NoError(t, err)
		require.Nil(t, owner)

		err = repo.RunInTx(ctx, func(ctx context.Context, tx domain.LedgerTx) error {
			if err := tx.SetOwner(ctx, key, alice); err != nil {
				return err
			}
			if err := tx.SetMetadata(ctx, key, []byte{}); err != nil {
				return err
			}
			if err := tx.SetMetadataUri(ctx, key, []byte("ipfs://test")); err != nil {
				return err
			}

			owner, err := tx.GetOwner(ctx, key)
			require.NoError(t, err)
			require.NotNil(t, owner)
			require.Equal(t, alice, *owner)
			return nil
		})
		require.NoError(t, err)

		owner, err = repo.GetOwner(ctx, key)
		require.NoError(t, err)
		require.NotNil(t, owner)
		require.Equal(t, alice, *owner)

		metadata, err := repo.GetMetadata(ctx, key)
		require.NoError(t, err)
		require.NotNil(t, metadata)
		require.Empty(t, metadata)

		uri, err := repo.GetMetadataUri(ctx, key)
		require.NoError(t, err)
		require.Equal(t, []byte("ipfs://test"), uri)

		err = repo.RunInTx(ctx, func(ctx context.Context, tx domain.LedgerTx) error {
			if err := tx.SetOwner(ctx, key, bob); err != nil {
				return err
			}
			if err := tx.SetMetadata(ctx, key, []byte("test_metadata")); err != nil {
				return err
			}
			return tx.ClearMetadataUri(ctx, key)
		})
		require.NoError(t, err)

		owner, err = repo.GetOwner(ctx, key)
		require.NoError(t, err)
		require.Equal(t, bob, *owner)

		metadata, err = repo.GetMetadata(ctx, key)
		require.NoError(t, err)
		require.Equal(t, []byte("test_metadata"), metadata)

		uri, err = repo.GetMetadataUri(ctx, key)
		require.NoError(t, err)
		require.Nil(t, uri)

		err = repo.RunInTx(ctx, func(ctx context.Context, tx domain.LedgerTx) error {
			if err := tx.ClearOwner(ctx, key); err != nil {
				return err
			}
			// clearing absent records is not an error
			if err := tx.ClearPendingTransfer(ctx, key); err != nil {
				return err
			}
			if err := tx.ClearMetadataUri(ctx, key); err != nil {
				return err
			}

			owner, err := tx.GetOwner(ctx, key)
			require.NoError(t, err)
			require.Nil(t, owner)
			return nil
		})
		require.NoError(t, err)

		owner, err = repo.GetOwner(ctx, key)
		require.NoError(t, err)
		require.Nil(t, owner)
	})
}

func testLedgerRollback(t *testing.T, svc ports.RepoManager) {
	t.Run("test_ledger_rollback", func(t *testing.T) {
		ctx := context.Background()
		repo := svc.Ledger()
		key := randomKey()

		events, err := repo.ListEvents(ctx, 0, 0)
		require.NoError(t, err)
		eventCount := len(events)

		err = repo.RunInTx(ctx, func(ctx context.Context, tx domain.LedgerTx) error {
			if err := tx.SetOwner(ctx, key, alice); err != nil {
				return err
			}
			if err := tx.SetMetadata(ctx, key, []byte("test_metadata")); err != nil {
				return err
			}
			if err := tx.SetPendingTransfer(ctx, newPendingTransfer(key, 2000, 100)); err != nil {
				return err
			}
			if err := tx.AppendEvents(ctx, domain.NewNFTSent(key, 2000)); err != nil {
				return err
			}
			return fmt.Errorf("abort")
		})
		require.EqualError(t, err, "abort")

		owner, err := repo.GetOwner(ctx, key)
		require.NoError(t, err)
		require.Nil(t, owner)

		metadata, err := repo.GetMetadata(ctx, key)
		require.NoError(t, err)
		require.Nil(t, metadata)

		pending, err := repo.GetPendingTransfer(ctx, key)
		require.NoError(t, err)
		require.Nil(t, pending)

		events, err = repo.ListEvents(ctx, 0, 0)
		require.NoError(t, err)
		require.Len(t, events, eventCount)
	})
}

func testPendingTransfers(t *testing.T, svc ports.RepoManager) {
	t.Run("test_pending_transfers", func(t *testing.T) {
		ctx := context.Background()
		repo := svc.Ledger()
		oldKey, newKey := randomKey(), randomKey()
		oldTransfer := newPendingTransfer(oldKey, 2000, 1000)
		newTransfer := newPendingTransfer(newKey, 2001, 2000)

		err := repo.RunInTx(ctx, func(ctx context.Context, tx domain.LedgerTx) error {
			if err := tx.SetPendingTransfer(ctx, newTransfer); err != nil {
				return err
			}
			return tx.SetPendingTransfer(ctx, oldTransfer)
		})
		require.NoError(t, err)

		pending, err := repo.GetPendingTransfer(ctx, oldKey)
		require.NoError(t, err)
		require.NotNil(t, pending)
		require.Equal(t, oldTransfer.Key, pending.Key)
		require.Equal(t, oldTransfer.DestParaId, pending.DestParaId)
		require.Equal(t, oldTransfer.Sender, pending.Sender)
		require.Equal(t, oldTransfer.CreatedAt, pending.CreatedAt)
		require.True(t, oldTransfer.Destination.Equal(pending.Destination))

		transfers, err := repo.ListPendingTransfers(ctx, 1500)
		require.NoError(t, err)
		keys := pendingKeys(transfers)
		require.Contains(t, keys, oldKey)
		require.NotContains(t, keys, newKey)

		transfers, err = repo.ListPendingTransfers(ctx, 0)
		require.NoError(t, err)
		keys = pendingKeys(transfers)
		require.Contains(t, keys, oldKey)
		require.Contains(t, keys, newKey)
		for i := 1; i < len(transfers); i++ {
			require.LessOrEqual(t, transfers[i-1].CreatedAt, transfers[i].CreatedAt)
		}

		err = repo.RunInTx(ctx, func(ctx context.Context, tx domain.LedgerTx) error {
			if err := tx.ClearPendingTransfer(ctx, oldKey); err != nil {
				return err
			}
			return tx.ClearPendingTransfer(ctx, newKey)
		})
		require.NoError(t, err)

		transfers, err = repo.ListPendingTransfers(ctx, 0)
		require.NoError(t, err)
		keys = pendingKeys(transfers)
		require.NotContains(t, keys, oldKey)
		require.NotContains(t, keys, newKey)
	})
}

func testLedgerEvents(t *testing.T, svc ports.RepoManager) {
	t.Run("test_ledger_events", func(t *testing.T) {
		ctx := context.Background()
		repo := svc.Ledger()
		key := randomKey()

		events, err := repo.ListEvents(ctx, 0, 0)
		require.NoError(t, err)
		var lastSeq uint64
		if len(events) > 0 {
			lastSeq = events[len(events)-1].Seq
		}

		err = repo.RunInTx(ctx, func(ctx context.Context, tx domain.LedgerTx) error {
			return tx.AppendEvents(ctx, domain.NewNFTSent(key, 2000))
		})
		require.NoError(t, err)
		err = repo.RunInTx(ctx, func(ctx context.Context, tx domain.LedgerTx) error {
			return tx.AppendEvents(ctx, domain.NewNFTReceived(key, 2000))
		})
		require.NoError(t, err)

		events, err = repo.ListEvents(ctx, lastSeq, 0)
		require.NoError(t, err)
		require.Len(t, events, 2)
		require.Greater(t, events[1].Seq, events[0].Seq)
		require.Equal(t, domain.NewNFTSent(key, 2000), events[0].Event)
		require.Equal(t, domain.NewNFTReceived(key, 2000), events[1].Event)
		require.NotZero(t, events[0].CreatedAt)

		events, err = repo.ListEvents(ctx, lastSeq, 1)
		require.NoError(t, err)
		require.Len(t, events, 1)
		require.Equal(t, domain.EventTypeNFTSent, events[0].Event.GetType())

		events, err = repo.ListEvents(ctx, events[0].Seq, 0)
		require.NoError(t, err)
		require.Len(t, events, 1)
		require.Equal(t, domain.EventTypeNFTReceived, events[0].Event.GetType())
	})
}

func testEventRepository(t *testing.T, svc ports.RepoManager) {
	t.Run("test_event_repository", func(t *testing.T) {
		ctx := context.Background()
		repo := svc.Events()
		key := randomKey()

		received := make(chan []domain.Event, 1)
		repo.RegisterEventsHandler(domain.BridgeTopic, func(events []domain.Event) {
			received <- events
		})
		defer repo.ClearRegisteredHandlers(domain.BridgeTopic)

		events := []domain.Event{domain.NewNFTSent(key, 2000)}
		err := repo.Save(ctx, domain.BridgeTopic, key.String(), events)
		require.NoError(t, err)

		select {
		case got := <-received:
			require.Equal(t, events, got)
		case <-time.After(5 * time.Second):
			t.Fatal("events not dispatched")
		}
	})
}

func randomKey() domain.AssetKey {
	return domain.NewAssetKey(rand.Uint32(), rand.Uint32())
}

func newPendingTransfer(
	key domain.AssetKey, dest domain.ParaId, createdAt int64,
) domain.PendingTransfer {
	return domain.PendingTransfer{
		Key:         key,
		Destination: domain.SiblingParachain(dest),
		DestParaId:  dest,
		Sender:      alice,
		CreatedAt:   createdAt,
	}
}

func pendingKeys(transfers []domain.PendingTransfer) []domain.AssetKey {
	keys := make([]domain.AssetKey, 0, len(transfers))
	for _, transfer := range transfers {
		keys = append(keys, transfer.Key)
	}
	return keys
}
