package application

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/arkade-os/nftbridge/internal/core/domain"
	"github.com/arkade-os/nftbridge/internal/core/ports"
	"github.com/arkade-os/nftbridge/internal/infrastructure/db"
	staticorigin "github.com/arkade-os/nftbridge/internal/infrastructure/origin/static"
	inmemoryxcm "github.com/arkade-os/nftbridge/internal/infrastructure/xcm-sender/inmemory"
	"github.com/arkade-os/nftbridge/pkg/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	ownParaId     = domain.ParaId(1000)
	siblingParaId = domain.ParaId(2000)
	otherParaId   = domain.ParaId(3000)
)

var (
	alice = domain.AccountId{1}
	bob   = domain.AccountId{2}

	testKey = domain.NewAssetKey(7, 42)
)

type mockMetrics struct {
	mock.Mock
}

func newMockMetrics() *mockMetrics {
	m := &mockMetrics{}
	m.On("ObserveOperation", mock.Anything, mock.Anything, mock.Anything).Maybe()
	m.On("ObserveEvent", mock.Anything).Maybe()
	m.On("SetPendingTransfers", mock.Anything).Maybe()
	return m
}

func (m *mockMetrics) ObserveOperation(operation string, errCode string, took time.Duration) {
	m.Called(operation, errCode, took)
}

func (m *mockMetrics) ObserveEvent(eventType string) {
	m.Called(eventType)
}

func (m *mockMetrics) SetPendingTransfers(count int) {
	m.Called(count)
}

type testBridge struct {
	svc    *service
	admin  AdminService
	repo   ports.RepoManager
	sender *inmemoryxcm.Sender
}

func testConfig() Config {
	return Config{
		ParaId:               ownParaId,
		Message:              domain.DefaultTransferMessageConfig(),
		UnlockMetadataPolicy: UnlockMetadataPurge,
	}
}

func newTestBridge(
	t *testing.T, cfg Config, scheduler ports.SchedulerService, metrics ports.BridgeMetrics,
) *testBridge {
	t.Helper()

	repo, err := db.NewService(db.ServiceConfig{
		EventStoreType:  "inmemory",
		DataStoreType:   "badger",
		DataStoreConfig: []interface{}{"", nil},
	})
	require.NoError(t, err)

	sender := inmemoryxcm.NewSender()
	checker := staticorigin.NewChecker([]uint32{uint32(siblingParaId)})

	appSvc, err := NewService(cfg, repo, sender, checker, scheduler, nil, metrics)
	require.NoError(t, err)
	require.NoError(t, appSvc.Start())
	t.Cleanup(appSvc.Stop)

	admin, err := NewAdminService(repo, appSvc)
	require.NoError(t, err)

	return &testBridge{
		svc:    appSvc.(*service),
		admin:  admin,
		repo:   repo,
		sender: sender,
	}
}

func (b *testBridge) mint(t *testing.T, key domain.AssetKey, owner domain.AccountId) {
	t.Helper()
	require.NoError(
		t, b.admin.MintNft(context.Background(), key, owner, []byte("meta"), []byte("ipfs://meta")),
	)
}

func (b *testBridge) requireUntouched(t *testing.T, key domain.AssetKey, owner domain.AccountId) {
	t.Helper()
	ctx := context.Background()

	gotOwner, err := b.svc.GetOwner(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, gotOwner)
	require.Equal(t, owner, *gotOwner)

	pending, err := b.svc.GetPendingTransfer(ctx, key)
	require.NoError(t, err)
	require.Nil(t, pending)

	metadata, err := b.svc.GetMetadata(ctx, key)
	require.NoError(t, err)
	require.Equal(t, []byte("meta"), metadata)
	uri, err := b.svc.GetMetadataUri(ctx, key)
	require.NoError(t, err)
	require.Equal(t, []byte("ipfs://meta"), uri)

	events, err := b.admin.ListEvents(ctx, 0, 0)
	require.NoError(t, err)
	require.Empty(t, events)
}

func waitForEvent(t *testing.T, ch <-chan []domain.Event) domain.Event {
	t.Helper()
	select {
	case events, ok := <-ch:
		require.True(t, ok)
		require.Len(t, events, 1)
		return events[0]
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for event")
	}
	return nil
}

func TestNewService(t *testing.T) {
	repo, err := db.NewService(db.ServiceConfig{
		EventStoreType:  "inmemory",
		DataStoreType:   "badger",
		DataStoreConfig: []interface{}{"", nil},
	})
	require.NoError(t, err)
	t.Cleanup(repo.Close)

	sender := inmemoryxcm.NewSender()
	checker := staticorigin.NewChecker(nil)

	t.Run("invalid", func(t *testing.T) {
		fixtures := []struct {
			name        string
			cfg         func() Config
			expectedErr string
		}{
			{
				name: "unknown unlock policy",
				cfg: func() Config {
					cfg := testConfig()
					cfg.UnlockMetadataPolicy = "burn"
					return cfg
				},
				expectedErr: "unknown unlock metadata policy",
			},
			{
				name: "self in allowed destinations",
				cfg: func() Config {
					cfg := testConfig()
					cfg.AllowedDestinations = []domain.ParaId{siblingParaId, ownParaId}
					return cfg
				},
				expectedErr: "must not include own para id",
			},
			{
				name: "ttl without sweep interval",
				cfg: func() Config {
					cfg := testConfig()
					cfg.PendingTransferTTL = time.Hour
					return cfg
				},
				expectedErr: "pending sweep interval must be > 0",
			},
			{
				name: "ttl without scheduler",
				cfg: func() Config {
					cfg := testConfig()
					cfg.PendingTransferTTL = time.Hour
					cfg.PendingSweepInterval = time.Minute
					return cfg
				},
				expectedErr: "missing scheduler",
			},
		}
		for _, f := range fixtures {
			t.Run(f.name, func(t *testing.T) {
				svc, err := NewService(f.cfg(), repo, sender, checker, nil, nil, nil)
				require.Error(t, err)
				require.ErrorContains(t, err, f.expectedErr)
				require.Nil(t, svc)
			})
		}
	})
}

func TestSendNft(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		bridge := newTestBridge(t, testConfig(), nil, nil)
		bridge.mint(t, testKey, alice)

		hash, err := bridge.svc.SendNft(
			ctx, domain.SignedOrigin(alice), testKey, siblingParaId,
			[]byte("new meta"), []byte("ipfs://new"),
		)
		require.NoError(t, err)
		require.NotEqual(t, domain.XcmHash{}, hash)

		owner, err := bridge.svc.GetOwner(ctx, testKey)
		require.NoError(t, err)
		require.Nil(t, owner)

		pending, err := bridge.svc.GetPendingTransfer(ctx, testKey)
		require.NoError(t, err)
		require.NotNil(t, pending)
		require.Equal(t, testKey, pending.Key)
		require.Equal(t, siblingParaId, pending.DestParaId)
		require.Equal(t, alice, pending.Sender)
		require.NotZero(t, pending.CreatedAt)
		destParaId, ok := pending.Destination.ParaId()
		require.True(t, ok)
		require.Equal(t, siblingParaId, destParaId)

		metadata, err := bridge.svc.GetMetadata(ctx, testKey)
		require.NoError(t, err)
		require.Equal(t, []byte("new meta"), metadata)
		uri, err := bridge.svc.GetMetadataUri(ctx, testKey)
		require.NoError(t, err)
		require.Equal(t, []byte("ipfs://new"), uri)

		sent := bridge.sender.Sent(siblingParaId)
		require.Len(t, sent, 1)
		require.Equal(t, hash, sent[0].Hash)
		expectedMsg := domain.BuildTransferMessage(
			domain.DefaultTransferMessageConfig(), testKey,
			domain.SiblingParachain(siblingParaId), alice,
		)
		require.Equal(t, expectedMsg, sent[0].Message)

		events, err := bridge.admin.ListEvents(ctx, 0, 0)
		require.NoError(t, err)
		require.Len(t, events, 1)
		sentEvent, ok := events[0].Event.(domain.NFTSent)
		require.True(t, ok)
		require.Equal(t, testKey.String(), sentEvent.Id)
		require.Equal(t, siblingParaId, sentEvent.DestParaId)

		event := waitForEvent(t, bridge.svc.GetEventsChannel(ctx))
		require.Equal(t, domain.EventTypeNFTSent, event.GetType())
	})

	t.Run("keeps uri when not given", func(t *testing.T) {
		bridge := newTestBridge(t, testConfig(), nil, nil)
		bridge.mint(t, testKey, alice)

		_, err := bridge.svc.SendNft(
			ctx, domain.SignedOrigin(alice), testKey, siblingParaId, []byte("new meta"), nil,
		)
		require.NoError(t, err)

		uri, err := bridge.svc.GetMetadataUri(ctx, testKey)
		require.NoError(t, err)
		require.Equal(t, []byte("ipfs://meta"), uri)
	})

	t.Run("invalid", func(t *testing.T) {
		fixtures := []struct {
			name        string
			cfg         func() Config
			origin      domain.Origin
			key         domain.AssetKey
			dest        domain.ParaId
			metadata    []byte
			metadataUri []byte
			sendErr     error
			isErr       func(error) bool
		}{
			{
				name:   "not signed",
				origin: domain.RootOrigin(),
				key:    testKey,
				dest:   siblingParaId,
				isErr:  errors.BAD_ORIGIN.Is,
			},
			{
				name:   "not found",
				origin: domain.SignedOrigin(alice),
				key:    domain.NewAssetKey(7, 43),
				dest:   siblingParaId,
				isErr:  errors.NFT_NOT_FOUND.Is,
			},
			{
				name:   "not owner",
				origin: domain.SignedOrigin(bob),
				key:    testKey,
				dest:   siblingParaId,
				isErr:  errors.NOT_OWNER.Is,
			},
			{
				name:   "self destination",
				origin: domain.SignedOrigin(alice),
				key:    testKey,
				dest:   ownParaId,
				isErr:  errors.INVALID_DESTINATION.Is,
			},
			{
				name: "destination not allowed",
				cfg: func() Config {
					cfg := testConfig()
					cfg.AllowedDestinations = []domain.ParaId{siblingParaId}
					return cfg
				},
				origin: domain.SignedOrigin(alice),
				key:    testKey,
				dest:   otherParaId,
				isErr:  errors.INVALID_DESTINATION.Is,
			},
			{
				name:     "metadata too long",
				origin:   domain.SignedOrigin(alice),
				key:      testKey,
				dest:     siblingParaId,
				metadata: []byte(strings.Repeat("a", domain.MaxMetadataLen+1)),
				isErr:    errors.METADATA_TOO_LONG.Is,
			},
			{
				name:        "metadata uri too long",
				origin:      domain.SignedOrigin(alice),
				key:         testKey,
				dest:        siblingParaId,
				metadataUri: []byte(strings.Repeat("u", domain.MaxMetadataUriLen+1)),
				isErr:       errors.METADATA_TOO_LONG.Is,
			},
			{
				name:    "transport failure",
				origin:  domain.SignedOrigin(alice),
				key:     testKey,
				dest:    siblingParaId,
				sendErr: fmt.Errorf("queue full"),
				isErr:   errors.FAILED_TO_SEND_XCM.Is,
			},
		}

		for _, f := range fixtures {
			t.Run(f.name, func(t *testing.T) {
				cfg := testConfig()
				if f.cfg != nil {
					cfg = f.cfg()
				}
				bridge := newTestBridge(t, cfg, nil, nil)
				bridge.mint(t, testKey, alice)
				if f.sendErr != nil {
					bridge.sender.FailWith(f.sendErr)
				}

				metadata := f.metadata
				if metadata == nil {
					metadata = []byte("new meta")
				}
				hash, err := bridge.svc.SendNft(
					ctx, f.origin, f.key, f.dest, metadata, f.metadataUri,
				)
				require.Error(t, err)
				require.True(t, f.isErr(err), err.Error())
				require.Equal(t, domain.XcmHash{}, hash)

				bridge.requireUntouched(t, testKey, alice)
				require.Empty(t, bridge.sender.Sent(f.dest))
			})
		}
	})
}

func TestReceiveNft(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		fixtures := []struct {
			name   string
			origin domain.Origin
		}{
			{"root", domain.RootOrigin()},
			{"trusted remote", domain.RemoteOrigin(siblingParaId)},
		}
		for _, f := range fixtures {
			t.Run(f.name, func(t *testing.T) {
				bridge := newTestBridge(t, testConfig(), nil, nil)

				err := bridge.svc.ReceiveNft(
					ctx, f.origin, testKey, siblingParaId, bob, []byte("meta"), nil,
				)
				require.NoError(t, err)

				owner, err := bridge.svc.GetOwner(ctx, testKey)
				require.NoError(t, err)
				require.NotNil(t, owner)
				require.Equal(t, bob, *owner)

				metadata, err := bridge.svc.GetMetadata(ctx, testKey)
				require.NoError(t, err)
				require.Equal(t, []byte("meta"), metadata)
				uri, err := bridge.svc.GetMetadataUri(ctx, testKey)
				require.NoError(t, err)
				require.Nil(t, uri)

				events, err := bridge.admin.ListEvents(ctx, 0, 0)
				require.NoError(t, err)
				require.Len(t, events, 1)
				receivedEvent, ok := events[0].Event.(domain.NFTReceived)
				require.True(t, ok)
				require.Equal(t, siblingParaId, receivedEvent.FromParaId)

				event := waitForEvent(t, bridge.svc.GetEventsChannel(ctx))
				require.Equal(t, domain.EventTypeNFTReceived, event.GetType())
			})
		}
	})

	t.Run("overwrites previous delivery", func(t *testing.T) {
		bridge := newTestBridge(t, testConfig(), nil, nil)

		require.NoError(t, bridge.svc.ReceiveNft(
			ctx, domain.RootOrigin(), testKey, siblingParaId, alice,
			[]byte("first"), []byte("ipfs://first"),
		))
		require.NoError(t, bridge.svc.ReceiveNft(
			ctx, domain.RemoteOrigin(siblingParaId), testKey, siblingParaId, bob,
			[]byte("second"), []byte("ipfs://second"),
		))

		owner, err := bridge.svc.GetOwner(ctx, testKey)
		require.NoError(t, err)
		require.NotNil(t, owner)
		require.Equal(t, bob, *owner)

		metadata, err := bridge.svc.GetMetadata(ctx, testKey)
		require.NoError(t, err)
		require.Equal(t, []byte("second"), metadata)
		uri, err := bridge.svc.GetMetadataUri(ctx, testKey)
		require.NoError(t, err)
		require.Equal(t, []byte("ipfs://second"), uri)

		events, err := bridge.admin.ListEvents(ctx, 0, 0)
		require.NoError(t, err)
		require.Len(t, events, 2)
		for _, event := range events {
			require.Equal(t, domain.EventTypeNFTReceived, event.Event.GetType())
		}
	})

	t.Run("clears pending transfer", func(t *testing.T) {
		bridge := newTestBridge(t, testConfig(), nil, nil)
		bridge.mint(t, testKey, alice)

		_, err := bridge.svc.SendNft(
			ctx, domain.SignedOrigin(alice), testKey, siblingParaId, []byte("meta"), nil,
		)
		require.NoError(t, err)

		err = bridge.svc.ReceiveNft(
			ctx, domain.RemoteOrigin(siblingParaId), testKey, siblingParaId, bob, nil, nil,
		)
		require.NoError(t, err)

		pending, err := bridge.svc.GetPendingTransfer(ctx, testKey)
		require.NoError(t, err)
		require.Nil(t, pending)

		owner, err := bridge.svc.GetOwner(ctx, testKey)
		require.NoError(t, err)
		require.NotNil(t, owner)
		require.Equal(t, bob, *owner)

		events, err := bridge.admin.ListEvents(ctx, 0, 0)
		require.NoError(t, err)
		require.Len(t, events, 2)
		require.Equal(t, domain.EventTypeNFTSent, events[0].Event.GetType())
		require.Equal(t, domain.EventTypeNFTReceived, events[1].Event.GetType())
		require.Less(t, events[0].Seq, events[1].Seq)
	})

	t.Run("invalid", func(t *testing.T) {
		fixtures := []struct {
			name        string
			origin      domain.Origin
			from        domain.ParaId
			metadata    []byte
			metadataUri []byte
			isErr       func(error) bool
		}{
			{
				name:   "signed origin",
				origin: domain.SignedOrigin(alice),
				from:   siblingParaId,
				isErr:  errors.BAD_ORIGIN.Is,
			},
			{
				name:   "untrusted remote",
				origin: domain.RemoteOrigin(otherParaId),
				from:   otherParaId,
				isErr:  errors.BAD_ORIGIN.Is,
			},
			{
				name:   "remote delivering for another ledger",
				origin: domain.RemoteOrigin(siblingParaId),
				from:   otherParaId,
				isErr:  errors.BAD_ORIGIN.Is,
			},
			{
				name:     "metadata too long",
				origin:   domain.RootOrigin(),
				from:     siblingParaId,
				metadata: []byte(strings.Repeat("a", domain.MaxMetadataLen+1)),
				isErr:    errors.METADATA_TOO_LONG.Is,
			},
			{
				name:        "metadata uri too long",
				origin:      domain.RootOrigin(),
				from:        siblingParaId,
				metadata:    []byte("new meta"),
				metadataUri: []byte(strings.Repeat("u", domain.MaxMetadataUriLen+1)),
				isErr:       errors.METADATA_TOO_LONG.Is,
			},
		}

		for _, f := range fixtures {
			t.Run(f.name, func(t *testing.T) {
				bridge := newTestBridge(t, testConfig(), nil, nil)
				bridge.mint(t, testKey, alice)

				err := bridge.svc.ReceiveNft(
					ctx, f.origin, testKey, f.from, bob, f.metadata, f.metadataUri,
				)
				require.Error(t, err)
				require.True(t, f.isErr(err), err.Error())

				bridge.requireUntouched(t, testKey, alice)
			})
		}
	})
}

func TestMetadataBounds(t *testing.T) {
	ctx := context.Background()
	metadata := []byte(strings.Repeat("a", domain.MaxMetadataLen))
	uri := []byte(strings.Repeat("u", domain.MaxMetadataUriLen))

	fixtures := []struct {
		name    string
		deliver func(t *testing.T, b *testBridge) error
	}{
		{
			name: "send",
			deliver: func(t *testing.T, b *testBridge) error {
				b.mint(t, testKey, alice)
				_, err := b.svc.SendNft(
					ctx, domain.SignedOrigin(alice), testKey, siblingParaId, metadata, uri,
				)
				return err
			},
		},
		{
			name: "receive",
			deliver: func(_ *testing.T, b *testBridge) error {
				return b.svc.ReceiveNft(
					ctx, domain.RootOrigin(), testKey, siblingParaId, bob, metadata, uri,
				)
			},
		},
	}
	for _, f := range fixtures {
		t.Run(f.name, func(t *testing.T) {
			bridge := newTestBridge(t, testConfig(), nil, nil)
			require.NoError(t, f.deliver(t, bridge))

			gotMetadata, err := bridge.svc.GetMetadata(ctx, testKey)
			require.NoError(t, err)
			require.Equal(t, metadata, gotMetadata)
			gotUri, err := bridge.svc.GetMetadataUri(ctx, testKey)
			require.NoError(t, err)
			require.Equal(t, uri, gotUri)
		})
	}
}

func TestLockUnlockNft(t *testing.T) {
	ctx := context.Background()

	t.Run("lock", func(t *testing.T) {
		bridge := newTestBridge(t, testConfig(), nil, nil)
		bridge.mint(t, testKey, alice)

		require.NoError(t, bridge.svc.LockNft(ctx, testKey, alice))

		owner, err := bridge.svc.GetOwner(ctx, testKey)
		require.NoError(t, err)
		require.Nil(t, owner)

		pending, err := bridge.svc.GetPendingTransfer(ctx, testKey)
		require.NoError(t, err)
		require.NotNil(t, pending)
		require.Equal(t, ownParaId, pending.DestParaId)
		require.Equal(t, alice, pending.Sender)
		require.Zero(t, pending.Destination.Parents)
		_, ok := pending.Destination.ParaId()
		require.False(t, ok)

		events, err := bridge.admin.ListEvents(ctx, 0, 0)
		require.NoError(t, err)
		require.Empty(t, events)
	})

	t.Run("unlock", func(t *testing.T) {
		fixtures := []struct {
			policy       UnlockMetadataPolicy
			keepMetadata bool
		}{
			{UnlockMetadataPurge, false},
			{UnlockMetadataRetain, true},
		}
		for _, f := range fixtures {
			t.Run(string(f.policy), func(t *testing.T) {
				cfg := testConfig()
				cfg.UnlockMetadataPolicy = f.policy
				bridge := newTestBridge(t, cfg, nil, nil)
				bridge.mint(t, testKey, alice)

				require.NoError(t, bridge.svc.LockNft(ctx, testKey, alice))
				require.NoError(t, bridge.svc.UnlockNft(ctx, testKey, bob))

				owner, err := bridge.svc.GetOwner(ctx, testKey)
				require.NoError(t, err)
				require.NotNil(t, owner)
				require.Equal(t, bob, *owner)

				pending, err := bridge.svc.GetPendingTransfer(ctx, testKey)
				require.NoError(t, err)
				require.Nil(t, pending)

				metadata, err := bridge.svc.GetMetadata(ctx, testKey)
				require.NoError(t, err)
				uri, err := bridge.svc.GetMetadataUri(ctx, testKey)
				require.NoError(t, err)
				if f.keepMetadata {
					require.Equal(t, []byte("meta"), metadata)
					require.Equal(t, []byte("ipfs://meta"), uri)
					return
				}
				require.Nil(t, metadata)
				require.Nil(t, uri)
			})
		}
	})

	t.Run("unlock after send", func(t *testing.T) {
		fixtures := []struct {
			policy      UnlockMetadataPolicy
			metadata    []byte
			metadataUri []byte
		}{
			{UnlockMetadataPurge, nil, nil},
			{UnlockMetadataRetain, []byte("new meta"), []byte("ipfs://new")},
		}
		for _, f := range fixtures {
			t.Run(string(f.policy), func(t *testing.T) {
				cfg := testConfig()
				cfg.UnlockMetadataPolicy = f.policy
				bridge := newTestBridge(t, cfg, nil, nil)
				bridge.mint(t, testKey, alice)

				_, err := bridge.svc.SendNft(
					ctx, domain.SignedOrigin(alice), testKey, siblingParaId,
					[]byte("new meta"), []byte("ipfs://new"),
				)
				require.NoError(t, err)
				require.NoError(t, bridge.svc.UnlockNft(ctx, testKey, alice))

				owner, err := bridge.svc.GetOwner(ctx, testKey)
				require.NoError(t, err)
				require.NotNil(t, owner)
				require.Equal(t, alice, *owner)

				metadata, err := bridge.svc.GetMetadata(ctx, testKey)
				require.NoError(t, err)
				require.Equal(t, f.metadata, metadata)
				uri, err := bridge.svc.GetMetadataUri(ctx, testKey)
				require.NoError(t, err)
				require.Equal(t, f.metadataUri, uri)
			})
		}
	})

	t.Run("invalid", func(t *testing.T) {
		bridge := newTestBridge(t, testConfig(), nil, nil)
		bridge.mint(t, testKey, alice)

		err := bridge.svc.LockNft(ctx, testKey, bob)
		require.Error(t, err)
		require.True(t, errors.NOT_OWNER.Is(err))

		err = bridge.svc.LockNft(ctx, domain.NewAssetKey(1, 1), alice)
		require.Error(t, err)
		require.True(t, errors.NFT_NOT_FOUND.Is(err))

		err = bridge.svc.UnlockNft(ctx, testKey, bob)
		require.Error(t, err)
		require.True(t, errors.NFT_NOT_FOUND.Is(err))

		bridge.requireUntouched(t, testKey, alice)
	})
}

func TestGetInfo(t *testing.T) {
	cfg := testConfig()
	cfg.AllowedDestinations = []domain.ParaId{siblingParaId, otherParaId}
	cfg.UnlockMetadataPolicy = UnlockMetadataRetain
	bridge := newTestBridge(t, cfg, nil, nil)

	info := bridge.svc.GetInfo(context.Background())
	require.NotNil(t, info)
	require.Equal(t, uint32(ownParaId), info.ParaId)
	require.Equal(t, domain.DefaultPalletIndex, info.PalletIndex)
	require.Equal(t, []uint32{uint32(siblingParaId), uint32(otherParaId)}, info.AllowedDestinations)
	require.Equal(t, string(UnlockMetadataRetain), info.UnlockMetadataPolicy)
	require.Zero(t, info.PendingTransferTTL)
	require.Equal(t, domain.MaxMetadataLen, info.MaxMetadataLen)
	require.Equal(t, domain.MaxMetadataUriLen, info.MaxMetadataUriLen)
}

func TestOperationMetrics(t *testing.T) {
	ctx := context.Background()
	metrics := newMockMetrics()
	bridge := newTestBridge(t, testConfig(), nil, metrics)
	bridge.mint(t, testKey, alice)

	_, err := bridge.svc.SendNft(
		ctx, domain.SignedOrigin(bob), testKey, siblingParaId, []byte("meta"), nil,
	)
	require.Error(t, err)
	metrics.AssertCalled(t, "ObserveOperation", "send_nft", "NOT_OWNER", mock.Anything)

	_, err = bridge.svc.SendNft(
		ctx, domain.SignedOrigin(alice), testKey, siblingParaId, []byte("meta"), nil,
	)
	require.NoError(t, err)
	metrics.AssertCalled(t, "ObserveOperation", "send_nft", "", mock.Anything)

	waitForEvent(t, bridge.svc.GetEventsChannel(ctx))
	metrics.AssertCalled(t, "ObserveEvent", domain.EventTypeNFTSent.String())
}
