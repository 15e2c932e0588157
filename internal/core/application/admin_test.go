package application

import (
	"context"
	"testing"
	"time"

	"github.com/arkade-os/nftbridge/internal/core/domain"
	"github.com/arkade-os/nftbridge/internal/core/ports"
	"github.com/arkade-os/nftbridge/pkg/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockScheduler struct {
	mock.Mock
}

func (m *mockScheduler) Start() { m.Called() }
func (m *mockScheduler) Stop()  { m.Called() }

func (m *mockScheduler) ScheduleTaskOnce(at int64, task func()) error {
	args := m.Called(at, task)
	return args.Error(0)
}

func (m *mockScheduler) ScheduleTaskEvery(interval time.Duration, task func()) error {
	args := m.Called(interval, task)
	return args.Error(0)
}

type mockAlerts struct {
	mock.Mock
}

func (m *mockAlerts) Publish(ctx context.Context, topic ports.Topic, message interface{}) error {
	args := m.Called(ctx, topic, message)
	return args.Error(0)
}

type foreignService struct {
	Service
}

func TestNewAdminService(t *testing.T) {
	bridge := newTestBridge(t, testConfig(), nil, nil)

	_, err := NewAdminService(bridge.repo, foreignService{})
	require.Error(t, err)

	_, err = NewAdminService(bridge.repo, nil)
	require.Error(t, err)

	_, err = NewAdminService(nil, bridge.svc)
	require.Error(t, err)

	admin, err := NewAdminService(bridge.repo, bridge.svc)
	require.NoError(t, err)
	require.NotNil(t, admin)
}

func TestMintNft(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		bridge := newTestBridge(t, testConfig(), nil, nil)

		require.NoError(t, bridge.admin.MintNft(ctx, testKey, alice, nil, nil))

		owner, err := bridge.svc.GetOwner(ctx, testKey)
		require.NoError(t, err)
		require.NotNil(t, owner)
		require.Equal(t, alice, *owner)

		metadata, err := bridge.svc.GetMetadata(ctx, testKey)
		require.NoError(t, err)
		require.Nil(t, metadata)

		events, err := bridge.admin.ListEvents(ctx, 0, 0)
		require.NoError(t, err)
		require.Empty(t, events)
	})

	t.Run("invalid", func(t *testing.T) {
		bridge := newTestBridge(t, testConfig(), nil, nil)
		bridge.mint(t, testKey, alice)

		err := bridge.admin.MintNft(ctx, testKey, bob, nil, nil)
		require.Error(t, err)
		require.True(t, errors.NFT_ALREADY_EXISTS.Is(err))

		_, err = bridge.svc.SendNft(
			ctx, domain.SignedOrigin(alice), testKey, siblingParaId, []byte("meta"), nil,
		)
		require.NoError(t, err)

		err = bridge.admin.MintNft(ctx, testKey, bob, nil, nil)
		require.Error(t, err)
		require.True(t, errors.NFT_ALREADY_EXISTS.Is(err))

		owner, err := bridge.svc.GetOwner(ctx, testKey)
		require.NoError(t, err)
		require.Nil(t, owner)
	})
}

func TestForceUnlock(t *testing.T) {
	ctx := context.Background()
	bridge := newTestBridge(t, testConfig(), nil, nil)
	bridge.mint(t, testKey, alice)

	err := bridge.admin.ForceUnlock(ctx, testKey, alice)
	require.Error(t, err)
	require.True(t, errors.NFT_NOT_FOUND.Is(err))

	_, err = bridge.svc.SendNft(
		ctx, domain.SignedOrigin(alice), testKey, siblingParaId, []byte("meta"), nil,
	)
	require.NoError(t, err)

	require.NoError(t, bridge.admin.ForceUnlock(ctx, testKey, alice))

	owner, err := bridge.svc.GetOwner(ctx, testKey)
	require.NoError(t, err)
	require.NotNil(t, owner)
	require.Equal(t, alice, *owner)

	pending, err := bridge.svc.GetPendingTransfer(ctx, testKey)
	require.NoError(t, err)
	require.Nil(t, pending)

	metadata, err := bridge.svc.GetMetadata(ctx, testKey)
	require.NoError(t, err)
	require.Nil(t, metadata)
	uri, err := bridge.svc.GetMetadataUri(ctx, testKey)
	require.NoError(t, err)
	require.Nil(t, uri)
}

func TestListPendingTransfers(t *testing.T) {
	ctx := context.Background()
	bridge := newTestBridge(t, testConfig(), nil, nil)

	keys := []domain.AssetKey{
		domain.NewAssetKey(1, 1), domain.NewAssetKey(1, 2), domain.NewAssetKey(2, 1),
	}
	for _, key := range keys {
		bridge.mint(t, key, alice)
		_, err := bridge.svc.SendNft(
			ctx, domain.SignedOrigin(alice), key, siblingParaId, []byte("meta"), nil,
		)
		require.NoError(t, err)
	}

	transfers, err := bridge.admin.ListPendingTransfers(ctx, 0)
	require.NoError(t, err)
	require.Len(t, transfers, len(keys))

	transfers, err = bridge.admin.ListPendingTransfers(ctx, time.Now().Add(-time.Hour).Unix())
	require.NoError(t, err)
	require.Empty(t, transfers)

	transfers, err = bridge.admin.ListPendingTransfers(ctx, time.Now().Add(time.Hour).Unix())
	require.NoError(t, err)
	require.Len(t, transfers, len(keys))
}

func TestListEvents(t *testing.T) {
	ctx := context.Background()
	bridge := newTestBridge(t, testConfig(), nil, nil)

	keys := []domain.AssetKey{
		domain.NewAssetKey(1, 1), domain.NewAssetKey(1, 2), domain.NewAssetKey(2, 1),
	}
	for _, key := range keys {
		require.NoError(t, bridge.svc.ReceiveNft(
			ctx, domain.RootOrigin(), key, siblingParaId, bob, nil, nil,
		))
	}

	events, err := bridge.admin.ListEvents(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, events, len(keys))
	for i, event := range events {
		received, ok := event.Event.(domain.NFTReceived)
		require.True(t, ok)
		require.Equal(t, keys[i].String(), received.Id)
		if i > 0 {
			require.Greater(t, event.Seq, events[i-1].Seq)
		}
	}

	page, err := bridge.admin.ListEvents(ctx, events[0].Seq, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, events[1].Seq, page[0].Seq)

	page, err = bridge.admin.ListEvents(ctx, events[len(events)-1].Seq, 0)
	require.NoError(t, err)
	require.Empty(t, page)
}

func TestPendingTransferExpiry(t *testing.T) {
	ctx := context.Background()

	var sweep, expireFresh func()
	var freshExpiresAt int64
	scheduler := &mockScheduler{}
	scheduler.On("Start").Return()
	scheduler.On("Stop").Return()
	scheduler.On("ScheduleTaskEvery", time.Minute, mock.Anything).
		Run(func(args mock.Arguments) {
			sweep = args.Get(1).(func())
		}).
		Return(nil)
	scheduler.On("ScheduleTaskOnce", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			freshExpiresAt = args.Get(0).(int64)
			expireFresh = args.Get(1).(func())
		}).
		Return(nil).
		Once()

	cfg := testConfig()
	cfg.PendingTransferTTL = time.Hour
	cfg.PendingSweepInterval = time.Minute
	bridge := newTestBridge(t, cfg, scheduler, nil)
	require.NotNil(t, sweep)
	scheduler.AssertCalled(t, "Start")

	staleKey := domain.NewAssetKey(1, 1)
	freshKey := domain.NewAssetKey(1, 2)
	bridge.mint(t, staleKey, alice)
	bridge.mint(t, freshKey, alice)

	_, err := bridge.svc.SendNft(
		ctx, domain.SignedOrigin(alice), freshKey, siblingParaId, []byte("meta"), nil,
	)
	require.NoError(t, err)

	err = bridge.repo.Ledger().RunInTx(ctx, func(ctx context.Context, tx domain.LedgerTx) error {
		if err := tx.ClearOwner(ctx, staleKey); err != nil {
			return err
		}
		return tx.SetPendingTransfer(ctx, domain.PendingTransfer{
			Key:         staleKey,
			Destination: domain.SiblingParachain(siblingParaId),
			DestParaId:  siblingParaId,
			Sender:      alice,
			CreatedAt:   time.Now().Add(-2 * time.Hour).Unix(),
		})
	})
	require.NoError(t, err)

	sweep()

	owner, err := bridge.svc.GetOwner(ctx, staleKey)
	require.NoError(t, err)
	require.NotNil(t, owner)
	require.Equal(t, alice, *owner)
	pending, err := bridge.svc.GetPendingTransfer(ctx, staleKey)
	require.NoError(t, err)
	require.Nil(t, pending)
	metadata, err := bridge.svc.GetMetadata(ctx, staleKey)
	require.NoError(t, err)
	require.Nil(t, metadata)

	owner, err = bridge.svc.GetOwner(ctx, freshKey)
	require.NoError(t, err)
	require.Nil(t, owner)
	pending, err = bridge.svc.GetPendingTransfer(ctx, freshKey)
	require.NoError(t, err)
	require.NotNil(t, pending)

	// the one-shot job of the fresh transfer fires at its expiry instant
	require.NotNil(t, expireFresh)
	require.Equal(t, pending.CreatedAt+int64(time.Hour.Seconds()), freshExpiresAt)
	expireFresh()

	owner, err = bridge.svc.GetOwner(ctx, freshKey)
	require.NoError(t, err)
	require.NotNil(t, owner)
	require.Equal(t, alice, *owner)
	pending, err = bridge.svc.GetPendingTransfer(ctx, freshKey)
	require.NoError(t, err)
	require.Nil(t, pending)

	info := bridge.svc.GetInfo(ctx)
	require.Equal(t, int64(time.Hour.Seconds()), info.PendingTransferTTL)
}

func TestSentAlert(t *testing.T) {
	ctx := context.Background()
	bridge := newTestBridge(t, testConfig(), nil, nil)
	bridge.mint(t, testKey, alice)

	published := make(chan ports.TransferAlert, 1)
	alerts := &mockAlerts{}
	alerts.On("Publish", mock.Anything, ports.NFTSent, mock.Anything).
		Run(func(args mock.Arguments) {
			published <- args.Get(2).(ports.TransferAlert)
		}).
		Return(nil)
	bridge.svc.alerts = alerts

	hash, err := bridge.svc.SendNft(
		ctx, domain.SignedOrigin(alice), testKey, siblingParaId, []byte("meta"), nil,
	)
	require.NoError(t, err)

	select {
	case alert := <-published:
		require.Equal(t, testKey.String(), alert.Asset)
		require.Equal(t, uint32(siblingParaId), alert.ParaId)
		require.Equal(t, alice.String(), alert.Account)
		require.Equal(t, hash.String(), alert.XcmHash)
		require.NotZero(t, alert.OccurredAt)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for alert")
	}
}

func TestExpirePendingTransferChanged(t *testing.T) {
	ctx := context.Background()
	bridge := newTestBridge(t, testConfig(), nil, nil)
	bridge.mint(t, testKey, alice)

	_, err := bridge.svc.SendNft(
		ctx, domain.SignedOrigin(alice), testKey, siblingParaId, []byte("meta"), nil,
	)
	require.NoError(t, err)

	pending, err := bridge.svc.GetPendingTransfer(ctx, testKey)
	require.NoError(t, err)
	require.NotNil(t, pending)

	listed := *pending
	listed.CreatedAt--
	expired, err := bridge.svc.expirePendingTransfer(ctx, listed)
	require.NoError(t, err)
	require.False(t, expired)

	expired, err = bridge.svc.expirePendingTransfer(ctx, *pending)
	require.NoError(t, err)
	require.True(t, expired)

	owner, err := bridge.svc.GetOwner(ctx, testKey)
	require.NoError(t, err)
	require.NotNil(t, owner)
	require.Equal(t, alice, *owner)
}
