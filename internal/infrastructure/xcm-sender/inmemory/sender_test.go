package inmemoryxcm_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/arkade-os/nftbridge/internal/core/domain"
	inmemoryxcm "github.com/arkade-os/nftbridge/internal/infrastructure/xcm-sender/inmemory"
	"github.com/stretchr/testify/require"
)

func TestSender(t *testing.T) {
	ctx := context.Background()
	msg := domain.BuildTransferMessage(
		domain.DefaultTransferMessageConfig(),
		domain.NewAssetKey(1, 1),
		domain.SiblingParachain(2000),
		domain.AccountId{1},
	)

	t.Run("valid", func(t *testing.T) {
		sender := inmemoryxcm.NewSender()

		hash, err := sender.SendXcm(ctx, domain.SiblingParachain(2000), msg)
		require.NoError(t, err)

		expectedHash, err := msg.Hash()
		require.NoError(t, err)
		require.Equal(t, expectedHash, hash)

		sent := sender.Sent(2000)
		require.Len(t, sent, 1)
		require.Equal(t, hash, sent[0].Hash)
		require.Equal(t, msg, sent[0].Message)
		require.Empty(t, sender.Sent(3000))

		sender.Close()
		require.Empty(t, sender.Sent(2000))
	})

	t.Run("invalid", func(t *testing.T) {
		sender := inmemoryxcm.NewSender()

		_, err := sender.SendXcm(ctx, domain.Here(1), msg)
		require.Error(t, err)

		sender.FailWith(fmt.Errorf("transport down"))
		_, err = sender.SendXcm(ctx, domain.SiblingParachain(2000), msg)
		require.EqualError(t, err, "transport down")
		require.Empty(t, sender.Sent(2000))

		sender.FailWith(nil)
		_, err = sender.SendXcm(ctx, domain.SiblingParachain(2000), msg)
		require.NoError(t, err)
		require.Len(t, sender.Sent(2000), 1)
	})
}
