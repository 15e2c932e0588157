package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	nftbridgev1 "github.com/arkade-os/nftbridge/api-spec/nftbridge/v1"
	"github.com/urfave/cli/v2"
)

var (
	infoCommand = cli.Command{
		Name:   "info",
		Usage:  "Shows the bridge configuration",
		Flags:  []cli.Flag{urlFlag, datadirFlag},
		Action: info,
	}
	ownerCommand = cli.Command{
		Name:   "owner",
		Usage:  "Shows the owner of an NFT",
		Flags:  []cli.Flag{urlFlag, datadirFlag, collectionFlag, itemFlag},
		Action: owner,
	}
	pendingCommand = cli.Command{
		Name:   "pending",
		Usage:  "Shows the pending transfer of an NFT",
		Flags:  []cli.Flag{urlFlag, datadirFlag, collectionFlag, itemFlag},
		Action: pendingTransfer,
	}
	metadataCommand = cli.Command{
		Name:   "metadata",
		Usage:  "Shows the metadata and metadata uri of an NFT",
		Flags:  []cli.Flag{urlFlag, datadirFlag, collectionFlag, itemFlag},
		Action: nftMetadata,
	}
	sendCommand = cli.Command{
		Name:  "send",
		Usage: "Sends an NFT to another ledger, signing the request with the owner key",
		Flags: []cli.Flag{
			urlFlag, datadirFlag, collectionFlag, itemFlag, destParaIdFlag,
			metadataFlag, metadataUriFlag, prvkeyFlag, expiryFlag,
		},
		Action: send,
	}
	eventsCommand = cli.Command{
		Name:   "events",
		Usage:  "Streams bridge events",
		Flags:  []cli.Flag{urlFlag, datadirFlag, assetsFlag},
		Action: streamEvents,
	}
	adminCommand = cli.Command{
		Name:  "admin",
		Usage: "Privileged operations, served on the admin port",
		Subcommands: []*cli.Command{
			{
				Name:  "mint",
				Usage: "Mints an NFT owned by the given account",
				Flags: []cli.Flag{
					adminUrlFlag, datadirFlag, macaroonFlag, collectionFlag, itemFlag, ownerFlag,
					metadataFlag, metadataUriFlag,
				},
				Action: mint,
			},
			{
				Name:  "receive",
				Usage: "Delivers an NFT coming from another ledger, as the relayer of --from-para-id " +
					"unless --macaroon is given",
				Flags: []cli.Flag{
					adminUrlFlag, datadirFlag, macaroonFlag, collectionFlag, itemFlag,
					fromParaIdFlag, recipientFlag(true), metadataFlag, metadataUriFlag,
				},
				Action: receive,
			},
			{
				Name:  "unlock",
				Usage: "Rolls back a pending transfer, to the sender unless a recipient is given",
				Flags: []cli.Flag{
					adminUrlFlag, datadirFlag, macaroonFlag, collectionFlag, itemFlag,
					recipientFlag(false),
				},
				Action: unlock,
			},
			{
				Name:   "pending",
				Usage:  "Lists pending transfers",
				Flags:  []cli.Flag{adminUrlFlag, datadirFlag, macaroonFlag, createdBeforeFlag},
				Action: listPendingTransfers,
			},
			{
				Name:   "events",
				Usage:  "Lists stored bridge events",
				Flags:  []cli.Flag{adminUrlFlag, datadirFlag, macaroonFlag, afterSeqFlag, limitFlag},
				Action: listEvents,
			},
		},
	}
)

func info(ctx *cli.Context) error {
	client, cancel, err := bridgeClient(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	reqCtx, done := context.WithTimeout(ctx.Context, timeout)
	defer done()
	resp, err := client.GetInfo(reqCtx, &nftbridgev1.GetInfoRequest{})
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func owner(ctx *cli.Context) error {
	client, cancel, err := bridgeClient(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	reqCtx, done := context.WithTimeout(ctx.Context, timeout)
	defer done()
	resp, err := client.GetOwner(reqCtx, &nftbridgev1.GetOwnerRequest{
		CollectionId: uint32(ctx.Uint(collectionFlagName)),
		ItemId:       uint32(ctx.Uint(itemFlagName)),
	})
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func pendingTransfer(ctx *cli.Context) error {
	client, cancel, err := bridgeClient(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	reqCtx, done := context.WithTimeout(ctx.Context, timeout)
	defer done()
	resp, err := client.GetPendingTransfer(reqCtx, &nftbridgev1.GetPendingTransferRequest{
		CollectionId: uint32(ctx.Uint(collectionFlagName)),
		ItemId:       uint32(ctx.Uint(itemFlagName)),
	})
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func nftMetadata(ctx *cli.Context) error {
	client, cancel, err := bridgeClient(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	reqCtx, done := context.WithTimeout(ctx.Context, timeout)
	defer done()
	resp, err := client.GetMetadata(reqCtx, &nftbridgev1.GetMetadataRequest{
		CollectionId: uint32(ctx.Uint(collectionFlagName)),
		ItemId:       uint32(ctx.Uint(itemFlagName)),
	})
	if err != nil {
		return err
	}

	var uri *string
	if resp.MetadataUri != nil {
		str := string(resp.MetadataUri)
		uri = &str
	}
	return printJSON(map[string]any{
		"metadata":     string(resp.Metadata),
		"metadata_uri": uri,
	})
}

func send(ctx *cli.Context) error {
	key, err := parsePrivateKey(ctx)
	if err != nil {
		return err
	}

	metadata, metadataUri := readMetadata(ctx)
	req := &nftbridgev1.SendNftRequest{
		CollectionId: uint32(ctx.Uint(collectionFlagName)),
		ItemId:       uint32(ctx.Uint(itemFlagName)),
		DestParaId:   uint32(ctx.Uint(destParaIdFlagName)),
		Metadata:     metadata,
		MetadataUri:  metadataUri,
		ExpiresAt:    time.Now().Add(ctx.Duration(expiryFlagName)).Unix(),
	}
	if err := req.Sign(key); err != nil {
		return err
	}

	client, cancel, err := bridgeClient(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	reqCtx, done := context.WithTimeout(ctx.Context, timeout)
	defer done()
	resp, err := client.SendNft(reqCtx, req)
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func streamEvents(ctx *cli.Context) error {
	client, cancel, err := bridgeClient(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	stream, err := client.GetEventStream(ctx.Context, &nftbridgev1.GetEventStreamRequest{
		Assets: ctx.StringSlice(assetsFlagName),
	})
	if err != nil {
		return err
	}

	for {
		resp, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if resp.Event == nil {
			continue
		}
		if err := printJSON(resp.Event); err != nil {
			return err
		}
	}
}

func mint(ctx *cli.Context) error {
	client, reqCtx, cancel, err := adminClient(ctx, adminMacaroonFile)
	if err != nil {
		return err
	}
	defer cancel()

	metadata, metadataUri := readMetadata(ctx)
	if _, err := client.MintNft(reqCtx, &nftbridgev1.MintNftRequest{
		CollectionId: uint32(ctx.Uint(collectionFlagName)),
		ItemId:       uint32(ctx.Uint(itemFlagName)),
		Owner:        ctx.String(ownerFlagName),
		Metadata:     metadata,
		MetadataUri:  metadataUri,
	}); err != nil {
		return err
	}
	return printJSON(map[string]string{"status": "minted"})
}

func receive(ctx *cli.Context) error {
	fromParaId := uint32(ctx.Uint(fromParaIdFlagName))
	client, reqCtx, cancel, err := adminClient(
		ctx, fmt.Sprintf("relayer-%d.macaroon", fromParaId),
	)
	if err != nil {
		return err
	}
	defer cancel()

	metadata, metadataUri := readMetadata(ctx)
	if _, err := client.ReceiveNft(reqCtx, &nftbridgev1.ReceiveNftRequest{
		CollectionId: uint32(ctx.Uint(collectionFlagName)),
		ItemId:       uint32(ctx.Uint(itemFlagName)),
		FromParaId:   fromParaId,
		Recipient:    ctx.String(recipientFlagName),
		Metadata:     metadata,
		MetadataUri:  metadataUri,
	}); err != nil {
		return err
	}
	return printJSON(map[string]string{"status": "received"})
}

func unlock(ctx *cli.Context) error {
	client, reqCtx, cancel, err := adminClient(ctx, adminMacaroonFile)
	if err != nil {
		return err
	}
	defer cancel()

	if _, err := client.UnlockNft(reqCtx, &nftbridgev1.UnlockNftRequest{
		CollectionId: uint32(ctx.Uint(collectionFlagName)),
		ItemId:       uint32(ctx.Uint(itemFlagName)),
		Recipient:    ctx.String(recipientFlagName),
	}); err != nil {
		return err
	}
	return printJSON(map[string]string{"status": "unlocked"})
}

func listPendingTransfers(ctx *cli.Context) error {
	client, reqCtx, cancel, err := adminClient(ctx, adminMacaroonFile)
	if err != nil {
		return err
	}
	defer cancel()

	resp, err := client.ListPendingTransfers(reqCtx, &nftbridgev1.ListPendingTransfersRequest{
		CreatedBefore: ctx.Int64(createdBeforeFlagName),
	})
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func listEvents(ctx *cli.Context) error {
	client, reqCtx, cancel, err := adminClient(ctx, adminMacaroonFile)
	if err != nil {
		return err
	}
	defer cancel()

	resp, err := client.ListEvents(reqCtx, &nftbridgev1.ListEventsRequest{
		AfterSeq: ctx.Uint64(afterSeqFlagName),
		Limit:    int32(ctx.Int(limitFlagName)),
	})
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func bridgeClient(ctx *cli.Context) (nftbridgev1.BridgeServiceClient, func(), error) {
	_, tlsConfig, err := getCredentials(ctx, "")
	if err != nil {
		return nil, nil, err
	}
	conn, err := dial(ctx, tlsConfig)
	if err != nil {
		return nil, nil, err
	}
	// nolint:all
	return nftbridgev1.NewBridgeServiceClient(conn), func() { conn.Close() }, nil
}

func adminClient(
	ctx *cli.Context, macaroonFilename string,
) (nftbridgev1.AdminServiceClient, context.Context, func(), error) {
	mac, tlsConfig, err := getCredentials(ctx, macaroonFilename)
	if err != nil {
		return nil, nil, nil, err
	}
	conn, err := dial(ctx, tlsConfig)
	if err != nil {
		return nil, nil, nil, err
	}

	reqCtx, cancel := context.WithTimeout(withMacaroon(ctx.Context, mac), timeout)
	return nftbridgev1.NewAdminServiceClient(conn), reqCtx, func() {
		cancel()
		// nolint:all
		conn.Close()
	}, nil
}
