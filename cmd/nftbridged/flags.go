package main

import (
	"fmt"

	"github.com/arkade-os/nftbridge/internal/config"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/urfave/cli/v2"
)

const (
	urlFlagName           = "url"
	datadirFlagName       = "datadir"
	macaroonFlagName      = "macaroon"
	collectionFlagName    = "collection"
	itemFlagName          = "item"
	ownerFlagName         = "owner"
	recipientFlagName     = "recipient"
	destParaIdFlagName    = "dest-para-id"
	fromParaIdFlagName    = "from-para-id"
	metadataFlagName      = "metadata"
	metadataUriFlagName   = "metadata-uri"
	prvkeyFlagName        = "prvkey"
	expiryFlagName        = "expiry"
	createdBeforeFlagName = "created-before"
	afterSeqFlagName      = "after-seq"
	limitFlagName         = "limit"
	assetsFlagName        = "assets"

	macaroonDir       = "macaroons"
	adminMacaroonFile = "admin.macaroon"
	tlsDir            = "tls"
	tlsCertFile       = "cert.pem"
)

var (
	urlFlag = &cli.StringFlag{
		Name:  urlFlagName,
		Usage: "the address (host:port) where to reach nftbridged",
		Value: fmt.Sprintf("127.0.0.1:%d", config.DefaultPort),
	}
	adminUrlFlag = &cli.StringFlag{
		Name:  urlFlagName,
		Usage: "the address (host:port) where to reach the nftbridged admin service",
		Value: fmt.Sprintf("127.0.0.1:%d", config.DefaultAdminPort),
	}
	datadirFlag = &cli.StringFlag{
		Name:  datadirFlagName,
		Usage: "nftbridged datadir from where to source TLS cert and macaroon if needed",
		Value: btcutil.AppDataDir("nftbridged", false),
	}
	macaroonFlag = &cli.StringFlag{
		Name:  macaroonFlagName,
		Usage: "macaroon in hex format used for authenticated requests",
	}
	collectionFlag = &cli.UintFlag{
		Name:     collectionFlagName,
		Usage:    "collection id of the NFT",
		Required: true,
	}
	itemFlag = &cli.UintFlag{
		Name:     itemFlagName,
		Usage:    "item id of the NFT",
		Required: true,
	}
	ownerFlag = &cli.StringFlag{
		Name:     ownerFlagName,
		Usage:    "hex encoded 32-byte account owning the minted NFT",
		Required: true,
	}
	recipientFlag = func(required bool) *cli.StringFlag {
		return &cli.StringFlag{
			Name:     recipientFlagName,
			Usage:    "hex encoded 32-byte account receiving the NFT",
			Required: required,
		}
	}
	destParaIdFlag = &cli.UintFlag{
		Name:     destParaIdFlagName,
		Usage:    "id of the ledger to send the NFT to",
		Required: true,
	}
	fromParaIdFlag = &cli.UintFlag{
		Name:     fromParaIdFlagName,
		Usage:    "id of the ledger the NFT comes from",
		Required: true,
	}
	metadataFlag = &cli.StringFlag{
		Name:  metadataFlagName,
		Usage: "metadata attached to the NFT",
	}
	metadataUriFlag = &cli.StringFlag{
		Name:  metadataUriFlagName,
		Usage: "metadata uri attached to the NFT",
	}
	prvkeyFlag = &cli.StringFlag{
		Name:  prvkeyFlagName,
		Usage: "hex encoded private key of the owner, used to sign the request",
	}
	expiryFlag = &cli.DurationFlag{
		Name:  expiryFlagName,
		Usage: "validity of the signed request",
		Value: defaultRequestExpiry,
	}
	createdBeforeFlag = &cli.Int64Flag{
		Name:  createdBeforeFlagName,
		Usage: "only list transfers created before the given unix timestamp",
	}
	afterSeqFlag = &cli.Uint64Flag{
		Name:  afterSeqFlagName,
		Usage: "only list events with a greater sequence number",
	}
	limitFlag = &cli.IntFlag{
		Name:  limitFlagName,
		Usage: "max number of events to list",
		Value: 100,
	}
	assetsFlag = &cli.StringSliceFlag{
		Name:  assetsFlagName,
		Usage: "only stream events of the given <collection>:<item> assets",
	}
)
