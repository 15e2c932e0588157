package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/urfave/cli/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"gopkg.in/macaroon.v2"
)

const (
	timeout              = 15 * time.Second
	defaultRequestExpiry = 5 * time.Minute
)

// getCredentials returns the macaroon and the TLS config to reach the daemon. An explicit
// --macaroon wins over the file stored in the datadir.
func getCredentials(
	ctx *cli.Context, macaroonFilename string,
) (mac string, tlsConfig *tls.Config, err error) {
	datadir := ctx.String(datadirFlagName)

	if mac = stringFlag(ctx, macaroonFlagName); mac == "" && macaroonFilename != "" {
		macaroonPath := filepath.Join(datadir, macaroonDir, macaroonFilename)
		if _, err := os.Stat(macaroonPath); err == nil {
			mac, err = getMacaroon(macaroonPath)
			if err != nil {
				return "", nil, fmt.Errorf("failed to read macaroon: %w", err)
			}
		}
	}

	tlsCertPath := filepath.Join(datadir, tlsDir, tlsCertFile)
	if _, err := os.Stat(tlsCertPath); err == nil {
		tlsConfig, err = getTLSConfig(tlsCertPath)
		if err != nil {
			return "", nil, fmt.Errorf("failed to get tls config: %s", err)
		}
	}

	return
}

func dial(ctx *cli.Context, tlsConfig *tls.Config) (*grpc.ClientConn, error) {
	creds := insecure.NewCredentials()
	if tlsConfig != nil {
		creds = credentials.NewTLS(tlsConfig)
	}
	conn, err := grpc.NewClient(
		ctx.String(urlFlagName), grpc.WithTransportCredentials(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %s", ctx.String(urlFlagName), err)
	}
	return conn, nil
}

func withMacaroon(ctx context.Context, mac string) context.Context {
	if mac == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, "macaroon", mac)
}

// readMetadata returns a nil uri if the flag is unset, so an empty --metadata-uri is kept.
func readMetadata(ctx *cli.Context) (data, uri []byte) {
	data = []byte(ctx.String(metadataFlagName))
	if ctx.IsSet(metadataUriFlagName) {
		uri = []byte(ctx.String(metadataUriFlagName))
	}
	return
}

func parsePrivateKey(ctx *cli.Context) (*btcec.PrivateKey, error) {
	prvkeyHex := stringFlag(ctx, prvkeyFlagName)
	if prvkeyHex == "" {
		return nil, fmt.Errorf("missing private key")
	}
	buf, err := hex.DecodeString(prvkeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %s", err)
	}
	if len(buf) != btcec.PrivKeyBytesLen {
		return nil, fmt.Errorf(
			"invalid private key: must be %d bytes, got %d", btcec.PrivKeyBytesLen, len(buf),
		)
	}
	key, _ := btcec.PrivKeyFromBytes(buf)
	return key, nil
}

func getMacaroon(path string) (string, error) {
	macBytes, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read macaroon %s: %s", path, err)
	}
	mac := &macaroon.Macaroon{}
	if err := mac.UnmarshalBinary(macBytes); err != nil {
		return "", fmt.Errorf("failed to parse macaroon %s: %s", path, err)
	}

	return hex.EncodeToString(macBytes), nil
}

func getTLSConfig(path string) (*tls.Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	caCertPool := x509.NewCertPool()
	if ok := caCertPool.AppendCertsFromPEM(buf); !ok {
		return nil, fmt.Errorf("failed to parse tls cert")
	}

	return &tls.Config{
		MinVersion: tls.VersionTLS12,
		RootCAs:    caCertPool,
	}, nil
}

func printJSON(resp interface{}) error {
	jsonBytes, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		return err
	}
	fmt.Println(string(jsonBytes))
	return nil
}
