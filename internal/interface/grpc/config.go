package grpcservice

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"
)

const tlsCertValidity = 14 * 30 * 24 * time.Hour

type Config struct {
	Datadir            string
	Port               uint32
	AdminPort          uint32
	NoTLS              bool
	NoMacaroons        bool
	TLSExtraIPs        []string
	TLSExtraDomains    []string
	HeartbeatInterval  int64
	MaxRequestValidity int64
	EnablePprof        bool
}

func (c Config) Validate() error {
	lis, err := net.Listen("tcp", c.address())
	if err != nil {
		return fmt.Errorf("invalid port: %s", err)
	}
	// nolint:all
	lis.Close()

	if c.hasAdminPort() {
		lis, err := net.Listen("tcp", c.adminAddress())
		if err != nil {
			return fmt.Errorf("invalid admin port: %s", err)
		}
		// nolint:all
		lis.Close()
	}

	for _, ip := range c.TLSExtraIPs {
		if net.ParseIP(ip) == nil {
			return fmt.Errorf("invalid tls extra ip %q", ip)
		}
	}
	if c.HeartbeatInterval <= 0 {
		return fmt.Errorf("heartbeat interval must be greater than 0")
	}
	if c.MaxRequestValidity <= 0 {
		return fmt.Errorf("max request validity must be greater than 0")
	}
	return nil
}

func (c Config) insecure() bool {
	return c.NoTLS
}

func (c Config) address() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c Config) adminAddress() string {
	return fmt.Sprintf(":%d", c.AdminPort)
}

func (c Config) hasAdminPort() bool {
	return c.AdminPort > 0 && c.AdminPort != c.Port
}

func (c Config) heartbeat() time.Duration {
	return time.Duration(c.HeartbeatInterval) * time.Second
}

func (c Config) maxRequestValidity() time.Duration {
	return time.Duration(c.MaxRequestValidity) * time.Second
}

func (c Config) tlsDatadir() string {
	return filepath.Join(c.Datadir, tlsFolder)
}

func (c Config) macaroonsDatadir() string {
	return filepath.Join(c.Datadir, macaroonsFolder)
}

func (c Config) tlsConfig() (*tls.Config, error) {
	if c.insecure() {
		return nil, nil
	}

	cert, err := tls.LoadX509KeyPair(
		filepath.Join(c.tlsDatadir(), tlsCertFile), filepath.Join(c.tlsDatadir(), tlsKeyFile),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS key pair: %s", err)
	}

	return &tls.Config{
		MinVersion:   tls.VersionTLS12,
		NextProtos:   []string{"h2", "http/1.1"},
		Certificates: []tls.Certificate{cert},
	}, nil
}

// generateOperatorTLSKeyCert creates a self-signed key pair in datadir unless one exists.
func generateOperatorTLSKeyCert(datadir string, extraIPs, extraDomains []string) error {
	keyPath := filepath.Join(datadir, tlsKeyFile)
	certPath := filepath.Join(datadir, tlsCertFile)
	if pathExists(keyPath) && pathExists(certPath) {
		return nil
	}

	if err := makeDirectoryIfNotExists(datadir); err != nil {
		return err
	}

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("failed to generate TLS key: %s", err)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return fmt.Errorf("failed to generate TLS serial number: %s", err)
	}

	host, _ := os.Hostname()
	ips := []net.IP{net.ParseIP("127.0.0.1"), net.ParseIP("::1")}
	for _, ip := range extraIPs {
		if parsed := net.ParseIP(ip); parsed != nil {
			ips = append(ips, parsed)
		}
	}
	domains := []string{"localhost"}
	if host != "" && host != "localhost" {
		domains = append(domains, host)
	}
	domains = append(domains, extraDomains...)

	now := time.Now()
	template := &x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			Organization: []string{"nftbridged autogenerated cert"},
			CommonName:   domains[0],
		},
		NotBefore:             now.Add(-time.Hour),
		NotAfter:              now.Add(tlsCertValidity),
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		DNSNames:              domains,
		IPAddresses:           ips,
	}

	certBytes, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return fmt.Errorf("failed to create TLS cert: %s", err)
	}
	keyBytes, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return fmt.Errorf("failed to encode TLS key: %s", err)
	}

	if err := os.WriteFile(
		certPath, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certBytes}), 0644,
	); err != nil {
		return fmt.Errorf("failed to write TLS cert: %s", err)
	}
	if err := os.WriteFile(
		keyPath, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyBytes}), 0600,
	); err != nil {
		// nolint:all
		os.Remove(certPath)
		return fmt.Errorf("failed to write TLS key: %s", err)
	}
	return nil
}
