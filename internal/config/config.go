package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/arkade-os/nftbridge/internal/core/application"
	"github.com/arkade-os/nftbridge/internal/core/domain"
	"github.com/arkade-os/nftbridge/internal/core/ports"
	alertsmanager "github.com/arkade-os/nftbridge/internal/infrastructure/alertsmanager"
	"github.com/arkade-os/nftbridge/internal/infrastructure/db"
	"github.com/arkade-os/nftbridge/internal/infrastructure/metrics"
	staticorigin "github.com/arkade-os/nftbridge/internal/infrastructure/origin/static"
	timescheduler "github.com/arkade-os/nftbridge/internal/infrastructure/scheduler/gocron"
	inmemoryxcm "github.com/arkade-os/nftbridge/internal/infrastructure/xcm-sender/inmemory"
	redisxcm "github.com/arkade-os/nftbridge/internal/infrastructure/xcm-sender/redis"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var (
	supportedEventDbs = supportedType{
		"inmemory": {},
		"postgres": {},
	}
	supportedDbs = supportedType{
		"badger":   {},
		"leveldb":  {},
		"sqlite":   {},
		"postgres": {},
	}
	supportedXcmSenders = supportedType{
		"inmemory": {},
		"redis":    {},
	}
	supportedUnlockPolicies = supportedType{
		string(application.UnlockMetadataPurge):  {},
		string(application.UnlockMetadataRetain): {},
	}
)

type Config struct {
	Datadir         string
	Port            uint32
	AdminPort       uint32
	NoTLS           bool
	NoMacaroons     bool
	LogLevel        int
	TLSExtraIPs     []string
	TLSExtraDomains []string

	DbType       string
	EventDbType  string
	DbDir        string
	DbUrl        string
	EventDbUrl   string
	PgAutoCreate bool

	ParaId              uint32
	AllowedDestinations []uint32
	TrustedOrigins      []uint32
	PalletIndex         uint8
	XcmFeeAmount        uint64
	XcmWeightRefTime    uint64
	XcmWeightProofSize  uint64

	UnlockMetadataPolicy string
	PendingTransferTTL   int64
	PendingSweepInterval int64

	XcmSenderType       string
	RedisUrl            string
	RedisStreamMaxLen   int64
	RedisTxNumOfRetries int

	HeartbeatInterval     int64
	MaxRequestValidity    int64
	OtelCollectorEndpoint string
	OtelPushInterval      int64
	PyroscopeServerURL    string
	AlertManagerURL       string
	ExplorerURL           string
	EnablePprof           bool

	repo          ports.RepoManager
	svc           application.Service
	adminSvc      application.AdminService
	xcmSender     ports.XcmSender
	originChecker ports.OriginChecker
	scheduler     ports.SchedulerService
	alerts        ports.Alerts
	metrics       metrics.Service
}

func (c *Config) String() string {
	clone := *c
	clone.DbUrl = redact(clone.DbUrl)
	clone.EventDbUrl = redact(clone.EventDbUrl)
	clone.RedisUrl = redact(clone.RedisUrl)
	json, err := json.MarshalIndent(clone, "", "  ")
	if err != nil {
		return fmt.Sprintf("error while marshalling config JSON: %s", err)
	}
	return string(json)
}

var (
	defaultDatadir              = btcutil.AppDataDir("nftbridged", false)
	DefaultPort                 = 7070
	DefaultAdminPort            = 7071
	defaultDbType               = "badger"
	defaultEventDbType          = "inmemory"
	defaultXcmSenderType        = "inmemory"
	defaultRedisTxNumOfRetries  = 10
	defaultRedisStreamMaxLen    = 10000
	defaultLogLevel             = 4
	defaultNoMacaroons          = false
	defaultNoTLS                = true
	defaultParaId               = 1000
	defaultUnlockMetadataPolicy = string(application.UnlockMetadataPurge)
	defaultPendingTransferTTL   = 0 // disabled
	defaultPendingSweepInterval = 60
	defaultHeartbeatInterval    = 60
	defaultMaxRequestValidity   = 600
	defaultOtelPushInterval     = 10
	defaultEnablePprof          = false
)

// env returns a list of strings prefixed with `NFTBRIDGE_`.
// This is used as a syntax sugar for defining env vars.
func env(values ...string) []string {
	envs := make([]string, len(values))

	for i, value := range values {
		envs[i] = fmt.Sprintf("NFTBRIDGE_%s", value)
	}

	return envs
}

var (
	Datadir = &cli.StringFlag{
		Usage: "Directory to store data",
		Name:  "datadir", EnvVars: env("DATADIR"),
		Value: defaultDatadir,
	}

	Port = &cli.UintFlag{
		Usage: "Port (public) to listen on",
		Name:  "port", EnvVars: env("PORT"),
		Value: uint(DefaultPort),
	}

	AdminPort = &cli.UintFlag{
		Usage: "Admin port (private) to listen on, fallback to service port if 0",
		Name:  "admin-port", EnvVars: env("ADMIN_PORT"),
		Value: uint(DefaultAdminPort),
	}

	LogLevel = &cli.IntFlag{
		Usage: "Logging level (0-6, where 6 is trace)",
		Name:  "log-level", EnvVars: env("LOG_LEVEL"),
		Value: defaultLogLevel,
	}

	DbType = &cli.StringFlag{
		Usage: "Ledger database type (badger, leveldb, sqlite, postgres)",
		Name:  "db-type", EnvVars: env("DB_TYPE"),
		Value: defaultDbType,
	}

	DbUrl = &cli.StringFlag{
		Usage: "Postgres connection url if NFTBRIDGE_DB_TYPE is set to postgres",
		Name:  "pg-db-url", EnvVars: env("PG_DB_URL"),
	}

	EventDbType = &cli.StringFlag{
		Usage: "Event store type (inmemory, postgres)",
		Name:  "event-db-type", EnvVars: env("EVENT_DB_TYPE"),
		Value: defaultEventDbType,
	}

	EventDbUrl = &cli.StringFlag{
		Usage: "Postgres connection url if NFTBRIDGE_EVENT_DB_TYPE is set to postgres",
		Name:  "pg-event-db-url", EnvVars: env("PG_EVENT_DB_URL"),
	}

	PgAutoCreate = &cli.BoolFlag{
		Usage: "Create the postgres database if it does not exist",
		Name:  "pg-auto-create", EnvVars: env("PG_AUTO_CREATE"),
	}

	ParaId = &cli.UintFlag{
		Usage: "Id of the ledger the bridge runs on",
		Name:  "para-id", EnvVars: env("PARA_ID"),
		Value: uint(defaultParaId),
	}

	AllowedDestinations = &cli.StringSliceFlag{
		Usage: "Para ids NFTs can be sent to (comma-separated), any but self if unset",
		Name:  "allowed-destinations", EnvVars: env("ALLOWED_DESTINATIONS"),
	}

	TrustedOrigins = &cli.StringSliceFlag{
		Usage: "Para ids allowed to deliver received NFTs (comma-separated)",
		Name:  "trusted-origins", EnvVars: env("TRUSTED_ORIGINS"),
	}

	PalletIndex = &cli.UintFlag{
		Usage: "Index of the NFT pallet in the outgoing asset location",
		Name:  "pallet-index", EnvVars: env("PALLET_INDEX"),
		Value: uint(domain.DefaultPalletIndex),
	}

	XcmFeeAmount = &cli.Uint64Flag{
		Usage: "Amount of the fee asset paid for remote execution",
		Name:  "xcm-fee-amount", EnvVars: env("XCM_FEE_AMOUNT"),
		Value: domain.DefaultXcmFeeAmount,
	}

	XcmWeightRefTime = &cli.Uint64Flag{
		Usage: "Ref time component of the remote execution weight limit",
		Name:  "xcm-weight-ref-time", EnvVars: env("XCM_WEIGHT_REF_TIME"),
		Value: domain.DefaultXcmWeightRefTime,
	}

	XcmWeightProofSize = &cli.Uint64Flag{
		Usage: "Proof size component of the remote execution weight limit",
		Name:  "xcm-weight-proof-size", EnvVars: env("XCM_WEIGHT_PROOF_SIZE"),
		Value: domain.DefaultXcmWeightProofLen,
	}

	UnlockMetadataPolicy = &cli.StringFlag{
		Usage: "What to do with metadata when a pending transfer is rolled back (purge, retain)",
		Name:  "unlock-metadata-policy", EnvVars: env("UNLOCK_METADATA_POLICY"),
		Value: defaultUnlockMetadataPolicy,
	}

	// TODO: Make this a cli.DurationFlag.
	PendingTransferTTL = &cli.Int64Flag{
		Usage: "Seconds after which a pending transfer is rolled back",
		Name:  "pending-transfer-ttl", EnvVars: env("PENDING_TRANSFER_TTL"),
		Value:       int64(defaultPendingTransferTTL),
		DefaultText: "0 disabled",
	}

	PendingSweepInterval = &cli.Int64Flag{
		Usage: "Seconds between two sweeps of expired pending transfers",
		Name:  "pending-sweep-interval", EnvVars: env("PENDING_SWEEP_INTERVAL"),
		Value: int64(defaultPendingSweepInterval),
	}


	XcmSenderType = &cli.StringFlag{
		Usage: "Transport for outgoing messages (inmemory, redis)",
		Name:  "xcm-sender-type", EnvVars: env("XCM_SENDER_TYPE"),
		Value: defaultXcmSenderType,
	}

	RedisUrl = &cli.StringFlag{
		Usage: "Redis db connection url if NFTBRIDGE_XCM_SENDER_TYPE is set to redis",
		Name:  "redis-url", EnvVars: env("REDIS_URL"),
	}

	RedisStreamMaxLen = &cli.Int64Flag{
		Usage: "Approximate max length of each outgoing message stream, 0 for unbounded",
		Name:  "redis-stream-max-len", EnvVars: env("REDIS_STREAM_MAX_LEN"),
		Value: int64(defaultRedisStreamMaxLen),
	}

	RedisTxNumOfRetries = &cli.IntFlag{
		Usage: "Maximum number of retries for Redis write operations",
		Name:  "redis-num-of-retries", EnvVars: env("REDIS_NUM_OF_RETRIES"),
		Value: defaultRedisTxNumOfRetries,
	}

	NoMacaroons = &cli.BoolFlag{
		Usage: "Disable Macaroons authentication",
		Name:  "no-macaroons", EnvVars: env("NO_MACAROONS"),
		Value: defaultNoMacaroons,
	}

	NoTLS = &cli.BoolFlag{
		Usage: "Disable TLS",
		Name:  "no-tls", EnvVars: env("NO_TLS"),
		Value: defaultNoTLS,
	}

	TLSExtraIP = &cli.StringSliceFlag{
		Usage: "Extra IP addresses for TLS (comma-separated)",
		Name:  "tls-extra-ip", EnvVars: env("TLS_EXTRA_IP"),
	}

	TLSExtraDomain = &cli.StringSliceFlag{
		Usage: "Extra domains for TLS (comma-separated)",
		Name:  "tls-extra-domain", EnvVars: env("TLS_EXTRA_DOMAIN"),
	}

	HeartbeatInterval = &cli.IntFlag{
		Usage: "Heartbeat interval of the event stream in seconds",
		Name:  "heartbeat-interval", EnvVars: env("HEARTBEAT_INTERVAL"),
		Value: defaultHeartbeatInterval,
	}

	MaxRequestValidity = &cli.Int64Flag{
		Usage: "Max validity of a signed send request in seconds, from the time it is received",
		Name:  "max-request-validity", EnvVars: env("MAX_REQUEST_VALIDITY"),
		Value: defaultMaxRequestValidity,
	}

	OtelCollectorEndpoint = &cli.StringFlag{
		Usage: "OpenTelemetry collector endpoint",
		Name:  "collector-endpoint", EnvVars: env("COLLECTOR_ENDPOINT"),
	}

	OtelPushInterval = &cli.IntFlag{
		Usage: "OpenTelemetry push interval in seconds",
		Name:  "otel-push-interval", EnvVars: env("OTEL_PUSH_INTERVAL"),
		Value: defaultOtelPushInterval,
	}

	AlertManagerURL = &cli.StringFlag{
		Usage: "",
		Name:  "alert-manager-url", EnvVars: env("ALERT_MANAGER_URL"),
	}

	ExplorerURL = &cli.StringFlag{
		Usage: "",
		Name:  "explorer-url", EnvVars: env("EXPLORER_URL"),
	}

	PyroscopeServerURL = &cli.StringFlag{
		Usage: "",
		Name:  "pyroscope-server-url", EnvVars: env("PYROSCOPE_SERVER_URL"),
	}

	EnablePprof = &cli.BoolFlag{
		Usage: "",
		Name:  "enable-pprof", EnvVars: env("ENABLE_PPROF"),
		Value: defaultEnablePprof,
	}
)

var Flags = []cli.Flag{
	Datadir,
	Port,
	AdminPort,
	LogLevel,
	DbType,
	DbUrl,
	EventDbType,
	EventDbUrl,
	PgAutoCreate,
	ParaId,
	AllowedDestinations,
	TrustedOrigins,
	PalletIndex,
	XcmFeeAmount,
	XcmWeightRefTime,
	XcmWeightProofSize,
	UnlockMetadataPolicy,
	PendingTransferTTL,
	PendingSweepInterval,
	XcmSenderType,
	RedisUrl,
	RedisStreamMaxLen,
	RedisTxNumOfRetries,
	NoMacaroons,
	NoTLS,
	TLSExtraIP,
	TLSExtraDomain,
	HeartbeatInterval,
	MaxRequestValidity,
	OtelCollectorEndpoint,
	OtelPushInterval,
	AlertManagerURL,
	ExplorerURL,
	PyroscopeServerURL,
	EnablePprof,
}

func LoadConfig(c *cli.Context) (*Config, error) {
	if err := initDatadir(c); err != nil {
		return nil, fmt.Errorf("failed to create datadir: %s", err)
	}

	dbPath := filepath.Join(c.String(Datadir.Name), "db")

	var eventDbUrl string
	if c.String(EventDbType.Name) == "postgres" {
		eventDbUrl = c.String(EventDbUrl.Name)
		if eventDbUrl == "" {
			return nil, fmt.Errorf("event db type set to 'postgres' but event db url is missing")
		}
	}

	var dbUrl string
	if c.String(DbType.Name) == "postgres" {
		dbUrl = c.String(DbUrl.Name)
		if dbUrl == "" {
			return nil, fmt.Errorf("db type set to 'postgres' but db url is missing")
		}
	}

	var redisUrl string
	if c.String(XcmSenderType.Name) == "redis" {
		redisUrl = c.String(RedisUrl.Name)
		if redisUrl == "" {
			return nil, fmt.Errorf("xcm sender type set to 'redis' but redis url is missing")
		}
	}

	allowedDestinations, err := parseParaIds(c.StringSlice(AllowedDestinations.Name))
	if err != nil {
		return nil, fmt.Errorf("invalid allowed destinations: %s", err)
	}
	trustedOrigins, err := parseParaIds(c.StringSlice(TrustedOrigins.Name))
	if err != nil {
		return nil, fmt.Errorf("invalid trusted origins: %s", err)
	}

	palletIndex := c.Uint(PalletIndex.Name)
	if palletIndex > 255 {
		return nil, fmt.Errorf("pallet index must be in range [0, 255], got %d", palletIndex)
	}

	// In case the admin port is unset, fallback to service port.
	adminPort := c.Uint(AdminPort.Name)
	if adminPort == 0 {
		adminPort = c.Uint(Port.Name)
	}

	return &Config{
		Datadir:               c.String(Datadir.Name),
		Port:                  uint32(c.Uint(Port.Name)),
		AdminPort:             uint32(adminPort),
		NoTLS:                 c.Bool(NoTLS.Name),
		NoMacaroons:           c.Bool(NoMacaroons.Name),
		LogLevel:              c.Int(LogLevel.Name),
		TLSExtraIPs:           c.StringSlice(TLSExtraIP.Name),
		TLSExtraDomains:       c.StringSlice(TLSExtraDomain.Name),
		DbType:                c.String(DbType.Name),
		EventDbType:           c.String(EventDbType.Name),
		DbDir:                 dbPath,
		DbUrl:                 dbUrl,
		EventDbUrl:            eventDbUrl,
		PgAutoCreate:          c.Bool(PgAutoCreate.Name),
		ParaId:                uint32(c.Uint(ParaId.Name)),
		AllowedDestinations:   allowedDestinations,
		TrustedOrigins:        trustedOrigins,
		PalletIndex:           uint8(palletIndex),
		XcmFeeAmount:          c.Uint64(XcmFeeAmount.Name),
		XcmWeightRefTime:      c.Uint64(XcmWeightRefTime.Name),
		XcmWeightProofSize:    c.Uint64(XcmWeightProofSize.Name),
		UnlockMetadataPolicy:  c.String(UnlockMetadataPolicy.Name),
		PendingTransferTTL:    c.Int64(PendingTransferTTL.Name),
		PendingSweepInterval:  c.Int64(PendingSweepInterval.Name),
		XcmSenderType:         c.String(XcmSenderType.Name),
		RedisUrl:              redisUrl,
		RedisStreamMaxLen:     c.Int64(RedisStreamMaxLen.Name),
		RedisTxNumOfRetries:   c.Int(RedisTxNumOfRetries.Name),
		HeartbeatInterval:     int64(c.Int(HeartbeatInterval.Name)),
		MaxRequestValidity:    c.Int64(MaxRequestValidity.Name),
		OtelCollectorEndpoint: c.String(OtelCollectorEndpoint.Name),
		OtelPushInterval:      c.Int64(OtelPushInterval.Name),
		AlertManagerURL:       c.String(AlertManagerURL.Name),
		ExplorerURL:           c.String(ExplorerURL.Name),
		PyroscopeServerURL:    c.String(PyroscopeServerURL.Name),
		EnablePprof:           c.Bool(EnablePprof.Name),
	}, nil
}

func initDatadir(c *cli.Context) error {
	datadir := c.String(Datadir.Name)
	return makeDirectoryIfNotExists(datadir)
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0o755)
	}
	return nil
}

// Validate checks the settings and builds every service the app depends on.
func (c *Config) Validate() error {
	if err := c.validateSettings(); err != nil {
		return err
	}

	if err := c.repoManager(); err != nil {
		return err
	}
	if err := c.xcmSenderService(); err != nil {
		return err
	}
	if err := c.originCheckerService(); err != nil {
		return err
	}
	if err := c.schedulerService(); err != nil {
		return err
	}
	if err := c.alertsService(); err != nil {
		return err
	}
	c.metrics = metrics.NewService()
	return nil
}

func (c *Config) validateSettings() error {
	if !supportedEventDbs.supports(c.EventDbType) {
		return fmt.Errorf(
			"event db type not supported, please select one of: %s",
			supportedEventDbs,
		)
	}
	if !supportedDbs.supports(c.DbType) {
		return fmt.Errorf("db type not supported, please select one of: %s", supportedDbs)
	}
	if !supportedXcmSenders.supports(c.XcmSenderType) {
		return fmt.Errorf(
			"xcm sender type not supported, please select one of: %s",
			supportedXcmSenders,
		)
	}
	if !supportedUnlockPolicies.supports(c.UnlockMetadataPolicy) {
		return fmt.Errorf(
			"unlock metadata policy not supported, please select one of: %s",
			supportedUnlockPolicies,
		)
	}
	if c.ParaId == 0 {
		return fmt.Errorf("para id must be greater than 0")
	}
	for _, dest := range c.AllowedDestinations {
		if dest == c.ParaId {
			return fmt.Errorf("allowed destinations must not include own para id %d", c.ParaId)
		}
	}
	if len(c.TrustedOrigins) <= 0 {
		log.Warn("no trusted origins set, only root can deliver received NFTs")
	}
	if c.PendingTransferTTL < 0 {
		return fmt.Errorf("pending transfer ttl must not be negative")
	}
	if c.PendingTransferTTL > 0 && c.PendingSweepInterval <= 0 {
		return fmt.Errorf("pending sweep interval must be > 0 if pending transfer ttl is set")
	}
	if c.OtelCollectorEndpoint != "" && c.OtelPushInterval <= 0 {
		return fmt.Errorf("otel push interval must be greater than 0")
	}
	if c.HeartbeatInterval <= 0 {
		return fmt.Errorf("heartbeat interval must be greater than 0")
	}
	if c.MaxRequestValidity <= 0 {
		return fmt.Errorf("max request validity must be greater than 0")
	}
	if c.XcmSenderType == "redis" && c.RedisStreamMaxLen < 0 {
		return fmt.Errorf("redis stream max len must not be negative")
	}
	return nil
}

func (c *Config) AppService() (application.Service, error) {
	if c.svc == nil {
		if err := c.appService(); err != nil {
			return nil, err
		}
	}
	return c.svc, nil
}

func (c *Config) AdminService() (application.AdminService, error) {
	if c.adminSvc == nil {
		svc, err := c.AppService()
		if err != nil {
			return nil, err
		}
		adminSvc, err := application.NewAdminService(c.repo, svc)
		if err != nil {
			return nil, err
		}
		c.adminSvc = adminSvc
	}
	return c.adminSvc, nil
}

func (c *Config) MetricsService() metrics.Service {
	return c.metrics
}

func (c *Config) RepoManager() ports.RepoManager {
	return c.repo
}

func (c *Config) XcmSender() ports.XcmSender {
	return c.xcmSender
}

func (c *Config) repoManager() error {
	var eventStoreConfig []interface{}
	var dataStoreConfig []interface{}
	logger := log.New()

	switch c.EventDbType {
	case "inmemory":
	case "postgres":
		eventStoreConfig = []interface{}{c.EventDbUrl, c.PgAutoCreate}
	default:
		return fmt.Errorf("unknown event db type")
	}

	switch c.DbType {
	case "badger":
		dataStoreConfig = []interface{}{c.DbDir, logger}
	case "leveldb", "sqlite":
		dataStoreConfig = []interface{}{c.DbDir}
	case "postgres":
		dataStoreConfig = []interface{}{c.DbUrl, c.PgAutoCreate}
	default:
		return fmt.Errorf("unknown db type")
	}

	if err := makeDirectoryIfNotExists(c.DbDir); err != nil {
		return fmt.Errorf("failed to create db dir: %s", err)
	}

	svc, err := db.NewService(db.ServiceConfig{
		EventStoreType:   c.EventDbType,
		DataStoreType:    c.DbType,
		EventStoreConfig: eventStoreConfig,
		DataStoreConfig:  dataStoreConfig,
	})
	if err != nil {
		return err
	}

	c.repo = svc
	return nil
}

func (c *Config) xcmSenderService() error {
	var svc ports.XcmSender
	switch c.XcmSenderType {
	case "inmemory":
		svc = inmemoryxcm.NewSender()
	case "redis":
		redisOpts, err := redis.ParseURL(c.RedisUrl)
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(redisOpts)
		svc = redisxcm.NewSender(rdb, c.RedisStreamMaxLen, c.RedisTxNumOfRetries)
	default:
		return fmt.Errorf("unknown xcm sender type")
	}

	c.xcmSender = svc
	return nil
}

func (c *Config) originCheckerService() error {
	c.originChecker = staticorigin.NewChecker(c.TrustedOrigins)
	return nil
}

func (c *Config) schedulerService() error {
	c.scheduler = timescheduler.NewScheduler()
	return nil
}

func (c *Config) alertsService() error {
	if c.AlertManagerURL == "" {
		return nil
	}

	c.alerts = alertsmanager.NewService(c.AlertManagerURL, c.ExplorerURL)
	return nil
}

func (c *Config) appService() error {
	if c.repo == nil {
		return fmt.Errorf("repo manager not set, config must be validated first")
	}

	allowedDestinations := make([]domain.ParaId, 0, len(c.AllowedDestinations))
	for _, dest := range c.AllowedDestinations {
		allowedDestinations = append(allowedDestinations, domain.ParaId(dest))
	}

	var bridgeMetrics ports.BridgeMetrics
	if c.metrics != nil {
		bridgeMetrics = c.metrics
	}

	svc, err := application.NewService(
		application.Config{
			ParaId:              domain.ParaId(c.ParaId),
			AllowedDestinations: allowedDestinations,
			Message: domain.TransferMessageConfig{
				PalletIndex:       c.PalletIndex,
				FeeAmount:         c.XcmFeeAmount,
				WeightRefTime:     c.XcmWeightRefTime,
				WeightProofLength: c.XcmWeightProofSize,
			},
			UnlockMetadataPolicy: application.UnlockMetadataPolicy(c.UnlockMetadataPolicy),
			PendingTransferTTL:   time.Duration(c.PendingTransferTTL) * time.Second,
			PendingSweepInterval: time.Duration(c.PendingSweepInterval) * time.Second,
		},
		c.repo, c.xcmSender, c.originChecker, c.scheduler, c.alerts, bridgeMetrics,
	)
	if err != nil {
		return err
	}

	c.svc = svc
	return nil
}

func parseParaIds(values []string) ([]uint32, error) {
	ids := make([]uint32, 0, len(values))
	seen := make(map[uint32]struct{})
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		id, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid para id %q", value)
		}
		if id == 0 {
			return nil, fmt.Errorf("para id must be greater than 0")
		}
		if _, ok := seen[uint32(id)]; ok {
			continue
		}
		seen[uint32(id)] = struct{}{}
		ids = append(ids, uint32(id))
	}
	return ids, nil
}

func redact(url string) string {
	if url == "" {
		return ""
	}
	return "••••••"
}

type supportedType map[string]struct{}

func (t supportedType) String() string {
	types := make([]string, 0, len(t))
	for tt := range t {
		types = append(types, tt)
	}
	return strings.Join(types, " | ")
}

func (t supportedType) supports(typeStr string) bool {
	_, ok := t[typeStr]
	return ok
}
