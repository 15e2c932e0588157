package grpcservice

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/http/pprof"
	"strings"
	"sync/atomic"
	"time"

	nftbridgev1 "github.com/arkade-os/nftbridge/api-spec/nftbridge/v1"
	"github.com/arkade-os/nftbridge/internal/config"
	interfaces "github.com/arkade-os/nftbridge/internal/interface"
	"github.com/arkade-os/nftbridge/internal/interface/grpc/handlers"
	"github.com/arkade-os/nftbridge/internal/interface/grpc/interceptors"
	"github.com/arkade-os/nftbridge/internal/telemetry"
	"github.com/arkade-os/nftbridge/pkg/macaroons"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/otel"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	grpchealth "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	macaroonsLocation = "nftbridge"
	macaroonsFolder   = "macaroons"

	tlsKeyFile  = "key.pem"
	tlsCertFile = "cert.pem"
	tlsFolder   = "tls"
)

type service struct {
	version           string
	config            Config
	appConfig         *config.Config
	server            *http.Server
	adminServer       *http.Server
	grpcServer        *grpc.Server
	adminGrpcSrvr     *grpc.Server
	healthSvc         *health.Server
	readinessSvc      *interceptors.ReadinessService
	appSvcStarted     atomic.Bool
	macaroonSvc       *macaroons.Service
	otelShutdown      func(context.Context) error
	pyroscopeShutdown func() error
}

func NewService(
	version string, svcConfig Config, appConfig *config.Config,
) (interfaces.Service, error) {
	if err := svcConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid service config: %s", err)
	}
	if err := appConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid app config: %s", err)
	}

	var macaroonSvc *macaroons.Service
	if !svcConfig.NoMacaroons {
		svc, err := macaroons.NewService(svcConfig.macaroonsDatadir(), macaroonsLocation)
		if err != nil {
			return nil, err
		}
		done, err := genMacaroons(
			svc, svcConfig.macaroonsDatadir(), appConfig.TrustedOrigins,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create macaroons: %s", err)
		}
		if done {
			log.Debugf("created and stored macaroons at path %s", svcConfig.macaroonsDatadir())
		}
		macaroonSvc = svc
	}

	if !svcConfig.insecure() {
		if err := generateOperatorTLSKeyCert(
			svcConfig.tlsDatadir(), svcConfig.TLSExtraIPs, svcConfig.TLSExtraDomains,
		); err != nil {
			return nil, err
		}
		log.Debugf("generated TLS key pair at path: %s", svcConfig.tlsDatadir())
	}

	return &service{
		version:     version,
		config:      svcConfig,
		appConfig:   appConfig,
		macaroonSvc: macaroonSvc,
	}, nil
}

func (s *service) Start() error {
	if err := s.start(); err != nil {
		return err
	}
	log.Infof("started listening at %s", s.config.address())
	if s.config.hasAdminPort() {
		log.Infof("started admin listening at %s", s.config.adminAddress())
	}

	return s.startAppServices()
}

func (s *service) Stop() {
	s.stop()
	if s.pyroscopeShutdown != nil {
		if err := s.pyroscopeShutdown(); err != nil {
			log.Errorf("failed to shutdown pyroscope: %s", err)
		}

		log.Info("shutdown pyroscope")
	}
	if s.otelShutdown != nil {
		if err := s.otelShutdown(context.Background()); err != nil {
			log.Errorf("failed to shutdown otel: %s", err)
		}
	}
	log.Info("shutdown service")
}

func (s *service) start() error {
	tlsConfig, err := s.config.tlsConfig()
	if err != nil {
		return err
	}

	if err := s.newServer(tlsConfig, s.config.EnablePprof); err != nil {
		return err
	}

	if s.config.insecure() {
		// nolint:all
		go s.server.ListenAndServe()
	} else {
		// nolint:all
		go s.server.ListenAndServeTLS("", "")
	}

	if s.adminServer != nil {
		if s.config.insecure() {
			// nolint:all
			go s.adminServer.ListenAndServe()
		} else {
			// nolint:all
			go s.adminServer.ListenAndServeTLS("", "")
		}
	}

	return nil
}

func (s *service) stop() {
	if s.healthSvc != nil {
		s.healthSvc.Shutdown()
	}

	if s.appSvcStarted.CompareAndSwap(true, false) {
		appSvc, _ := s.appConfig.AppService()
		if appSvc != nil {
			appSvc.Stop()
		}
		if s.readinessSvc != nil {
			s.readinessSvc.MarkAppServiceStopped()
		}
	}

	// Hard-close HTTP listeners/conns first to avoid mixed HTTP/gRPC window.
	if s.server != nil {
		_ = s.server.Close()
	}
	if s.adminServer != nil {
		_ = s.adminServer.Close()
	}

	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.adminGrpcSrvr != nil {
		s.adminGrpcSrvr.Stop()
	}
}

func (s *service) startAppServices() error {
	if !s.appSvcStarted.CompareAndSwap(false, true) {
		return nil
	}

	appSvc, err := s.appConfig.AppService()
	if err != nil {
		s.appSvcStarted.Store(false)
		return fmt.Errorf("failed to create app service: %w", err)
	}
	if err := appSvc.Start(); err != nil {
		s.appSvcStarted.Store(false)
		return fmt.Errorf("failed to start app service: %w", err)
	}
	log.Info("started app service")

	if s.readinessSvc != nil {
		s.readinessSvc.MarkAppServiceStarted()
	}
	if s.healthSvc != nil {
		s.healthSvc.SetServingStatus("", grpchealth.HealthCheckResponse_SERVING)
		s.healthSvc.SetServingStatus(
			nftbridgev1.BridgeServiceName, grpchealth.HealthCheckResponse_SERVING,
		)
		s.healthSvc.SetServingStatus(
			nftbridgev1.AdminServiceName, grpchealth.HealthCheckResponse_SERVING,
		)
	}

	log.Info("bridge and admin services are now ready")
	return nil
}

func (s *service) newServer(tlsConfig *tls.Config, withPprof bool) error {
	ctx := context.Background()
	if s.appConfig.OtelCollectorEndpoint != "" {
		otelShutdown, err := telemetry.InitOtelSDK(
			ctx, s.appConfig.OtelCollectorEndpoint,
			time.Duration(s.appConfig.OtelPushInterval)*time.Second,
		)
		if err != nil {
			return err
		}
		s.otelShutdown = otelShutdown
	}
	if s.appConfig.PyroscopeServerURL != "" {
		pyroscopeShutdown, err := telemetry.InitPyroscope(s.appConfig.PyroscopeServerURL)
		if err != nil {
			return err
		}
		s.pyroscopeShutdown = pyroscopeShutdown
	}

	otelHandler := otelgrpc.NewServerHandler(
		otelgrpc.WithTracerProvider(otel.GetTracerProvider()),
		otelgrpc.WithMeterProvider(otel.GetMeterProvider()),
	)

	s.readinessSvc = interceptors.NewReadinessService()
	s.healthSvc = health.NewServer()
	s.healthSvc.SetServingStatus("", grpchealth.HealthCheckResponse_NOT_SERVING)

	grpcConfig := []grpc.ServerOption{
		interceptors.UnaryInterceptor(s.macaroonSvc, s.readinessSvc),
		interceptors.StreamInterceptor(s.macaroonSvc, s.readinessSvc),
		grpc.StatsHandler(otelHandler),
	}
	creds := insecure.NewCredentials()
	if !s.config.insecure() {
		creds = credentials.NewTLS(tlsConfig)
	}
	grpcConfig = append(grpcConfig, grpc.Creds(creds))

	grpcServer := grpc.NewServer(grpcConfig...)

	appSvc, err := s.appConfig.AppService()
	if err != nil {
		return fmt.Errorf("failed to create app service: %w", err)
	}
	adminSvc, err := s.appConfig.AdminService()
	if err != nil {
		return fmt.Errorf("failed to create admin service: %w", err)
	}

	bridgeHandler := handlers.NewBridgeHandler(
		s.version, appSvc, s.config.heartbeat(), s.config.maxRequestValidity(),
	)
	adminHandler := handlers.NewAdminHandler(appSvc, adminSvc)

	nftbridgev1.RegisterBridgeServiceServer(grpcServer, bridgeHandler)
	grpchealth.RegisterHealthServer(grpcServer, s.healthSvc)

	var adminGrpcServer *grpc.Server
	if s.config.hasAdminPort() {
		adminGrpcServer = grpc.NewServer(grpcConfig...)
		nftbridgev1.RegisterAdminServiceServer(adminGrpcServer, adminHandler)
		grpchealth.RegisterHealthServer(adminGrpcServer, s.healthSvc)
	} else {
		nftbridgev1.RegisterAdminServiceServer(grpcServer, adminHandler)
	}

	metricsHandler := s.appConfig.MetricsService().Handler()

	mux := http.NewServeMux()
	mux.Handle("/healthz", healthz(s.readinessSvc))
	if !s.config.hasAdminPort() {
		mux.Handle("/metrics", metricsHandler)
		if withPprof {
			registerPprof(mux)
		}
	}
	mux.Handle("/", router(grpcServer))

	httpServerHandler := http.Handler(mux)
	if s.config.insecure() {
		httpServerHandler = h2c.NewHandler(httpServerHandler, &http2.Server{})
	}

	s.grpcServer = grpcServer
	s.server = &http.Server{
		Addr:      s.config.address(),
		Handler:   httpServerHandler,
		TLSConfig: tlsConfig,
	}

	if s.config.hasAdminPort() {
		adminMux := http.NewServeMux()
		adminMux.Handle("/healthz", healthz(s.readinessSvc))
		adminMux.Handle("/metrics", metricsHandler)
		if withPprof {
			registerPprof(adminMux)
		}
		adminMux.Handle("/", router(adminGrpcServer))

		adminHttpServerHandler := http.Handler(adminMux)
		if s.config.insecure() {
			adminHttpServerHandler = h2c.NewHandler(adminHttpServerHandler, &http2.Server{})
		}

		s.adminGrpcSrvr = adminGrpcServer
		s.adminServer = &http.Server{
			Addr:      s.config.adminAddress(),
			Handler:   adminHttpServerHandler,
			TLSConfig: tlsConfig,
		}
	}

	return nil
}

func registerPprof(mux *http.ServeMux) {
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/debug/pprof/goroutine", pprof.Handler("goroutine"))
	mux.Handle("/debug/pprof/heap", pprof.Handler("heap"))
	mux.Handle("/debug/pprof/allocs", pprof.Handler("allocs"))
	mux.Handle("/debug/pprof/block", pprof.Handler("block"))
	mux.Handle("/debug/pprof/mutex", pprof.Handler("mutex"))
	log.Info("pprof enabled at /debug/pprof/")
}

func healthz(readiness *interceptors.ReadinessService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !readiness.IsReady() {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		// nolint:all
		w.Write([]byte("ok"))
	})
}

func router(grpcServer *grpc.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isOptionRequest(r) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Headers", "*")
			w.Header().Add("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			return
		}

		if !isGrpcRequest(r) {
			http.NotFound(w, r)
			return
		}
		grpcServer.ServeHTTP(w, r)
	})
}

func isOptionRequest(req *http.Request) bool {
	return req.Method == http.MethodOptions
}

func isGrpcRequest(req *http.Request) bool {
	return req.ProtoMajor == 2 &&
		strings.HasPrefix(req.Header.Get("Content-Type"), "application/grpc")
}
