/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/indy-sdk-go/pkg/controller"
	"github.com/hyperledger/indy-sdk-go/pkg/indy"
	"github.com/hyperledger/indy-sdk-go/pkg/native/inproc"
	"github.com/hyperledger/indy-sdk-go/pkg/wallet/plugin"
	"github.com/hyperledger/indy-sdk-go/pkg/wallet/plugin/inmem"
	"github.com/hyperledger/indy-sdk-go/pkg/wallet/plugin/spistore"
	"github.com/hyperledger/indy-sdk-go/pkg/wallet/plugin/sqlite"
)

const (
	agentHostFlagName      = "api-host"
	agentHostEnvKey        = "INDYD_API_HOST"
	agentHostFlagShorthand = "a"
	agentHostFlagUsage     = "Host Name:Port." +
		" Alternatively, this can be set with the following environment variable: " + agentHostEnvKey

	agentTokenFlagName      = "api-token"
	agentTokenEnvKey        = "INDYD_API_TOKEN" // nolint:gosec
	agentTokenFlagShorthand = "t"
	agentTokenFlagUsage     = "Check for bearer token in the authorization header (optional)." +
		" Alternatively, this can be set with the following environment variable: " + agentTokenEnvKey

	agentPathPrefixFlagName  = "api-prefix"
	agentPathPrefixEnvKey    = "INDYD_API_PREFIX"
	agentPathPrefixFlagUsage = "Path prefix for every REST endpoint, e.g. /indy (optional)." +
		" Alternatively, this can be set with the following environment variable: " + agentPathPrefixEnvKey

	agentLogLevelFlagName  = "log-level"
	agentLogLevelEnvKey    = "INDYD_LOG_LEVEL"
	agentLogLevelFlagUsage = "Log level." +
		" Possible values [INFO] [DEBUG] [ERROR] [WARNING] [CRITICAL] . Defaults to INFO if not set." +
		" Alternatively, this can be set with the following environment variable: " + agentLogLevelEnvKey

	sqlitePathFlagName      = "sqlite-path"
	sqlitePathEnvKey        = "INDYD_SQLITE_PATH"
	sqlitePathFlagShorthand = "s"
	sqlitePathFlagUsage     = "Directory holding SQLite wallets. When set, wallets can use storage_type " +
		sqliteStorageType + "." +
		" Alternatively, this can be set with the following environment variable: " + sqlitePathEnvKey

	sqliteTimeoutFlagName  = "sqlite-timeout"
	sqliteTimeoutEnvKey    = "INDYD_SQLITE_TIMEOUT"
	sqliteTimeoutFlagUsage = "Total time in seconds to wait until the SQLite directory is available before giving up." +
		" Default: " + sqliteTimeoutDefault + " seconds." +
		" Alternatively, this can be set with the following environment variable: " + sqliteTimeoutEnvKey
	sqliteTimeoutDefault = "30"

	workersFlagName      = "workers"
	workersEnvKey        = "INDYD_WORKERS"
	workersFlagShorthand = "w"
	workersFlagUsage     = "Number of goroutines executing native commands. Defaults to 4 if not set." +
		" Alternatively, this can be set with the following environment variable: " + workersEnvKey

	callTimeoutFlagName  = "call-timeout"
	callTimeoutEnvKey    = "INDYD_CALL_TIMEOUT"
	callTimeoutFlagUsage = "Seconds to wait for a native command before abandoning it. No limit if not set." +
		" Alternatively, this can be set with the following environment variable: " + callTimeoutEnvKey

	agentTLSCertFileFlagName      = "tls-cert-file"
	agentTLSCertFileEnvKey        = "TLS_CERT_FILE"
	agentTLSCertFileFlagShorthand = "c"
	agentTLSCertFileFlagUsage     = "tls certificate file." +
		" Alternatively, this can be set with the following environment variable: " + agentTLSCertFileEnvKey

	agentTLSKeyFileFlagName      = "tls-key-file"
	agentTLSKeyFileEnvKey        = "TLS_KEY_FILE"
	agentTLSKeyFileFlagShorthand = "k"
	agentTLSKeyFileFlagUsage     = "tls key file." +
		" Alternatively, this can be set with the following environment variable: " + agentTLSKeyFileEnvKey

	sqliteStorageType = "sqlite"
	spiStorageType    = "spi"
)

var (
	errMissingHost = errors.New("host not provided")
	logger         = log.New("indy-sdk/agent-rest")
)

type agentParameters struct {
	server                  server
	host, token, pathPrefix string
	tlsCertFile, tlsKeyFile string
	sqlitePath              string
	sqliteTimeout           uint64
	workers                 int
	callTimeout             time.Duration
}

type server interface {
	ListenAndServe(host string, router http.Handler, certFile, keyFile string) error
}

// HTTPServer represents an actual HTTP server implementation.
type HTTPServer struct{}

// ListenAndServe starts the server using the standard Go HTTP server implementation.
func (s *HTTPServer) ListenAndServe(host string, router http.Handler, certFile, keyFile string) error {
	if certFile != "" && keyFile != "" {
		return http.ListenAndServeTLS(host, certFile, keyFile, router)
	}

	return http.ListenAndServe(host, router)
}

// Cmd returns the Cobra start command.
func Cmd(server server) (*cobra.Command, error) {
	startCmd := createStartCMD(server)

	createFlags(startCmd)

	return startCmd, nil
}

func createStartCMD(server server) *cobra.Command { //nolint: funlen
	return &cobra.Command{
		Use:   "start",
		Short: "Start an agent",
		Long:  `Start an indy agent controller serving wallet, DID, crypto and record operations`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logLevel, err := getUserSetVar(cmd, agentLogLevelFlagName, agentLogLevelEnvKey, true)
			if err != nil {
				return err
			}

			err = setLogLevel(logLevel)
			if err != nil {
				return err
			}

			host, err := getUserSetVar(cmd, agentHostFlagName, agentHostEnvKey, false)
			if err != nil {
				return err
			}

			token, err := getUserSetVar(cmd, agentTokenFlagName, agentTokenEnvKey, true)
			if err != nil {
				return err
			}

			pathPrefix, err := getUserSetVar(cmd, agentPathPrefixFlagName, agentPathPrefixEnvKey, true)
			if err != nil {
				return err
			}

			sqlitePath, err := getUserSetVar(cmd, sqlitePathFlagName, sqlitePathEnvKey, true)
			if err != nil {
				return err
			}

			sqliteTimeout, err := getSQLiteTimeout(cmd)
			if err != nil {
				return err
			}

			workers, err := getWorkers(cmd)
			if err != nil {
				return err
			}

			callTimeout, err := getCallTimeout(cmd)
			if err != nil {
				return err
			}

			tlsCertFile, err := getUserSetVar(cmd, agentTLSCertFileFlagName, agentTLSCertFileEnvKey, true)
			if err != nil {
				return err
			}

			tlsKeyFile, err := getUserSetVar(cmd, agentTLSKeyFileFlagName, agentTLSKeyFileEnvKey, true)
			if err != nil {
				return err
			}

			parameters := &agentParameters{
				server:        server,
				host:          host,
				token:         token,
				pathPrefix:    pathPrefix,
				sqlitePath:    sqlitePath,
				sqliteTimeout: sqliteTimeout,
				workers:       workers,
				callTimeout:   callTimeout,
				tlsCertFile:   tlsCertFile,
				tlsKeyFile:    tlsKeyFile,
			}

			return startAgent(parameters)
		},
	}
}

func getSQLiteTimeout(cmd *cobra.Command) (uint64, error) {
	v, err := getUserSetVar(cmd, sqliteTimeoutFlagName, sqliteTimeoutEnvKey, true)
	if err != nil {
		return 0, err
	}

	if v == "" || v == "0" {
		v = sqliteTimeoutDefault
	}

	t, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse sqlite timeout %s: %w", v, err)
	}

	return t, nil
}

func getWorkers(cmd *cobra.Command) (int, error) {
	v, err := getUserSetVar(cmd, workersFlagName, workersEnvKey, true)
	if err != nil {
		return 0, err
	}

	if v == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid workers value %s: must be a positive integer", v)
	}

	return n, nil
}

func getCallTimeout(cmd *cobra.Command) (time.Duration, error) {
	v, err := getUserSetVar(cmd, callTimeoutFlagName, callTimeoutEnvKey, true)
	if err != nil {
		return 0, err
	}

	if v == "" {
		return 0, nil
	}

	secs, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("failed to parse call timeout %s: %w", v, err)
	}

	return time.Duration(secs) * time.Second, nil
}

func createFlags(startCmd *cobra.Command) {
	startCmd.Flags().StringP(agentHostFlagName, agentHostFlagShorthand, "", agentHostFlagUsage)
	startCmd.Flags().StringP(agentTokenFlagName, agentTokenFlagShorthand, "", agentTokenFlagUsage)
	startCmd.Flags().StringP(agentPathPrefixFlagName, "", "", agentPathPrefixFlagUsage)
	startCmd.Flags().StringP(agentLogLevelFlagName, "", "", agentLogLevelFlagUsage)
	startCmd.Flags().StringP(sqlitePathFlagName, sqlitePathFlagShorthand, "", sqlitePathFlagUsage)
	startCmd.Flags().StringP(sqliteTimeoutFlagName, "", "", sqliteTimeoutFlagUsage)
	startCmd.Flags().StringP(workersFlagName, workersFlagShorthand, "", workersFlagUsage)
	startCmd.Flags().StringP(callTimeoutFlagName, "", "", callTimeoutFlagUsage)
	startCmd.Flags().StringP(agentTLSCertFileFlagName, agentTLSCertFileFlagShorthand, "", agentTLSCertFileFlagUsage)
	startCmd.Flags().StringP(agentTLSKeyFileFlagName, agentTLSKeyFileFlagShorthand, "", agentTLSKeyFileFlagUsage)
}

func getUserSetVar(cmd *cobra.Command, flagName, envKey string, isOptional bool) (string, error) {
	if cmd.Flags().Changed(flagName) {
		value, err := cmd.Flags().GetString(flagName)
		if err != nil {
			return "", fmt.Errorf(flagName+" flag not found: %s", err)
		}

		return value, nil
	}

	value, isSet := os.LookupEnv(envKey)

	if isOptional || isSet {
		return value, nil
	}

	return "", errors.New("Neither " + flagName + " (command line flag) nor " + envKey +
		" (environment variable) have been set.")
}

func setLogLevel(logLevel string) error {
	if logLevel != "" {
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("failed to parse log level '%s' : %w", logLevel, err)
		}

		log.SetLevel("", level)

		logger.Infof("logger level set to %s", logLevel)
	}

	return nil
}

func validateAuthorizationBearerToken(w http.ResponseWriter, r *http.Request, token string) bool {
	actHdr := r.Header.Get("Authorization")
	expHdr := "Bearer " + token

	if subtle.ConstantTimeCompare([]byte(actHdr), []byte(expHdr)) != 1 {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("Unauthorised.\n")) // nolint:gosec,errcheck

		return false
	}

	return true
}

func authorizationMiddleware(token string) mux.MiddlewareFunc {
	middleware := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if validateAuthorizationBearerToken(w, r, token) {
				next.ServeHTTP(w, r)
			}
		})
	}

	return middleware
}

// createPlugins registers the storage types served by the agent. The in-memory backend is always
// available as the default type.
func createPlugins(parameters *agentParameters) (*plugin.Registry, error) {
	plugins := plugin.NewRegistry()

	if err := plugins.Register(inproc.DefaultStorageType, inmem.New()); err != nil {
		return nil, err
	}

	if err := plugins.Register(spiStorageType, spistore.New(nil)); err != nil {
		return nil, err
	}

	if parameters.sqlitePath == "" {
		return plugins, nil
	}

	err := backoff.RetryNotify(
		func() error {
			return prepareDir(parameters.sqlitePath)
		},
		backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Second), parameters.sqliteTimeout),
		func(retryErr error, t time.Duration) {
			logger.Warnf(
				"sqlite directory is not available, will sleep for %s before trying again : %s\n",
				t, retryErr)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare sqlite directory %s : %w", parameters.sqlitePath, err)
	}

	if err := plugins.Register(sqliteStorageType, sqlite.New(parameters.sqlitePath)); err != nil {
		return nil, err
	}

	return plugins, nil
}

func prepareDir(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	f, err := os.CreateTemp(dir, ".writable-*")
	if err != nil {
		return err
	}

	name := f.Name()

	if err := f.Close(); err != nil {
		return err
	}

	return os.Remove(filepath.Clean(name))
}

func createCore(parameters *agentParameters) (*inproc.Core, error) {
	plugins, err := createPlugins(parameters)
	if err != nil {
		return nil, err
	}

	opts := []inproc.Option{inproc.WithPluginRegistry(plugins)}

	if parameters.workers > 0 {
		opts = append(opts, inproc.WithWorkers(parameters.workers))
	}

	return inproc.New(opts...), nil
}

func createRouter(parameters *agentParameters, client *indy.Client) http.Handler {
	var opts []controller.Opt

	if parameters.pathPrefix != "" {
		opts = append(opts, controller.WithPathPrefix(parameters.pathPrefix))
	}

	router := mux.NewRouter()

	if parameters.token != "" {
		router.Use(authorizationMiddleware(parameters.token))
	}

	for _, handler := range controller.GetRESTHandlers(client, opts...) {
		router.HandleFunc(handler.Path(), handler.Handle()).Methods(handler.Method())
	}

	return cors.New(
		cors.Options{
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodHead},
			AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With", "Authorization"},
		},
	).Handler(router)
}

func startAgent(parameters *agentParameters) error {
	if parameters.host == "" {
		return errMissingHost
	}

	core, err := createCore(parameters)
	if err != nil {
		return fmt.Errorf("failed to start indy agent rest on port [%s], failed to create core : %w",
			parameters.host, err)
	}

	defer func() {
		if closeErr := core.Close(); closeErr != nil {
			logger.Warnf("failed to close core : %s", closeErr)
		}
	}()

	var clientOpts []indy.Option

	if parameters.callTimeout > 0 {
		clientOpts = append(clientOpts, indy.WithCallTimeout(parameters.callTimeout))
	}

	handler := createRouter(parameters, indy.New(core, clientOpts...))

	logger.Infof("Starting indy agent rest on host [%s], %s", parameters.host, core.Plugins())

	err = parameters.server.ListenAndServe(parameters.host, handler, parameters.tlsCertFile, parameters.tlsKeyFile)
	if err != nil {
		return fmt.Errorf("failed to start indy agent rest on port [%s], cause:  %w", parameters.host, err)
	}

	return nil
}
