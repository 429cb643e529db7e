// Package api serves the JSON HTTP interface of the node.
package api

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MinterTeam/minter-coffee/core/code"
	"github.com/MinterTeam/minter-coffee/core/metrics"
	"github.com/MinterTeam/minter-coffee/core/node"
	"github.com/MinterTeam/minter-coffee/core/transaction"
	"github.com/MinterTeam/minter-coffee/core/types"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/handlers"
	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Response is the envelope of every API answer.
type Response struct {
	Code   uint32      `json:"code"`
	Result interface{} `json:"result,omitempty"`
	Log    string      `json:"log,omitempty"`
}

type Server struct {
	node    *node.Node
	metrics *metrics.Metrics
	logger  log.Logger
}

func NewServer(n *node.Node, m *metrics.Metrics, logger log.Logger) *Server {
	if m == nil {
		m = metrics.NopMetrics()
	}
	return &Server{node: n, metrics: m, logger: logger}
}

// Handler returns the router wrapped with CORS, panic recovery and access logging.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(s.instrument)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, Response{Code: code.UnknownMethod, Log: "route not found"})
	})

	v1 := r.Group("/api/v1")
	v1.GET("/status", s.Status)
	v1.GET("/contracts/:address/:method", s.Contract)
	v1.GET("/tokens/:token/balances/:holder", s.Balance)
	v1.GET("/nonce/:address", s.Nonce)
	v1.POST("/send_transaction", s.SendTransaction)

	var handler http.Handler = r
	handler = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(handler)
	handler = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{s.logger}),
		handlers.PrintRecoveryStack(true),
	)(handler)

	return handlers.CombinedLoggingHandler(accessLog{s.logger}, handler)
}

// Run serves the API on listenAddr until ctx is done.
func (s *Server) Run(ctx context.Context, listenAddr string) error {
	addr, err := hostPort(listenAddr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return Serve(ctx, srv, s.logger)
}

// Serve runs srv until ctx is done and then shuts it down.
func Serve(ctx context.Context, srv *http.Server, logger log.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown http server")
	}
	return nil
}

// hostPort turns "tcp://0.0.0.0:8841" or "0.0.0.0:8841" into a listen address.
func hostPort(listenAddr string) (string, error) {
	u, err := url.Parse(listenAddr)
	if err == nil && u.Host != "" {
		return u.Host, nil
	}

	if _, _, err := net.SplitHostPort(listenAddr); err != nil {
		return "", errors.Wrapf(err, "wrong listen address %q", listenAddr)
	}
	return listenAddr, nil
}

func (s *Server) instrument(c *gin.Context) {
	start := time.Now()
	c.Next()

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	s.metrics.APIDuration.With("route", route).Observe(time.Since(start).Seconds())
}

// fail writes err as an envelope, using the response code carried by err.
func (s *Server) fail(c *gin.Context, err error) {
	result := transaction.ResponseFromError(err, s.logger)

	status := http.StatusBadRequest
	switch result.Code {
	case code.ContractNotFound:
		status = http.StatusNotFound
	case code.InternalError:
		status = http.StatusInternalServerError
	}

	c.JSON(status, Response{Code: result.Code, Log: result.Log})
}

func (s *Server) address(c *gin.Context, param string) (types.Address, bool) {
	value := c.Param(param)
	if !types.IsHexAddress(value) {
		c.JSON(http.StatusBadRequest, Response{Code: code.DecodeError, Log: "invalid address " + value})
		return types.Address{}, false
	}
	return types.HexToAddress(value), true
}

type recoveryLogger struct {
	logger log.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.logger.Error("API handler panicked", "err", v)
}

type accessLog struct {
	logger log.Logger
}

func (l accessLog) Write(p []byte) (int, error) {
	l.logger.Debug(strings.TrimRight(string(p), "\r\n"))
	return len(p), nil
}
