// Package tcp serves the worker protocol
package tcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"gitlab.com/hashsearch.net/internal/core/ports/primary"
	"gitlab.com/hashsearch.net/internal/core/services/search"
	"gitlab.com/hashsearch.net/internal/core/services/worker"
	"gitlab.com/hashsearch.net/internal/domain"
	"gitlab.com/hashsearch.net/internal/metrics"
	"gitlab.com/hashsearch.net/internal/static/errs"
	"gitlab.com/hashsearch.net/internal/tcp/codec"
	"gitlab.com/hashsearch.net/internal/tcp/connectionmanager"
	"gitlab.com/hashsearch.net/internal/tcp/defs"
	"gitlab.com/hashsearch.net/internal/tcp/handlers"
	"gitlab.com/hashsearch.net/internal/tcp/publishers"
)

// expected maps each reading state to the only tag it accepts and the error
// text sent when something else arrives
var expected = map[domain.SessionState]struct {
	msgType string
	errText string
}{
	domain.SessionStateAwaitCapacity: {defs.MsgCores, defs.ErrTextExpectedCores},
	domain.SessionStateAwaitResult:   {defs.MsgResult, defs.ErrTextExpectedResult},
}

// TCPServer handles TCP connections from workers
type TCPServer struct {
	address       string
	stopPolicy    defs.StopPolicy
	backlog       int
	searchService search.ISearchService
	workerService worker.IWorkerRegistryService
	logger        primary.Logger
	listener      net.Listener
	connectionMgr *connectionmanager.ConnectionManager
	broadcaster   *publishers.StopBroadcaster
	stopCh        chan struct{}
	stopOnce      sync.Once
	mu            sync.Mutex
	closed        bool
	sessions      sync.WaitGroup
	handlers      map[string]primary.MessageHandler
	publisher     map[string]primary.MessagePublisher
}

// TCPServerOption configures a TCPServer
type TCPServerOption func(*TCPServer)

// WithAddress sets the server address
func WithAddress(address string) TCPServerOption {
	return func(s *TCPServer) {
		s.address = address
	}
}

// WithBacklog records the configured listen backlog. Go listeners use the
// kernel backlog, so the value is only reported at startup.
func WithBacklog(backlog int) TCPServerOption {
	return func(s *TCPServer) {
		s.backlog = backlog
	}
}

// WithStopPolicy sets who is told to stop when the search concludes
func WithStopPolicy(policy defs.StopPolicy) TCPServerOption {
	return func(s *TCPServer) {
		s.stopPolicy = policy
	}
}

// NewTCPServer creates a new TCP server
func NewTCPServer(
	searchService search.ISearchService,
	workerService worker.IWorkerRegistryService,
	logger primary.Logger,
	options ...TCPServerOption,
) *TCPServer {
	server := &TCPServer{
		address:       "localhost:12345", // Default address
		stopPolicy:    defs.StopPolicyBroadcast,
		searchService: searchService,
		workerService: workerService,
		logger:        logger,
		connectionMgr: connectionmanager.NewConnectionManager(logger),
		stopCh:        make(chan struct{}),
	}

	// Apply options
	for _, option := range options {
		option(server)
	}

	server.broadcaster = publishers.NewStopBroadcaster(server.connectionMgr, logger)

	// Register message handlers
	server.setupMessageHandlers()

	return server
}

// setupMessageHandlers registers all message handlers
func (s *TCPServer) setupMessageHandlers() {
	s.handlers = map[string]primary.MessageHandler{
		defs.MsgCores:  &handlers.CoresHandler{WorkerService: s.workerService, Logger: s.logger},
		defs.MsgResult: &handlers.ResultHandler{SearchService: s.searchService, WorkerService: s.workerService, Logger: s.logger},
	}

	s.publisher = map[string]primary.MessagePublisher{
		defs.MsgDigest: publishers.NewDigestPublisher(s.searchService, s.logger),
		defs.MsgRange:  publishers.NewRangeAssignPublisher(s.searchService, s.workerService, s.logger),
	}
}

// Start starts the TCP server
func (s *TCPServer) Start() error {
	var err error
	s.listener, err = net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to start TCP server: %w", err)
	}

	s.logger.Info("TCP server listening",
		"address", s.listener.Addr().String(),
		"backlog", s.backlog,
		"stopPolicy", s.stopPolicy)

	// Accept connections in a goroutine
	go s.acceptConnections()

	return nil
}

// Addr is the bound listener address, useful when listening on port 0
func (s *TCPServer) Addr() string {
	if s.listener == nil {
		return s.address
	}
	return s.listener.Addr().String()
}

// ActiveSessions is the number of live worker connections
func (s *TCPServer) ActiveSessions() int {
	return s.connectionMgr.Count()
}

// NotifyConcluded runs once when the search reaches a terminal outcome.
// Under the broadcast policy every live session is told to stop.
func (s *TCPServer) NotifyConcluded(outcome domain.Outcome) {
	s.logger.Info("Search concluded", "status", outcome.Status, "candidate", outcome.Candidate)
	if s.stopPolicy != defs.StopPolicyBroadcast {
		return
	}
	s.broadcaster.BroadcastStop(context.Background())
}

// Drain stops accepting connections and waits for the live sessions to finish
func (s *TCPServer) Drain(ctx context.Context) error {
	s.closeListener()

	done := make(chan struct{})
	go func() {
		s.sessions.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop stops the TCP server
func (s *TCPServer) Stop(ctx context.Context) error {
	s.closeListener()

	// Close all connections
	s.connectionMgr.CloseAll()

	return s.Drain(ctx)
}

func (s *TCPServer) closeListener() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		close(s.stopCh)
		if s.listener != nil {
			if err := s.listener.Close(); err != nil {
				s.logger.Error("Failed to close listener", "error", err)
			}
		}
	})
}

// acceptConnections accepts incoming connections
func (s *TCPServer) acceptConnections() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.stopCh:
				return
			default:
				s.logger.Error("Failed to accept connection", "error", err)
				time.Sleep(defs.ConnectionRetryDelay) // Avoid tight loop on error
				continue
			}
		}

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			_ = conn.Close()
			return
		}
		s.sessions.Add(1)
		s.mu.Unlock()

		// Handle connection in a goroutine
		go s.handleConnection(conn)
	}
}

// handleConnection runs one worker session until it terminates
func (s *TCPServer) handleConnection(netConn net.Conn) {
	defer s.sessions.Done()

	conn := connectionmanager.NewConn(netConn)
	sess := domain.NewSession(conn.RemoteAddr())
	ctx := context.Background()

	s.connectionMgr.Register(sess.ID, conn)
	metrics.ActiveSessions.Inc()
	s.logger.Debug("Worker connected", "sessionId", sess.ID, "remote", sess.RemoteAddr)

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Session panicked", "sessionId", sess.ID, "panic", r)
		}

		// Anything still outstanding was never resolved by the worker
		s.searchService.Abandon(ctx, sess)

		sess.State = domain.SessionStateTerminated
		s.connectionMgr.Remove(sess.ID)
		_ = conn.Close()
		if err := s.workerService.UnregisterWorker(ctx, sess.ID.String()); err != nil {
			s.logger.Debug("Worker registry not updated", "sessionId", sess.ID, "error", err)
		}

		metrics.ActiveSessions.Dec()
		metrics.SessionDuration.Observe(time.Since(sess.ConnectedAt).Seconds())
	}()

	err := s.runSession(ctx, conn, sess)
	s.logSessionEnd(sess, err)
}

// runSession drives the session state machine
func (s *TCPServer) runSession(ctx context.Context, conn *connectionmanager.Conn, sess *domain.Session) error {
	decoder := codec.NewDecoder(conn.Reader())

	if err := s.publisher[defs.MsgDigest].PublishMessage(ctx, conn, sess); err != nil {
		return err
	}

	for sess.State != domain.SessionStateTerminated {
		if sess.State == domain.SessionStateAssign {
			if err := s.publisher[defs.MsgRange].PublishMessage(ctx, conn, sess); err != nil {
				return err
			}
			continue
		}

		want, ok := expected[sess.State]
		if !ok {
			return fmt.Errorf("%w: no transition from %s", errs.ErrProtocol, sess.State)
		}

		msg, err := decoder.ReadMessage()
		if err != nil {
			return err
		}
		metrics.MessagesTotal.WithLabelValues("in", msg.Type).Inc()

		if msg.Type == defs.MsgError {
			return fmt.Errorf("%w: %s", errs.ErrRemote, msg.Text())
		}
		if msg.Type != want.msgType {
			connectionmanager.SendErrorMessage(conn, want.errText)
			return fmt.Errorf("%w: got %s in %s", errs.ErrProtocol, msg.Type, sess.State)
		}

		if err := s.handlers[msg.Type].HandleMessage(ctx, conn, sess, msg.Payload); err != nil {
			return err
		}
	}
	return nil
}

func (s *TCPServer) logSessionEnd(sess *domain.Session, err error) {
	fields := []interface{}{"sessionId", sess.ID, "remote", sess.RemoteAddr, "state", sess.State.String()}

	switch {
	case err == nil:
		s.logger.Info("Session finished", fields...)
	case errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed):
		s.logger.Info("Worker disconnected", fields...)
	case s.searchService.Outcome().Status.Terminal() && errors.Is(err, errs.ErrConnection):
		s.logger.Debug("Session closed after the search concluded", append(fields, "reason", err)...)
	default:
		s.logger.Warn("Session terminated", append(fields, "reason", err)...)
	}
}
