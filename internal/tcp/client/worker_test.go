package client

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/hashsearch.net/internal/adapter/crypto"
	"gitlab.com/hashsearch.net/internal/adapter/logging"
	"gitlab.com/hashsearch.net/internal/adapter/memory/rangeledger"
	"gitlab.com/hashsearch.net/internal/adapter/memory/workerport"
	"gitlab.com/hashsearch.net/internal/config"
	"gitlab.com/hashsearch.net/internal/core/services/allocator"
	"gitlab.com/hashsearch.net/internal/core/services/bruteforce"
	"gitlab.com/hashsearch.net/internal/core/services/search"
	"gitlab.com/hashsearch.net/internal/core/services/worker"
	"gitlab.com/hashsearch.net/internal/domain"
	"gitlab.com/hashsearch.net/internal/static/errs"
	"gitlab.com/hashsearch.net/internal/tcp"
	"gitlab.com/hashsearch.net/internal/tcp/codec"
	"gitlab.com/hashsearch.net/internal/tcp/defs"
)

func newForcer(t *testing.T) bruteforce.IBruteForcer {
	t.Helper()
	d, err := crypto.NewDigester(crypto.DigestMD5)
	require.NoError(t, err)
	return bruteforce.NewBruteForcer(d, crypto.DecimalEnumerator{}, 2, logging.NewNopLogger())
}

func startCoordinator(t *testing.T, digest string) (*tcp.TCPServer, *search.SearchService) {
	t.Helper()
	logger := logging.NewNopLogger()

	cfg := &config.SearchConfig{
		TargetDigest:    digest,
		Algorithm:       crypto.DigestMD5,
		Start:           10000,
		Ceiling:         100000,
		WorkloadPerCore: 1000,
		StopPolicy:      defs.StopPolicyBroadcast,
	}
	a, err := allocator.NewRangeAllocator(cfg.Start, cfg.Ceiling, cfg.WorkloadPerCore)
	require.NoError(t, err)
	searchSvc := search.NewSearchService(cfg, a, rangeledger.NewRangeLedger(0), logger)
	registry := worker.NewWorkerRegistryService(workerport.NewWorkerRepository(), logger)

	server := tcp.NewTCPServer(searchSvc, registry, logger, tcp.WithAddress("127.0.0.1:0"))
	searchSvc.SetConcludeNotifier(server.NotifyConcluded)
	require.NoError(t, server.Start())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Stop(ctx)
	})
	return server, searchSvc
}

func TestWorkersFindCandidate(t *testing.T) {
	server, searchSvc := startCoordinator(t, "827ccb0eea8a706c4c34a16891f84e7b")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	var (
		wg      sync.WaitGroup
		reports = make([]Report, 3)
		errors  = make([]error, 3)
	)
	for i := range reports {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := NewWorker(server.Addr(), i+1, newForcer(t), logging.NewNopLogger())
			reports[i], errors[i] = w.Run(ctx)
		}(i)
	}
	wg.Wait()

	found := 0
	for i := range reports {
		require.NoError(t, errors[i])
		if reports[i].Found {
			found++
			assert.Equal(t, "12345", reports[i].Candidate)
		}
	}
	assert.Equal(t, 1, found)
	assert.Equal(t, domain.SearchStatusFound, searchSvc.Outcome().Status)
	assert.Equal(t, "12345", searchSvc.Outcome().Candidate)
}

func TestWorkerExhaustsSearch(t *testing.T) {
	// md5("hello"), which no decimal candidate matches
	server, searchSvc := startCoordinator(t, "5d41402abc4b2a76b9719d911017c592")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	report, err := NewWorker(server.Addr(), 8, newForcer(t), logging.NewNopLogger()).Run(ctx)
	require.NoError(t, err)
	assert.False(t, report.Found)
	assert.Equal(t, 12, report.Ranges)
	assert.Equal(t, domain.SearchStatusExhausted, searchSvc.Outcome().Status)
}

// fakeCoordinator accepts one connection and runs script against it
func fakeCoordinator(t *testing.T, script func(conn net.Conn, dec *codec.Decoder)) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		script(conn, codec.NewDecoder(conn))
	}()
	return ln.Addr().String()
}

func TestWorkerStopsOnCoordinatorError(t *testing.T) {
	addr := fakeCoordinator(t, func(conn net.Conn, dec *codec.Decoder) {
		_, _ = dec.ReadMessage()
		_ = codec.WriteMessage(conn, defs.MsgError, []byte("ERROR: go away"))
	})

	_, err := NewWorker(addr, 1, newForcer(t), logging.NewNopLogger()).Run(context.Background())
	assert.ErrorIs(t, err, errs.ErrRemote)
}

func TestWorkerRejectsUnexpectedGreeting(t *testing.T) {
	addr := fakeCoordinator(t, func(conn net.Conn, dec *codec.Decoder) {
		_, _ = dec.ReadMessage()
		_ = codec.WriteMessage(conn, defs.MsgRange, []byte("1-2"))
	})

	_, err := NewWorker(addr, 1, newForcer(t), logging.NewNopLogger()).Run(context.Background())
	assert.ErrorIs(t, err, errs.ErrProtocol)
}

func TestWorkerAbortsRangeOnStop(t *testing.T) {
	got := make(chan codec.Message, 4)
	addr := fakeCoordinator(t, func(conn net.Conn, dec *codec.Decoder) {
		msg, _ := dec.ReadMessage()
		got <- msg
		_ = codec.WriteMessage(conn, defs.MsgDigest, []byte("827ccb0eea8a706c4c34a16891f84e7b"))
		_ = codec.WriteMessage(conn, defs.MsgRange, []byte("100000000-900000000"))
		time.Sleep(50 * time.Millisecond)
		_ = codec.WriteMessage(conn, defs.MsgRange, []byte(defs.StopSentinel))
		if msg, err := dec.ReadMessage(); err == nil {
			got <- msg
		}
		close(got)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	report, err := NewWorker(addr, 3, newForcer(t), logging.NewNopLogger()).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Ranges)

	var msgs []codec.Message
	for m := range got {
		msgs = append(msgs, m)
	}
	require.Len(t, msgs, 1)
	assert.Equal(t, codec.Message{Type: defs.MsgCores, Payload: []byte("3")}, msgs[0])
}
