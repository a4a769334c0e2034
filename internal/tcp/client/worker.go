// Package client implements the worker side of the search protocol
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"

	"gitlab.com/hashsearch.net/internal/core/ports/primary"
	"gitlab.com/hashsearch.net/internal/core/services/bruteforce"
	"gitlab.com/hashsearch.net/internal/domain"
	"gitlab.com/hashsearch.net/internal/static/errs"
	"gitlab.com/hashsearch.net/internal/tcp/codec"
	"gitlab.com/hashsearch.net/internal/tcp/defs"
)

// Report summarises one worker run
type Report struct {
	Target    string
	Ranges    int
	Found     bool
	Candidate string
}

type Worker struct {
	Address string
	Cores   int
	forcer  bruteforce.IBruteForcer
	logger  primary.Logger
}

func NewWorker(address string, cores int, forcer bruteforce.IBruteForcer, logger primary.Logger) *Worker {
	return &Worker{
		Address: address,
		Cores:   cores,
		forcer:  forcer,
		logger:  logger,
	}
}

type incoming struct {
	msg codec.Message
	err error
}

type searchResult struct {
	candidate string
	found     bool
	err       error
}

// Run connects to the coordinator and searches ranges until told to stop
func (w *Worker) Run(ctx context.Context) (Report, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", w.Address)
	if err != nil {
		return Report{}, fmt.Errorf("%w: failed to connect to %s: %w", errs.ErrConnection, w.Address, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	msgs := make(chan incoming)
	go readLoop(ctx, codec.NewDecoder(conn), msgs)

	if err := codec.WriteMessage(conn, defs.MsgCores, []byte(strconv.Itoa(w.Cores))); err != nil {
		return Report{}, err
	}

	var report Report

	in, ok := <-msgs
	if !ok {
		return report, ctx.Err()
	}
	if in.err != nil {
		return report, in.err
	}
	switch in.msg.Type {
	case defs.MsgDigest:
		report.Target = in.msg.Text()
	case defs.MsgError:
		return report, fmt.Errorf("%w: %s", errs.ErrRemote, in.msg.Text())
	default:
		return report, fmt.Errorf("%w: expected %s, got %s", errs.ErrProtocol, defs.MsgDigest, in.msg.Type)
	}
	w.logger.Info("Connected to coordinator", "address", w.Address, "cores", w.Cores, "target", report.Target)

	for {
		var in incoming
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		case in, ok = <-msgs:
		}
		if !ok {
			return report, ctx.Err()
		}
		if in.err != nil {
			// the coordinator may close right after the match was accepted
			if report.Found && errors.Is(in.err, io.EOF) {
				return report, nil
			}
			return report, in.err
		}

		r, stop, err := parseAssignment(in.msg)
		if err != nil {
			return report, err
		}
		if stop {
			w.logger.Info("Coordinator stopped the search", "ranges", report.Ranges)
			return report, nil
		}

		res, stopped, err := w.search(ctx, r, report.Target, msgs)
		if err != nil {
			return report, err
		}
		if stopped {
			w.logger.Info("Search stopped mid-range", "range", r.String())
			return report, nil
		}
		report.Ranges++

		payload := defs.NotFoundSentinel
		if res.found {
			payload = res.candidate
			report.Found = true
			report.Candidate = res.candidate
			w.logger.Info("Match found", "range", r.String(), "candidate", res.candidate)
		}
		if err := codec.WriteMessage(conn, defs.MsgResult, []byte(payload)); err != nil {
			return report, err
		}
	}
}

// search brute-forces r while watching the connection for a stop sentinel
func (w *Worker) search(ctx context.Context, r domain.Range, target string, msgs <-chan incoming) (searchResult, bool, error) {
	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan searchResult, 1)
	go func() {
		candidate, found, err := w.forcer.Search(searchCtx, r, target)
		done <- searchResult{candidate: candidate, found: found, err: err}
	}()

	select {
	case res := <-done:
		return res, false, res.err
	case in, ok := <-msgs:
		cancel()
		<-done
		if !ok {
			return searchResult{}, false, ctx.Err()
		}
		if in.err != nil {
			return searchResult{}, false, in.err
		}
		if _, stop, err := parseAssignment(in.msg); err != nil || !stop {
			return searchResult{}, false, fmt.Errorf("%w: unexpected %s while searching", errs.ErrProtocol, in.msg.Type)
		}
		return searchResult{}, true, nil
	}
}

func parseAssignment(msg codec.Message) (domain.Range, bool, error) {
	switch msg.Type {
	case defs.MsgRange:
	case defs.MsgError:
		return domain.Range{}, false, fmt.Errorf("%w: %s", errs.ErrRemote, msg.Text())
	default:
		return domain.Range{}, false, fmt.Errorf("%w: expected %s, got %s", errs.ErrProtocol, defs.MsgRange, msg.Type)
	}

	if msg.Text() == defs.StopSentinel {
		return domain.Range{}, true, nil
	}
	r, err := domain.ParseRange(msg.Text())
	if err != nil {
		return domain.Range{}, false, fmt.Errorf("%w: %w", errs.ErrProtocol, err)
	}
	return r, false, nil
}

// readLoop forwards decoded frames until the first error
func readLoop(ctx context.Context, dec *codec.Decoder, out chan<- incoming) {
	defer close(out)
	for {
		msg, err := dec.ReadMessage()
		select {
		case out <- incoming{msg: msg, err: err}:
		case <-ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}
