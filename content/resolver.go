package content

import (
	"context"
	"errors"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"
)

// errFound short-circuits the exists fan-out through errgroup's
// cancellation.
var errFound = errors.New("found")

// resolverSet holds the registered resolvers. Registration is append
// only; probing works on a snapshot so registration never races an
// in-flight probe.
type resolverSet struct {
	mu        sync.RWMutex
	resolvers []Resolver
}

func (s *resolverSet) add(r Resolver) {
	s.mu.Lock()
	s.resolvers = append(s.resolvers, r)
	s.mu.Unlock()
}

func (s *resolverSet) snapshot() []Resolver {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolvers[:len(s.resolvers):len(s.resolvers)]
}

// exists asks every resolver concurrently and reports true as soon as
// any of them answers yes, cancelling the remaining probes.
func (s *resolverSet) exists(ctx context.Context, path string) (bool, error) {
	g, gctx := errgroup.WithContext(ctx)
	for _, r := range s.snapshot() {
		r := r
		g.Go(func() error {
			ok, err := r.Exists(gctx, path)
			if err != nil {
				return err
			}
			if ok {
				return errFound
			}
			return nil
		})
	}
	err := g.Wait()
	if errors.Is(err, errFound) {
		return true, nil
	}
	return false, err
}

// open races all resolvers and returns the stream of whichever finishes
// first with a match. Returns ErrNoMatch when every resolver declined.
func (s *resolverSet) open(ctx context.Context, path string) (io.ReadCloser, error) {
	return race(ctx, s.snapshot(), ErrNoMatch,
		func(ctx context.Context, r Resolver) (io.ReadCloser, error) {
			return r.Open(ctx, path)
		})
}

// create mirrors open for writable streams. Exhaustion is unusual
// here: write mode is expected to find at least a default resolver
// able to create the target, so it gets its own error.
func (s *resolverSet) create(ctx context.Context, path string) (io.WriteCloser, error) {
	return race(ctx, s.snapshot(), ErrNoWritableSource,
		func(ctx context.Context, r Resolver) (io.WriteCloser, error) {
			return r.Create(ctx, path)
		})
}

type probeResult[S io.Closer] struct {
	stream S
	err    error
}

// race fans out one probe per resolver and takes the first stream that
// arrives. First-to-finish wins on purpose: backends are disjoint in
// what they serve, and latency matters more than a deterministic
// winner. Losers are cancelled best-effort and any stream they still
// produce is closed in the background, never blocking the caller.
func race[S io.Closer](ctx context.Context, resolvers []Resolver, exhausted error, probe func(context.Context, Resolver) (S, error)) (S, error) {
	var zero S
	if len(resolvers) == 0 {
		return zero, exhausted
	}

	rctx, cancel := context.WithCancel(ctx)
	results := make(chan probeResult[S], len(resolvers))
	for _, r := range resolvers {
		r := r
		go func() {
			stream, err := probe(rctx, r)
			results <- probeResult[S]{stream, err}
		}()
	}

	var firstErr error
	for remaining := len(resolvers); remaining > 0; remaining-- {
		res := <-results
		if res.err != nil {
			if firstErr == nil && !errors.Is(res.err, ErrNoMatch) && !errors.Is(res.err, context.Canceled) {
				firstErr = res.err
			}
			continue
		}
		if any(res.stream) == nil {
			continue
		}
		cancel()
		go func(stragglers int) {
			for i := 0; i < stragglers; i++ {
				if res := <-results; any(res.stream) != nil {
					res.stream.Close()
				}
			}
		}(remaining - 1)
		return res.stream, nil
	}
	cancel()

	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if firstErr != nil {
		return zero, firstErr
	}
	return zero, exhausted
}
