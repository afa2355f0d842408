package match_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/flagrank/internal/adapters/repository"
	"github.com/okian/flagrank/internal/domain/match"
	"github.com/okian/flagrank/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func newStore(n int) *repository.ItemStore {
	items := make([]model.Item, n)
	for i := range items {
		code := fmt.Sprintf("C%02d", i)
		items[i] = model.Item{Code: code, Name: code, Rating: model.DefaultRating}
	}
	s := repository.NewItemStore()
	if err := s.Initialize(context.Background(), items); err != nil {
		panic(err)
	}
	return s
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestBroker_Create(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store with fewer than two items", t, func() {
		b := match.NewBroker(newStore(1))

		Convey("Then Create should fail with ErrInsufficientItems", func() {
			_, err := b.Create(ctx)
			So(errors.Is(err, match.ErrInsufficientItems), ShouldBeTrue)
			So(b.Len(), ShouldEqual, 0)
		})
	})

	Convey("Given a store with exactly two items", t, func() {
		b := match.NewBroker(newStore(2), match.WithRand(rand.New(rand.NewPCG(1, 2))))

		Convey("Then every match should be that pair in some order", func() {
			for i := 0; i < 200; i++ {
				pm, err := b.Create(ctx)
				So(err, ShouldBeNil)
				So(pm.A, ShouldNotEqual, pm.B)
				pair := pm.A + "-" + pm.B
				So(pair == "C00-C01" || pair == "C01-C00", ShouldBeTrue)
			}
		})
	})

	Convey("Given a larger store", t, func() {
		b := match.NewBroker(newStore(10))

		Convey("Then matches should never pair an item with itself and ids should be unique", func() {
			seen := make(map[string]bool)
			for i := 0; i < 500; i++ {
				pm, err := b.Create(ctx)
				So(err, ShouldBeNil)
				So(pm.A, ShouldNotEqual, pm.B)
				So(seen[pm.ID], ShouldBeFalse)
				seen[pm.ID] = true
			}
			So(b.Len(), ShouldEqual, 500)
		})
	})
}

func TestBroker_Resolve(t *testing.T) {
	ctx := context.Background()

	Convey("Given a pending match", t, func() {
		store := newStore(4)
		b := match.NewBroker(store)
		pm, err := b.Create(ctx)
		So(err, ShouldBeNil)

		Convey("When it is resolved", func() {
			res, err := b.Resolve(ctx, pm.ID, model.OutcomeA)

			Convey("Then both items should gain one game and the match should be gone", func() {
				So(err, ShouldBeNil)
				So(res.Match.ID, ShouldEqual, pm.ID)
				So(res.A.Delta, ShouldAlmostEqual, 62.5, 1e-9)
				So(res.B.Delta, ShouldAlmostEqual, -62.5, 1e-9)

				a, _ := store.Get(ctx, pm.A)
				bb, _ := store.Get(ctx, pm.B)
				So(a.Games(), ShouldEqual, 1)
				So(bb.Games(), ShouldEqual, 1)
				So(b.Len(), ShouldEqual, 0)
			})

			Convey("And resolved a second time", func() {
				_, err := b.Resolve(ctx, pm.ID, model.OutcomeB)

				Convey("Then it should fail with ErrUnknownMatch and change nothing", func() {
					So(errors.Is(err, match.ErrUnknownMatch), ShouldBeTrue)
					So(store.TotalGames(ctx), ShouldEqual, 2)
				})
			})
		})

		Convey("When the outcome is invalid", func() {
			_, err := b.Resolve(ctx, pm.ID, model.OutcomeUnknown)

			Convey("Then it should fail with ErrInvalidOutcome and keep the match resolvable", func() {
				So(errors.Is(err, model.ErrInvalidOutcome), ShouldBeTrue)
				So(b.Len(), ShouldEqual, 1)

				_, err = b.Resolve(ctx, pm.ID, model.OutcomeDraw)
				So(err, ShouldBeNil)
			})
		})

		Convey("When the id was never issued", func() {
			_, err := b.Resolve(ctx, "00000000-0000-4000-8000-000000000000", model.OutcomeA)

			Convey("Then it should fail with ErrUnknownMatch", func() {
				So(errors.Is(err, match.ErrUnknownMatch), ShouldBeTrue)
				So(b.Len(), ShouldEqual, 1)
			})
		})
	})
}

func TestBroker_Expiry(t *testing.T) {
	ctx := context.Background()

	Convey("Given a broker with a one minute TTL", t, func() {
		clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
		b := match.NewBroker(newStore(3), match.WithTTL(time.Minute), match.WithClock(clock.Now))

		old, err := b.Create(ctx)
		So(err, ShouldBeNil)
		clock.Advance(30 * time.Second)
		fresh, err := b.Create(ctx)
		So(err, ShouldBeNil)

		Convey("When the first match outlives the TTL", func() {
			clock.Advance(45 * time.Second)

			Convey("Then Sweep should drop only the expired match", func() {
				So(b.Sweep(ctx), ShouldEqual, 1)
				So(b.Len(), ShouldEqual, 1)
			})

			Convey("Then resolving it should fail with ErrUnknownMatch", func() {
				_, err := b.Resolve(ctx, old.ID, model.OutcomeA)
				So(errors.Is(err, match.ErrUnknownMatch), ShouldBeTrue)

				_, err = b.Resolve(ctx, fresh.ID, model.OutcomeA)
				So(err, ShouldBeNil)
			})
		})
	})

	Convey("Given a broker capped at two pending matches", t, func() {
		b := match.NewBroker(newStore(3), match.WithCapacity(2))

		first, _ := b.Create(ctx)
		second, _ := b.Create(ctx)
		third, _ := b.Create(ctx)

		Convey("Then the oldest match should have been evicted", func() {
			So(b.Len(), ShouldEqual, 2)

			_, err := b.Resolve(ctx, first.ID, model.OutcomeA)
			So(errors.Is(err, match.ErrUnknownMatch), ShouldBeTrue)

			_, err = b.Resolve(ctx, second.ID, model.OutcomeA)
			So(err, ShouldBeNil)
			_, err = b.Resolve(ctx, third.ID, model.OutcomeA)
			So(err, ShouldBeNil)
		})
	})
}

func TestBroker_ConcurrentCreateResolve(t *testing.T) {
	Convey("Given many voters creating and resolving concurrently", t, func() {
		ctx := context.Background()
		store := newStore(12)
		b := match.NewBroker(store)

		const (
			voters   = 16
			perVoter = 200
		)
		var resolved atomic.Int64

		g, gctx := errgroup.WithContext(ctx)
		for v := 0; v < voters; v++ {
			g.Go(func() error {
				outcomes := []model.Outcome{model.OutcomeA, model.OutcomeB, model.OutcomeDraw}
				for i := 0; i < perVoter; i++ {
					pm, err := b.Create(gctx)
					if err != nil {
						return err
					}
					if _, err := b.Resolve(gctx, pm.ID, outcomes[i%3]); err != nil {
						return err
					}
					resolved.Add(1)
				}
				return nil
			})
		}
		err := g.Wait()

		Convey("Then no update should be lost", func() {
			So(err, ShouldBeNil)
			So(int(resolved.Load()), ShouldEqual, voters*perVoter)
			So(store.TotalGames(ctx), ShouldEqual, 2*voters*perVoter)
			So(b.Len(), ShouldEqual, 0)
		})
	})

	Convey("Given one match resolved by many goroutines at once", t, func() {
		ctx := context.Background()
		store := newStore(2)
		b := match.NewBroker(store)
		pm, err := b.Create(ctx)
		So(err, ShouldBeNil)

		var wins, unknown atomic.Int64
		var wg sync.WaitGroup
		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := b.Resolve(ctx, pm.ID, model.OutcomeA)
				switch {
				case err == nil:
					wins.Add(1)
				case errors.Is(err, match.ErrUnknownMatch):
					unknown.Add(1)
				}
			}()
		}
		wg.Wait()

		Convey("Then exactly one resolution should succeed", func() {
			So(int(wins.Load()), ShouldEqual, 1)
			So(int(unknown.Load()), ShouldEqual, 31)
			So(store.TotalGames(ctx), ShouldEqual, 2)
		})
	})
}
