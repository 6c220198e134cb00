// Package expiry decides which inventory items deserve a "food is expiring"
// alert and schedules device notifications for them, at most once per item per
// calendar day.
package expiry

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pantrywatch/pantrywatch/pkg/dayspan"
	"github.com/pantrywatch/pantrywatch/pkg/history"
	"github.com/pantrywatch/pantrywatch/pkg/inventory"
)

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// nopLogger silently discards all messages.
type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

// Request is one alert handed to the device notification subsystem. The
// subsystem owns delivery; DelaySeconds staggers delivery so alerts arrive in
// the same relative order items were evaluated.
type Request struct {
	ItemID       string `json:"itemId"`
	Title        string `json:"title"`
	Body         string `json:"body"`
	DelaySeconds int    `json:"delaySeconds"`
}

// Notifier is the contract this engine requires from the host notification
// subsystem: drop everything still queued from a previous run, and queue one
// alert for delayed delivery.
type Notifier interface {
	CancelAll(ctx context.Context) error
	Schedule(ctx context.Context, req Request) error
}

// Config holds everything a Scheduler needs.
type Config struct {
	History  *history.Store
	Notifier Notifier
	Log      Logger // optional; nil = no logging

	// BaseDelaySeconds is the delay of the first emitted alert; every further
	// alert adds StrideSeconds. Defaults: 5 and 2.
	BaseDelaySeconds int
	StrideSeconds    int

	// WindowDays is the inclusive upper bound of the alert window in days;
	// items expiring today through WindowDays out are alert-worthy. Default 3.
	WindowDays int

	// DryRun computes eligibility against the real history but skips the
	// cancel-pending step and never persists, so a later real run repeats
	// the same decisions.
	DryRun bool
}

// Result is the outcome of one scheduling run.
type Result struct {
	Requests []Request // emitted alerts, in evaluation order
	Deduped  int       // eligible items suppressed by the notified history
	Invalid  int       // items skipped for malformed expiry dates
	Errors   []error   // non-fatal failures (bad dates, host calls, persistence)
}

type Scheduler struct {
	cfg   Config
	group singleflight.Group
}

func New(cfg Config) *Scheduler {
	if cfg.Log == nil {
		cfg.Log = nopLogger{}
	}
	if cfg.BaseDelaySeconds <= 0 {
		cfg.BaseDelaySeconds = 5
	}
	if cfg.StrideSeconds <= 0 {
		cfg.StrideSeconds = 2
	}
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 3
	}
	return &Scheduler{cfg: cfg}
}

// Run takes an inventory snapshot and schedules alerts for items expiring
// within the window, skipping items already alerted today. Items are scanned
// in the order given; emitted delays strictly increase, so the device delivers
// alerts in scan order. now is threaded explicitly to keep runs deterministic.
//
// Concurrent Run calls for the same calendar day collapse into a single
// execution; later callers receive the in-flight result. Separate processes
// sharing one database can still race and double-alert, an accepted limitation
// of the single-foreground-refresh host this engine ships in.
//
// Nothing in a run is fatal: bad records, host notification failures and
// persistence failures all degrade to fewer alerts plus entries in
// Result.Errors. The only returned error is context cancellation.
func (s *Scheduler) Run(ctx context.Context, items []inventory.ItemSnapshot, now time.Time) (*Result, error) {
	v, err, _ := s.group.Do(dayspan.DayKey(now), func() (interface{}, error) {
		return s.run(ctx, items, now)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Result), nil
}

func (s *Scheduler) run(ctx context.Context, items []inventory.ItemSnapshot, now time.Time) (*Result, error) {
	log := s.cfg.Log
	result := &Result{}

	// Stale alerts from a previous run would describe an inventory that no
	// longer exists; drop everything still queued. Already-delivered tray
	// notifications are out of reach and stay.
	if !s.cfg.DryRun {
		if err := s.cfg.Notifier.CancelAll(ctx); err != nil {
			log.Warnf("Could not cancel pending notifications: %v", err)
			result.Errors = append(result.Errors, fmt.Errorf("cancel pending: %w", err))
		}
	}

	notified, err := s.cfg.History.Load(ctx)
	if err != nil {
		// Proceed with the empty mapping: worst case one duplicate alert.
		log.Warnf("Proceeding with empty notified history: %v", err)
		result.Errors = append(result.Errors, err)
	}

	day := dayspan.DayKey(now)
	scheduled := 0

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		daysLeft, err := dayspan.DaysUntil(item.ExpiryDate, now)
		if err != nil {
			// One bad record must not sink the batch.
			log.Warnf("Skipping item %s: %v", item.ID, err)
			result.Invalid++
			result.Errors = append(result.Errors, err)
			continue
		}
		if daysLeft < 0 || daysLeft > s.cfg.WindowDays {
			continue
		}

		key := history.Key(item.ID, day)
		if notified.Has(key) {
			log.Debugf("Already notified today for %s (%s)", item.DisplayName, item.ID)
			result.Deduped++
			continue
		}

		req := Request{
			ItemID:       item.ID,
			Title:        "Food expiring soon",
			Body:         alertBody(item.DisplayName, daysLeft),
			DelaySeconds: s.cfg.BaseDelaySeconds + scheduled*s.cfg.StrideSeconds,
		}
		if err := s.cfg.Notifier.Schedule(ctx, req); err != nil {
			// Not marked in history, so the next run retries this item.
			log.Errorf("Could not schedule alert for %s: %v", item.DisplayName, err)
			result.Errors = append(result.Errors, fmt.Errorf("schedule %s: %w", item.ID, err))
			continue
		}

		notified.Set(key)
		result.Requests = append(result.Requests, req)
		scheduled++
	}

	if !s.cfg.DryRun {
		if err := s.cfg.History.Save(ctx, notified); err != nil {
			// Alerts for this run are already queued; losing the save only
			// risks duplicate alerts on the next run today.
			log.Warnf("Could not persist notified history: %v", err)
			result.Errors = append(result.Errors, err)
		}
	}

	log.Infof("Scheduled %d alert(s), %d suppressed, %d invalid", len(result.Requests), result.Deduped, result.Invalid)
	return result, nil
}

func alertBody(name string, daysLeft int) string {
	switch daysLeft {
	case 0:
		return fmt.Sprintf("%s expires today!", name)
	case 1:
		return fmt.Sprintf("%s expires in 1 day.", name)
	default:
		return fmt.Sprintf("%s expires in %d days.", name, daysLeft)
	}
}
