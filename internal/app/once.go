package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/five82/pricewatch/internal/market"
	"github.com/five82/pricewatch/internal/state"
)

// onceTimeout bounds a headless run when the context has no deadline.
const onceTimeout = 30 * time.Second

// ErrNoSnapshot is returned by RunOnce when no price could be fetched.
var ErrNoSnapshot = errors.New("no price snapshot")

// Report is the headless view of the dashboard state.
type Report struct {
	Asset       string                `yaml:"asset"`
	Symbol      string                `yaml:"symbol"`
	Timeframe   market.Timeframe      `yaml:"timeframe"`
	Snapshot    *market.PriceSnapshot `yaml:"snapshot,omitempty"`
	Series      *SeriesSummary        `yaml:"series,omitempty"`
	Error       string                `yaml:"error,omitempty"`
	SeriesError string                `yaml:"series_error,omitempty"`
	UpdatedAt   time.Time             `yaml:"updated_at"`
}

// SeriesSummary condenses a price series for the report.
type SeriesSummary struct {
	Points int             `yaml:"points"`
	From   time.Time       `yaml:"from"`
	To     time.Time       `yaml:"to"`
	First  decimal.Decimal `yaml:"first"`
	Last   decimal.Decimal `yaml:"last"`
	Low    decimal.Decimal `yaml:"low"`
	High   decimal.Decimal `yaml:"high"`
}

// RunOnce fetches the snapshot and the selected series once through the
// engine, writes the resulting view model to w as YAML and exits.
func RunOnce(ctx context.Context, opts Options, w io.Writer) error {
	rt, err := bootstrap(ctx, opts, true)
	if err != nil {
		return err
	}
	defer rt.close()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, onceTimeout)
		defer cancel()
	}

	updates, unsubscribe := rt.engine.Subscribe()
	defer unsubscribe()
	if err := rt.engine.Start(); err != nil {
		return fmt.Errorf("start engine: %w", err)
	}

	vm, err := waitSettled(ctx, updates)
	if err != nil {
		return err
	}
	rt.engine.Pause()

	report := buildReport(rt.cfg.AssetID, rt.cfg.AssetSymbol, vm)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	rt.log.Info("headless run finished",
		zap.Bool("snapshot", vm.HasSnapshot()),
		zap.Int("points", len(vm.Series)),
	)
	if !vm.HasSnapshot() {
		return fmt.Errorf("%w: %s", ErrNoSnapshot, vm.ErrorMessage)
	}
	return nil
}

// waitSettled returns the first view model in which neither the snapshot nor
// the series is loading.
func waitSettled(ctx context.Context, updates <-chan state.ViewModel) (state.ViewModel, error) {
	for {
		select {
		case <-ctx.Done():
			return state.ViewModel{}, fmt.Errorf("wait for data: %w", ctx.Err())
		case vm, ok := <-updates:
			if !ok {
				return state.ViewModel{}, errors.New("engine closed before data arrived")
			}
			if settled(vm) {
				return vm, nil
			}
		}
	}
}

func settled(vm state.ViewModel) bool {
	return !vm.SnapshotLoading && !vm.SeriesLoading &&
		vm.SnapshotState != state.Idle && vm.SeriesState != state.Idle
}

func buildReport(asset, symbol string, vm state.ViewModel) Report {
	r := Report{
		Asset:       asset,
		Symbol:      symbol,
		Timeframe:   vm.SelectedTimeframe,
		Snapshot:    vm.Snapshot,
		Error:       vm.ErrorMessage,
		SeriesError: vm.SeriesError,
		UpdatedAt:   vm.LastUpdated.UTC(),
	}
	if s := vm.Series; len(s) > 0 {
		low, high, _ := s.Bounds()
		r.Series = &SeriesSummary{
			Points: len(s),
			From:   s[0].Time(),
			To:     s[len(s)-1].Time(),
			First:  s[0].Price,
			Last:   s[len(s)-1].Price,
			Low:    low,
			High:   high,
		}
	}
	return r
}
