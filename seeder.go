// Package kzseed builds the filters, maps and courses tables from the
// KZTimer Global API and KZ:GO.
package kzseed

import (
	"context"
	"errors"
	"fmt"

	"github.com/kiltia/kzseed/config"
	"github.com/kiltia/kzseed/internal/globalapi"
	"github.com/kiltia/kzseed/internal/kzgo"
	"github.com/kiltia/kzseed/internal/seed"
	"github.com/kiltia/kzseed/pkg/log"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Seeder struct {
	cfg       *config.Config
	globalAPI *globalapi.Client
	kzgo      *kzgo.Client
	backends  []Backend
}

// New opens every configured sink. The caller must Close the seeder.
func New(ctx context.Context, cfg *config.Config) (*Seeder, error) {
	zap.S().Debugw("initializing seeder", "tag", log.LogTagInit)
	backends, err := openBackends(ctx, cfg.Writer.Sinks)
	if err != nil {
		return nil, fmt.Errorf("initializing sinks: %w", err)
	}
	return NewWithBackends(cfg, backends), nil
}

// NewWithBackends uses already opened backends instead of the configured
// sinks.
func NewWithBackends(cfg *config.Config, backends []Backend) *Seeder {
	return &Seeder{
		cfg:       cfg,
		globalAPI: globalapi.New(cfg.GlobalAPI, cfg.HTTP),
		kzgo:      kzgo.New(cfg.KZGO, cfg.HTTP),
		backends:  backends,
	}
}

// Filters downloads the record filters of every mode, with and without
// teleports, and writes them to the filters table.
func (s *Seeder) Filters(ctx context.Context) error {
	requests := seed.FilterRequests()
	sets := make([]seed.FilterSet, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	for i, request := range requests {
		g.Go(func() error {
			params := request.Params(s.cfg.GlobalAPI.Tickrate, s.cfg.GlobalAPI.FilterLimit)
			filters, err := s.globalAPI.RecordFilters(gctx, params)
			if err != nil {
				return fmt.Errorf(
					"fetching %s filters (teleports: %t): %w",
					request.Mode, request.Teleports, err,
				)
			}
			zap.S().Infow(
				"fetched record filters",
				"tag", log.LogTagFetching,
				"mode", request.Mode,
				"teleports", request.Teleports,
				"count", len(filters),
			)
			sets[i] = seed.FilterSet{FilterRequest: request, Filters: filters}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	rows := seed.BuildFilters(sets)
	zap.S().Infow("built filters", "tag", log.LogTagBuilding, "rows", len(rows))

	writer, err := NewWriter[seed.FilterRow](s.cfg.Writer.Tables.Filters, s.backends, s.cfg.Writer)
	if err != nil {
		return err
	}
	return writer.Write(ctx, rows)
}

// Maps downloads the maps of both APIs, joins them and writes the maps
// table followed by the courses table.
func (s *Seeder) Maps(ctx context.Context) error {
	var (
		globalMaps []globalapi.Map
		kzgoMaps   []kzgo.Map
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		globalMaps, err = s.globalAPI.Maps(gctx, s.cfg.GlobalAPI.MapLimit)
		if err != nil {
			return fmt.Errorf("fetching %s maps: %w", globalapi.Name, err)
		}
		zap.S().Infow(
			"fetched maps",
			"tag", log.LogTagFetching,
			"api", globalapi.Name,
			"count", len(globalMaps),
		)
		return nil
	})
	g.Go(func() (err error) {
		kzgoMaps, err = s.kzgo.Maps(gctx)
		if err != nil {
			return fmt.Errorf("fetching %s maps: %w", kzgo.Name, err)
		}
		zap.S().Infow(
			"fetched maps",
			"tag", log.LogTagFetching,
			"api", kzgo.Name,
			"count", len(kzgoMaps),
		)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	result, err := seed.BuildMaps(globalMaps, kzgoMaps)
	if err != nil {
		return fmt.Errorf("building maps: %w", err)
	}
	logger := zap.S().With("tag", log.LogTagBuilding)
	if len(result.Unmatched) > 0 {
		logger.Warnw(
			"skipped KZ:GO maps unknown to the Global API",
			"count", len(result.Unmatched),
			"maps", result.Unmatched,
		)
	}
	if len(result.Duplicates) > 0 {
		logger.Warnw(
			"skipped duplicate KZ:GO maps",
			"count", len(result.Duplicates),
			"maps", result.Duplicates,
		)
	}
	logger.Infow(
		"built maps and courses",
		"maps", len(result.Maps),
		"courses", len(result.Courses),
	)

	mapWriter, err := NewWriter[seed.MapRow](s.cfg.Writer.Tables.Maps, s.backends, s.cfg.Writer)
	if err != nil {
		return err
	}
	courseWriter, err := NewWriter[seed.CourseRow](s.cfg.Writer.Tables.Courses, s.backends, s.cfg.Writer)
	if err != nil {
		return err
	}
	if err := mapWriter.Write(ctx, result.Maps); err != nil {
		return err
	}
	return courseWriter.Write(ctx, result.Courses)
}

func (s *Seeder) Close() error {
	return errors.Join(
		s.globalAPI.Close(),
		s.kzgo.Close(),
		closeBackends(s.backends),
	)
}
