package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/decker502/wqscroll/pkg/components"
	"github.com/decker502/wqscroll/pkg/config"
	"github.com/decker502/wqscroll/pkg/ecs"
	"github.com/decker502/wqscroll/pkg/entities"
	"github.com/decker502/wqscroll/pkg/sequencer"
	"github.com/decker502/wqscroll/pkg/timeline"
	"github.com/decker502/wqscroll/pkg/utils"
	"go.uber.org/zap"
)

// session 无窗口的区块实例：实体、标记和已初始化的序列器
type session struct {
	em      *ecs.EntityManager
	markup  sequencer.Markup
	seq     *sequencer.Sequencer
	metrics []config.Metric
	states  []timeline.PhaseState
}

// counterRow 一个水滴的当前显示
type counterRow struct {
	Label string
	Text  string
}

type sessionOptions struct {
	MetricsPath   string
	SequencePath  string
	Seed          uint64
	ReducedMotion bool
	Logger        *zap.Logger
}

func loadInputs(opts sessionOptions) ([]config.Metric, *config.SequenceConfig, error) {
	metrics := config.DefaultMetrics()
	if opts.MetricsPath != "" {
		m, err := config.LoadMetricsFile(opts.MetricsPath)
		if err != nil {
			return nil, nil, err
		}
		metrics = m
	}
	cfg := config.DefaultSequenceConfig()
	if opts.SequencePath != "" {
		c, err := config.LoadSequenceConfigFile(opts.SequencePath)
		if err != nil {
			return nil, nil, err
		}
		cfg = c
	}
	return metrics, cfg, nil
}

// newSession 创建区块并立即初始化序列器（无需等待就绪闸门）
func newSession(opts sessionOptions) (*session, error) {
	metrics, cfg, err := loadInputs(opts)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	em := ecs.NewEntityManager()
	markup := entities.NewWaterQualitySection(em, metrics, entities.DefaultSectionLayout(), utils.NewNumberFormatter(cfg.Locale))
	seq, err := sequencer.New(em, markup, metrics, cfg,
		sequencer.WithLogger(logger),
		sequencer.WithRand(rand.New(rand.NewPCG(opts.Seed, opts.Seed+1))),
		sequencer.WithReducedMotion(opts.ReducedMotion))
	if err != nil {
		return nil, err
	}
	if err := seq.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize sequence: %w", err)
	}
	s := &session{em: em, markup: markup, seq: seq, metrics: metrics}
	s.seek(0)
	return s, nil
}

// seek 把时间轴移到进度 p，并刷新阶段状态
func (s *session) seek(p float64) {
	s.seq.SetProgress(p)
	if tl := s.seq.Timeline(); tl != nil {
		s.states = tl.States(s.states[:0])
	}
}

// phases 返回阶段和当前状态，未动画化时为空
func (s *session) phases() ([]*timeline.Phase, []timeline.PhaseState) {
	tl := s.seq.Timeline()
	if tl == nil {
		return nil, nil
	}
	return tl.Phases(), s.states
}

func (s *session) counters() []counterRow {
	rows := make([]counterRow, 0, len(s.markup.Droplets))
	for i, d := range s.markup.Droplets {
		if i >= len(s.metrics) {
			break
		}
		counter, ok := ecs.GetComponent[*components.CounterComponent](s.em, d.ValueSlot)
		if !ok {
			continue
		}
		rows = append(rows, counterRow{
			Label: s.metrics[i].Label,
			Text:  counter.Displayed + " " + counter.Unit,
		})
	}
	return rows
}

func (s *session) close() {
	s.seq.Dispose()
}
