package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/titlelex/titlelex/internal/observability"
	"github.com/titlelex/titlelex/internal/patterns"
	"github.com/titlelex/titlelex/internal/telemetry"
)

// Options configures a Pipeline's runtime behavior.
type Options struct {
	// StageTimeout bounds each stage's wall-clock time. Zero disables the
	// bound. A stage that exceeds it is treated as a miss: the title
	// passes through unchanged and the stage's confidence is 0.
	StageTimeout time.Duration
}

// Pipeline runs the five fixed stages over a title: market classification,
// date extraction, report-type reconstruction, geographic detection, and
// topic normalization.
type Pipeline struct {
	lib     *patterns.Library
	logger  *observability.Logger
	writer  *telemetry.Writer
	options Options
}

// New builds a Pipeline bound to a pattern library. logger and writer may
// be nil; a nil writer simply means outcomes aren't recorded.
func New(lib *patterns.Library, logger *observability.Logger, writer *telemetry.Writer, opts Options) *Pipeline {
	return &Pipeline{lib: lib, logger: logger, writer: writer, options: opts}
}

// runStage runs one stage and reports whether it ran to completion. A
// stage is executed on its own goroutine so a timeout can abandon it and a
// panic can be recovered without taking the whole run down with it.
func (p *Pipeline) runStage(ctx context.Context, name string, fn func() (string, StageMeta)) (string, StageMeta, bool) {
	type result struct {
		title string
		meta  StageMeta
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{meta: StageMeta{Confidence: 0, Notes: fmt.Sprintf("stage panic: %v", r)}}
			}
		}()
		title, meta := fn()
		done <- result{title: title, meta: meta}
	}()

	if p.options.StageTimeout <= 0 {
		r := <-done
		return r.title, r.meta, true
	}

	timer := time.NewTimer(p.options.StageTimeout)
	defer timer.Stop()

	select {
	case r := <-done:
		return r.title, r.meta, true
	case <-timer.C:
		if p.logger != nil {
			p.logger.Warn().Str("stage", name).Msg("stage timed out")
		}
		return "", StageMeta{Confidence: 0, Notes: "stage timed out"}, false
	case <-ctx.Done():
		return "", StageMeta{Confidence: 0, Notes: "context canceled"}, false
	}
}

// Run parses a single title through all five stages in order and returns
// the final structured output. It never returns an error for an
// unparseable title: every stage degrades to an empty payload and a zero
// confidence rather than failing the run. The only error path is a
// canceled context.
func (p *Pipeline) Run(ctx context.Context, title string) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := &Output{
		OriginalTitle:     title,
		ConfidenceByStage: map[string]float64{},
	}

	working := title

	var marketMeta StageMeta
	var classification MarketClassification
	working, classification, marketMeta = p.stageMarket(ctx, working)
	out.MarketType = classification.MarketType
	out.ConfidenceByStage["market"] = marketMeta.Confidence
	p.note(out, "market", marketMeta)

	var dateMeta StageMeta
	var dateExt DateExtraction
	working, dateExt, dateMeta = p.stageDate(ctx, working)
	out.ConfidenceByStage["date"] = dateMeta.Confidence
	if dateExt.Range != "" {
		r := dateExt.Range
		out.ExtractedDateRange = &r
	}
	p.note(out, "date", dateMeta)

	var reportMeta StageMeta
	var reportExt ReportTypeExtraction
	working, reportExt, reportMeta = p.stageReportType(ctx, working, classification.MarketType)
	out.ExtractedReportType = reportExt.ReportType
	out.ConfidenceByStage["report_type"] = reportMeta.Confidence
	if reportExt.ExtractedAcronym != "" {
		a := reportExt.ExtractedAcronym
		out.ExtractedAcronym = &a
	}
	p.note(out, "report_type", reportMeta)

	var geoMeta StageMeta
	var geoExt GeoExtraction
	working, geoExt, geoMeta = p.stageGeo(ctx, working)
	out.ExtractedRegions = geoExt.Regions
	if out.ExtractedRegions == nil {
		out.ExtractedRegions = []string{}
	}
	out.ConfidenceByStage["geo"] = geoMeta.Confidence
	p.note(out, "geo", geoMeta)

	topicExt, topicMeta := extractTopic(working)
	out.Topic = topicExt.Topic
	out.NormalizedTopic = topicExt.NormalizedTopic
	out.ConfidenceByStage["topic"] = topicMeta.Confidence
	p.note(out, "topic", topicMeta)

	return out, nil
}

func (p *Pipeline) note(out *Output, stage string, meta StageMeta) {
	if meta.Notes != "" {
		out.Notes = append(out.Notes, stage+": "+meta.Notes)
	}
	if p.writer != nil {
		p.writer.RecordStageConfidence(stage, meta.Confidence, meta.Confidence > 0)
	}
}

func (p *Pipeline) stageMarket(ctx context.Context, title string) (string, MarketClassification, StageMeta) {
	var classification MarketClassification
	out, meta, _ := p.runStage(ctx, "market", func() (string, StageMeta) {
		t, c, m := classifyMarket(p.lib, title)
		classification = c
		return t, m
	})
	if out == "" {
		out = title
	}
	return out, classification, meta
}

func (p *Pipeline) stageDate(ctx context.Context, title string) (string, DateExtraction, StageMeta) {
	var extraction DateExtraction
	out, meta, _ := p.runStage(ctx, "date", func() (string, StageMeta) {
		t, e, m := extractDate(p.lib, title)
		extraction = e
		return t, m
	})
	if out == "" && meta.Confidence == 0 {
		out = title
	}
	return out, extraction, meta
}

func (p *Pipeline) stageReportType(ctx context.Context, title string, marketType MarketType) (string, ReportTypeExtraction, StageMeta) {
	var extraction ReportTypeExtraction
	out, meta, _ := p.runStage(ctx, "report_type", func() (string, StageMeta) {
		t, e, m := extractReportType(p.lib, title, marketType)
		extraction = e
		return t, m
	})
	if out == "" && meta.Confidence == 0 {
		out = title
	}
	return out, extraction, meta
}

func (p *Pipeline) stageGeo(ctx context.Context, title string) (string, GeoExtraction, StageMeta) {
	var extraction GeoExtraction
	out, meta, _ := p.runStage(ctx, "geo", func() (string, StageMeta) {
		t, e, m := extractGeo(p.lib, title)
		extraction = e
		return t, m
	})
	if out == "" && meta.Confidence == 0 {
		out = title
	}
	return out, extraction, meta
}
