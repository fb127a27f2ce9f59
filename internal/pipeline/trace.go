package pipeline

import "context"

// StageResult captures one stage's contribution to a traced run: the title
// as it stood before the stage ran, the title it produced, and the stage's
// diagnostic envelope.
type StageResult struct {
	Stage   string   `json:"stage"`
	Before  string   `json:"before"`
	After   string   `json:"after"`
	Meta    StageMeta `json:"meta"`
}

// Trace is the full stage-by-stage record of one title's run, used by
// pattern curators to see exactly where a title diverged from expectation
// instead of only the final output.
type Trace struct {
	Output *Output       `json:"output"`
	Stages []StageResult `json:"stages"`
}

// Trace runs the same five stages as Run but records each stage's
// before/after title and meta, for debugging why a title parsed the way it
// did.
func (p *Pipeline) Trace(ctx context.Context, title string) (*Trace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trace := &Trace{Output: &Output{
		OriginalTitle:     title,
		ConfidenceByStage: map[string]float64{},
	}}

	working := title

	before := working
	var classification MarketClassification
	var meta StageMeta
	working, classification, meta = p.stageMarket(ctx, working)
	trace.Stages = append(trace.Stages, StageResult{Stage: "market", Before: before, After: working, Meta: meta})
	trace.Output.MarketType = classification.MarketType
	trace.Output.ConfidenceByStage["market"] = meta.Confidence

	before = working
	var dateExt DateExtraction
	working, dateExt, meta = p.stageDate(ctx, working)
	trace.Stages = append(trace.Stages, StageResult{Stage: "date", Before: before, After: working, Meta: meta})
	trace.Output.ConfidenceByStage["date"] = meta.Confidence
	if dateExt.Range != "" {
		r := dateExt.Range
		trace.Output.ExtractedDateRange = &r
	}

	before = working
	var reportExt ReportTypeExtraction
	working, reportExt, meta = p.stageReportType(ctx, working, classification.MarketType)
	trace.Stages = append(trace.Stages, StageResult{Stage: "report_type", Before: before, After: working, Meta: meta})
	trace.Output.ExtractedReportType = reportExt.ReportType
	trace.Output.ConfidenceByStage["report_type"] = meta.Confidence
	if reportExt.ExtractedAcronym != "" {
		a := reportExt.ExtractedAcronym
		trace.Output.ExtractedAcronym = &a
	}

	before = working
	var geoExt GeoExtraction
	working, geoExt, meta = p.stageGeo(ctx, working)
	trace.Stages = append(trace.Stages, StageResult{Stage: "geo", Before: before, After: working, Meta: meta})
	trace.Output.ExtractedRegions = geoExt.Regions
	if trace.Output.ExtractedRegions == nil {
		trace.Output.ExtractedRegions = []string{}
	}
	trace.Output.ConfidenceByStage["geo"] = meta.Confidence

	before = working
	topicExt, topicMeta := extractTopic(working)
	trace.Stages = append(trace.Stages, StageResult{Stage: "topic", Before: before, After: topicExt.Topic, Meta: topicMeta})
	trace.Output.Topic = topicExt.Topic
	trace.Output.NormalizedTopic = topicExt.NormalizedTopic
	trace.Output.ConfidenceByStage["topic"] = topicMeta.Confidence

	return trace, nil
}
