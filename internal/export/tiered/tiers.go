// Package tiered writes the time-aligned tier formats: ELAN EAF and Praat
// TextGrid. Tier annotations carry millisecond times rather than character
// offsets.
package tiered

import (
	"sort"

	"annoexport/internal/annotation"
	"annoexport/internal/export"
)

// interval is one tier annotation with times in milliseconds.
type interval struct {
	start    float64
	end      float64
	value    string
	id       string
	parentID string
}

// tierData pairs a tier's configuration with its sorted annotations.
type tierData struct {
	config    annotation.Tier
	intervals []interval
}

// requireTieredSchema is the shared CanExport predicate.
func requireTieredSchema(ctx *annotation.ExportContext) (bool, string) {
	if len(ctx.SchemasOfType(annotation.TypeTiered)) == 0 {
		return false, "context has no tiered_annotation schema"
	}
	return true, ""
}

// collectTiers extracts a record's annotations for one tiered schema.
// Configured tiers come first in declaration order; tiers present only in the
// data follow, sorted by name. Intervals are ordered by start time.
func collectTiers(rec annotation.AnnotationRecord, schema annotation.Schema) []tierData {
	data := rec.Tiers[schema.Name]
	if len(data) == 0 {
		return nil
	}

	var tiers []tierData
	seen := make(map[string]bool)
	add := func(cfg annotation.Tier) {
		spans, ok := data[cfg.Name]
		if !ok {
			return
		}
		seen[cfg.Name] = true
		intervals := make([]interval, 0, len(spans))
		for _, s := range spans {
			intervals = append(intervals, interval{
				start:    s.StartTime,
				end:      s.EndTime,
				value:    s.Label,
				id:       s.ID,
				parentID: s.ParentID,
			})
		}
		sort.SliceStable(intervals, func(i, j int) bool { return intervals[i].start < intervals[j].start })
		tiers = append(tiers, tierData{config: cfg, intervals: intervals})
	}

	for _, cfg := range schema.Tiers {
		add(cfg)
	}
	var extra []string
	for name := range data {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		add(annotation.Tier{Name: name, Independent: true})
	}
	return tiers
}

// tieredInstances yields (record, schema) pairs to export, one per instance
// and tiered schema. When several annotators cover the same instance the
// first record in annotation order wins, mirroring the CoNLL policy.
func tieredInstances(ctx *annotation.ExportContext, result *export.Result) []instanceExport {
	var out []instanceExport
	claimed := make(map[string]string)
	for _, rec := range ctx.Annotations {
		if len(rec.Tiers) == 0 {
			continue
		}
		if owner, ok := claimed[rec.InstanceID]; ok {
			result.Warnf("instance %q: already exported from annotator %q, record from %q ignored", rec.InstanceID, owner, rec.UserID)
			continue
		}
		claimed[rec.InstanceID] = rec.UserID
		for _, schema := range ctx.SchemasOfType(annotation.TypeTiered) {
			tiers := collectTiers(rec, schema)
			if len(tiers) == 0 {
				continue
			}
			out = append(out, instanceExport{instanceID: rec.InstanceID, schema: schema, tiers: tiers})
		}
	}
	return out
}

type instanceExport struct {
	instanceID string
	schema     annotation.Schema
	tiers      []tierData
}
