package tiered

import (
	"encoding/xml"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/text/language"

	"annoexport/internal/annotation"
	"annoexport/internal/export"
	"annoexport/internal/fileutil"
	"annoexport/internal/logging"
	"annoexport/internal/textutil"
)

// The linguistic type every independent tier references.
const defaultLinguisticType = "default-lt"

// EAF writes ELAN v3.0 annotation documents, one per (instance, tiered
// schema) pair.
//
// Recognized options: language (a BCP 47 tag recorded in the document's
// LANGUAGE block).
type EAF struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewEAF constructs the EAF exporter.
func NewEAF(logger *slog.Logger) *EAF {
	return &EAF{logger: logging.NewComponentLogger(logger, "eaf"), now: time.Now}
}

func (e *EAF) Name() string { return "eaf" }

// CanExport requires a tiered_annotation schema.
func (e *EAF) CanExport(ctx *annotation.ExportContext) (bool, string) {
	return requireTieredSchema(ctx)
}

type eafDocument struct {
	XMLName         xml.Name            `xml:"ANNOTATION_DOCUMENT"`
	Author          string              `xml:"AUTHOR,attr"`
	Date            string              `xml:"DATE,attr"`
	Format          string              `xml:"FORMAT,attr"`
	Version         string              `xml:"VERSION,attr"`
	XSINamespace    string              `xml:"xmlns:xsi,attr"`
	SchemaLocation  string              `xml:"xsi:noNamespaceSchemaLocation,attr"`
	Header          eafHeader           `xml:"HEADER"`
	TimeOrder       eafTimeOrder        `xml:"TIME_ORDER"`
	Tiers           []eafTier           `xml:"TIER"`
	LinguisticTypes []eafLinguisticType `xml:"LINGUISTIC_TYPE"`
	Languages       []eafLanguage       `xml:"LANGUAGE"`
	Constraints     []eafConstraint     `xml:"CONSTRAINT"`
}

type eafHeader struct {
	MediaFile string `xml:"MEDIA_FILE,attr"`
	TimeUnits string `xml:"TIME_UNITS,attr"`
}

type eafTimeOrder struct {
	TimeSlots []eafTimeSlot `xml:"TIME_SLOT"`
}

type eafTimeSlot struct {
	ID    string `xml:"TIME_SLOT_ID,attr"`
	Value int64  `xml:"TIME_VALUE,attr"`
}

type eafTier struct {
	ID                string          `xml:"TIER_ID,attr"`
	LinguisticTypeRef string          `xml:"LINGUISTIC_TYPE_REF,attr"`
	ParentRef         string          `xml:"PARENT_REF,attr,omitempty"`
	Annotations       []eafAnnotation `xml:"ANNOTATION"`
}

type eafAnnotation struct {
	Alignable *eafAlignable `xml:"ALIGNABLE_ANNOTATION,omitempty"`
	Ref       *eafRef       `xml:"REF_ANNOTATION,omitempty"`
}

type eafAlignable struct {
	ID       string `xml:"ANNOTATION_ID,attr"`
	SlotRef1 string `xml:"TIME_SLOT_REF1,attr"`
	SlotRef2 string `xml:"TIME_SLOT_REF2,attr"`
	Value    string `xml:"ANNOTATION_VALUE"`
}

type eafRef struct {
	ID            string `xml:"ANNOTATION_ID,attr"`
	AnnotationRef string `xml:"ANNOTATION_REF,attr"`
	Value         string `xml:"ANNOTATION_VALUE"`
}

type eafLinguisticType struct {
	ID            string `xml:"LINGUISTIC_TYPE_ID,attr"`
	TimeAlignable bool   `xml:"TIME_ALIGNABLE,attr"`
	Constraints   string `xml:"CONSTRAINTS,attr,omitempty"`
}

type eafLanguage struct {
	ID    string `xml:"LANG_ID,attr"`
	Label string `xml:"LANG_LABEL,attr,omitempty"`
}

type eafConstraint struct {
	Stereotype  string `xml:"STEREOTYPE,attr"`
	Description string `xml:"DESCRIPTION,attr"`
}

// The four stereotypes ELAN always declares.
var standardConstraints = []eafConstraint{
	{Stereotype: "Time_Subdivision", Description: "Time subdivision of parent annotation's time interval, no time gaps allowed within this interval"},
	{Stereotype: "Symbolic_Subdivision", Description: "Symbolic subdivision of a parent annotation. Annotations refering to the same parent are ordered"},
	{Stereotype: "Symbolic_Association", Description: "1-1 association with a parent annotation"},
	{Stereotype: "Included_In", Description: "Time alignable annotations within the parent annotation's time interval, gaps are allowed"},
}

// Export writes <instance>_<schema>.eaf files.
func (e *EAF) Export(ctx *annotation.ExportContext, outputDir string, opts export.Options) *export.Result {
	result := export.NewResult(e.Name())

	var languages []eafLanguage
	if tag := opts.Get(export.OptLanguage, ""); tag != "" {
		parsed, err := language.Parse(tag)
		if err != nil {
			result.Warnf("language option %q is not a valid BCP 47 tag, omitted", tag)
		} else {
			languages = []eafLanguage{{ID: parsed.String(), Label: parsed.String()}}
		}
	}

	if err := fileutil.EnsureDir(outputDir); err != nil {
		result.Failf("create output directory: %v", err)
		return result
	}

	fileCount := 0
	for _, inst := range tieredInstances(ctx, result) {
		doc := e.buildDocument(inst, languages, result)
		data, err := xml.MarshalIndent(doc, "", "    ")
		if err != nil {
			result.Failf("encode EAF for instance %q: %v", inst.instanceID, err)
			return result
		}
		path := filepath.Join(outputDir, fmt.Sprintf("%s_%s.eaf", textutil.SafeFileName(inst.instanceID), textutil.SafeFileName(inst.schema.Name)))
		content := append([]byte(xml.Header), data...)
		if err := fileutil.WriteFileAtomic(path, append(content, '\n'), 0o644); err != nil {
			result.Failf("write %s: %v", path, err)
			return result
		}
		result.AddFile(path)
		fileCount++
	}

	result.SetStat("num_files", float64(fileCount))
	return result
}

func (e *EAF) buildDocument(inst instanceExport, languages []eafLanguage, result *export.Result) eafDocument {
	doc := eafDocument{
		Author:         "annoexport",
		Date:           e.now().Format("2006-01-02T15:04:05-07:00"),
		Format:         "3.0",
		Version:        "3.0",
		XSINamespace:   "http://www.w3.org/2001/XMLSchema-instance",
		SchemaLocation: "http://www.mpi.nl/tools/elan/EAFv3.0.xsd",
		Header:         eafHeader{TimeUnits: "milliseconds"},
		Languages:      languages,
		Constraints:    standardConstraints,
	}

	// Deduplicated, sorted time slot table over every referenced value.
	slotIDs := make(map[int64]string)
	var values []int64
	for _, tier := range inst.tiers {
		if !tier.config.Independent {
			continue
		}
		for _, iv := range tier.intervals {
			for _, v := range []int64{roundMS(iv.start), roundMS(iv.end)} {
				if _, ok := slotIDs[v]; !ok {
					slotIDs[v] = ""
					values = append(values, v)
				}
			}
		}
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	for i, v := range values {
		id := fmt.Sprintf("ts%d", i+1)
		slotIDs[v] = id
		doc.TimeOrder.TimeSlots = append(doc.TimeOrder.TimeSlots, eafTimeSlot{ID: id, Value: v})
	}

	linguisticTypes := []eafLinguisticType{{ID: defaultLinguisticType, TimeAlignable: true}}
	usedConstraints := make(map[string]bool)

	// Generated annotation ids, and the source-id lookup REF_ANNOTATIONs
	// resolve their parents through.
	annotationIDs := make(map[string]string)
	next := 1
	assignID := func(sourceID string) string {
		id := fmt.Sprintf("a%d", next)
		next++
		if sourceID != "" {
			annotationIDs[sourceID] = id
		}
		return id
	}

	for _, tier := range inst.tiers {
		out := eafTier{ID: tier.config.Name, LinguisticTypeRef: defaultLinguisticType}
		if tier.config.Independent {
			for _, iv := range tier.intervals {
				out.Annotations = append(out.Annotations, eafAnnotation{Alignable: &eafAlignable{
					ID:       assignID(iv.id),
					SlotRef1: slotIDs[roundMS(iv.start)],
					SlotRef2: slotIDs[roundMS(iv.end)],
					Value:    iv.value,
				}})
			}
			doc.Tiers = append(doc.Tiers, out)
			continue
		}

		constraint := tier.config.Constraint
		if constraint == "" {
			constraint = "Symbolic_Association"
		}
		if !usedConstraints[constraint] {
			usedConstraints[constraint] = true
			linguisticTypes = append(linguisticTypes, eafLinguisticType{
				ID:            constraint,
				TimeAlignable: constraint == "Time_Subdivision" || constraint == "Included_In",
				Constraints:   constraint,
			})
		}
		out.LinguisticTypeRef = constraint
		out.ParentRef = tier.config.Parent
		for _, iv := range tier.intervals {
			parent, ok := annotationIDs[iv.parentID]
			if !ok {
				result.Warnf("instance %q: tier %q annotation references unknown parent %q, skipped",
					inst.instanceID, tier.config.Name, iv.parentID)
				continue
			}
			out.Annotations = append(out.Annotations, eafAnnotation{Ref: &eafRef{
				ID:            assignID(iv.id),
				AnnotationRef: parent,
				Value:         iv.value,
			}})
		}
		doc.Tiers = append(doc.Tiers, out)
	}

	doc.LinguisticTypes = linguisticTypes
	return doc
}

func roundMS(v float64) int64 {
	return int64(math.Round(v))
}
