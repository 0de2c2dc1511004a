package service

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"jisang-advisory/internal/models"

	"go.uber.org/zap"
)

// dimensionAliases maps each score dimension to the labels a model may use
// for it, in Korean or English. Matching is case-insensitive.
var dimensionAliases = map[string][]string{
	"location":      {"location", "입지"},
	"demand":        {"demand", "수요"},
	"profitability": {"profitability", "수익성", "수익"},
	"stability":     {"stability", "안정성"},
	"aggregate":     {"aggregate", "종합", "총점"},
}

var jsonObjectPattern = regexp.MustCompile(`\{[^{}]*\}`)

// ScoreService extracts a ScoreRecord from free-form model text. Extract
// never fails: an ordered strategy chain degrades from an embedded JSON
// payload, to per-label regex scanning, to defaults biased by the
// FactRecord.
type ScoreService struct {
	logger *zap.Logger
}

func NewScoreService(logger *zap.Logger) *ScoreService {
	return &ScoreService{logger: logger}
}

func (s *ScoreService) Extract(text string, facts *models.FactRecord) models.ScoreRecord {
	if rec, ok := s.extractPayload(text, facts); ok {
		return rec
	}
	if rec, ok := s.extractLabeled(text, facts); ok {
		return rec
	}

	s.logger.Info("no extractable scores in model text, using fact-derived defaults",
		zap.Int("text_length", len(text)),
	)
	return s.defaultScores(facts)
}

// extractPayload looks for an embedded JSON object carrying at least one
// known dimension key. Model output is often wrapped in markdown fences or
// surrounded by prose, so the whole span between the first "{" and the last
// "}" is tried before falling back to scanning individual objects.
func (s *ScoreService) extractPayload(text string, facts *models.FactRecord) (models.ScoreRecord, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return models.ScoreRecord{}, false
	}

	candidates := []string{cleanupJSON(text[start : end+1])}
	candidates = append(candidates, jsonObjectPattern.FindAllString(text, -1)...)

	for _, candidate := range candidates {
		var raw map[string]json.Number
		if err := json.Unmarshal([]byte(candidate), &raw); err != nil {
			continue
		}
		if rec, found := s.fromKeyValues(raw, facts); found {
			return rec, true
		}
	}
	return models.ScoreRecord{}, false
}

func cleanupJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func (s *ScoreService) fromKeyValues(raw map[string]json.Number, facts *models.FactRecord) (models.ScoreRecord, bool) {
	values := map[string]int{}
	for key, num := range raw {
		dim, ok := canonicalDimension(key)
		if !ok {
			continue
		}
		f, err := num.Float64()
		if err != nil {
			continue
		}
		values[dim] = clampScore(int(f))
	}
	if len(values) == 0 {
		return models.ScoreRecord{}, false
	}
	return s.merge(values, facts), true
}

// extractLabeled scans for "<label> ... <integer>" per dimension and takes
// the first match per label.
func (s *ScoreService) extractLabeled(text string, facts *models.FactRecord) (models.ScoreRecord, bool) {
	values := map[string]int{}
	for dim, aliases := range dimensionAliases {
		for _, alias := range aliases {
			re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(alias) + `[^0-9]{0,20}?(\d{1,3})`)
			if m := re.FindStringSubmatch(text); m != nil {
				n, err := strconv.Atoi(m[1])
				if err != nil {
					continue
				}
				values[dim] = clampScore(n)
				break
			}
		}
	}
	if len(values) == 0 {
		return models.ScoreRecord{}, false
	}
	return s.merge(values, facts), true
}

// merge fills dimensions missing from extracted values with fact-derived
// defaults, so partial payloads still produce a complete record.
func (s *ScoreService) merge(values map[string]int, facts *models.FactRecord) models.ScoreRecord {
	rec := s.defaultScores(facts)
	if v, ok := values["location"]; ok {
		rec.Location = v
	}
	if v, ok := values["demand"]; ok {
		rec.Demand = v
	}
	if v, ok := values["profitability"]; ok {
		rec.Profitability = v
	}
	if v, ok := values["stability"]; ok {
		rec.Stability = v
	}
	if v, ok := values["aggregate"]; ok {
		rec.Aggregate = v
	}
	return rec
}

// defaultScores derives a record from the FactRecord alone, so even a
// fully unextractable response reflects the asset's actual risk profile.
func (s *ScoreService) defaultScores(facts *models.FactRecord) models.ScoreRecord {
	base := 75
	switch {
	case facts.LTVRatio > 80:
		base = 50
	case facts.LTVRatio > 50:
		base = 65
	}

	profitability := base
	if facts.EstimatedAnnualSaving > 0 {
		profitability += 5
	}

	return models.ScoreRecord{
		Location:      base,
		Demand:        base,
		Profitability: clampScore(profitability),
		Stability:     clampScore(base - 5*len(facts.Restrictions)),
		Aggregate:     clampScore(facts.RiskScore),
	}
}

func canonicalDimension(key string) (string, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for dim, aliases := range dimensionAliases {
		for _, alias := range aliases {
			if key == alias {
				return dim, true
			}
		}
	}
	return "", false
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
