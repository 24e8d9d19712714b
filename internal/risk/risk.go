package risk

import (
	"encoding/json"
	"math"
)

// Band orders applicants from lowest (A) to highest (D) risk.
type Band string

const (
	BandA Band = "A"
	BandB Band = "B"
	BandC Band = "C"
	BandD Band = "D"
)

// Score thresholds, inclusive lower bounds.
const (
	thresholdA = 740
	thresholdB = 700
	thresholdC = 640
)

// Result is the classification of one bureau response.
type Result struct {
	Band        Band
	LimitedData bool
	// Score is nil when the response carried no numeric score.
	Score *float64
}

type extractor func(map[string]any) (float64, bool)

// extractors are tried in order; the first numeric value wins.
var extractors = []extractor{
	field("score"),
	field("vantageScore"),
	field("riskScore"),
	nested("consumer", "score"),
}

func field(name string) extractor {
	return func(resp map[string]any) (float64, bool) {
		return number(resp[name])
	}
}

func nested(parent, name string) extractor {
	return func(resp map[string]any) (float64, bool) {
		obj, ok := resp[parent].(map[string]any)
		if !ok {
			return 0, false
		}
		return number(obj[name])
	}
}

func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ExtractScore returns the first numeric score found in resp.
func ExtractScore(resp map[string]any) (float64, bool) {
	for _, extract := range extractors {
		if score, ok := extract(resp); ok {
			return score, true
		}
	}
	return 0, false
}

// BandFor maps a score to its band.
func BandFor(score float64) Band {
	switch {
	case score >= thresholdA:
		return BandA
	case score >= thresholdB:
		return BandB
	case score >= thresholdC:
		return BandC
	default:
		return BandD
	}
}

// Classify derives the band of a raw bureau response. A response without a
// score is band C with limited data.
func Classify(resp map[string]any) Result {
	score, ok := ExtractScore(resp)
	if !ok {
		return Result{Band: BandC, LimitedData: true}
	}
	return Result{Band: BandFor(score), Score: &score}
}

var bandStatements = map[Band]string{
	BandA: "Strong credit: lower deposit and best rates available",
	BandB: "Good credit: standard deposit and discounts",
	BandC: "Moderate risk: deposit at mid-range, standard terms",
	BandD: "Higher risk: higher deposit required within policy limits",
}

// BuildFactors explains a classification in display order.
func BuildFactors(band Band, score *float64, limitedData bool) []string {
	factors := make([]string, 0, 3)
	if limitedData {
		factors = append(factors, "Limited file: offer terms are conservative")
	}
	if score != nil {
		factors = append(factors, "Credit-based risk band: "+string(band))
	}
	if s, ok := bandStatements[band]; ok {
		factors = append(factors, s)
	}
	return factors
}

// Factors is BuildFactors applied to r.
func (r Result) Factors() []string {
	return BuildFactors(r.Band, r.Score, r.LimitedData)
}

// Summary is the non-reversible digest stored in place of a bureau response.
type Summary struct {
	RiskBand     Band     `json:"riskBand"`
	LimitedData  bool     `json:"limitedData"`
	ScorePresent bool     `json:"scorePresent"`
	ScoreValue   *float64 `json:"scoreValue"`
}

// Summarize classifies resp and returns its digest.
func Summarize(resp map[string]any) Summary {
	r := Classify(resp)
	return Summary{
		RiskBand:     r.Band,
		LimitedData:  r.LimitedData,
		ScorePresent: r.Score != nil,
		ScoreValue:   r.Score,
	}
}
