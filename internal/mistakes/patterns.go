package mistakes

import (
	"fmt"
	"sort"
	"time"
)

// Trend is the direction of a topic's recent mistake activity.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

const (
	// trendWindowDays is the width of each trend comparison window.
	trendWindowDays = 7

	// trendImprovingRatio and trendDecliningRatio bound the recent/prior
	// occurrence ratio for a trend call; in between reads as stable.
	trendImprovingRatio = 0.8
	trendDecliningRatio = 1.2
)

// TopicStats aggregates one topic's mistake history.
type TopicStats struct {
	Topic       string
	Records     int
	Occurrences int
	Trend       Trend
}

// PatternReport summarizes a student's mistake history.
type PatternReport struct {
	TotalRecords     int
	TotalOccurrences int
	ByTopic          []TopicStats
	ByType           map[MistakeType]int
	DominantType     MistakeType
	DominantTopic    string
	Recommendations  []string
}

// typeRecommendations maps each mistake type to a study tip. A static
// lookup so the report wording stays consistent across runs.
var typeRecommendations = map[MistakeType]string{
	TypeCalculation:          "Slow down on arithmetic steps and double-check each computation before submitting.",
	TypeConceptual:           "Revisit the underlying concept and explain it in your own words before attempting more questions.",
	TypeApplication:          "Work through solved examples that apply the method in new settings before returning to practice.",
	TypeReadingComprehension: "Read each question twice and restate what is being asked before answering.",
	TypeTimeManagement:       "Spend at least half a minute per question; quick guesses are costing accuracy.",
	TypeOther:                "Review recent mistakes with a mentor to find the pattern behind them.",
}

// AnalyzePatterns groups a student's mistake records by topic and type,
// derives per-topic trends, and emits recommendations keyed by the
// dominant mistake type and topic. Dominance is highest total occurrences
// with ties broken by the earliest first occurrence.
func AnalyzePatterns(records []*MistakeRecord, now time.Time) *PatternReport {
	report := &PatternReport{
		ByType: make(map[MistakeType]int),
	}
	if len(records) == 0 {
		return report
	}

	topicOccurrences := make(map[string]int)
	topicRecords := make(map[string]int)
	topicFirst := make(map[string]time.Time)
	typeOccurrences := make(map[MistakeType]int)
	typeFirst := make(map[MistakeType]time.Time)

	for _, r := range records {
		report.TotalRecords++
		report.TotalOccurrences += r.Occurrences

		topicOccurrences[r.Topic] += r.Occurrences
		topicRecords[r.Topic]++
		if first, ok := topicFirst[r.Topic]; !ok || r.FirstOccurrence.Before(first) {
			topicFirst[r.Topic] = r.FirstOccurrence
		}

		typeOccurrences[r.Type] += r.Occurrences
		if first, ok := typeFirst[r.Type]; !ok || r.FirstOccurrence.Before(first) {
			typeFirst[r.Type] = r.FirstOccurrence
		}
	}
	report.ByType = typeOccurrences

	for topic := range topicOccurrences {
		report.ByTopic = append(report.ByTopic, TopicStats{
			Topic:       topic,
			Records:     topicRecords[topic],
			Occurrences: topicOccurrences[topic],
			Trend:       topicTrend(records, topic, now),
		})
	}
	sort.Slice(report.ByTopic, func(i, j int) bool {
		if report.ByTopic[i].Occurrences != report.ByTopic[j].Occurrences {
			return report.ByTopic[i].Occurrences > report.ByTopic[j].Occurrences
		}
		return report.ByTopic[i].Topic < report.ByTopic[j].Topic
	})

	report.DominantType = dominantType(typeOccurrences, typeFirst)
	report.DominantTopic = dominantTopic(topicOccurrences, topicFirst)

	if tip, ok := typeRecommendations[report.DominantType]; ok {
		report.Recommendations = append(report.Recommendations, tip)
	}
	if report.DominantTopic != "" {
		report.Recommendations = append(report.Recommendations,
			fmt.Sprintf("Focus extra practice on %s.", report.DominantTopic))
	}

	return report
}

// topicTrend compares the topic's record activity in the last 7 days to
// the 7 days before that. New activity with no prior baseline reads as
// declining; no activity either side reads as stable.
func topicTrend(records []*MistakeRecord, topic string, now time.Time) Trend {
	recentStart := now.AddDate(0, 0, -trendWindowDays)
	priorStart := now.AddDate(0, 0, -2*trendWindowDays)

	recent, prior := 0, 0
	for _, r := range records {
		if r.Topic != topic {
			continue
		}
		switch {
		case r.LastOccurrence.After(recentStart):
			recent++
		case r.LastOccurrence.After(priorStart):
			prior++
		}
	}

	if prior == 0 {
		if recent == 0 {
			return TrendStable
		}
		return TrendDeclining
	}

	ratio := float64(recent) / float64(prior)
	switch {
	case ratio < trendImprovingRatio:
		return TrendImproving
	case ratio > trendDecliningRatio:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func dominantType(occurrences map[MistakeType]int, first map[MistakeType]time.Time) MistakeType {
	var best MistakeType
	for mt, count := range occurrences {
		if best == "" {
			best = mt
			continue
		}
		if count > occurrences[best] ||
			(count == occurrences[best] && first[mt].Before(first[best])) {
			best = mt
		}
	}
	return best
}

func dominantTopic(occurrences map[string]int, first map[string]time.Time) string {
	var best string
	for topic, count := range occurrences {
		if best == "" {
			best = topic
			continue
		}
		if count > occurrences[best] ||
			(count == occurrences[best] && first[topic].Before(first[best])) {
			best = topic
		}
	}
	return best
}
