package risk

import (
	"sort"
	"time"
)

// WindowDays is the scoring window width in days.
const WindowDays = 30

// Trend is the direction of a behavioral series over the window.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// Materiality thresholds for trend calls: half-window means must differ
// by more than these to leave "stable". Engagement is on a 0-100 scale,
// emotion on 0-10.
const (
	engagementTrendThreshold = 5.0
	emotionTrendThreshold    = 0.5
)

// Features holds everything extracted from the 30-day pattern window.
// All rates are per-day over the full window, so sparse data reads as
// low activity rather than being ignored.
type Features struct {
	Days int // days with telemetry

	AvgEngagement float64
	AvgEmotion    float64
	AvgEnergy     float64

	EngagementTrend Trend
	EmotionTrend    Trend

	CheckinRate         float64 // completed days / WindowDays
	CurrentStreak       int     // consecutive check-in days ending today
	LongestMissedStreak int     // longest run of missing check-ins

	StressHighDays      int
	ChatRate            float64 // messages per day
	InterventionCount   int
	ArkProgressRate     float64 // mean daily progress delta
	ProgressDeclineDays int     // days with negative progress delta
	XPRate              float64 // XP per day
	MilestoneCount      int
}

// Coverage is the fraction of the window that has telemetry, used as the
// rule-based confidence signal.
func (f *Features) Coverage() float64 {
	return float64(f.Days) / float64(WindowDays)
}

// ExtractFeatures aggregates a student's behavioral patterns over the 30
// days ending at now. Patterns outside the window are ignored; missing
// days count against completion rates and streaks.
func ExtractFeatures(patterns []BehavioralPattern, now time.Time) *Features {
	f := &Features{
		EngagementTrend: TrendStable,
		EmotionTrend:    TrendStable,
	}

	today := dateOnly(now)
	windowStart := today.AddDate(0, 0, -(WindowDays - 1))

	var inWindow []BehavioralPattern
	for _, p := range patterns {
		d := dateOnly(p.Date)
		if d.Before(windowStart) || d.After(today) {
			continue
		}
		inWindow = append(inWindow, p)
	}
	if len(inWindow) == 0 {
		return f
	}
	sort.Slice(inWindow, func(i, j int) bool {
		return inWindow[i].Date.Before(inWindow[j].Date)
	})

	f.Days = len(inWindow)

	byDay := make(map[time.Time]BehavioralPattern, len(inWindow))
	var engagement, emotion []float64
	var emotionSum, energySum, progressSum float64
	checkinDays := 0
	xpSum := 0

	for _, p := range inWindow {
		byDay[dateOnly(p.Date)] = p

		engagement = append(engagement, p.EngagementScore)
		emotion = append(emotion, p.AvgEmotionScore)
		emotionSum += p.AvgEmotionScore
		energySum += p.AvgEnergyLevel
		progressSum += p.ArkProgressDelta
		xpSum += p.XPEarned

		if p.DailyCheckinCompleted {
			checkinDays++
		}
		if p.HighStressDay {
			f.StressHighDays++
		}
		if p.ArkProgressDelta < 0 {
			f.ProgressDeclineDays++
		}
		f.ChatRate += float64(p.ChatMessageCount)
		f.InterventionCount += p.InterventionCount
		f.MilestoneCount += p.MilestonesCompleted
	}

	f.AvgEngagement = mean(engagement)
	f.AvgEmotion = emotionSum / float64(f.Days)
	f.AvgEnergy = energySum / float64(f.Days)
	f.CheckinRate = float64(checkinDays) / float64(WindowDays)
	f.ChatRate /= float64(WindowDays)
	f.ArkProgressRate = progressSum / float64(f.Days)
	f.XPRate = float64(xpSum) / float64(WindowDays)

	f.EngagementTrend = halfWindowTrend(engagement, engagementTrendThreshold)
	f.EmotionTrend = halfWindowTrend(emotion, emotionTrendThreshold)

	f.CurrentStreak = currentStreak(byDay, today)
	f.LongestMissedStreak = longestMissedStreak(byDay, windowStart, today)

	return f
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// halfWindowTrend compares the mean of the first half of the series to
// the second half. The series is in date order, so a higher second half
// means things are getting better.
func halfWindowTrend(series []float64, threshold float64) Trend {
	if len(series) < 2 {
		return TrendStable
	}
	mid := len(series) / 2
	first := mean(series[:mid])
	second := mean(series[mid:])

	switch {
	case second-first > threshold:
		return TrendImproving
	case first-second > threshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// currentStreak counts consecutive days with a completed check-in,
// walking backward from today and stopping at the first gap.
func currentStreak(byDay map[time.Time]BehavioralPattern, today time.Time) int {
	streak := 0
	for i := 0; i < WindowDays; i++ {
		p, ok := byDay[today.AddDate(0, 0, -i)]
		if !ok || !p.DailyCheckinCompleted {
			break
		}
		streak++
	}
	return streak
}

// longestMissedStreak finds the longest consecutive run of days in the
// window without a completed check-in.
func longestMissedStreak(byDay map[time.Time]BehavioralPattern, windowStart, today time.Time) int {
	longest, run := 0, 0
	for d := windowStart; !d.After(today); d = d.AddDate(0, 0, 1) {
		p, ok := byDay[d]
		if ok && p.DailyCheckinCompleted {
			run = 0
			continue
		}
		run++
		if run > longest {
			longest = run
		}
	}
	return longest
}
