package risk

// flagRule is one fixed-threshold warning condition. Rules are evaluated
// against the same Features used for scoring, so every flag is testable
// independently of the weight table.
type flagRule struct {
	text string
	when func(f *Features) bool
}

var engagementFlags = []flagRule{
	{"Low check-in completion", func(f *Features) bool { return f.CheckinRate < 0.5 }},
	{"Extended absence", func(f *Features) bool { return f.LongestMissedStreak > 5 }},
	{"Low chat engagement", func(f *Features) bool { return f.ChatRate < 2 }},
}

var emotionalFlags = []flagRule{
	{"Low emotional state", func(f *Features) bool { return f.AvgEmotion < 4 }},
	{"High stress frequency", func(f *Features) bool { return f.StressHighDays > 15 }},
	{"Low energy levels", func(f *Features) bool { return f.AvgEnergy < 4 }},
}

var performanceFlags = []flagRule{
	{"Declining ARK progress", func(f *Features) bool { return f.ArkProgressRate < 0 }},
	{"Consistent underperformance", func(f *Features) bool { return f.ProgressDeclineDays > 10 }},
	{"Low XP earning", func(f *Features) bool { return f.XPRate < 20 }},
}

var socialFlags = []flagRule{
	{"Multiple interventions needed", func(f *Features) bool { return f.InterventionCount > 3 }},
	{"No social engagement", func(f *Features) bool { return f.ChatRate == 0 }},
}

func evalFlags(rules []flagRule, f *Features) []string {
	var out []string
	for _, r := range rules {
		if r.when(f) {
			out = append(out, r.text)
		}
	}
	return out
}

// DomainFlags holds the triggered warning flags per domain.
type DomainFlags struct {
	Engagement  []string
	Emotional   []string
	Performance []string
	Social      []string
}

// EvalDomainFlags runs all four flag tables against the features.
func EvalDomainFlags(f *Features) DomainFlags {
	return DomainFlags{
		Engagement:  evalFlags(engagementFlags, f),
		Emotional:   evalFlags(emotionalFlags, f),
		Performance: evalFlags(performanceFlags, f),
		Social:      evalFlags(socialFlags, f),
	}
}

// All returns every triggered flag in domain order.
func (d DomainFlags) All() []string {
	var out []string
	out = append(out, d.Engagement...)
	out = append(out, d.Emotional...)
	out = append(out, d.Performance...)
	out = append(out, d.Social...)
	return out
}

// Count returns the number of triggered flags.
func (d DomainFlags) Count() int {
	return len(d.Engagement) + len(d.Emotional) + len(d.Performance) + len(d.Social)
}
