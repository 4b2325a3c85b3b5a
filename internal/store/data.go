package store

// ProgressData is the persisted per-user progress document. Field names match
// the JSON document layout shared by every ProgressRepo backend.
type ProgressData struct {
	TotalXP              int                        `json:"totalXp"`
	Streak               int                        `json:"streak"`
	LastActiveDate       *string                    `json:"lastActiveDate"`
	CompletedTopics      map[string][]string        `json:"completedTopics"`
	FavoriteTopics       map[string][]string        `json:"favoriteTopics"`
	DifficultTopics      map[string][]string        `json:"difficultTopics"`
	UnlockedAchievements map[string]string          `json:"unlockedAchievements"`
	DailyGoal            int                        `json:"dailyGoal"`
	XPToday              XPTodayData                `json:"xpToday"`
	DailyGoalCompleted   GoalCompletedData          `json:"dailyGoalCompleted"`
	WeakPoints           WeakPointsData             `json:"weakPoints"`
	FluencyScore         int                        `json:"fluencyScore"`
	TestHistory          []TestResultData           `json:"testHistory"`
	SpeakingHistory      []SpeakingResultData       `json:"speakingHistory"`
	WordMastery          map[string]WordMasteryData `json:"wordMastery"`
	IsNewUser            bool                       `json:"isNewUser"`
}

type XPTodayData struct {
	Date string `json:"date"`
	XP   int    `json:"xp"`
}

type GoalCompletedData struct {
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

type WeakPointsData struct {
	Vocabulary []string `json:"vocabulary"`
	Grammar    []string `json:"grammar"`
}

// TestResultData is one finished test. Date is an RFC 3339 timestamp.
type TestResultData struct {
	Date       string  `json:"date"`
	Percentage float64 `json:"percentage"`
}

// SpeakingResultData is one analysed speaking session (0-9 band score).
type SpeakingResultData struct {
	Date  string  `json:"date"`
	Score float64 `json:"score"`
}

// WordMasteryData is the persisted mastery record of one word.
type WordMasteryData struct {
	Level          int    `json:"level"`
	NextReviewDate string `json:"nextReviewDate"`
}

// Top-level document field names, used as ProgressPatch keys.
const (
	FieldTotalXP              = "totalXp"
	FieldStreak               = "streak"
	FieldLastActiveDate       = "lastActiveDate"
	FieldCompletedTopics      = "completedTopics"
	FieldFavoriteTopics       = "favoriteTopics"
	FieldDifficultTopics      = "difficultTopics"
	FieldUnlockedAchievements = "unlockedAchievements"
	FieldDailyGoal            = "dailyGoal"
	FieldXPToday              = "xpToday"
	FieldDailyGoalCompleted   = "dailyGoalCompleted"
	FieldWeakPoints           = "weakPoints"
	FieldFluencyScore         = "fluencyScore"
	FieldTestHistory          = "testHistory"
	FieldSpeakingHistory      = "speakingHistory"
	FieldWordMastery          = "wordMastery"
	FieldIsNewUser            = "isNewUser"
)

// ProgressPatch is a partial document update keyed by top-level field name.
// Each value replaces the stored field as a whole.
type ProgressPatch map[string]any

// Fields returns the patch's field names in no particular order.
func (p ProgressPatch) Fields() []string {
	out := make([]string, 0, len(p))
	for k := range p {
		out = append(out, k)
	}
	return out
}
