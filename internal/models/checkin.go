package models

// CheckIn is a daily self-reported health record
type CheckIn struct {
	ID            string  `json:"id"`
	Date          string  `json:"date"`     // YYYY-MM-DD format
	Symptoms      float64 `json:"symptoms"` // 0-10
	Stress        float64 `json:"stress"`   // 0-10
	SleepHours    float64 `json:"sleepHours"`
	Note          string  `json:"note,omitempty"`
	TasksSnapshot []Task  `json:"tasksSnapshot,omitempty"` // copy of the plan at save time
}

// Clone returns a deep copy of the check-in
func (c CheckIn) Clone() CheckIn {
	c.TasksSnapshot = CloneTasks(c.TasksSnapshot)
	return c
}

// EntriesState is the persisted state of the entries store
type EntriesState struct {
	CheckIns      []CheckIn         `json:"checkIns"` // newest date first
	Questionnaire QuestionnaireData `json:"questionnaire"`
}

// Clone returns a deep copy of the entries state
func (e EntriesState) Clone() EntriesState {
	checkIns := make([]CheckIn, len(e.CheckIns))
	for i, c := range e.CheckIns {
		checkIns[i] = c.Clone()
	}
	e.CheckIns = checkIns
	e.Questionnaire = e.Questionnaire.Clone()
	return e
}
