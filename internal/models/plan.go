package models

// Task is a single item of the daily plan checklist
type Task struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// PlanState is the persisted state of the daily plan
type PlanState struct {
	Tasks         []Task `json:"tasks"`
	LastResetDate string `json:"lastResetDate"` // YYYY-MM-DD format
}

// CloneTasks returns an independent copy of tasks. A nil input stays nil.
func CloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}

// Clone returns a deep copy of the plan state
func (p PlanState) Clone() PlanState {
	p.Tasks = CloneTasks(p.Tasks)
	return p
}
