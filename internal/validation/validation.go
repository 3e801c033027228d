package validation

import (
	"errors"
	"fmt"
	"math"
	"net/mail"
	"slices"
	"strconv"
	"strings"

	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/models"
	"github.com/julianstephens/wellday/internal/utils"
)

// ErrInvalidEmail is returned for addresses that do not parse
var ErrInvalidEmail = errors.New("please enter a valid email")

// IssueType represents the kind of problem found
type IssueType string

const (
	IssueOutOfRange          IssueType = "out_of_range"
	IssueInvalidDate         IssueType = "invalid_date"
	IssueMissingID           IssueType = "missing_id"
	IssueDuplicateID         IssueType = "duplicate_id"
	IssueDuplicateDate       IssueType = "duplicate_date"
	IssueUnsorted            IssueType = "unsorted"
	IssueTooManyCheckIns     IssueType = "too_many_check_ins"
	IssueInconsistentSession IssueType = "inconsistent_session"
	IssueInconsistentSurvey  IssueType = "inconsistent_questionnaire"
	IssueInvalidAnswer       IssueType = "invalid_answer"
	IssueEmptyTitle          IssueType = "empty_title"
)

// Issue is a single problem found in user input or stored state
type Issue struct {
	Type        IssueType
	Field       string
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	IDs         []string // IDs of the records involved
}

// ValidationResult contains all detected issues
type ValidationResult struct {
	Issues []Issue
}

// HasIssues returns true if there are any issues
func (vr *ValidationResult) HasIssues() bool {
	return len(vr.Issues) > 0
}

// Err returns nil when the result is clean, otherwise an error listing every issue
func (vr *ValidationResult) Err() error {
	if !vr.HasIssues() {
		return nil
	}
	msgs := make([]string, len(vr.Issues))
	for i, issue := range vr.Issues {
		msgs[i] = issue.Description
	}
	return errors.New(strings.Join(msgs, "; "))
}

// FormatReport returns a human-readable report of all issues
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasIssues() {
		return "No issues detected."
	}
	report := fmt.Sprintf("Found %d issue(s):\n", len(vr.Issues))
	for _, issue := range vr.Issues {
		report += fmt.Sprintf("- %s\n", issue.Description)
	}
	return report
}

func (vr *ValidationResult) add(issue Issue) {
	vr.Issues = append(vr.Issues, issue)
}

// Validator checks user input and stored state
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateEmail checks the address is a bare email, without a display name
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(addr.Address[strings.LastIndex(addr.Address, "@"):], ".") {
		return ErrInvalidEmail
	}
	return nil
}

// ValidateCheckIn checks the scores, sleep hours and date of a check-in.
// An empty date is allowed; the store fills in today.
func (v *Validator) ValidateCheckIn(c models.CheckIn) ValidationResult {
	result := ValidationResult{}
	checkRange(&result, "symptoms", c.Symptoms, constants.MinScore, constants.MaxScore, c.Date)
	checkRange(&result, "stress", c.Stress, constants.MinScore, constants.MaxScore, c.Date)
	checkRange(&result, "sleep hours", c.SleepHours, constants.MinSleepHours, constants.MaxSleepHours, c.Date)
	if c.Date != "" && !utils.ValidateDateFormat(c.Date) {
		result.add(Issue{
			Type:        IssueInvalidDate,
			Field:       "date",
			Description: fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", c.Date),
			Date:        c.Date,
		})
	}
	return result
}

// ValidatePlan checks stored plan state
func (v *Validator) ValidatePlan(plan models.PlanState) ValidationResult {
	result := ValidationResult{}
	if !utils.ValidateDateFormat(plan.LastResetDate) {
		result.add(Issue{
			Type:        IssueInvalidDate,
			Field:       "lastResetDate",
			Description: fmt.Sprintf("Plan has invalid last reset date %q", plan.LastResetDate),
		})
	}
	seen := make(map[string]bool)
	for _, task := range plan.Tasks {
		switch {
		case task.ID == "":
			result.add(Issue{Type: IssueMissingID, Field: "id", Description: fmt.Sprintf("Task \"%s\" has no id", task.Title)})
		case seen[task.ID]:
			result.add(Issue{Type: IssueDuplicateID, Field: "id", Description: fmt.Sprintf("Duplicate task id %s", task.ID), IDs: []string{task.ID}})
		}
		seen[task.ID] = true
		if strings.TrimSpace(task.Title) == "" {
			result.add(Issue{Type: IssueEmptyTitle, Field: "title", Description: fmt.Sprintf("Task %s has an empty title", task.ID), IDs: []string{task.ID}})
		}
	}
	return result
}

// ValidateEntries checks stored entries state: each check-in, one per date,
// newest first, the retention bound and the questionnaire flags.
func (v *Validator) ValidateEntries(state models.EntriesState) ValidationResult {
	result := ValidationResult{}

	byDate := make(map[string][]string)
	for i, c := range state.CheckIns {
		if c.ID == "" {
			result.add(Issue{Type: IssueMissingID, Field: "id", Description: fmt.Sprintf("Check-in for %s has no id", c.Date), Date: c.Date})
		}
		if c.Date == "" {
			result.add(Issue{Type: IssueInvalidDate, Field: "date", Description: fmt.Sprintf("Check-in %s has no date", c.ID), IDs: []string{c.ID}})
		}
		result.Issues = append(result.Issues, v.ValidateCheckIn(c).Issues...)
		byDate[c.Date] = append(byDate[c.Date], c.ID)
		if i > 0 && state.CheckIns[i-1].Date < c.Date {
			result.add(Issue{
				Type:        IssueUnsorted,
				Description: fmt.Sprintf("Check-in %s is listed after the older %s", c.Date, state.CheckIns[i-1].Date),
				Date:        c.Date,
			})
		}
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	slices.Sort(dates)
	for _, date := range dates {
		if ids := byDate[date]; len(ids) > 1 {
			result.add(Issue{
				Type:        IssueDuplicateDate,
				Description: fmt.Sprintf("%d check-ins share the date %s (IDs: %v)", len(ids), date, ids),
				Date:        date,
				IDs:         ids,
			})
		}
	}

	if len(state.CheckIns) > constants.MaxCheckIns {
		result.add(Issue{
			Type:        IssueTooManyCheckIns,
			Description: fmt.Sprintf("%d check-ins stored, at most %d are kept", len(state.CheckIns), constants.MaxCheckIns),
		})
	}

	q := state.Questionnaire
	if q.Completed != (len(q.Answers) > 0 && q.CompletedDate != "") {
		result.add(Issue{
			Type:        IssueInconsistentSurvey,
			Description: "Questionnaire completion flag does not match its answers and date",
		})
	}
	if q.CompletedDate != "" && !utils.ValidateDateFormat(q.CompletedDate) {
		result.add(Issue{
			Type:        IssueInvalidDate,
			Field:       "completedDate",
			Description: fmt.Sprintf("Questionnaire has invalid completion date %q", q.CompletedDate),
		})
	}
	return result
}

// ValidateSession checks the logged-in flag agrees with the email
func (v *Validator) ValidateSession(s models.SessionState) ValidationResult {
	result := ValidationResult{}
	if s.IsLoggedIn != (s.Email != nil) {
		result.add(Issue{
			Type:        IssueInconsistentSession,
			Description: "Session logged-in flag does not match the stored email",
		})
	}
	return result
}

// QuestionnaireForm holds the raw questionnaire input
type QuestionnaireForm struct {
	HealthGoal      string
	ActivityLevel   int
	Diet            string
	Medications     string
	AdditionalNotes string
}

// ValidateQuestionnaire checks the questionnaire input
func (v *Validator) ValidateQuestionnaire(form QuestionnaireForm) ValidationResult {
	result := ValidationResult{}
	if len([]rune(strings.TrimSpace(form.HealthGoal))) < constants.MinHealthGoalLen {
		result.add(Issue{Type: IssueInvalidAnswer, Field: "healthGoal", Description: "Please enter your primary health goal"})
	}
	if form.ActivityLevel < constants.MinActivityLevel || form.ActivityLevel > constants.MaxActivityLevel {
		result.add(Issue{
			Type:        IssueOutOfRange,
			Field:       "activityLevel",
			Description: fmt.Sprintf("Activity level must be between %d and %d", constants.MinActivityLevel, constants.MaxActivityLevel),
		})
	}
	if !slices.Contains(constants.DietOptions, form.Diet) {
		result.add(Issue{Type: IssueInvalidAnswer, Field: "diet", Description: "Please select a diet type"})
	}
	return result
}

// BuildQuestionnaireAnswers turns the form into the stored answer list, in question order.
// Empty optional answers are stored as "None".
func BuildQuestionnaireAnswers(form QuestionnaireForm, newID func() string) []models.QuestionnaireAnswer {
	orNone := func(s string) string {
		if strings.TrimSpace(s) == "" {
			return constants.NoneAnswer
		}
		return strings.TrimSpace(s)
	}
	return []models.QuestionnaireAnswer{
		{ID: newID(), Question: constants.QuestionHealthGoal, Answer: models.StringAnswer(strings.TrimSpace(form.HealthGoal))},
		{ID: newID(), Question: constants.QuestionActivityLevel, Answer: models.NumberAnswer(float64(form.ActivityLevel))},
		{ID: newID(), Question: constants.QuestionDiet, Answer: models.StringAnswer(form.Diet)},
		{ID: newID(), Question: constants.QuestionMedications, Answer: models.StringAnswer(orNone(form.Medications))},
		{ID: newID(), Question: constants.QuestionNotes, Answer: models.StringAnswer(orNone(form.AdditionalNotes))},
	}
}

// ParseInRange parses a number typed into a form and checks it lies in [lo, hi]
func ParseInRange(s string, lo, hi float64) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || v < lo || v > hi {
		return 0, fmt.Errorf("enter a number between %g and %g", lo, hi)
	}
	return v, nil
}

func checkRange(result *ValidationResult, field string, value float64, lo, hi float64, date string) {
	if math.IsNaN(value) || value < lo || value > hi {
		result.add(Issue{
			Type:        IssueOutOfRange,
			Field:       field,
			Description: fmt.Sprintf("%s must be between %g and %g, got %g", capitalize(field), lo, hi, value),
			Date:        date,
		})
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
