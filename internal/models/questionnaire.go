package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// AnswerKind is the JSON type held by an AnswerValue
type AnswerKind int

const (
	AnswerString AnswerKind = iota
	AnswerNumber
	AnswerBool
)

// AnswerValue is a questionnaire answer: a string, a number or a boolean.
// The zero value is the empty string.
type AnswerValue struct {
	kind AnswerKind
	str  string
	num  float64
	b    bool
}

func StringAnswer(s string) AnswerValue { return AnswerValue{kind: AnswerString, str: s} }
func NumberAnswer(n float64) AnswerValue { return AnswerValue{kind: AnswerNumber, num: n} }
func BoolAnswer(b bool) AnswerValue { return AnswerValue{kind: AnswerBool, b: b} }
func (v AnswerValue) Kind() AnswerKind { return v.kind }
func (v AnswerValue) StringValue() string { return v.str }
func (v AnswerValue) Number() float64 { return v.num }
func (v AnswerValue) Bool() bool { return v.b }

// String renders the answer the way it is shown to the user
func (v AnswerValue) String() string {
	switch v.kind {
	case AnswerNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case AnswerBool:
		return strconv.FormatBool(v.b)
	default:
		return v.str
	}
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case AnswerNumber:
		return json.Marshal(v.num)
	case AnswerBool:
		return json.Marshal(v.b)
	default:
		return json.Marshal(v.str)
	}
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty answer value")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringAnswer(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = BoolAnswer(b)
	case 'n':
		*v = StringAnswer("")
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("answer must be a string, number or boolean: %w", err)
		}
		*v = NumberAnswer(n)
	}
	return nil
}

// QuestionnaireAnswer is one answered question of the onboarding questionnaire
type QuestionnaireAnswer struct {
	ID       string      `json:"id"`
	Question string      `json:"question"`
	Answer   AnswerValue `json:"answer"`
}

// QuestionnaireData holds the one-time questionnaire result
type QuestionnaireData struct {
	Completed     bool                  `json:"completed"`
	Answers       []QuestionnaireAnswer `json:"answers"`
	CompletedDate string                `json:"completedDate,omitempty"` // YYYY-MM-DD format
}

// Clone returns a deep copy of the questionnaire data
func (q QuestionnaireData) Clone() QuestionnaireData {
	answers := make([]QuestionnaireAnswer, len(q.Answers))
	copy(answers, q.Answers)
	q.Answers = answers
	return q
}
