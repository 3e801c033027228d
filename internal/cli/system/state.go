package system

import (
	"context"

	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/kv"
	"github.com/julianstephens/wellday/internal/models"
	"github.com/julianstephens/wellday/internal/persist"
	"github.com/julianstephens/wellday/internal/validation"
)

// storedState is what the backend holds for each store, decoded but not normalized
type storedState struct {
	Session models.SessionState
	Plan    models.PlanState
	Entries models.EntriesState
	// Present records which keys exist in the backend
	Present map[string]bool
}

func loadStoredState(ctx context.Context, backend kv.Backend) (storedState, error) {
	st := storedState{Present: map[string]bool{}}
	var ok bool
	var err error

	if st.Session, ok, err = persist.Load[models.SessionState](ctx, backend, constants.SessionStorageKey, constants.SchemaVersion, nil); err != nil {
		return st, err
	}
	st.Present[constants.SessionStorageKey] = ok

	if st.Plan, ok, err = persist.Load[models.PlanState](ctx, backend, constants.PlanStorageKey, constants.SchemaVersion, nil); err != nil {
		return st, err
	}
	st.Present[constants.PlanStorageKey] = ok

	if st.Entries, ok, err = persist.Load[models.EntriesState](ctx, backend, constants.EntriesStorageKey, constants.SchemaVersion, nil); err != nil {
		return st, err
	}
	st.Present[constants.EntriesStorageKey] = ok
	return st, nil
}

// validate checks every store that has stored state
func (st storedState) validate() validation.ValidationResult {
	v := validation.New()
	var all validation.ValidationResult
	if st.Present[constants.SessionStorageKey] {
		r := v.ValidateSession(st.Session)
		all.Issues = append(all.Issues, r.Issues...)
	}
	if st.Present[constants.PlanStorageKey] {
		r := v.ValidatePlan(st.Plan)
		all.Issues = append(all.Issues, r.Issues...)
	}
	if st.Present[constants.EntriesStorageKey] {
		r := v.ValidateEntries(st.Entries)
		all.Issues = append(all.Issues, r.Issues...)
	}
	return all
}
