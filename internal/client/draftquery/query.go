// Package draftquery filters draft entries with expr-lang expressions such
// as
//
//	status == "IN_PROGRESS" && lastPage > 2
//	formId == "inspection" && fieldValues.site == "north"
//	followUpTo == 3
//
// Variables available to an expression: draftId, entryId, status, formId,
// formSlug, formTitle, formType, lastPage, fieldValues, followUpTo, files,
// errors (messages), lastUpdated and now. Optional values that are not set
// read as their zero value.
package draftquery

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/formdraft/internal/client/models"
	"github.com/dmitrijs2005/formdraft/internal/common"
	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// Query is a compiled boolean expression over a draft entry.
type Query struct {
	expression string
	program    *exprvm.Program
	now        func() time.Time
}

// Compile parses expression once for repeated matching.
func Compile(expression string) (*Query, error) {
	if expression == "" {
		return nil, common.ErrEmptyExpression
	}
	program, err := exprlang.Compile(expression,
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
		exprlang.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", expression, err)
	}
	return &Query{expression: expression, program: program, now: time.Now}, nil
}

func (q *Query) String() string {
	return q.expression
}

// Match reports whether e satisfies the query.
func (q *Query) Match(e models.DraftEntry) (bool, error) {
	out, err := exprlang.Run(q.program, q.environment(e))
	if err != nil {
		return false, fmt.Errorf("evaluate %q on draft %d: %w", q.expression, e.DraftID, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

// Filter returns the entries that match. The first evaluation error aborts.
func (q *Query) Filter(entries models.DraftEntries) (models.DraftEntries, error) {
	out := models.DraftEntries{}
	for _, id := range entries.IDs() {
		ok, err := q.Match(entries[id])
		if err != nil {
			return nil, err
		}
		if ok {
			out[id] = entries[id]
		}
	}
	return out, nil
}

func (q *Query) environment(e models.DraftEntry) map[string]any {
	env := map[string]any{
		"draftId":     e.DraftID,
		"entryId":     0,
		"status":      string(e.Status),
		"formId":      "",
		"formSlug":    "",
		"formTitle":   "",
		"formType":    "",
		"lastPage":    0,
		"fieldValues": map[string]any{},
		"followUpTo":  0,
		"files":       []string{},
		"errors":      []string{},
		"lastUpdated": time.Time{},
		"now":         q.now(),
	}
	if e.EntryID != nil {
		env["entryId"] = *e.EntryID
	}
	if f := e.Form; f != nil {
		env["formId"] = f.FormID
		env["formSlug"] = f.FormSlug
		env["formTitle"] = f.FormTitle
		env["formType"] = string(f.Type)
	}
	if e.LastPage != nil {
		env["lastPage"] = *e.LastPage
	}
	if e.FieldValues != nil {
		env["fieldValues"] = e.FieldValues
	}
	if e.FollowUpToForm != nil {
		env["followUpTo"] = e.FollowUpToForm.DraftID
	}
	if e.ListFiles != nil {
		env["files"] = e.ListFiles
	}
	if len(e.Errors) > 0 {
		msgs := make([]string, 0, len(e.Errors))
		for _, de := range e.Errors {
			msgs = append(msgs, de.Message)
		}
		env["errors"] = msgs
	}
	if e.LastUpdated != nil {
		env["lastUpdated"] = *e.LastUpdated
	}
	return env
}
