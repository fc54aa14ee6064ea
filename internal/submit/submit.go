// Package submit assembles the outward submission payload and defines the
// transport that carries it. Payload assembly preserves field order: business
// fields, then contact fields, then one ods entry per code, then the
// optional record id and pharmacist roster.
package submit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"pestle/internal/roster"
)

// EventType distinguishes first-time submissions from edits of an existing
// record.
type EventType string

const (
	EventNewApplication    EventType = "new-application"
	EventUpdateApplication EventType = "update-application"
)

// Field is one ordered key/value pair of the multipart-style payload. Keys
// repeat for list-valued entries such as ods.
type Field struct {
	Key   string
	Value string
}

// Request is a fully assembled submission.
type Request struct {
	// SubmissionID uniquely identifies this attempt for tracing and logs.
	SubmissionID uuid.UUID
	Type         EventType
	Fields       []Field
}

// Result reports the outcome of a submission attempt. Err is a user-facing
// message; empty means success.
type Result struct {
	Reply []string
	Err   string
}

// Assemble builds a Request from the validated form state. recordID is the
// existing record's identifier when updating; empty for a new application.
// The pharmacist roster is embedded as a JSON array only when non-empty.
func Assemble(
	recordID string,
	businessKeys []string, business map[string]string,
	contactKeys []string, contact map[string]string,
	ods []string,
	pharmacists []roster.Record,
) (Request, error) {
	eventType := EventNewApplication
	fields := make([]Field, 0, len(businessKeys)+len(contactKeys)+len(ods)+2)

	for _, k := range businessKeys {
		fields = append(fields, Field{Key: k, Value: business[k]})
	}
	for _, k := range contactKeys {
		fields = append(fields, Field{Key: k, Value: contact[k]})
	}
	for _, code := range ods {
		fields = append(fields, Field{Key: "ods", Value: code})
	}
	if recordID != "" {
		eventType = EventUpdateApplication
		fields = append(fields, Field{Key: "id", Value: recordID})
	}
	if len(pharmacists) > 0 {
		encoded, err := json.Marshal(pharmacists)
		if err != nil {
			return Request{}, fmt.Errorf("failed to encode pharmacist roster: %w", err)
		}
		fields = append(fields, Field{Key: "pharmacists", Value: string(encoded)})
	}

	return Request{
		SubmissionID: uuid.New(),
		Type:         eventType,
		Fields:       fields,
	}, nil
}

// Submitter carries an assembled request to whatever consumes it. The form
// orchestrator depends only on this interface.
type Submitter interface {
	Submit(ctx context.Context, req Request) Result
}
