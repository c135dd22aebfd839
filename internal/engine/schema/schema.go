package schema

import (
	"context"

	"github.com/rs/zerolog/log"
	"pcbridge/internal/engine/record"
	"pcbridge/internal/platform/store"
)

// Field types as reported by the snapshot. Sampled fields we have no static
// knowledge of are reported as "unknown".
const (
	TypeText         = "text"
	TypeSingleSelect = "singleSelect"
	TypeUnknown      = "unknown"
)

type Field struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
}

// Snapshot is a best-effort description of the remote table. It is rebuilt on
// every probe; nothing is cached between requests.
type Snapshot struct {
	Fields []Field `json:"fields"`
}

// RecordSampler is the slice of the store client the prober needs.
type RecordSampler interface {
	List(ctx context.Context, opts store.ListOptions) ([]store.Record, error)
}

const sampleSize = 3

// Probe merges up to sampleSize existing rows into the static field list.
// Probing is advisory: any retrieval error degrades to the static schema and
// is never surfaced to the caller.
func Probe(ctx context.Context, sampler RecordSampler) Snapshot {
	snapshot := staticSnapshot()

	samples, err := sampler.List(ctx, store.ListOptions{MaxRecords: sampleSize})
	if err != nil {
		log.Debug().Err(err).Msg("schema probe failed, using static schema")
		return snapshot
	}

	for _, sample := range samples {
		for name, value := range sample.Fields {
			idx := snapshot.fieldIndex(name)
			if idx < 0 {
				snapshot.Fields = append(snapshot.Fields, Field{Name: name, Type: TypeUnknown})
				continue
			}
			if name == record.FieldStatus {
				if status, ok := value.(string); ok {
					snapshot.Fields[idx].Options = appendMissing(snapshot.Fields[idx].Options, status)
				}
			}
		}
	}
	return snapshot
}

func staticSnapshot() Snapshot {
	options := make([]string, len(record.StatusOptions))
	copy(options, record.StatusOptions)

	return Snapshot{Fields: []Field{
		{Name: record.FieldName, Type: TypeText},
		{Name: record.FieldNotes, Type: TypeText},
		{Name: record.FieldStatus, Type: TypeSingleSelect, Options: options},
	}}
}

// StatusOptions returns the allowed values for the Status field, nil when the
// snapshot has no constrained Status field.
func (s Snapshot) StatusOptions() []string {
	for _, f := range s.Fields {
		if f.Name == record.FieldStatus && f.Type == TypeSingleSelect {
			return f.Options
		}
	}
	return nil
}

// Sanitize clamps a candidate status to the allowed set: a member passes
// through, anything else becomes the first allowed value. With no allowed set
// the candidate is returned unchanged.
func (s Snapshot) Sanitize(status string) string {
	options := s.StatusOptions()
	if len(options) == 0 {
		return status
	}
	for _, allowed := range options {
		if status == allowed {
			return status
		}
	}
	return options[0]
}

func (s Snapshot) fieldIndex(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func appendMissing(options []string, value string) []string {
	for _, o := range options {
		if o == value {
			return options
		}
	}
	return append(options, value)
}
