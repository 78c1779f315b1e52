package core

import (
	"errors"
	"reflect"
	"testing"

	"github.com/JonMunkholm/examsheet/internal/spreadsheet"
)

func headerRow(cells ...spreadsheet.Cell) spreadsheet.Row {
	return spreadsheet.Row{Index: 0, Cells: cells}
}

func TestMakeHeaderTable(t *testing.T) {
	h := MakeHeaderTable(headerRow(
		spreadsheet.TextCell("StudentNo"),
		spreadsheet.BlankCell(),
		spreadsheet.NumberCell(2024),
		spreadsheet.TextCell(" Score "),
		spreadsheet.TextCell(""),
	))

	if got := h.Width(); got != 5 {
		t.Errorf("Width() = %d, want 5", got)
	}

	tests := []struct {
		pos      int
		wantName string
		wantOK   bool
	}{
		{pos: 0, wantName: "StudentNo", wantOK: true},
		{pos: 1, wantOK: false},
		{pos: 2, wantName: "2024.0", wantOK: true},
		{pos: 3, wantName: " Score ", wantOK: true},
		{pos: 4, wantName: "", wantOK: true},
		{pos: 5, wantOK: false},
		{pos: -1, wantOK: false},
	}
	for _, tt := range tests {
		name, ok := h.Name(tt.pos)
		if ok != tt.wantOK || name != tt.wantName {
			t.Errorf("Name(%d) = (%q, %v), want (%q, %v)", tt.pos, name, ok, tt.wantName, tt.wantOK)
		}
	}

	wantNames := []string{"StudentNo", "2024.0", " Score ", ""}
	if got := h.Names(); !reflect.DeepEqual(got, wantNames) {
		t.Errorf("Names() = %q, want %q", got, wantNames)
	}
}

func TestHeaderTable_Duplicates(t *testing.T) {
	h := MakeHeaderTable(headerRow(
		spreadsheet.TextCell("Score"),
		spreadsheet.TextCell("Name"),
		spreadsheet.TextCell("Score"),
		spreadsheet.TextCell("Score"),
		spreadsheet.TextCell("name"),
	))

	want := []string{"Score"}
	if got := h.Duplicates(); !reflect.DeepEqual(got, want) {
		t.Errorf("Duplicates() = %q, want %q", got, want)
	}
}

func skeletonFields(roles ...ReferenceRole) []ExamField {
	fields := make([]ExamField, len(roles))
	for i, r := range roles {
		fields[i] = ExamField{
			Position:      i,
			Name:          string(r) + "_col",
			Type:          FieldText,
			IsReference:   r != RoleNone,
			ReferenceRole: r,
		}
	}
	return fields
}

func TestResolveReferences(t *testing.T) {
	fields := []ExamField{
		{Name: "Score", ReferenceRole: RoleNone},
		{Name: "Sortable", IsReference: true, ReferenceRole: RoleSortKey},
		{Name: "StudentNo", IsReference: true, ReferenceRole: RoleStudentNumber},
		{Name: "ClassNo", IsReference: true, ReferenceRole: RoleClassroomNumber},
		{Name: "Other"},
	}

	got, err := ResolveReferences(fields)
	if err != nil {
		t.Fatalf("ResolveReferences() error: %v", err)
	}
	want := ReferenceBindings{StudentNumber: "StudentNo", ClassroomNumber: "ClassNo", SortKey: "Sortable"}
	if got != want {
		t.Errorf("ResolveReferences() = %+v, want %+v", got, want)
	}
}

func TestResolveReferences_FirstDeclarationWins(t *testing.T) {
	fields := []ExamField{
		{Name: "First", ReferenceRole: RoleStudentNumber},
		{Name: "Second", ReferenceRole: RoleStudentNumber},
		{Name: "Class", ReferenceRole: RoleClassroomNumber},
		{Name: "Sort", ReferenceRole: RoleSortKey},
	}

	got, err := ResolveReferences(fields)
	if err != nil {
		t.Fatalf("ResolveReferences() error: %v", err)
	}
	if got.StudentNumber != "First" {
		t.Errorf("StudentNumber = %q, want %q", got.StudentNumber, "First")
	}
}

func TestResolveReferences_MissingRole(t *testing.T) {
	tests := []struct {
		name     string
		fields   []ExamField
		wantRole ReferenceRole
		wantErr  error
	}{
		{
			name:     "no reference fields reports student first",
			fields:   skeletonFields(RoleNone, RoleNone),
			wantRole: RoleStudentNumber,
			wantErr:  ErrStudentReferenceMissing,
		},
		{
			name:     "missing classroom",
			fields:   skeletonFields(RoleStudentNumber, RoleSortKey),
			wantRole: RoleClassroomNumber,
			wantErr:  ErrClassroomReferenceMissing,
		},
		{
			name:     "missing sort key",
			fields:   skeletonFields(RoleClassroomNumber, RoleStudentNumber),
			wantRole: RoleSortKey,
			wantErr:  ErrSortKeyReferenceMissing,
		},
		{
			name:     "empty skeleton",
			fields:   nil,
			wantRole: RoleStudentNumber,
			wantErr:  ErrStudentReferenceMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveReferences(tt.fields)
			ie, ok := AsIngestError(err)
			if !ok {
				t.Fatalf("ResolveReferences() error = %v, want *IngestError", err)
			}
			if ie.Kind != KindSchemaIncomplete {
				t.Errorf("Kind = %s, want %s", ie.Kind, KindSchemaIncomplete)
			}
			if ie.Role != tt.wantRole {
				t.Errorf("Role = %s, want %s", ie.Role, tt.wantRole)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("errors.Is(err, %v) = false", tt.wantErr)
			}
		})
	}
}
