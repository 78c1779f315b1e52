package core

import (
	"github.com/JonMunkholm/examsheet/internal/spreadsheet"
)

// HeaderTable maps a column position to the header name found there.
// It follows the header row's physical order, not the skeleton's.
type HeaderTable struct {
	names []string
	named []bool
}

// MakeHeaderTable builds a HeaderTable from the worksheet's header row.
// Header cells are coerced like data cells; a cell that coerces to null
// names no column. Names are used exactly as written: no trimming and no
// case folding.
func MakeHeaderTable(header spreadsheet.Row) HeaderTable {
	h := HeaderTable{
		names: make([]string, header.Len()),
		named: make([]bool, header.Len()),
	}
	for i, cell := range header.Cells {
		v := CoerceCell(cell)
		h.names[i] = v.String
		h.named[i] = v.Valid
	}
	return h
}

// Name returns the header name at position pos.
func (h HeaderTable) Name(pos int) (string, bool) {
	if pos < 0 || pos >= len(h.names) || !h.named[pos] {
		return "", false
	}
	return h.names[pos], true
}

// Width returns the header row's physical cell count.
func (h HeaderTable) Width() int {
	return len(h.names)
}

// Names returns the named headers in column order, duplicates included.
func (h HeaderTable) Names() []string {
	out := make([]string, 0, len(h.names))
	for i, n := range h.names {
		if h.named[i] {
			out = append(out, n)
		}
	}
	return out
}

// Duplicates returns every header name that appears more than once, in
// order of first repetition. Only the first column under such a name is
// stored.
func (h HeaderTable) Duplicates() []string {
	seen := make(map[string]int, len(h.names))
	var dups []string
	for i, n := range h.names {
		if !h.named[i] {
			continue
		}
		seen[n]++
		if seen[n] == 2 {
			dups = append(dups, n)
		}
	}
	return dups
}

// ReferenceBindings holds the header names bound to each required reference role.
type ReferenceBindings struct {
	StudentNumber   string
	ClassroomNumber string
	SortKey         string
}

// ResolveReferences locates the reference fields of a skeleton. When a role
// is bound more than once the first field in declaration order wins.
// A missing role yields a SchemaIncomplete *IngestError naming that role;
// roles are checked student, classroom, sort key.
func ResolveReferences(fields []ExamField) (ReferenceBindings, error) {
	found := make(map[ReferenceRole]string, len(RequiredRoles))
	for _, f := range fields {
		if f.ReferenceRole == "" || f.ReferenceRole == RoleNone {
			continue
		}
		if _, ok := found[f.ReferenceRole]; !ok {
			found[f.ReferenceRole] = f.Name
		}
	}

	for _, role := range RequiredRoles {
		if _, ok := found[role]; !ok {
			return ReferenceBindings{}, missingRoleError(role)
		}
	}

	return ReferenceBindings{
		StudentNumber:   found[RoleStudentNumber],
		ClassroomNumber: found[RoleClassroomNumber],
		SortKey:         found[RoleSortKey],
	}, nil
}
