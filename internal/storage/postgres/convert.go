package postgres

import (
	"encoding/json"
	"time"

	"github.com/JonMunkholm/examsheet/internal/core"
	db "github.com/JonMunkholm/examsheet/internal/database"
	"github.com/JonMunkholm/examsheet/internal/ordered"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

// pgOptionalUUID maps the zero UUID to NULL.
func pgOptionalUUID(id uuid.UUID) pgtype.UUID {
	if id == uuid.Nil {
		return pgtype.UUID{}
	}
	return pgUUID(id)
}

func pgTime(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func examFromRow(r db.Exam) core.Exam {
	return core.Exam{
		ID:                uuid.UUID(r.ID.Bytes),
		Name:              r.Name,
		ExamTypeID:        uuid.UUID(r.ExamTypeID.Bytes),
		SkeletonID:        uuid.UUID(r.SkeletonID.Bytes),
		SkeletonUpdatedAt: r.SkeletonUpdatedAt.Time,
	}
}

func skeletonFromRows(r db.ExamSkeleton, fields []db.ExamField) core.ExamSkeleton {
	sk := core.ExamSkeleton{
		ID:             uuid.UUID(r.ID.Bytes),
		OrganizationID: uuid.UUID(r.OrganizationID.Bytes),
		Name:           r.Name,
		UpdatedAt:      r.UpdatedAt.Time,
		Fields:         make([]core.ExamField, len(fields)),
	}
	for i, f := range fields {
		sk.Fields[i] = core.ExamField{
			ID:            uuid.UUID(f.ID.Bytes),
			SkeletonID:    sk.ID,
			Position:      int(f.Position),
			Name:          f.Name,
			Type:          core.FieldType(f.FieldType),
			IsReference:   f.IsReference,
			ReferenceRole: core.ReferenceRole(f.ReferenceRole),
		}
	}
	return sk
}

func resultFromRow(r db.ExamResult) core.ExamResult {
	return core.ExamResult{
		ID:        uuid.UUID(r.ID.Bytes),
		ExamID:    uuid.UUID(r.ExamID.Bytes),
		FileName:  r.FileName,
		ItemCount: int(r.ItemCount),
		CreatedAt: r.CreatedAt.Time.UTC(),
	}
}

func itemFromRow(r db.ListExamResultItemsRow) (core.ExamResultItem, error) {
	data := ordered.New[pgtype.Text](0)
	if len(r.ResultData) > 0 {
		if err := json.Unmarshal(r.ResultData, data); err != nil {
			return core.ExamResultItem{}, err
		}
	}

	item := core.ExamResultItem{
		ID:         uuid.UUID(r.ID.Bytes),
		ResultID:   uuid.UUID(r.ResultID.Bytes),
		Position:   int(r.Position),
		RowNumber:  int(r.RowNumber),
		SortKey:    r.SortKey,
		ResultData: data,
	}
	if r.StudentID.Valid {
		item.Student = &core.StudentSummary{
			ID:            uuid.UUID(r.StudentID.Bytes),
			StudentNumber: r.StudentNumber.Int64,
			FirstName:     r.FirstName.String,
			LastName:      r.LastName.String,
		}
	}
	if r.ClassroomID.Valid {
		item.Classroom = &core.ClassroomSummary{
			ID:              uuid.UUID(r.ClassroomID.Bytes),
			ClassroomNumber: r.ClassroomNumber.Int64,
			Name:            r.ClassroomName.String,
		}
	}
	return item, nil
}

func itemParams(it core.ExamResultItem) (db.CopyExamResultItemsParams, error) {
	data := it.ResultData
	if data == nil {
		data = ordered.New[pgtype.Text](0)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return db.CopyExamResultItemsParams{}, err
	}

	p := db.CopyExamResultItemsParams{
		ID:         pgUUID(it.ID),
		ResultID:   pgUUID(it.ResultID),
		Position:   int32(it.Position),
		RowNumber:  int32(it.RowNumber),
		SortKey:    it.SortKey,
		ResultData: raw,
	}
	if it.Student != nil {
		p.StudentID = pgOptionalUUID(it.Student.ID)
	}
	if it.Classroom != nil {
		p.ClassroomID = pgOptionalUUID(it.Classroom.ID)
	}
	return p, nil
}
