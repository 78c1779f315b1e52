package inmem

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/examsheet/internal/core"
	"github.com/google/uuid"
)

func seeded(t *testing.T) (*Store, core.Exam) {
	t.Helper()
	s := New()
	sk := core.ExamSkeleton{ID: uuid.New(), UpdatedAt: time.Unix(100, 0)}
	s.PutSkeleton(sk)
	exam := core.Exam{ID: uuid.New(), SkeletonID: sk.ID}
	if err := s.PutExam(exam); err != nil {
		t.Fatalf("PutExam: %v", err)
	}
	return s, exam
}

func TestStore_InTxCommitsOnSuccess(t *testing.T) {
	s, exam := seeded(t)
	ctx := context.Background()
	result := &core.ExamResult{ID: uuid.New(), ExamID: exam.ID, Items: []core.ExamResultItem{{RowNumber: 2}}}

	err := s.InTx(ctx, func(tx core.Tx) error {
		return tx.SaveExamResult(ctx, result)
	})
	if err != nil {
		t.Fatalf("InTx() error: %v", err)
	}

	got, err := s.GetExamResult(ctx, result.ID)
	if err != nil {
		t.Fatalf("GetExamResult() error: %v", err)
	}
	if len(got.Items) != 1 {
		t.Errorf("len(Items) = %d, want 1", len(got.Items))
	}
}

func TestStore_InTxRollsBackOnError(t *testing.T) {
	s, exam := seeded(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.InTx(ctx, func(tx core.Tx) error {
		if err := tx.SaveExamResult(ctx, &core.ExamResult{ID: uuid.New(), ExamID: exam.ID}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("InTx() error = %v, want %v", err, boom)
	}
	if s.ResultCount() != 0 {
		t.Errorf("ResultCount = %d, want 0", s.ResultCount())
	}
}

func TestStore_InTxRejectsUnknownExam(t *testing.T) {
	s, _ := seeded(t)
	ctx := context.Background()

	err := s.InTx(ctx, func(tx core.Tx) error {
		return tx.SaveExamResult(ctx, &core.ExamResult{ID: uuid.New(), ExamID: uuid.New()})
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("InTx() error = %v, want ErrNotFound", err)
	}
}

func TestStore_ListNewestFirst(t *testing.T) {
	s, exam := seeded(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		r := &core.ExamResult{
			ID:        uuid.New(),
			ExamID:    exam.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			Items:     []core.ExamResultItem{{}},
		}
		if err := s.InTx(ctx, func(tx core.Tx) error { return tx.SaveExamResult(ctx, r) }); err != nil {
			t.Fatalf("InTx() error: %v", err)
		}
	}

	list, err := s.ListExamResults(ctx, exam.ID)
	if err != nil {
		t.Fatalf("ListExamResults() error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len(list) = %d, want 3", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].CreatedAt.After(list[i-1].CreatedAt) {
			t.Errorf("list[%d] newer than list[%d]", i, i-1)
		}
	}
	if list[0].Items != nil {
		t.Error("listed result carries items, want none")
	}
}

func TestStore_PutSkeletonStampsExams(t *testing.T) {
	s, exam := seeded(t)
	sk, _ := s.GetSkeleton(context.Background(), exam.SkeletonID)
	sk.UpdatedAt = time.Unix(200, 0)
	s.PutSkeleton(sk)

	got, _ := s.GetExam(context.Background(), exam.ID)
	if !got.SkeletonUpdatedAt.Equal(sk.UpdatedAt) {
		t.Errorf("SkeletonUpdatedAt = %v, want %v", got.SkeletonUpdatedAt, sk.UpdatedAt)
	}
}

func TestStore_Lookups(t *testing.T) {
	s := New()
	s.PutStudent(core.StudentSummary{StudentNumber: 7, FirstName: "Grace"})
	s.PutClassroom(core.ClassroomSummary{ClassroomNumber: 3, Name: "1A"})
	ctx := context.Background()

	if st, err := s.FindStudentByNumber(ctx, 7); err != nil || st.FirstName != "Grace" {
		t.Errorf("FindStudentByNumber(7) = %+v, %v", st, err)
	}
	if _, err := s.FindStudentByNumber(ctx, 8); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("FindStudentByNumber(8) error = %v, want ErrNotFound", err)
	}
	if c, err := s.FindClassroomByNumber(ctx, 3); err != nil || c.Name != "1A" {
		t.Errorf("FindClassroomByNumber(3) = %+v, %v", c, err)
	}
	if _, err := s.FindClassroomByNumber(ctx, 4); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("FindClassroomByNumber(4) error = %v, want ErrNotFound", err)
	}
}

func TestStore_Load(t *testing.T) {
	seed := `{
	  "skeletons": [{"id": "6f1c1f5e-4a4b-4b7e-9a37-1d2f0c3b4a5d", "name": "Midterm", "fields": [
	    {"name": "StudentNo", "type": "NUMERIC", "isReference": true, "referenceRole": "STUDENT_NUMBER"}
	  ]}],
	  "exams": [{"id": "0b8a4d8e-2c1f-4e55-8a9d-3f7e6c5b4a31", "name": "Math", "skeletonId": "6f1c1f5e-4a4b-4b7e-9a37-1d2f0c3b4a5d"}],
	  "students": [{"id": "a3a7c1e2-5b6d-4f80-9e1a-2b3c4d5e6f70", "studentNumber": 123, "firstName": "Ada", "lastName": "Lovelace"}],
	  "classrooms": [{"id": "c4d5e6f7-0a1b-4c2d-8e3f-4a5b6c7d8e9f", "classroomNumber": 45, "name": "4B"}]
	}`

	s := New()
	if err := s.Load(strings.NewReader(seed)); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	ctx := context.Background()
	exam, err := s.GetExam(ctx, uuid.MustParse("0b8a4d8e-2c1f-4e55-8a9d-3f7e6c5b4a31"))
	if err != nil {
		t.Fatalf("GetExam() error: %v", err)
	}
	sk, err := s.GetSkeleton(ctx, exam.SkeletonID)
	if err != nil {
		t.Fatalf("GetSkeleton() error: %v", err)
	}
	if len(sk.Fields) != 1 || sk.Fields[0].ReferenceRole != core.RoleStudentNumber {
		t.Errorf("Fields = %+v, want one student reference", sk.Fields)
	}
	if _, err := s.FindClassroomByNumber(ctx, 45); err != nil {
		t.Errorf("FindClassroomByNumber(45) error: %v", err)
	}
}

func TestStore_LoadUnknownSkeleton(t *testing.T) {
	seed := `{"exams": [{"id": "0b8a4d8e-2c1f-4e55-8a9d-3f7e6c5b4a31", "skeletonId": "6f1c1f5e-4a4b-4b7e-9a37-1d2f0c3b4a5d"}]}`
	if err := New().Load(strings.NewReader(seed)); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
}
