package inmem

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/JonMunkholm/examsheet/internal/core"
)

// Seed is the fixture file format of the memory store.
type Seed struct {
	Skeletons  []core.ExamSkeleton     `json:"skeletons"`
	Exams      []core.Exam             `json:"exams"`
	Students   []core.StudentSummary   `json:"students"`
	Classrooms []core.ClassroomSummary `json:"classrooms"`
}

// Load applies a JSON seed read from r. Skeletons are applied before the
// exams that reference them.
func (s *Store) Load(r io.Reader) error {
	var seed Seed
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&seed); err != nil {
		return fmt.Errorf("decode seed: %w", err)
	}

	for _, sk := range seed.Skeletons {
		s.PutSkeleton(sk)
	}
	for _, e := range seed.Exams {
		if err := s.PutExam(e); err != nil {
			return fmt.Errorf("exam %s: %w", e.ID, err)
		}
	}
	for _, st := range seed.Students {
		s.PutStudent(st)
	}
	for _, c := range seed.Classrooms {
		s.PutClassroom(c)
	}
	return nil
}

// LoadFile applies the JSON seed stored at path.
func (s *Store) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.Load(f)
}
