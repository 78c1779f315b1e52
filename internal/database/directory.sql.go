package database

import (
	"context"
)

const getStudentByNumber = `-- name: GetStudentByNumber :one
SELECT id, student_number, first_name, last_name
FROM students
WHERE student_number = $1
`

func (q *Queries) GetStudentByNumber(ctx context.Context, studentNumber int64) (Student, error) {
	row := q.db.QueryRow(ctx, getStudentByNumber, studentNumber)
	var i Student
	err := row.Scan(
		&i.ID,
		&i.StudentNumber,
		&i.FirstName,
		&i.LastName,
	)
	return i, err
}

const getClassroomByNumber = `-- name: GetClassroomByNumber :one
SELECT id, classroom_number, name
FROM classrooms
WHERE classroom_number = $1
`

func (q *Queries) GetClassroomByNumber(ctx context.Context, classroomNumber int64) (Classroom, error) {
	row := q.db.QueryRow(ctx, getClassroomByNumber, classroomNumber)
	var i Classroom
	err := row.Scan(
		&i.ID,
		&i.ClassroomNumber,
		&i.Name,
	)
	return i, err
}
