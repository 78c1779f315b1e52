// Package core ingests spreadsheet exports of exam results.
//
// An exam is defined by an [ExamSkeleton]: an ordered list of fields, three
// of which are reference fields naming the columns that hold the student
// number, the classroom number and the sort key. Uploading a workbook for
// an exam produces one [ExamResult] owning one [ExamResultItem] per data row.
//
// # Pipeline
//
// [Service.UploadExamResult] runs the stages in order:
//
//  1. The exam is loaded and its reference bindings resolved through the
//     [BindingCache]. A missing role fails before the file is opened.
//  2. The first worksheet is decoded by the spreadsheet package and its
//     first row becomes a [HeaderTable].
//  3. Inside one store transaction a [RowIngestor] turns each data row into
//     an item, coercing cells with [CoerceCell] and resolving references
//     with a [ReferenceResolver].
//  4. A [ResultAssembler] creates the aggregate and saves it.
//
// A reference value that matches no student or classroom is logged and left
// unset. Every other failure rolls the transaction back, so a result is
// either stored with all of its items or not at all.
//
// # Errors
//
// Fatal ingestion failures are returned as [*IngestError] with a kind of
// NotFound, SchemaIncomplete or FileUnreadable. [MapError] renders any error
// as a [UserMessage] with a support code.
package core
