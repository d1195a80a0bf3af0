// Package client contains the client-side transport and local persistence
// bootstrap for ExamKeeper.
//
// # Overview
//
//  1. A transport-agnostic contract (see the Client interface) used by the
//     upload workflow: UploadPdf, ListExams, Ping.
//  2. HTTPClient talks to the intake server over HTTP. Uploads are streamed
//     as multipart/form-data, guarded by an overall timeout and never retried
//     automatically. Idempotent GETs are retried with a linear backoff.
//  3. MockClient keeps exams in memory and is the default in "mock" mode.
//  4. HealthChecker probes the server's gRPC health service for the
//     online/offline indicator.
//  5. InitDatabase opens the local SQLite database and applies embedded goose
//     migrations.
//
// # Error Handling
//
// Transport conditions are exposed as sentinel errors matched with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrRejected, ErrDigestMismatch.
package client
