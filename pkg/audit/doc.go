// Package audit records credential validation attempts for later review.
//
// A Record captures the metadata of one Validate or BuildReport call: who,
// when, which roles, how many policies and constraints applied, which
// constraints failed, and the outcome. The candidate password itself is
// never recorded.
//
// Records are written asynchronously through a buffered Recorder so the
// validation path never blocks on storage. Retention is enforced by a
// Pruner, optionally driven on a cron schedule by a Scheduler.
package audit
