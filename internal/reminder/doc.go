// Package reminder sends study reminders to learners who opted in.
//
// A Scheduler runs a cron job that finds learners whose reminder hour matches
// the current UTC hour, counts their due cards and hands the count to a
// Notifier. Delivery is best effort: a failure for one learner is logged and
// the run moves on to the next.
package reminder
