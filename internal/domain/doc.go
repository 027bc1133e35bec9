// Package domain contains the core study entities of the application: flashcards,
// their spaced-repetition review state, recall quality ratings, per-document study
// progress and learner reminder settings. It is independent of any storage or
// delivery mechanism.
package domain
