// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// Key components:
//
// 1. Service Interfaces:
//   - CardService manages the lifecycle of a learner's cards
//   - SettingsService reads and writes per-learner reminder preferences
//
// 2. Use Case Implementations:
//   - Coordinate between multiple repositories and domain services
//   - Apply transactional boundaries when operations span multiple repositories
//   - Enforce ownership: a learner only ever sees and changes their own cards
//
// 3. Error Handling:
//   - Translate store errors to service-level sentinels
//   - Wrap unexpected failures in CardServiceError so callers can use errors.As
//
// Review scheduling lives in the card_review subpackage.
package service
