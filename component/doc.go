// Package component defines lifecycle-managed infrastructure for autowire:
// the alias cache and its backing-store clients start before construction
// begins and stop in reverse order on shutdown.
//
// # Interfaces
//
//   - Component: lifecycle (Start/Stop) and health reporting
//   - Describable: startup summary descriptions
package component
