// Package task defines the task and project records shared by the store,
// the derived views and the front ends.
//
// Due dates are kept as absolute calendar days (Date). Relative input such as
// "today" or "tomorrow" is resolved once, when it is assigned, by ResolveDue;
// the relative label shown to users is computed on read by DueLabel.
package task
