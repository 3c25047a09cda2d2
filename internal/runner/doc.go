// Package runner drives one operator turn against an llm.Provider and
// dispatches the tool calls the model makes.
//
// Invariant:
//   - every tool_use of an appended response is answered by exactly one
//     tool_result, in the same order, before the next model call. This holds
//     for failing and cancelled tools too.
//
// Flow:
//
//	user(text) -> assistant(tool_use...) -> user(tool_result...) -> ... -> assistant(text)
package runner
