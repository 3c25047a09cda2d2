// Package memory owns the conversation log of one interactive session.
//
// The log is append-only and lives in memory for the life of the process;
// only Clear empties it. It also tracks where the session is in the turn
// cycle:
//
//	AwaitingUserInput -> TurnInProgress -> (ToolsPending <-> TurnInProgress) -> AwaitingUserInput
//
// Invariant: a tool-result message answers exactly the tool uses of the
// assistant message right before it, one result per id. Violations are
// rejected with llm.ErrProtocol and leave the log untouched.
package memory
