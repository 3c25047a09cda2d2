// Package tools defines the tool contract and the built-in tools.
//
// Includes:
//   - Tool, Spec and Param: what the model sees and what runs.
//   - Registry: the closed tool set of a session plus Dispatch, which never
//     fails; every outcome is text and failures start with "error: ".
//   - InputSchema: JSON schema for a Spec, shared by both provider adapters.
//   - File tools (read, write, edit, glob, grep), bash, web_search, read_page.
//
// Result sentinels: "ok" for writes, "none" for empty searches and "(empty)"
// for commands without output.
package tools
