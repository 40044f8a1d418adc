package rewrite

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MessageEnvVar carries the replacement commit message into the message
// editor script. Passing the message through the environment instead of
// splicing it into the script body keeps arbitrary message content from ever
// being parsed as shell syntax.
const MessageEnvVar = "COMMITGEN_NEW_MESSAGE"

// sequenceEditorScript rewrites the rebase todo list: only the first `pick`
// line becomes `reword`, every other line is copied byte for byte. The todo
// is replaced atomically through a side file so an interrupted run cannot
// leave a half-written list. The range handed to `git rebase -i` starts at
// the target's immediate parent, which makes the target the first entry by
// construction.
const sequenceEditorScript = `#!/bin/sh
set -e
todo="$1"
tmp="${todo}.commitgen"
first=1

while IFS= read -r line; do
  if [ "$first" -eq 1 ] && printf '%s\n' "$line" | grep -q '^pick '; then
    printf '%s\n' "$line" | sed 's/^pick /reword /' >> "$tmp"
    first=0
  else
    printf '%s\n' "$line" >> "$tmp"
  fi
done < "$todo"

mv "$tmp" "$todo"
`

// messageEditorScript discards whatever placeholder git put in the message
// file and writes the caller-supplied message from the environment instead.
const messageEditorScript = `#!/bin/sh
set -e
msg_file="$1"
printf '%s\n' "$` + MessageEnvVar + `" > "$msg_file"
`

// helperScripts owns the two ephemeral editor scripts for one scripted
// rewrite. Names incorporate the process ID so concurrent invocations in the
// same temp directory cannot collide.
type helperScripts struct {
	sequencePath string
	messagePath  string
}

func newHelperScripts(dir string) helperScripts {
	pid := os.Getpid()
	return helperScripts{
		sequencePath: filepath.Join(dir, fmt.Sprintf("commitgen-seq-editor-%d.sh", pid)),
		messagePath:  filepath.Join(dir, fmt.Sprintf("commitgen-msg-editor-%d.sh", pid)),
	}
}

// write materializes both scripts with executable permissions. On failure
// the caller's deferred remove still runs, so a partial write never leaks.
func (h helperScripts) write() error {
	if err := writeScript(h.sequencePath, sequenceEditorScript); err != nil {
		return err
	}
	return writeScript(h.messagePath, messageEditorScript)
}

// remove deletes both scripts. Best effort: a failed delete must not mask
// the rewrite's primary result, so errors are dropped.
func (h helperScripts) remove() {
	_ = os.Remove(h.sequencePath)
	_ = os.Remove(h.messagePath)
}

func writeScript(path, body string) error {
	if err := os.WriteFile(path, []byte(body), 0o700); err != nil {
		return &ResourceError{Path: path, Err: err}
	}
	return nil
}

// scriptCommand renders a script path the way git's editor hooks expect it,
// with forward slashes on every platform.
func scriptCommand(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}
