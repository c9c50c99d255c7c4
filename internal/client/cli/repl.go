package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests provide a lightweight stub.
type execIface interface {
	Namespace(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	New(ctx context.Context, args []string) error
	Open(ctx context.Context, args []string) error
	Set(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error
	Page(ctx context.Context, args []string) error
	FollowUp(ctx context.Context, args []string) error
	FollowUps(ctx context.Context, args []string) error
	Attach(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	Clear(ctx context.Context) error
	LastError(ctx context.Context) error
}

const helpText = `Available commands:
  ns <form-data|corrective-action>    switch namespace
  (l)ist [expr]                       list drafts, optionally filtered
  show <id>                           print a draft
  new <formId> [title]                create a draft
  open <formId> <page> [draftId]      resolve the draft for a form page
  set <id> name=value...              merge field values
  status <id> <STATUS>                change status
  page <id> <n>                       record the last visited page
  followup <parentId> <formId> [url]  create a follow-up draft
  followups <parentId>                list pending follow-ups
  attach <id> <path>                  stage a file for a draft
  rm <id>...                          remove drafts and their files
  clear                               remove every draft in the namespace
  err                                 show the last storage error
  exit | quit                         leave the program`

// runREPL reads a line at a time from scanner, dispatches the first token
// as the command and reports handler errors. It returns on scanner EOF,
// on "exit"/"quit" or when ctx is done.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("fd %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			printlnFn(helpText)
		case "ns":
			err = a.Namespace(ctx, args)
		case "l", "list":
			err = a.List(ctx, args)
		case "show":
			err = a.Show(ctx, args)
		case "new":
			err = a.New(ctx, args)
		case "open":
			err = a.Open(ctx, args)
		case "set":
			err = a.Set(ctx, args)
		case "status":
			err = a.Status(ctx, args)
		case "page":
			err = a.Page(ctx, args)
		case "followup":
			err = a.FollowUp(ctx, args)
		case "followups":
			err = a.FollowUps(ctx, args)
		case "attach":
			err = a.Attach(ctx, args)
		case "rm":
			err = a.Remove(ctx, args)
		case "clear":
			err = a.Clear(ctx)
		case "err":
			err = a.LastError(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
